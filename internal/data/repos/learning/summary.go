package learning

import (
	"context"
	"errors"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	"github.com/studyloop/studyloop-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type SummaryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, summary *types.Summary) (*types.Summary, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Summary, error)
	GetPageByCurriculumAndWeek(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber, page, pageSize int) (int64, []*types.Summary, error)
	GetPageByOwner(ctx context.Context, tx *gorm.DB, ownerID string, page, pageSize int) (int64, []*types.Summary, error)
	GetPageAdmin(ctx context.Context, tx *gorm.DB, page, pageSize int) (int64, []*types.Summary, error)
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type summaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SummaryRepo {
	repoLog := baseLog.With("repo", "SummaryRepo")
	return &summaryRepo{db: db, log: repoLog}
}

func (r *summaryRepo) Create(ctx context.Context, tx *gorm.DB, summary *types.Summary) (*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(summary).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *summaryRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Summary
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPageByCurriculumAndWeek lists oldest first so the reading order
// follows the writing order.
func (r *summaryRepo) GetPageByCurriculumAndWeek(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber, page, pageSize int) (int64, []*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if page < 1 {
		page = 1
	}

	q := transaction.WithContext(ctx).Model(&types.Summary{}).
		Where("curriculum_id = ? AND week_number = ?", curriculumID, weekNumber).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var results []*types.Summary
	if err := q.
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return 0, nil, err
	}
	return total, results, nil
}

func (r *summaryRepo) GetPageByOwner(ctx context.Context, tx *gorm.DB, ownerID string, page, pageSize int) (int64, []*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if page < 1 {
		page = 1
	}

	q := transaction.WithContext(ctx).Model(&types.Summary{}).
		Joins("JOIN curriculum ON curriculum.id = summary.curriculum_id").
		Where("curriculum.owner_id = ?", ownerID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var results []*types.Summary
	if err := q.
		Order("summary.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return 0, nil, err
	}
	return total, results, nil
}

func (r *summaryRepo) GetPageAdmin(ctx context.Context, tx *gorm.DB, page, pageSize int) (int64, []*types.Summary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if page < 1 {
		page = 1
	}

	var total int64
	if err := transaction.WithContext(ctx).Model(&types.Summary{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var results []*types.Summary
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return 0, nil, err
	}
	return total, results, nil
}

func (r *summaryRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Summary{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes the summary and its feedback, if any.
func (r *summaryRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("summary_id = ?", id).Delete(&types.Feedback{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&types.Summary{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSummaryNotFound
		}
		return nil
	})
}
