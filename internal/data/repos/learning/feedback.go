package learning

import (
	"context"
	"errors"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	"github.com/studyloop/studyloop-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Feedback, error)
	GetBySummaryID(ctx context.Context, tx *gorm.DB, summaryID string) (*types.Feedback, error)
	Update(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	GetPageAdmin(ctx context.Context, tx *gorm.DB, page, pageSize int) (int64, []*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

// Create relies on the unique summary_id index: concurrent creates for
// the same summary end with exactly one success.
func (r *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	// Nested transaction so a unique violation rolls back to a savepoint
	// and does not poison an enclosing transaction.
	err := transaction.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(feedback).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateFeedback
		}
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Feedback
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *feedbackRepo) GetBySummaryID(ctx context.Context, tx *gorm.DB, summaryID string) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Feedback
	err := transaction.WithContext(ctx).Where("summary_id = ?", summaryID).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *feedbackRepo) Update(ctx context.Context, tx *gorm.DB, feedback *types.Feedback) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Feedback{}).
		Where("id = ?", feedback.ID).
		Updates(map[string]interface{}{
			"comment":    feedback.Comment,
			"score":      feedback.Score,
			"updated_at": feedback.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (r *feedbackRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Feedback{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (r *feedbackRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Feedback{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *feedbackRepo) GetPageAdmin(ctx context.Context, tx *gorm.DB, page, pageSize int) (int64, []*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if page < 1 {
		page = 1
	}

	var total int64
	if err := transaction.WithContext(ctx).Model(&types.Feedback{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var results []*types.Feedback
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return 0, nil, err
	}
	return total, results, nil
}
