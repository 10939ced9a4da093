package learning

import (
	"context"
	"errors"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	"github.com/studyloop/studyloop-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CurriculumRepo interface {
	Create(ctx context.Context, tx *gorm.DB, curriculum *types.Curriculum) (*types.Curriculum, error)
	CountByOwner(ctx context.Context, tx *gorm.DB, ownerID string) (int64, error)
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string, actorID string, role types.Role) (*types.Curriculum, error)
	GetByTitle(ctx context.Context, tx *gorm.DB, title string, actorID string, role types.Role) (*types.Curriculum, error)
	GetPage(ctx context.Context, tx *gorm.DB, ownerID *string, actorID string, role types.Role, page, pageSize int) (int64, []*types.Curriculum, error)
	Update(ctx context.Context, tx *gorm.DB, curriculum *types.Curriculum) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	InsertWeekAndShift(ctx context.Context, tx *gorm.DB, curriculumID string, newWeekNumber int, lessons []string) error
	DeleteWeekAndShift(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int) error
	InsertLesson(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int, lesson string, index int) error
	UpdateWeekSchedule(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int, lessons []string) error
	DeleteLesson(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int, index int) error
}

type curriculumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCurriculumRepo(db *gorm.DB, baseLog *logger.Logger) CurriculumRepo {
	repoLog := baseLog.With("repo", "CurriculumRepo")
	return &curriculumRepo{db: db, log: repoLog}
}

const maxWeeks = 24

func (r *curriculumRepo) Create(ctx context.Context, tx *gorm.DB, curriculum *types.Curriculum) (*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(curriculum).Error; err != nil {
		return nil, err
	}
	return curriculum, nil
}

func (r *curriculumRepo) CountByOwner(ctx context.Context, tx *gorm.DB, ownerID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Curriculum{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *curriculumRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Curriculum{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetByID returns nil for both "missing" and "hidden from this actor"
// so callers cannot distinguish the two.
func (r *curriculumRepo) GetByID(ctx context.Context, tx *gorm.DB, id string, actorID string, role types.Role) (*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("id = ?", id)
	if !role.IsAdmin() {
		q = q.Where("owner_id = ? OR visibility = ?", actorID, types.VisibilityPublic)
	}

	var result types.Curriculum
	err := q.Preload("WeekSchedules", func(db *gorm.DB) *gorm.DB {
		return db.Order("week_number ASC")
	}).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetByTitle finds the first curriculum with exactly this title among
// those the actor may read. Titles are not unique; first match wins.
func (r *curriculumRepo) GetByTitle(ctx context.Context, tx *gorm.DB, title string, actorID string, role types.Role) (*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Where("title = ?", title)
	if !role.IsAdmin() {
		q = q.Where("owner_id = ? OR visibility = ?", actorID, types.VisibilityPublic)
	}

	var result types.Curriculum
	err := q.Preload("WeekSchedules", func(db *gorm.DB) *gorm.DB {
		return db.Order("week_number ASC")
	}).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *curriculumRepo) GetPage(ctx context.Context, tx *gorm.DB, ownerID *string, actorID string, role types.Role, page, pageSize int) (int64, []*types.Curriculum, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if page < 1 {
		page = 1
	}

	q := transaction.WithContext(ctx).Model(&types.Curriculum{})
	switch {
	case ownerID != nil:
		q = q.Where("owner_id = ?", *ownerID)
		if !role.IsAdmin() && *ownerID != actorID {
			q = q.Where("visibility = ?", types.VisibilityPublic)
		}
	case !role.IsAdmin():
		q = q.Where("owner_id = ? OR visibility = ?", actorID, types.VisibilityPublic)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var results []*types.Curriculum
	if err := q.
		Preload("WeekSchedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("week_number ASC")
		}).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return 0, nil, err
	}
	return total, results, nil
}

// Update rewrites the mutable columns only; week schedules move through
// the shift operations.
func (r *curriculumRepo) Update(ctx context.Context, tx *gorm.DB, curriculum *types.Curriculum) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.Curriculum{}).
		Where("id = ?", curriculum.ID).
		Updates(map[string]interface{}{
			"title":      curriculum.Title,
			"visibility": curriculum.Visibility,
			"updated_at": curriculum.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCurriculumNotFound
	}
	return nil
}

// Delete removes the curriculum and its whole subtree in one
// transaction: feedbacks, summaries, week schedules, then the root.
func (r *curriculumRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("summary_id IN (?)", tx.Model(&types.Summary{}).Select("id").Where("curriculum_id = ?", id)).
			Delete(&types.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("curriculum_id = ?", id).Delete(&types.Summary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("curriculum_id = ?", id).Delete(&types.WeekSchedule{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&types.Curriculum{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCurriculumNotFound
		}
		return nil
	})
}

// lockCurriculum serializes week/lesson mutations per curriculum.
func lockCurriculum(tx *gorm.DB, curriculumID string) error {
	var row types.Curriculum
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", curriculumID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCurriculumNotFound
	}
	return err
}

// InsertWeekAndShift inserts a week at newWeekNumber and moves every
// week at or above it up by one. The renumbering happens through a
// negative intermediate range so the unique (curriculum_id, week_number)
// index never observes a transient duplicate.
func (r *curriculumRepo) InsertWeekAndShift(ctx context.Context, tx *gorm.DB, curriculumID string, newWeekNumber int, lessons []string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCurriculum(tx, curriculumID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&types.WeekSchedule{}).
			Where("curriculum_id = ?", curriculumID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= maxWeeks {
			return ErrWeekLimit
		}
		if newWeekNumber < 1 || int64(newWeekNumber) > count+1 {
			return ErrWeekOutOfRange
		}

		if err := tx.Model(&types.WeekSchedule{}).
			Where("curriculum_id = ? AND week_number >= ?", curriculumID, newWeekNumber).
			Update("week_number", gorm.Expr("-(week_number + 1)")).Error; err != nil {
			return err
		}

		week := types.WeekSchedule{CurriculumID: curriculumID, WeekNumber: newWeekNumber}
		week.SetLessons(lessons)
		if err := tx.Create(&week).Error; err != nil {
			return err
		}

		return tx.Model(&types.WeekSchedule{}).
			Where("curriculum_id = ? AND week_number < 0", curriculumID).
			Update("week_number", gorm.Expr("-week_number")).Error
	})
}

// DeleteWeekAndShift removes the week, deletes that week's summaries
// (and their feedbacks) and closes the numbering gap.
func (r *curriculumRepo) DeleteWeekAndShift(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCurriculum(tx, curriculumID); err != nil {
			return err
		}

		res := tx.Where("curriculum_id = ? AND week_number = ?", curriculumID, weekNumber).
			Delete(&types.WeekSchedule{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrWeekNotFound
		}

		if err := tx.
			Where("summary_id IN (?)", tx.Model(&types.Summary{}).Select("id").
				Where("curriculum_id = ? AND week_number = ?", curriculumID, weekNumber)).
			Delete(&types.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("curriculum_id = ? AND week_number = ?", curriculumID, weekNumber).
			Delete(&types.Summary{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&types.WeekSchedule{}).
			Where("curriculum_id = ? AND week_number > ?", curriculumID, weekNumber).
			Update("week_number", gorm.Expr("-(week_number - 1)")).Error; err != nil {
			return err
		}
		return tx.Model(&types.WeekSchedule{}).
			Where("curriculum_id = ? AND week_number < 0", curriculumID).
			Update("week_number", gorm.Expr("-week_number")).Error
	})
}

func (r *curriculumRepo) loadWeekForUpdate(tx *gorm.DB, curriculumID string, weekNumber int) (*types.WeekSchedule, error) {
	var week types.WeekSchedule
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("curriculum_id = ? AND week_number = ?", curriculumID, weekNumber).
		First(&week).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWeekNotFound
	}
	if err != nil {
		return nil, err
	}
	return &week, nil
}

func (r *curriculumRepo) InsertLesson(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int, lesson string, index int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		week, err := r.loadWeekForUpdate(tx, curriculumID, weekNumber)
		if err != nil {
			return err
		}
		lessons := week.LessonList()
		if index < 0 || index > len(lessons) {
			return ErrIndexOutOfRange
		}
		if len(lessons)+1 > 5 {
			return ErrLessonCount
		}
		lessons = append(lessons[:index], append([]string{lesson}, lessons[index:]...)...)
		week.SetLessons(lessons)
		return tx.Model(week).Update("lessons", week.Lessons).Error
	})
}

func (r *curriculumRepo) UpdateWeekSchedule(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int, lessons []string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		week, err := r.loadWeekForUpdate(tx, curriculumID, weekNumber)
		if err != nil {
			return err
		}
		if len(lessons) < 1 || len(lessons) > 5 {
			return ErrLessonCount
		}
		week.SetLessons(lessons)
		return tx.Model(week).Update("lessons", week.Lessons).Error
	})
}

func (r *curriculumRepo) DeleteLesson(ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int, index int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		week, err := r.loadWeekForUpdate(tx, curriculumID, weekNumber)
		if err != nil {
			return err
		}
		lessons := week.LessonList()
		if index < 0 || index >= len(lessons) {
			return ErrIndexOutOfRange
		}
		if len(lessons)-1 < 1 {
			return ErrLessonCount
		}
		lessons = append(lessons[:index], lessons[index+1:]...)
		week.SetLessons(lessons)
		return tx.Model(week).Update("lessons", week.Lessons).Error
	})
}
