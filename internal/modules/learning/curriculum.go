package learning

import (
	"context"
	"errors"
	"net/http"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	learningrepo "github.com/studyloop/studyloop-backend/internal/data/repos/learning"
	"github.com/studyloop/studyloop-backend/internal/pkg/validate"
	"github.com/studyloop/studyloop-backend/internal/platform/apierr"
)

type WeekInput struct {
	WeekNumber int
	Lessons    []string
}

type CreateCurriculumInput struct {
	Title      string
	Visibility types.Visibility
	Weeks      []WeekInput
}

type UpdateCurriculumInput struct {
	Title      *string
	Visibility *types.Visibility
}

// loadCurriculumForRead resolves the curriculum through the actor-scoped
// query, so a hidden curriculum is indistinguishable from a missing one.
func (u Usecases) loadCurriculumForRead(ctx context.Context, actor Actor, id string) (*types.Curriculum, error) {
	curriculum, err := u.deps.Curricula.GetByID(ctx, nil, id, actor.ID, actor.Role)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if curriculum == nil {
		return nil, apierr.NotFound(apierr.CodeCurriculumNotFound)
	}
	return curriculum, nil
}

// loadCurriculumForMutate resolves the curriculum without visibility
// scoping and runs the mutate decision: missing stays NotFound, existing
// but foreign becomes AccessDenied.
func (u Usecases) loadCurriculumForMutate(ctx context.Context, actor Actor, id string) (*types.Curriculum, error) {
	curriculum, err := u.deps.Curricula.GetByID(ctx, nil, id, actor.ID, types.RoleAdmin)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if curriculum == nil {
		return nil, apierr.NotFound(apierr.CodeCurriculumNotFound)
	}
	if d := Authorize(actor, curriculum, ActionMutate); !d.Allow {
		u.deps.Log.Warn("curriculum mutation denied",
			"curriculum_id", id, "actor_id", actor.ID, "reason", d.Reason)
		return nil, apierr.AccessDenied()
	}
	return curriculum, nil
}

func (u Usecases) checkQuota(ctx context.Context, ownerID string) error {
	count, err := u.deps.Curricula.CountByOwner(ctx, nil, ownerID)
	if err != nil {
		return apierr.Storage(err)
	}
	if count >= MaxCurriculumsPerOwner {
		return apierr.Conflict(apierr.CodeQuotaExceeded)
	}
	return nil
}

// CreateCurriculum persists a curriculum supplied by the actor. Week
// numbers must arrive contiguous from 1.
func (u Usecases) CreateCurriculum(ctx context.Context, actor Actor, in CreateCurriculumInput) (*types.Curriculum, error) {
	title, err := validate.Title(in.Title)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = types.VisibilityPrivate
	}
	if visibility != types.VisibilityPrivate && visibility != types.VisibilityPublic {
		return nil, apierr.Validation(errors.New("visibility: must be PRIVATE or PUBLIC"))
	}
	if len(in.Weeks) > validate.WeekNumberMax {
		return nil, apierr.New(http.StatusConflict, apierr.CodeWeekLimitExceeded, nil)
	}

	weeks := make([]types.WeekSchedule, 0, len(in.Weeks))
	for i, w := range in.Weeks {
		if w.WeekNumber != i+1 {
			return nil, apierr.Validation(errors.New("week_number: weeks must be contiguous starting at 1"))
		}
		lessons, err := validate.Lessons(w.Lessons)
		if err != nil {
			return nil, apierr.Validation(err)
		}
		weeks = append(weeks, types.NewWeekSchedule(w.WeekNumber, lessons))
	}

	if err := u.checkQuota(ctx, actor.ID); err != nil {
		return nil, err
	}

	now := u.deps.Now()
	curriculum := &types.Curriculum{
		ID:            u.deps.IDs.New(),
		OwnerID:       actor.ID,
		Title:         title,
		Visibility:    visibility,
		CreatedAt:     now,
		UpdatedAt:     now,
		WeekSchedules: weeks,
	}
	created, err := u.deps.Curricula.Create(ctx, nil, curriculum)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	u.deps.Log.Info("curriculum created", "curriculum_id", created.ID, "owner_id", actor.ID)
	return created, nil
}

func (u Usecases) GetCurriculum(ctx context.Context, actor Actor, id string) (*types.Curriculum, error) {
	return u.loadCurriculumForRead(ctx, actor, id)
}

// GetCurriculumByTitle resolves an exact title among the curricula the
// actor may read.
func (u Usecases) GetCurriculumByTitle(ctx context.Context, actor Actor, title string) (*types.Curriculum, error) {
	cleaned, err := validate.Title(title)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	curriculum, err := u.deps.Curricula.GetByTitle(ctx, nil, cleaned, actor.ID, actor.Role)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if curriculum == nil {
		return nil, apierr.NotFound(apierr.CodeCurriculumNotFound)
	}
	return curriculum, nil
}

// GetCurriculums pages curricula newest first. With ownerID set the page
// is that owner's; without it, everything the actor may read.
func (u Usecases) GetCurriculums(ctx context.Context, actor Actor, ownerID *string, page, pageSize int) (int64, []*types.Curriculum, error) {
	total, items, err := u.deps.Curricula.GetPage(ctx, nil, ownerID, actor.ID, actor.Role, page, pageSize)
	if err != nil {
		return 0, nil, apierr.Storage(err)
	}
	return total, items, nil
}

func (u Usecases) CountAllCurriculums(ctx context.Context, actor Actor) (int64, error) {
	if !actor.IsAdmin() {
		return 0, apierr.AccessDenied()
	}
	count, err := u.deps.Curricula.CountAll(ctx, nil)
	if err != nil {
		return 0, apierr.Storage(err)
	}
	return count, nil
}

func (u Usecases) UpdateCurriculum(ctx context.Context, actor Actor, id string, in UpdateCurriculumInput) (*types.Curriculum, error) {
	curriculum, err := u.loadCurriculumForMutate(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title, err := validate.Title(*in.Title)
		if err != nil {
			return nil, apierr.Validation(err)
		}
		curriculum.Title = title
	}
	if in.Visibility != nil {
		if *in.Visibility != types.VisibilityPrivate && *in.Visibility != types.VisibilityPublic {
			return nil, apierr.Validation(errors.New("visibility: must be PRIVATE or PUBLIC"))
		}
		curriculum.Visibility = *in.Visibility
	}
	curriculum.UpdatedAt = u.deps.Now()

	if err := u.deps.Curricula.Update(ctx, nil, curriculum); err != nil {
		return nil, u.mapWeekErr(err)
	}
	return curriculum, nil
}

func (u Usecases) DeleteCurriculum(ctx context.Context, actor Actor, id string) error {
	if _, err := u.loadCurriculumForMutate(ctx, actor, id); err != nil {
		return err
	}
	if err := u.deps.Curricula.Delete(ctx, nil, id); err != nil {
		return u.mapWeekErr(err)
	}
	u.deps.Log.Info("curriculum deleted", "curriculum_id", id, "actor_id", actor.ID)
	return nil
}

// InsertWeek adds a week at weekNumber; existing weeks at or above shift
// up by one.
func (u Usecases) InsertWeek(ctx context.Context, actor Actor, curriculumID string, weekNumber int, lessons []string) (*types.Curriculum, error) {
	cleaned, err := validate.Lessons(lessons)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	if _, err := u.loadCurriculumForMutate(ctx, actor, curriculumID); err != nil {
		return nil, err
	}
	if err := u.deps.Curricula.InsertWeekAndShift(ctx, nil, curriculumID, weekNumber, cleaned); err != nil {
		return nil, u.mapWeekErr(err)
	}
	return u.loadCurriculumForMutate(ctx, actor, curriculumID)
}

// DeleteWeek removes the week with its summaries and feedbacks, then
// closes the numbering gap.
func (u Usecases) DeleteWeek(ctx context.Context, actor Actor, curriculumID string, weekNumber int) (*types.Curriculum, error) {
	if _, err := u.loadCurriculumForMutate(ctx, actor, curriculumID); err != nil {
		return nil, err
	}
	if err := u.deps.Curricula.DeleteWeekAndShift(ctx, nil, curriculumID, weekNumber); err != nil {
		return nil, u.mapWeekErr(err)
	}
	return u.loadCurriculumForMutate(ctx, actor, curriculumID)
}

// InsertLesson inserts at index; a negative index appends.
func (u Usecases) InsertLesson(ctx context.Context, actor Actor, curriculumID string, weekNumber, index int, lesson string) (*types.Curriculum, error) {
	cleaned, err := validate.Lessons([]string{lesson})
	if err != nil {
		return nil, apierr.Validation(err)
	}
	curriculum, err := u.loadCurriculumForMutate(ctx, actor, curriculumID)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		week := curriculum.WeekSchedule(weekNumber)
		if week == nil {
			return nil, apierr.NotFound(apierr.CodeWeekNotFound)
		}
		index = len(week.LessonList())
	}
	if err := u.deps.Curricula.InsertLesson(ctx, nil, curriculumID, weekNumber, cleaned[0], index); err != nil {
		return nil, u.mapWeekErr(err)
	}
	return u.loadCurriculumForMutate(ctx, actor, curriculumID)
}

func (u Usecases) UpdateLesson(ctx context.Context, actor Actor, curriculumID string, weekNumber, index int, lesson string) (*types.Curriculum, error) {
	cleaned, err := validate.Lessons([]string{lesson})
	if err != nil {
		return nil, apierr.Validation(err)
	}
	curriculum, err := u.loadCurriculumForMutate(ctx, actor, curriculumID)
	if err != nil {
		return nil, err
	}
	week := curriculum.WeekSchedule(weekNumber)
	if week == nil {
		return nil, apierr.NotFound(apierr.CodeWeekNotFound)
	}
	lessons := week.LessonList()
	if index < 0 || index >= len(lessons) {
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeIndexOutOfRange, nil)
	}
	lessons[index] = cleaned[0]
	if err := u.deps.Curricula.UpdateWeekSchedule(ctx, nil, curriculumID, weekNumber, lessons); err != nil {
		return nil, u.mapWeekErr(err)
	}
	return u.loadCurriculumForMutate(ctx, actor, curriculumID)
}

func (u Usecases) DeleteLesson(ctx context.Context, actor Actor, curriculumID string, weekNumber, index int) (*types.Curriculum, error) {
	if _, err := u.loadCurriculumForMutate(ctx, actor, curriculumID); err != nil {
		return nil, err
	}
	if err := u.deps.Curricula.DeleteLesson(ctx, nil, curriculumID, weekNumber, index); err != nil {
		return nil, u.mapWeekErr(err)
	}
	return u.loadCurriculumForMutate(ctx, actor, curriculumID)
}

// mapWeekErr translates the store sentinels raised by week and lesson
// mutations into the stable API codes.
func (u Usecases) mapWeekErr(err error) error {
	switch {
	case errors.Is(err, learningrepo.ErrCurriculumNotFound):
		return apierr.NotFound(apierr.CodeCurriculumNotFound)
	case errors.Is(err, learningrepo.ErrWeekNotFound):
		return apierr.NotFound(apierr.CodeWeekNotFound)
	case errors.Is(err, learningrepo.ErrWeekLimit):
		return apierr.New(http.StatusConflict, apierr.CodeWeekLimitExceeded, nil)
	case errors.Is(err, learningrepo.ErrWeekOutOfRange):
		return apierr.Validation(err)
	case errors.Is(err, learningrepo.ErrLessonCount):
		return apierr.New(http.StatusConflict, apierr.CodeLessonCountExceeded, nil)
	case errors.Is(err, learningrepo.ErrIndexOutOfRange):
		return apierr.New(http.StatusBadRequest, apierr.CodeIndexOutOfRange, nil)
	default:
		return apierr.Storage(err)
	}
}
