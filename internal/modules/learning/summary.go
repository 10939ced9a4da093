package learning

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	learningrepo "github.com/studyloop/studyloop-backend/internal/data/repos/learning"
	"github.com/studyloop/studyloop-backend/internal/pkg/validate"
	"github.com/studyloop/studyloop-backend/internal/platform/apierr"
)

// SummaryDetail pairs a summary with its feedback, if one exists.
type SummaryDetail struct {
	Summary  *types.Summary
	Feedback *types.Feedback
}

// CreateSummary records what the actor wrote about one week. The week
// must still exist; summaries never attach to renumbered gaps.
func (u Usecases) CreateSummary(ctx context.Context, actor Actor, curriculumID string, weekNumber int, content string) (*types.Summary, error) {
	cleaned, err := validate.SummaryContent(content)
	if err != nil {
		return nil, apierr.Validation(err)
	}

	curriculum, err := u.loadCurriculumForMutate(ctx, actor, curriculumID)
	if err != nil {
		return nil, err
	}
	if curriculum.WeekSchedule(weekNumber) == nil {
		return nil, apierr.NotFound(apierr.CodeWeekNotFound)
	}

	now := u.deps.Now()
	summary := &types.Summary{
		ID:           u.deps.IDs.New(),
		CurriculumID: curriculumID,
		WeekNumber:   weekNumber,
		Content:      cleaned,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := u.deps.Summaries.Create(ctx, nil, summary)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	u.deps.Log.Info("summary created",
		"summary_id", created.ID, "curriculum_id", curriculumID, "week_number", weekNumber)
	return created, nil
}

// GetSummaries pages one week's summaries oldest first.
func (u Usecases) GetSummaries(ctx context.Context, actor Actor, curriculumID string, weekNumber, page, pageSize int) (int64, []*types.Summary, error) {
	curriculum, err := u.loadCurriculumForRead(ctx, actor, curriculumID)
	if err != nil {
		return 0, nil, err
	}
	if curriculum.WeekSchedule(weekNumber) == nil {
		return 0, nil, apierr.NotFound(apierr.CodeWeekNotFound)
	}

	total, items, err := u.deps.Summaries.GetPageByCurriculumAndWeek(ctx, nil, curriculumID, weekNumber, page, pageSize)
	if err != nil {
		return 0, nil, apierr.Storage(err)
	}
	return total, items, nil
}

// GetSummary loads one summary with its feedback. The parent curriculum
// check and the feedback lookup are independent, so they run together.
func (u Usecases) GetSummary(ctx context.Context, actor Actor, summaryID string) (*SummaryDetail, error) {
	summary, err := u.deps.Summaries.GetByID(ctx, nil, summaryID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if summary == nil {
		return nil, apierr.NotFound(apierr.CodeSummaryNotFound)
	}

	var feedback *types.Feedback
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		curriculum, err := u.deps.Curricula.GetByID(gctx, nil, summary.CurriculumID, actor.ID, actor.Role)
		if err != nil {
			return apierr.Storage(err)
		}
		if curriculum == nil {
			return apierr.NotFound(apierr.CodeSummaryNotFound)
		}
		return nil
	})
	g.Go(func() error {
		fb, err := u.deps.Feedbacks.GetBySummaryID(gctx, nil, summaryID)
		if err != nil {
			return apierr.Storage(err)
		}
		feedback = fb
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SummaryDetail{Summary: summary, Feedback: feedback}, nil
}

func (u Usecases) DeleteSummary(ctx context.Context, actor Actor, summaryID string) error {
	summary, err := u.deps.Summaries.GetByID(ctx, nil, summaryID)
	if err != nil {
		return apierr.Storage(err)
	}
	if summary == nil {
		return apierr.NotFound(apierr.CodeSummaryNotFound)
	}
	if _, err := u.loadCurriculumForMutate(ctx, actor, summary.CurriculumID); err != nil {
		return err
	}

	if err := u.deps.Summaries.Delete(ctx, nil, summaryID); err != nil {
		if errors.Is(err, learningrepo.ErrSummaryNotFound) {
			return apierr.NotFound(apierr.CodeSummaryNotFound)
		}
		return apierr.Storage(err)
	}
	u.deps.Log.Info("summary deleted", "summary_id", summaryID, "actor_id", actor.ID)
	return nil
}

// GetMySummaries pages every summary under the actor's own curricula,
// newest first.
func (u Usecases) GetMySummaries(ctx context.Context, actor Actor, page, pageSize int) (int64, []*types.Summary, error) {
	total, items, err := u.deps.Summaries.GetPageByOwner(ctx, nil, actor.ID, page, pageSize)
	if err != nil {
		return 0, nil, apierr.Storage(err)
	}
	return total, items, nil
}

func (u Usecases) GetAdminSummaries(ctx context.Context, actor Actor, page, pageSize int) (int64, []*types.Summary, error) {
	if !actor.IsAdmin() {
		return 0, nil, apierr.AccessDenied()
	}
	total, items, err := u.deps.Summaries.GetPageAdmin(ctx, nil, page, pageSize)
	if err != nil {
		return 0, nil, apierr.Storage(err)
	}
	return total, items, nil
}

func (u Usecases) CountAllSummaries(ctx context.Context, actor Actor) (int64, error) {
	if !actor.IsAdmin() {
		return 0, apierr.AccessDenied()
	}
	count, err := u.deps.Summaries.CountAll(ctx, nil)
	if err != nil {
		return 0, apierr.Storage(err)
	}
	return count, nil
}
