package learning

import (
	"context"
	"errors"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	learningrepo "github.com/studyloop/studyloop-backend/internal/data/repos/learning"
	"github.com/studyloop/studyloop-backend/internal/pkg/validate"
	"github.com/studyloop/studyloop-backend/internal/platform/apierr"
)

// loadFeedbackParents resolves the summary and curriculum above a
// feedback target. The curriculum comes back unscoped; the caller picks
// the action to authorize.
func (u Usecases) loadFeedbackParents(ctx context.Context, summaryID string) (*types.Summary, *types.Curriculum, error) {
	summary, err := u.deps.Summaries.GetByID(ctx, nil, summaryID)
	if err != nil {
		return nil, nil, apierr.Storage(err)
	}
	if summary == nil {
		return nil, nil, apierr.NotFound(apierr.CodeSummaryNotFound)
	}

	curriculum, err := u.deps.Curricula.GetByID(ctx, nil, summary.CurriculumID, "", types.RoleAdmin)
	if err != nil {
		return nil, nil, apierr.Storage(err)
	}
	if curriculum == nil {
		return nil, nil, apierr.NotFound(apierr.CodeCurriculumNotFound)
	}
	return summary, curriculum, nil
}

// GenerateFeedback asks the model to grade one summary against its
// week's lessons and persists the result. Every precondition runs before
// the model call: a request that cannot be stored never spends a
// generation. The parent curriculum is resolved under the actor's read
// scope, so a hidden curriculum reads as missing here.
func (u Usecases) GenerateFeedback(ctx context.Context, actor Actor, summaryID string) (*types.Feedback, error) {
	summary, err := u.deps.Summaries.GetByID(ctx, nil, summaryID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if summary == nil {
		return nil, apierr.NotFound(apierr.CodeSummaryNotFound)
	}
	curriculum, err := u.deps.Curricula.GetByID(ctx, nil, summary.CurriculumID, actor.ID, actor.Role)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if curriculum == nil {
		return nil, apierr.NotFound(apierr.CodeCurriculumNotFound)
	}
	if d := Authorize(actor, curriculum, ActionMutate); !d.Allow {
		return nil, apierr.AccessDenied()
	}

	existing, err := u.deps.Feedbacks.GetBySummaryID(ctx, nil, summaryID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if existing != nil {
		return nil, apierr.Conflict(apierr.CodeFeedbackAlreadyExists)
	}

	week := curriculum.WeekSchedule(summary.WeekNumber)
	if week == nil {
		return nil, apierr.NotFound(apierr.CodeWeekNotFound)
	}

	parsed, err := u.deps.AI.GenerateFeedback(ctx, week.LessonList(), summary.Content)
	if err != nil {
		u.deps.Log.Warn("feedback generation failed", "summary_id", summaryID, "error", err.Error())
		return nil, apierr.GenerationFailed(err)
	}
	comment, err := validate.FeedbackComment(parsed.Comment)
	if err != nil {
		return nil, apierr.GenerationFailed(err)
	}
	score, err := validate.FeedbackScore(parsed.Score)
	if err != nil {
		return nil, apierr.GenerationFailed(err)
	}

	now := u.deps.Now()
	feedback := &types.Feedback{
		ID:             u.deps.IDs.New(),
		SummaryID:      summaryID,
		Comment:        comment,
		Score:          score,
		DetailedScores: parsed.DetailedScores,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := u.deps.Feedbacks.Create(ctx, nil, feedback)
	if err != nil {
		if errors.Is(err, learningrepo.ErrDuplicateFeedback) {
			return nil, apierr.Conflict(apierr.CodeFeedbackAlreadyExists)
		}
		return nil, apierr.Storage(err)
	}
	u.deps.Log.Info("feedback generated",
		"feedback_id", created.ID, "summary_id", summaryID, "score", created.Score)
	return created, nil
}

// CreateFeedback records a hand-written feedback on a summary.
func (u Usecases) CreateFeedback(ctx context.Context, actor Actor, summaryID, comment string, score float64) (*types.Feedback, error) {
	cleanedComment, err := validate.FeedbackComment(comment)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	cleanedScore, err := validate.FeedbackScore(score)
	if err != nil {
		return nil, apierr.Validation(err)
	}

	_, curriculum, err := u.loadFeedbackParents(ctx, summaryID)
	if err != nil {
		return nil, err
	}
	if d := Authorize(actor, curriculum, ActionMutate); !d.Allow {
		return nil, apierr.AccessDenied()
	}

	now := u.deps.Now()
	feedback := &types.Feedback{
		ID:        u.deps.IDs.New(),
		SummaryID: summaryID,
		Comment:   cleanedComment,
		Score:     cleanedScore,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.deps.Feedbacks.Create(ctx, nil, feedback)
	if err != nil {
		if errors.Is(err, learningrepo.ErrDuplicateFeedback) {
			return nil, apierr.Conflict(apierr.CodeFeedbackAlreadyExists)
		}
		return nil, apierr.Storage(err)
	}
	return created, nil
}

// GetFeedback reads one feedback. Readability follows the parent
// summary: a feedback under a curriculum the actor cannot read does not
// exist for them.
func (u Usecases) GetFeedback(ctx context.Context, actor Actor, feedbackID string) (*types.Feedback, error) {
	feedback, err := u.deps.Feedbacks.GetByID(ctx, nil, feedbackID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if feedback == nil {
		return nil, apierr.NotFound(apierr.CodeFeedbackNotFound)
	}

	summary, err := u.deps.Summaries.GetByID(ctx, nil, feedback.SummaryID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if summary == nil {
		return nil, apierr.NotFound(apierr.CodeFeedbackNotFound)
	}
	curriculum, err := u.deps.Curricula.GetByID(ctx, nil, summary.CurriculumID, actor.ID, actor.Role)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if curriculum == nil {
		return nil, apierr.NotFound(apierr.CodeFeedbackNotFound)
	}
	return feedback, nil
}

type UpdateFeedbackInput struct {
	Comment *string
	Score   *float64
}

func (u Usecases) UpdateFeedback(ctx context.Context, actor Actor, feedbackID string, in UpdateFeedbackInput) (*types.Feedback, error) {
	feedback, err := u.deps.Feedbacks.GetByID(ctx, nil, feedbackID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if feedback == nil {
		return nil, apierr.NotFound(apierr.CodeFeedbackNotFound)
	}
	_, curriculum, err := u.loadFeedbackParents(ctx, feedback.SummaryID)
	if err != nil {
		return nil, err
	}
	if d := Authorize(actor, curriculum, ActionMutate); !d.Allow {
		return nil, apierr.AccessDenied()
	}

	if in.Comment != nil {
		comment, err := validate.FeedbackComment(*in.Comment)
		if err != nil {
			return nil, apierr.Validation(err)
		}
		feedback.Comment = comment
	}
	if in.Score != nil {
		score, err := validate.FeedbackScore(*in.Score)
		if err != nil {
			return nil, apierr.Validation(err)
		}
		feedback.Score = score
	}
	feedback.UpdatedAt = u.deps.Now()

	if err := u.deps.Feedbacks.Update(ctx, nil, feedback); err != nil {
		if errors.Is(err, learningrepo.ErrFeedbackNotFound) {
			return nil, apierr.NotFound(apierr.CodeFeedbackNotFound)
		}
		return nil, apierr.Storage(err)
	}
	return feedback, nil
}

func (u Usecases) DeleteFeedback(ctx context.Context, actor Actor, feedbackID string) error {
	feedback, err := u.deps.Feedbacks.GetByID(ctx, nil, feedbackID)
	if err != nil {
		return apierr.Storage(err)
	}
	if feedback == nil {
		return apierr.NotFound(apierr.CodeFeedbackNotFound)
	}
	_, curriculum, err := u.loadFeedbackParents(ctx, feedback.SummaryID)
	if err != nil {
		return err
	}
	if d := Authorize(actor, curriculum, ActionMutate); !d.Allow {
		return apierr.AccessDenied()
	}

	if err := u.deps.Feedbacks.Delete(ctx, nil, feedbackID); err != nil {
		if errors.Is(err, learningrepo.ErrFeedbackNotFound) {
			return apierr.NotFound(apierr.CodeFeedbackNotFound)
		}
		return apierr.Storage(err)
	}
	u.deps.Log.Info("feedback deleted", "feedback_id", feedbackID, "actor_id", actor.ID)
	return nil
}

func (u Usecases) GetAdminFeedbacks(ctx context.Context, actor Actor, page, pageSize int) (int64, []*types.Feedback, error) {
	if !actor.IsAdmin() {
		return 0, nil, apierr.AccessDenied()
	}
	total, items, err := u.deps.Feedbacks.GetPageAdmin(ctx, nil, page, pageSize)
	if err != nil {
		return 0, nil, apierr.Storage(err)
	}
	return total, items, nil
}

func (u Usecases) CountAllFeedbacks(ctx context.Context, actor Actor) (int64, error) {
	if !actor.IsAdmin() {
		return 0, apierr.AccessDenied()
	}
	count, err := u.deps.Feedbacks.CountAll(ctx, nil)
	if err != nil {
		return 0, apierr.Storage(err)
	}
	return count, nil
}
