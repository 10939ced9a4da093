package learning

import (
	"context"
	"errors"
	"sort"
	"time"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	"github.com/studyloop/studyloop-backend/internal/pkg/validate"
	"github.com/studyloop/studyloop-backend/internal/platform/apierr"
	"github.com/studyloop/studyloop-backend/internal/platform/llm"
)

// Generated titles are stamped with the learner's local time.
var seoulLoc = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}()

type GenerateCurriculumInput struct {
	Goal        string
	PeriodWeeks int
	Difficulty  string
	Details     string
	Visibility  types.Visibility
}

// GenerateCurriculum asks the model for a study plan and persists it.
// Quota and input validation run before the model is called, so a
// rejected request never spends a generation.
func (u Usecases) GenerateCurriculum(ctx context.Context, actor Actor, in GenerateCurriculumInput) (*types.Curriculum, error) {
	goal, err := validate.Title(in.Goal)
	if err != nil {
		return nil, apierr.Validation(err)
	}
	if _, err := validate.WeekNumber(in.PeriodWeeks); err != nil {
		return nil, apierr.Validation(err)
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = types.VisibilityPrivate
	}
	if visibility != types.VisibilityPrivate && visibility != types.VisibilityPublic {
		return nil, apierr.Validation(errors.New("visibility: must be PRIVATE or PUBLIC"))
	}

	if err := u.checkQuota(ctx, actor.ID); err != nil {
		return nil, err
	}

	parsed, err := u.deps.AI.GenerateCurriculum(ctx, goal, in.PeriodWeeks, in.Difficulty, in.Details)
	if err != nil {
		u.deps.Log.Warn("curriculum generation failed", "actor_id", actor.ID, "error", err.Error())
		return nil, apierr.GenerationFailed(err)
	}

	weeks, err := weeksFromParsed(parsed.Schedule)
	if err != nil {
		u.deps.Log.Warn("generated schedule rejected", "actor_id", actor.ID, "error", err.Error())
		return nil, apierr.GenerationFailed(err)
	}

	now := u.deps.Now()
	curriculum := &types.Curriculum{
		ID:            u.deps.IDs.New(),
		OwnerID:       actor.ID,
		Title:         stampedTitle(now, parsed.Title, goal),
		Visibility:    visibility,
		CreatedAt:     now,
		UpdatedAt:     now,
		WeekSchedules: weeks,
	}
	created, err := u.deps.Curricula.Create(ctx, nil, curriculum)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	u.deps.Log.Info("curriculum generated",
		"curriculum_id", created.ID, "owner_id", actor.ID, "weeks", len(weeks))
	return created, nil
}

// stampedTitle prefixes the model's title with the Asia/Seoul creation
// minute and clips the result to the title limit.
func stampedTitle(now time.Time, llmTitle, fallback string) string {
	title := llmTitle
	if title == "" {
		title = fallback
	}
	stamped := now.In(seoulLoc).Format("0601021504") + " " + title
	runes := []rune(stamped)
	if len(runes) > validate.TitleMaxLen {
		return string(runes[:validate.TitleMaxLen])
	}
	return stamped
}

// weeksFromParsed normalizes the model's schedule: weeks are sorted and
// renumbered from 1, lessons are trimmed, and overlong weeks are clipped
// to the lesson limit. An empty week or an overlong plan is a contract
// failure.
func weeksFromParsed(schedule []llm.ParsedWeek) ([]types.WeekSchedule, error) {
	if len(schedule) == 0 {
		return nil, errors.New("generated schedule is empty")
	}
	if len(schedule) > validate.WeekNumberMax {
		return nil, errors.New("generated schedule exceeds the week limit")
	}

	sorted := make([]llm.ParsedWeek, len(schedule))
	copy(sorted, schedule)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeekNumber < sorted[j].WeekNumber
	})

	weeks := make([]types.WeekSchedule, 0, len(sorted))
	for i, w := range sorted {
		lessons := w.Lessons
		if len(lessons) > validate.LessonsMax {
			lessons = lessons[:validate.LessonsMax]
		}
		cleaned, err := validate.Lessons(lessons)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, types.NewWeekSchedule(i+1, cleaned))
	}
	return weeks, nil
}
