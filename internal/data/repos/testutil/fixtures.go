package testutil

import (
	"context"
	"testing"
	"time"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	"github.com/studyloop/studyloop-backend/internal/platform/ids"
	"gorm.io/gorm"
)

var idGen = ids.NewGenerator()

// NewID mints a fresh ULID for fixtures.
func NewID() string { return idGen.New() }

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role types.Role) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:           NewID(),
		Email:        email,
		Name:         "tester",
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCurriculum(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID string, visibility types.Visibility, weekLessons ...[]string) *types.Curriculum {
	tb.Helper()
	now := time.Now().UTC()
	c := &types.Curriculum{
		ID:         NewID(),
		OwnerID:    ownerID,
		Title:      "seeded curriculum",
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i, lessons := range weekLessons {
		c.WeekSchedules = append(c.WeekSchedules, types.WeekSchedule{
			WeekNumber: i + 1,
		})
		c.WeekSchedules[i].SetLessons(lessons)
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed curriculum: %v", err)
	}
	return c
}

func SeedSummary(tb testing.TB, ctx context.Context, tx *gorm.DB, curriculumID string, weekNumber int, content string) *types.Summary {
	tb.Helper()
	now := time.Now().UTC()
	s := &types.Summary{
		ID:           NewID(),
		CurriculumID: curriculumID,
		WeekNumber:   weekNumber,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed summary: %v", err)
	}
	return s
}

func SeedFeedback(tb testing.TB, ctx context.Context, tx *gorm.DB, summaryID, comment string, score float64) *types.Feedback {
	tb.Helper()
	now := time.Now().UTC()
	f := &types.Feedback{
		ID:        NewID(),
		SummaryID: summaryID,
		Comment:   comment,
		Score:     score,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed feedback: %v", err)
	}
	return f
}
