package learning

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	types "github.com/studyloop/studyloop-backend/internal/domain"
	learningrepo "github.com/studyloop/studyloop-backend/internal/data/repos/learning"
	"github.com/studyloop/studyloop-backend/internal/platform/ids"
	"github.com/studyloop/studyloop-backend/internal/platform/llm"
	"github.com/studyloop/studyloop-backend/internal/platform/logger"
)

// memStore backs the repo fakes with plain slices. It mirrors the store
// semantics the real repos implement, including the cascades and the
// shift renumbering, so the usecases can be exercised without Postgres.
type memStore struct {
	mu        sync.Mutex
	curricula []*types.Curriculum
	summaries []*types.Summary
	feedbacks []*types.Feedback
}

func (s *memStore) findCurriculum(id string) *types.Curriculum {
	for _, c := range s.curricula {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *memStore) findWeek(curriculumID string, weekNumber int) *types.WeekSchedule {
	c := s.findCurriculum(curriculumID)
	if c == nil {
		return nil
	}
	return c.WeekSchedule(weekNumber)
}

func copyCurriculum(c *types.Curriculum) *types.Curriculum {
	cp := *c
	cp.WeekSchedules = make([]types.WeekSchedule, len(c.WeekSchedules))
	copy(cp.WeekSchedules, c.WeekSchedules)
	sort.Slice(cp.WeekSchedules, func(i, j int) bool {
		return cp.WeekSchedules[i].WeekNumber < cp.WeekSchedules[j].WeekNumber
	})
	return &cp
}

func visibleTo(c *types.Curriculum, actorID string, role types.Role) bool {
	return role.IsAdmin() || c.OwnerID == actorID || c.Visibility == types.VisibilityPublic
}

func pageSlice[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type fakeCurricula struct{ s *memStore }

func (f *fakeCurricula) Create(_ context.Context, _ *gorm.DB, c *types.Curriculum) (*types.Curriculum, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.curricula = append(f.s.curricula, copyCurriculum(c))
	return c, nil
}

func (f *fakeCurricula) CountByOwner(_ context.Context, _ *gorm.DB, ownerID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var count int64
	for _, c := range f.s.curricula {
		if c.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCurricula) GetByID(_ context.Context, _ *gorm.DB, id, actorID string, role types.Role) (*types.Curriculum, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c := f.s.findCurriculum(id)
	if c == nil || !visibleTo(c, actorID, role) {
		return nil, nil
	}
	return copyCurriculum(c), nil
}

func (f *fakeCurricula) CountAll(_ context.Context, _ *gorm.DB) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.curricula)), nil
}

func (f *fakeCurricula) GetByTitle(_ context.Context, _ *gorm.DB, title, actorID string, role types.Role) (*types.Curriculum, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, c := range f.s.curricula {
		if c.Title == title && visibleTo(c, actorID, role) {
			return copyCurriculum(c), nil
		}
	}
	return nil, nil
}

func (f *fakeCurricula) GetPage(_ context.Context, _ *gorm.DB, ownerID *string, actorID string, role types.Role, page, pageSize int) (int64, []*types.Curriculum, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var matched []*types.Curriculum
	for _, c := range f.s.curricula {
		switch {
		case ownerID != nil:
			if c.OwnerID != *ownerID {
				continue
			}
			if !role.IsAdmin() && *ownerID != actorID && c.Visibility != types.VisibilityPublic {
				continue
			}
		case !role.IsAdmin():
			if c.OwnerID != actorID && c.Visibility != types.VisibilityPublic {
				continue
			}
		}
		matched = append(matched, copyCurriculum(c))
	}
	return int64(len(matched)), pageSlice(matched, page, pageSize), nil
}

func (f *fakeCurricula) Update(_ context.Context, _ *gorm.DB, in *types.Curriculum) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c := f.s.findCurriculum(in.ID)
	if c == nil {
		return learningrepo.ErrCurriculumNotFound
	}
	c.Title = in.Title
	c.Visibility = in.Visibility
	c.UpdatedAt = in.UpdatedAt
	return nil
}

func (f *fakeCurricula) Delete(_ context.Context, _ *gorm.DB, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.findCurriculum(id) == nil {
		return learningrepo.ErrCurriculumNotFound
	}
	f.s.deleteSummariesLocked(func(sm *types.Summary) bool { return sm.CurriculumID == id })
	kept := f.s.curricula[:0]
	for _, c := range f.s.curricula {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.s.curricula = kept
	return nil
}

func (s *memStore) deleteSummariesLocked(match func(*types.Summary) bool) {
	removed := map[string]bool{}
	keptSummaries := s.summaries[:0]
	for _, sm := range s.summaries {
		if match(sm) {
			removed[sm.ID] = true
			continue
		}
		keptSummaries = append(keptSummaries, sm)
	}
	s.summaries = keptSummaries

	keptFeedbacks := s.feedbacks[:0]
	for _, fb := range s.feedbacks {
		if !removed[fb.SummaryID] {
			keptFeedbacks = append(keptFeedbacks, fb)
		}
	}
	s.feedbacks = keptFeedbacks
}

func (f *fakeCurricula) InsertWeekAndShift(_ context.Context, _ *gorm.DB, curriculumID string, newWeekNumber int, lessons []string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c := f.s.findCurriculum(curriculumID)
	if c == nil {
		return learningrepo.ErrCurriculumNotFound
	}
	if len(c.WeekSchedules) >= 24 {
		return learningrepo.ErrWeekLimit
	}
	if newWeekNumber < 1 || newWeekNumber > len(c.WeekSchedules)+1 {
		return learningrepo.ErrWeekOutOfRange
	}
	for i := range c.WeekSchedules {
		if c.WeekSchedules[i].WeekNumber >= newWeekNumber {
			c.WeekSchedules[i].WeekNumber++
		}
	}
	c.WeekSchedules = append(c.WeekSchedules, types.NewWeekSchedule(newWeekNumber, lessons))
	return nil
}

func (f *fakeCurricula) DeleteWeekAndShift(_ context.Context, _ *gorm.DB, curriculumID string, weekNumber int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c := f.s.findCurriculum(curriculumID)
	if c == nil {
		return learningrepo.ErrCurriculumNotFound
	}
	idx := -1
	for i := range c.WeekSchedules {
		if c.WeekSchedules[i].WeekNumber == weekNumber {
			idx = i
			break
		}
	}
	if idx < 0 {
		return learningrepo.ErrWeekNotFound
	}
	c.WeekSchedules = append(c.WeekSchedules[:idx], c.WeekSchedules[idx+1:]...)
	for i := range c.WeekSchedules {
		if c.WeekSchedules[i].WeekNumber > weekNumber {
			c.WeekSchedules[i].WeekNumber--
		}
	}
	f.s.deleteSummariesLocked(func(sm *types.Summary) bool {
		return sm.CurriculumID == curriculumID && sm.WeekNumber == weekNumber
	})
	return nil
}

func (f *fakeCurricula) InsertLesson(_ context.Context, _ *gorm.DB, curriculumID string, weekNumber int, lesson string, index int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	week := f.s.findWeek(curriculumID, weekNumber)
	if week == nil {
		return learningrepo.ErrWeekNotFound
	}
	lessons := week.LessonList()
	if index < 0 || index > len(lessons) {
		return learningrepo.ErrIndexOutOfRange
	}
	if len(lessons)+1 > 5 {
		return learningrepo.ErrLessonCount
	}
	lessons = append(lessons[:index], append([]string{lesson}, lessons[index:]...)...)
	week.SetLessons(lessons)
	return nil
}

func (f *fakeCurricula) UpdateWeekSchedule(_ context.Context, _ *gorm.DB, curriculumID string, weekNumber int, lessons []string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	week := f.s.findWeek(curriculumID, weekNumber)
	if week == nil {
		return learningrepo.ErrWeekNotFound
	}
	if len(lessons) < 1 || len(lessons) > 5 {
		return learningrepo.ErrLessonCount
	}
	week.SetLessons(lessons)
	return nil
}

func (f *fakeCurricula) DeleteLesson(_ context.Context, _ *gorm.DB, curriculumID string, weekNumber, index int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	week := f.s.findWeek(curriculumID, weekNumber)
	if week == nil {
		return learningrepo.ErrWeekNotFound
	}
	lessons := week.LessonList()
	if index < 0 || index >= len(lessons) {
		return learningrepo.ErrIndexOutOfRange
	}
	if len(lessons)-1 < 1 {
		return learningrepo.ErrLessonCount
	}
	lessons = append(lessons[:index], lessons[index+1:]...)
	week.SetLessons(lessons)
	return nil
}

type fakeSummaries struct{ s *memStore }

func (f *fakeSummaries) Create(_ context.Context, _ *gorm.DB, sm *types.Summary) (*types.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *sm
	f.s.summaries = append(f.s.summaries, &cp)
	return sm, nil
}

func (f *fakeSummaries) GetByID(_ context.Context, _ *gorm.DB, id string) (*types.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, sm := range f.s.summaries {
		if sm.ID == id {
			cp := *sm
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSummaries) GetPageByCurriculumAndWeek(_ context.Context, _ *gorm.DB, curriculumID string, weekNumber, page, pageSize int) (int64, []*types.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var matched []*types.Summary
	for _, sm := range f.s.summaries {
		if sm.CurriculumID == curriculumID && sm.WeekNumber == weekNumber {
			cp := *sm
			matched = append(matched, &cp)
		}
	}
	return int64(len(matched)), pageSlice(matched, page, pageSize), nil
}

func (f *fakeSummaries) GetPageByOwner(_ context.Context, _ *gorm.DB, ownerID string, page, pageSize int) (int64, []*types.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var matched []*types.Summary
	for _, sm := range f.s.summaries {
		c := f.s.findCurriculum(sm.CurriculumID)
		if c != nil && c.OwnerID == ownerID {
			cp := *sm
			matched = append(matched, &cp)
		}
	}
	return int64(len(matched)), pageSlice(matched, page, pageSize), nil
}

func (f *fakeSummaries) GetPageAdmin(_ context.Context, _ *gorm.DB, page, pageSize int) (int64, []*types.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	matched := make([]*types.Summary, 0, len(f.s.summaries))
	for _, sm := range f.s.summaries {
		cp := *sm
		matched = append(matched, &cp)
	}
	return int64(len(matched)), pageSlice(matched, page, pageSize), nil
}

func (f *fakeSummaries) CountAll(_ context.Context, _ *gorm.DB) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.summaries)), nil
}

func (f *fakeSummaries) Delete(_ context.Context, _ *gorm.DB, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	found := false
	for _, sm := range f.s.summaries {
		if sm.ID == id {
			found = true
			break
		}
	}
	if !found {
		return learningrepo.ErrSummaryNotFound
	}
	f.s.deleteSummariesLocked(func(sm *types.Summary) bool { return sm.ID == id })
	return nil
}

type fakeFeedbacks struct{ s *memStore }

func (f *fakeFeedbacks) Create(_ context.Context, _ *gorm.DB, fb *types.Feedback) (*types.Feedback, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.feedbacks {
		if existing.SummaryID == fb.SummaryID {
			return nil, learningrepo.ErrDuplicateFeedback
		}
	}
	cp := *fb
	f.s.feedbacks = append(f.s.feedbacks, &cp)
	return fb, nil
}

func (f *fakeFeedbacks) GetByID(_ context.Context, _ *gorm.DB, id string) (*types.Feedback, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, fb := range f.s.feedbacks {
		if fb.ID == id {
			cp := *fb
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeFeedbacks) GetBySummaryID(_ context.Context, _ *gorm.DB, summaryID string) (*types.Feedback, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, fb := range f.s.feedbacks {
		if fb.SummaryID == summaryID {
			cp := *fb
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeFeedbacks) Update(_ context.Context, _ *gorm.DB, in *types.Feedback) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, fb := range f.s.feedbacks {
		if fb.ID == in.ID {
			fb.Comment = in.Comment
			fb.Score = in.Score
			fb.UpdatedAt = in.UpdatedAt
			return nil
		}
	}
	return learningrepo.ErrFeedbackNotFound
}

func (f *fakeFeedbacks) Delete(_ context.Context, _ *gorm.DB, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i, fb := range f.s.feedbacks {
		if fb.ID == id {
			f.s.feedbacks = append(f.s.feedbacks[:i], f.s.feedbacks[i+1:]...)
			return nil
		}
	}
	return learningrepo.ErrFeedbackNotFound
}

func (f *fakeFeedbacks) CountAll(_ context.Context, _ *gorm.DB) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.s.feedbacks)), nil
}

func (f *fakeFeedbacks) GetPageAdmin(_ context.Context, _ *gorm.DB, page, pageSize int) (int64, []*types.Feedback, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	matched := make([]*types.Feedback, 0, len(f.s.feedbacks))
	for _, fb := range f.s.feedbacks {
		cp := *fb
		matched = append(matched, &cp)
	}
	return int64(len(matched)), pageSlice(matched, page, pageSize), nil
}

// fakeAI scripts the gateway and counts calls, so tests can assert that
// rejected requests never reach the model.
type fakeAI struct {
	mu              sync.Mutex
	curriculum      *llm.ParsedCurriculum
	curriculumErr   error
	feedback        *llm.ParsedFeedback
	feedbackErr     error
	curriculumCalls int
	feedbackCalls   int
}

func (f *fakeAI) GenerateCurriculum(_ context.Context, _ string, _ int, _, _ string) (*llm.ParsedCurriculum, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.curriculumCalls++
	if f.curriculumErr != nil {
		return nil, f.curriculumErr
	}
	return f.curriculum, nil
}

func (f *fakeAI) GenerateFeedback(_ context.Context, _ []string, _ string) (*llm.ParsedFeedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedbackCalls++
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return f.feedback, nil
}

// testNow is 05:04 UTC, which is 14:04 in Asia/Seoul.
var testNow = time.Date(2025, 3, 2, 5, 4, 0, 0, time.UTC)

func newTestEnv() (Usecases, *memStore, *fakeAI) {
	store := &memStore{}
	ai := &fakeAI{}
	u := New(UsecasesDeps{
		Log:       logger.NewNop(),
		AI:        ai,
		Curricula: &fakeCurricula{s: store},
		Summaries: &fakeSummaries{s: store},
		Feedbacks: &fakeFeedbacks{s: store},
		IDs:       ids.NewGenerator(),
		Now:       func() time.Time { return testNow },
	})
	return u, store, ai
}
