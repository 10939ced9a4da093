package learning

import "errors"

// Contract errors surfaced by the learning repos. The usecase layer
// maps these onto API error codes.
var (
	ErrCurriculumNotFound = errors.New("curriculum not found")
	ErrWeekNotFound       = errors.New("week schedule not found")
	ErrSummaryNotFound    = errors.New("summary not found")
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrWeekLimit          = errors.New("week limit reached")
	ErrWeekOutOfRange     = errors.New("week number out of contiguous range")
	ErrLessonCount        = errors.New("lesson count out of range")
	ErrIndexOutOfRange    = errors.New("lesson index out of range")
	ErrDuplicateFeedback  = errors.New("feedback already exists for summary")
)
