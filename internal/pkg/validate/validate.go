package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Error identifies the offending field and the rule it broke. It never
// echoes the raw value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fail(field, reason string) *Error {
	return &Error{Field: field, Reason: reason}
}

const (
	TitleMaxLen       = 50
	NameMinLen        = 2
	NameMaxLen        = 8
	PasswordMinLen    = 8
	PasswordMaxLen    = 64
	WeekNumberMax     = 24
	LessonsMax        = 5
	SummaryMinLen     = 300
	SummaryMaxLen     = 10000
	FeedbackScoreMin  = 1.0
	FeedbackScoreMax  = 10.0
)

var (
	v = validator.New()

	// ASCII letters, digits, underscore and Korean syllables.
	nameRe = regexp.MustCompile(`^[A-Za-z0-9_\x{AC00}-\x{D7A3}]+$`)
)

// Email lowercases and checks the usual local@domain.tld shape.
func Email(raw string) (string, error) {
	if strings.ContainsFunc(raw, unicode.IsSpace) {
		return "", fail("email", "must not contain whitespace")
	}
	email := strings.ToLower(raw)
	if err := v.Var(email, "required,email"); err != nil {
		return "", fail("email", "invalid email format")
	}
	at := strings.LastIndex(email, "@")
	if !strings.Contains(email[at+1:], ".") {
		return "", fail("email", "domain must contain a dot")
	}
	return email, nil
}

// Name allows 2-8 runes from ASCII letters, digits, underscore and
// Korean syllables.
func Name(raw string) (string, error) {
	n := utf8.RuneCountInString(raw)
	if n < NameMinLen || n > NameMaxLen {
		return "", fail("name", fmt.Sprintf("length must be %d-%d characters", NameMinLen, NameMaxLen))
	}
	if !nameRe.MatchString(raw) {
		return "", fail("name", "contains disallowed characters")
	}
	return raw, nil
}

// Password enforces length 8-64 with at least one upper, lower, digit
// and symbol, and no whitespace. The raw value is returned untouched;
// hashing belongs to the caller.
func Password(raw string) (string, error) {
	n := utf8.RuneCountInString(raw)
	if n < PasswordMinLen || n > PasswordMaxLen {
		return "", fail("password", fmt.Sprintf("length must be %d-%d characters", PasswordMinLen, PasswordMaxLen))
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			return "", fail("password", "must not contain whitespace")
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return "", fail("password", "must contain upper, lower, digit and symbol characters")
	}
	return raw, nil
}

// Title trims and checks 1-50 characters.
func Title(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fail("title", "must not be empty")
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return "", fail("title", fmt.Sprintf("length must be at most %d characters", TitleMaxLen))
	}
	return title, nil
}

// WeekNumber checks the 1..24 range.
func WeekNumber(n int) (int, error) {
	if n < 1 || n > WeekNumberMax {
		return 0, fail("week_number", fmt.Sprintf("must be between 1 and %d", WeekNumberMax))
	}
	return n, nil
}

// Lessons trims each item and checks 1..5 non-empty entries.
func Lessons(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fail("lessons", "must contain at least one lesson")
	}
	if len(raw) > LessonsMax {
		return nil, fail("lessons", fmt.Sprintf("must contain at most %d lessons", LessonsMax))
	}
	lessons := make([]string, 0, len(raw))
	for _, item := range raw {
		lesson := strings.TrimSpace(item)
		if lesson == "" {
			return nil, fail("lessons", "lesson must not be empty")
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// SummaryContent trims and checks 300..10000 characters.
func SummaryContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(content)
	if n < SummaryMinLen || n > SummaryMaxLen {
		return "", fail("content", fmt.Sprintf("length must be %d-%d characters", SummaryMinLen, SummaryMaxLen))
	}
	return content, nil
}

// FeedbackScore checks the numeric 1..10 inclusive range.
func FeedbackScore(score float64) (float64, error) {
	if score < FeedbackScoreMin || score > FeedbackScoreMax {
		return 0, fail("score", "must be between 1 and 10")
	}
	return score, nil
}

// FeedbackComment trims and rejects empty comments.
func FeedbackComment(raw string) (string, error) {
	comment := strings.TrimSpace(raw)
	if comment == "" {
		return "", fail("comment", "must not be empty")
	}
	return comment, nil
}
