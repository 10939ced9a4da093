package validate

import (
	"strings"
	"testing"
)

func TestEmail(t *testing.T) {
	got, err := Email("User@Example.COM")
	if err != nil {
		t.Fatalf("Email: %v", err)
	}
	if got != "user@example.com" {
		t.Fatalf("Email: expected lowercased, got %q", got)
	}

	for _, raw := range []string{"", "user", "user@example", "us er@example.com", "user@@example.com"} {
		if _, err := Email(raw); err == nil {
			t.Errorf("Email(%q): expected error", raw)
		}
	}
}

func TestName(t *testing.T) {
	for _, raw := range []string{"ab", "user_01", "홍길동", "학습자8"} {
		if _, err := Name(raw); err != nil {
			t.Errorf("Name(%q): %v", raw, err)
		}
	}
	for _, raw := range []string{"a", "abcdefghi", "user name", "user-01", ""} {
		if _, err := Name(raw); err == nil {
			t.Errorf("Name(%q): expected error", raw)
		}
	}
}

func TestPassword(t *testing.T) {
	if _, err := Password("Abcdef1!"); err != nil {
		t.Fatalf("Password: %v", err)
	}
	for _, raw := range []string{
		"Abcde1!",                          // too short
		strings.Repeat("Aa1!", 17),         // too long
		"abcdefg1!",                        // no upper
		"ABCDEFG1!",                        // no lower
		"Abcdefgh!",                        // no digit
		"Abcdefg12",                        // no symbol
		"Abcdef 1!",                        // whitespace
	} {
		if _, err := Password(raw); err == nil {
			t.Errorf("Password(%q): expected error", raw)
		}
	}
}

func TestTitle(t *testing.T) {
	got, err := Title("  Study Plan  ")
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if got != "Study Plan" {
		t.Fatalf("Title: expected trimmed, got %q", got)
	}

	if _, err := Title(strings.Repeat("a", 50)); err != nil {
		t.Errorf("Title(50 chars): %v", err)
	}
	if _, err := Title("a"); err != nil {
		t.Errorf("Title(1 char): %v", err)
	}
	if _, err := Title(""); err == nil {
		t.Error("Title(empty): expected error")
	}
	if _, err := Title("   "); err == nil {
		t.Error("Title(whitespace): expected error")
	}
	if _, err := Title(strings.Repeat("a", 51)); err == nil {
		t.Error("Title(51 chars): expected error")
	}
}

func TestWeekNumber(t *testing.T) {
	for _, n := range []int{1, 24} {
		if _, err := WeekNumber(n); err != nil {
			t.Errorf("WeekNumber(%d): %v", n, err)
		}
	}
	for _, n := range []int{0, 25, -1} {
		if _, err := WeekNumber(n); err == nil {
			t.Errorf("WeekNumber(%d): expected error", n)
		}
	}
}

func TestLessons(t *testing.T) {
	got, err := Lessons([]string{" Intro ", "Setup"})
	if err != nil {
		t.Fatalf("Lessons: %v", err)
	}
	if got[0] != "Intro" || got[1] != "Setup" {
		t.Fatalf("Lessons: expected trimmed items, got %v", got)
	}

	if _, err := Lessons([]string{"a", "b", "c", "d", "e"}); err != nil {
		t.Errorf("Lessons(5 items): %v", err)
	}
	if _, err := Lessons(nil); err == nil {
		t.Error("Lessons(empty): expected error")
	}
	if _, err := Lessons([]string{""}); err == nil {
		t.Error("Lessons([\"\"]): expected error")
	}
	if _, err := Lessons([]string{"a", "b", "c", "d", "e", "f"}); err == nil {
		t.Error("Lessons(6 items): expected error")
	}
}

func TestSummaryContent(t *testing.T) {
	if _, err := SummaryContent(strings.Repeat("a", 300)); err != nil {
		t.Errorf("SummaryContent(300): %v", err)
	}
	if _, err := SummaryContent(strings.Repeat("a", 10000)); err != nil {
		t.Errorf("SummaryContent(10000): %v", err)
	}
	if _, err := SummaryContent(strings.Repeat("a", 299)); err == nil {
		t.Error("SummaryContent(299): expected error")
	}
	if _, err := SummaryContent(strings.Repeat("a", 10001)); err == nil {
		t.Error("SummaryContent(10001): expected error")
	}
	// Trimming happens before the length check.
	if _, err := SummaryContent("  " + strings.Repeat("a", 299) + "  "); err == nil {
		t.Error("SummaryContent(padded 299): expected error")
	}
}

func TestFeedbackScore(t *testing.T) {
	for _, s := range []float64{1.0, 10.0, 7.5} {
		if _, err := FeedbackScore(s); err != nil {
			t.Errorf("FeedbackScore(%v): %v", s, err)
		}
	}
	for _, s := range []float64{0.9, 10.1, 0, -1} {
		if _, err := FeedbackScore(s); err == nil {
			t.Errorf("FeedbackScore(%v): expected error", s)
		}
	}
}

func TestFeedbackComment(t *testing.T) {
	got, err := FeedbackComment(" good work ")
	if err != nil {
		t.Fatalf("FeedbackComment: %v", err)
	}
	if got != "good work" {
		t.Fatalf("FeedbackComment: expected trimmed, got %q", got)
	}
	if _, err := FeedbackComment("   "); err == nil {
		t.Error("FeedbackComment(whitespace): expected error")
	}
}
