package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParsedCurriculum is the normalized result of a curriculum generation
// call, before domain validation.
type ParsedCurriculum struct {
	Title    string
	Schedule []ParsedWeek
}

type ParsedWeek struct {
	WeekNumber int
	Lessons    []string
}

// ParsedFeedback carries the required comment/score pair plus any of
// the optional per-dimension scores the model chose to emit.
type ParsedFeedback struct {
	Comment        string
	Score          float64
	DetailedScores map[string]float64
}

var detailedScoreKeys = []string{
	"cognitive_load_retention",
	"engagement_behavior",
	"transfer_application",
	"competency_performance",
	"realtime_analytics",
}

// stripCodeFences drops a leading ```/```json line and a trailing ```
// line. Models add fences despite the system prompt.
func stripCodeFences(src string) string {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	body := lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		body = lines[1 : len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

type scheduleItemJSON struct {
	WeekNumber    *int     `json:"week_number"`
	WeekNumberAlt *int     `json:"weekNumber"`
	Lessons       []string `json:"lessons"`
	Topics        []string `json:"topics"`
}

func (it *scheduleItemJSON) toWeek() (ParsedWeek, error) {
	n := it.WeekNumber
	if n == nil {
		n = it.WeekNumberAlt
	}
	if n == nil {
		return ParsedWeek{}, fmt.Errorf("schedule item missing week_number")
	}
	lessons := it.Lessons
	if len(lessons) == 0 {
		lessons = it.Topics
	}
	if len(lessons) == 0 {
		return ParsedWeek{}, fmt.Errorf("schedule item for week %d missing lessons", *n)
	}
	return ParsedWeek{WeekNumber: *n, Lessons: lessons}, nil
}

type curriculumJSON struct {
	Title    string             `json:"title"`
	Schedule []scheduleItemJSON `json:"schedule"`
}

// parseCurriculum accepts, in order of tolerance:
//  1. {title, schedule: [...]}
//  2. [{title, schedule}] single-element wrapper
//  3. [{week_number, lessons|topics}, ...] bare schedule; title falls
//     back to fallbackTitle.
func parseCurriculum(raw string, fallbackTitle string) (*ParsedCurriculum, error) {
	text := stripCodeFences(raw)

	var doc curriculumJSON
	switch {
	case strings.HasPrefix(text, "{"):
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, NewError(KindFormat, raw, err)
		}
	case strings.HasPrefix(text, "["):
		var wrapped []curriculumJSON
		if err := json.Unmarshal([]byte(text), &wrapped); err == nil && len(wrapped) == 1 && len(wrapped[0].Schedule) > 0 {
			doc = wrapped[0]
			break
		}
		var bare []scheduleItemJSON
		if err := json.Unmarshal([]byte(text), &bare); err != nil {
			return nil, NewError(KindFormat, raw, err)
		}
		doc = curriculumJSON{Title: fallbackTitle, Schedule: bare}
	default:
		return nil, NewError(KindFormat, raw, fmt.Errorf("response is not a JSON object or array"))
	}

	if len(doc.Schedule) == 0 {
		return nil, NewError(KindContract, raw, fmt.Errorf("curriculum response has no schedule"))
	}
	if doc.Title == "" {
		doc.Title = fallbackTitle
	}

	out := &ParsedCurriculum{Title: doc.Title, Schedule: make([]ParsedWeek, 0, len(doc.Schedule))}
	for _, item := range doc.Schedule {
		week, err := item.toWeek()
		if err != nil {
			return nil, NewError(KindContract, raw, err)
		}
		out.Schedule = append(out.Schedule, week)
	}
	return out, nil
}

func parseFeedback(raw string) (*ParsedFeedback, error) {
	text := stripCodeFences(raw)

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, NewError(KindFormat, raw, err)
	}

	commentRaw, ok := doc["comment"]
	if !ok {
		return nil, NewError(KindContract, raw, fmt.Errorf("feedback response missing comment"))
	}
	var comment string
	if err := json.Unmarshal(commentRaw, &comment); err != nil || strings.TrimSpace(comment) == "" {
		return nil, NewError(KindContract, raw, fmt.Errorf("feedback comment is not a usable string"))
	}

	scoreRaw, ok := doc["score"]
	if !ok {
		return nil, NewError(KindContract, raw, fmt.Errorf("feedback response missing score"))
	}
	var score float64
	if err := json.Unmarshal(scoreRaw, &score); err != nil {
		return nil, NewError(KindContract, raw, fmt.Errorf("feedback score is not numeric"))
	}
	if score < 1 || score > 10 {
		return nil, NewError(KindContract, raw, fmt.Errorf("feedback score %v out of range", score))
	}

	out := &ParsedFeedback{Comment: comment, Score: score}
	for _, key := range detailedScoreKeys {
		v, ok := doc[key]
		if !ok {
			continue
		}
		var sub float64
		if err := json.Unmarshal(v, &sub); err != nil {
			continue
		}
		if out.DetailedScores == nil {
			out.DetailedScores = make(map[string]float64, len(detailedScoreKeys))
		}
		out.DetailedScores[key] = sub
	}
	return out, nil
}
