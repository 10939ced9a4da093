package llm

import (
	"fmt"
	"strings"
)

// The system prompts pin the model to JSON-only output. Fences still
// show up occasionally, which is why responses go through
// stripCodeFences before parsing.

const curriculumSystemPrompt = "You are a curriculum generator. " +
	"Generate in Korean. " +
	"Output *only* valid JSON. " +
	"The JSON must be an object with `title` (string) and `schedule` " +
	"(array of objects with {week_number:int, lessons:list[str]}). " +
	"No markdown, no code fences, no explanations, nothing else. " +
	"If the request is about Computer Science, refer to the OSSU curriculum; " +
	"otherwise generate as requested."

const feedbackSystemPrompt = "You are a learning feedback generator. " +
	"Generate in Korean. " +
	"Output *only* valid JSON with exactly `comment` (string) and " +
	"`score` (number 1-10). " +
	"No markdown, no code fences, no explanations, nothing else."

func curriculumUserPrompt(goal string, periodWeeks int, difficulty, details string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "학습 목표: %s\n", goal)
	fmt.Fprintf(&b, "학습 기간: %d주\n", periodWeeks)
	if difficulty != "" {
		fmt.Fprintf(&b, "난이도: %s\n", difficulty)
	}
	if details != "" {
		fmt.Fprintf(&b, "추가 요청사항: %s\n", details)
	}
	fmt.Fprintf(&b, "\n정확히 %d주차까지, 주차별 1~5개의 학습 주제로 커리큘럼을 생성하세요.", periodWeeks)
	return b.String()
}

func feedbackUserPrompt(lessons []string, summaryText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "학습 주제들: %s\n", strings.Join(lessons, ", "))
	fmt.Fprintf(&b, "학습자의 요약: %s\n\n", summaryText)
	b.WriteString("위 요약에 대해 자세한 피드백과 점수를 제공하세요.")
	return b.String()
}
