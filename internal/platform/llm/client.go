package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-backend/internal/platform/httpx"
	"github.com/studyloop/studyloop-backend/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultModel = "gpt-4o"

// Client is the gateway to the external model endpoint. It holds no
// mutable state beyond its credentials; retries are the caller's
// decision, never the gateway's.
type Client interface {
	GenerateCurriculum(ctx context.Context, goal string, periodWeeks int, difficulty, details string) (*ParsedCurriculum, error)
	GenerateFeedback(ctx context.Context, lessons []string, summaryText string) (*ParsedFeedback, error)
}

type client struct {
	endpoint   string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	log        *logger.Logger
	tracer     trace.Tracer
}

func NewClient(endpoint, apiKey string, timeout time.Duration, baseLog *logger.Logger) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      defaultModel,
		timeout:    timeout,
		httpClient: &http.Client{},
		log:        baseLog.With("service", "LLMClient"),
		tracer:     otel.Tracer("studyloop/llm"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *client) GenerateCurriculum(ctx context.Context, goal string, periodWeeks int, difficulty, details string) (*ParsedCurriculum, error) {
	ctx, span := c.tracer.Start(ctx, "llm.generate_curriculum",
		trace.WithAttributes(attribute.Int("period_weeks", periodWeeks)))
	defer span.End()

	raw, err := c.chat(ctx, curriculumSystemPrompt, curriculumUserPrompt(goal, periodWeeks, difficulty, details))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat failed")
		return nil, err
	}

	parsed, err := parseCurriculum(raw, goal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		c.log.Warn("curriculum response unparseable", "raw", raw, "error", err.Error())
		return nil, err
	}
	return parsed, nil
}

func (c *client) GenerateFeedback(ctx context.Context, lessons []string, summaryText string) (*ParsedFeedback, error) {
	ctx, span := c.tracer.Start(ctx, "llm.generate_feedback",
		trace.WithAttributes(attribute.Int("lesson_count", len(lessons))))
	defer span.End()

	raw, err := c.chat(ctx, feedbackSystemPrompt, feedbackUserPrompt(lessons, summaryText))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat failed")
		return nil, err
	}

	parsed, err := parseFeedback(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		c.log.Warn("feedback response unparseable", "raw", raw, "error", err.Error())
		return nil, err
	}
	return parsed, nil
}

// chat submits one message pair under the gateway's total deadline and
// returns the model's text.
func (c *client) chat(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := uuid.NewString()

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", NewError(KindTransport, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", NewError(KindTransport, "", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if httpx.IsTimeout(err) {
			c.log.Warn("LLM request timed out", "request_id", requestID, "elapsed", time.Since(start).String())
			return "", NewError(KindTimeout, "", err)
		}
		return "", NewError(KindTransport, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if httpx.IsTimeout(err) {
			return "", NewError(KindTimeout, "", err)
		}
		return "", NewError(KindTransport, "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("LLM request failed",
			"request_id", requestID,
			"status", resp.StatusCode,
			"elapsed", time.Since(start).String(),
		)
		return "", NewError(KindTransport, string(raw), fmt.Errorf("llm endpoint returned status %d", resp.StatusCode))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", NewError(KindFormat, string(raw), err)
	}
	if len(decoded.Choices) == 0 {
		return "", NewError(KindFormat, string(raw), fmt.Errorf("llm response has no choices"))
	}

	text := decoded.Choices[0].Message.Content
	c.log.Debug("LLM raw response", "request_id", requestID, "elapsed", time.Since(start).String(), "raw", text)
	return text, nil
}
