package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"projectpulse/internal/config"
	"projectpulse/internal/logging"
	"projectpulse/internal/models"
)

// ErrRateLimited signals that the upstream AI service rejected the call
// with a rate-limit response. No retry is attempted.
var ErrRateLimited = errors.New("AI service is currently unavailable due to rate limiting")

// Generator produces report and summary text from project data.
// Implementations must not be called while holding any store lock.
type Generator interface {
	// SummarizeMeetingNotes returns the generator's JSON summary of free-text
	// notes, validated against the summary shape before being returned
	SummarizeMeetingNotes(ctx context.Context, notes string) (string, error)

	// GenerateWeeklyReport returns the report sections built from the
	// generator's analysis of the given tasks and meetings
	GenerateWeeklyReport(ctx context.Context, tasks []models.Task, meetings []models.Meeting) ([]models.ReportSection, error)
}

// OpenAIService implements Generator against an OpenAI-compatible
// chat-completions endpoint
type OpenAIService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewOpenAIService creates a generator client from config
func NewOpenAIService(cfg *config.Config) *OpenAIService {
	rpm := cfg.OpenAIRPM
	if rpm <= 0 {
		rpm = 20
	}
	return &OpenAIService{
		apiKey:  cfg.OpenAIAPIKey,
		baseURL: strings.TrimSuffix(cfg.OpenAIBaseURL, "/"),
		model:   cfg.OpenAIModel,
		client:  &http.Client{Timeout: cfg.OpenAITimeout},
		// outbound throttle so a burst of report requests cannot blow
		// through the provider's quota
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
	}
}

// SummarizeMeetingNotes asks the model to summarize meeting notes.
// The response is parsed to verify it matches the summary shape; the raw
// JSON string is what gets persisted.
func (s *OpenAIService) SummarizeMeetingNotes(ctx context.Context, notes string) (string, error) {
	prompt := fmt.Sprintf(`Please summarize the following meeting notes concisely, highlighting key decisions and action items:

%s

Respond with JSON in this format:
{
  "summary": string,
  "decisions": string[],
  "actionItems": string[]
}`, notes)

	content, err := s.completion(ctx, "summarize", prompt)
	if err != nil {
		return "", err
	}

	var parsed models.MeetingSummaryContent
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		GetMetrics().RecordGeneratorError("summarize", "malformed")
		return "", fmt.Errorf("generator returned malformed summary: %w", err)
	}
	if parsed.Summary == "" {
		GetMetrics().RecordGeneratorError("summarize", "malformed")
		return "", errors.New("generator returned an empty summary")
	}
	return content, nil
}

// GenerateWeeklyReport asks the model for a weekly report over the given
// tasks and meetings and converts the result into report sections
func (s *OpenAIService) GenerateWeeklyReport(ctx context.Context, tasks []models.Task, meetings []models.Meeting) ([]models.ReportSection, error) {
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	meetingsJSON, err := json.Marshal(meetings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meetings: %w", err)
	}

	prompt := fmt.Sprintf(`Generate a detailed weekly project report based on the following data:
Tasks: %s
Meetings: %s

Please analyze the data and create a professional report that includes:
1. Overall project progress
2. Key accomplishments
3. Challenges faced
4. Next week's priorities
5. Meeting highlights

Respond with JSON in this format:
{
  "summary": string,
  "accomplishments": string[],
  "challenges": string[],
  "priorities": string[],
  "meetingHighlights": string[]
}`, tasksJSON, meetingsJSON)

	content, err := s.completion(ctx, "report", prompt)
	if err != nil {
		return nil, err
	}

	var parsed models.WeeklyReportContent
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		GetMetrics().RecordGeneratorError("report", "malformed")
		return nil, fmt.Errorf("generator returned malformed report: %w", err)
	}
	if parsed.Summary == "" {
		GetMetrics().RecordGeneratorError("report", "malformed")
		return nil, errors.New("generator returned an empty report")
	}
	return parsed.Sections(), nil
}

// completion performs one chat-completions round trip and returns the
// message content
func (s *OpenAIService) completion(ctx context.Context, kind, prompt string) (string, error) {
	requestID := uuid.New().String()
	logger := logging.WithGeneration(requestID, kind)

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("generator throttle: %w", err)
	}

	requestBody := map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	reqBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	GetMetrics().RecordGeneratorRequest(kind)
	start := time.Now()

	resp, err := s.client.Do(httpReq)
	if err != nil {
		GetMetrics().RecordGeneratorError(kind, "network")
		return "", fmt.Errorf("generator request failed: %w", err)
	}
	defer resp.Body.Close()

	GetMetrics().RecordGeneratorLatency(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		GetMetrics().RecordGeneratorError(kind, "network")
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		logger.Warn("generator rate limited")
		GetMetrics().RecordGeneratorError(kind, "rate_limited")
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warn("generator API error", "status", resp.StatusCode, "body_length", len(body))
		GetMetrics().RecordGeneratorError(kind, "upstream")
		return "", fmt.Errorf("generator API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		GetMetrics().RecordGeneratorError(kind, "malformed")
		return "", fmt.Errorf("failed to parse API response: %w", err)
	}
	if len(apiResponse.Choices) == 0 || apiResponse.Choices[0].Message.Content == "" {
		GetMetrics().RecordGeneratorError(kind, "malformed")
		return "", errors.New("no content generated")
	}

	logger.Debug("generator call complete", "duration_ms", time.Since(start).Milliseconds())
	return apiResponse.Choices[0].Message.Content, nil
}
