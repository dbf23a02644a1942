package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"projectpulse/internal/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: baseURL,
		OpenAIModel:   "gpt-4o",
		OpenAITimeout: 5 * time.Second,
		OpenAIRPM:     600,
	}
}

// completionResponse builds a chat-completions body whose message content
// is the given string
func completionResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestSummarizeMeetingNotes(t *testing.T) {
	summaryJSON := `{"summary":"Budget reviewed","decisions":["approve Q1"],"actionItems":["send minutes"]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Unexpected auth header %q", got)
		}

		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "gpt-4o" {
			t.Errorf("Unexpected model %v", req["model"])
		}
		messages := req["messages"].([]any)
		content := messages[0].(map[string]any)["content"].(string)
		if !strings.Contains(content, "Discussed Q1 budget") {
			t.Error("Prompt does not include the notes")
		}

		json.NewEncoder(w).Encode(completionResponse(summaryJSON))
	}))
	defer server.Close()

	svc := NewOpenAIService(testConfig(server.URL))
	got, err := svc.SummarizeMeetingNotes(context.Background(), "Discussed Q1 budget")
	if err != nil {
		t.Fatalf("SummarizeMeetingNotes failed: %v", err)
	}
	if got != summaryJSON {
		t.Errorf("Expected raw summary JSON back, got %q", got)
	}
}

func TestSummarizeMapsRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewOpenAIService(testConfig(server.URL))
	_, err := svc.SummarizeMeetingNotes(context.Background(), "notes")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestSummarizeRejectsMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionResponse("this is not json"))
	}))
	defer server.Close()

	svc := NewOpenAIService(testConfig(server.URL))
	if _, err := svc.SummarizeMeetingNotes(context.Background(), "notes"); err == nil {
		t.Error("Expected an error for malformed generator output")
	}
}

func TestSummarizeRejectsEmptySummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionResponse(`{"summary":"","decisions":[],"actionItems":[]}`))
	}))
	defer server.Close()

	svc := NewOpenAIService(testConfig(server.URL))
	got, err := svc.SummarizeMeetingNotes(context.Background(), "notes")
	if err == nil {
		t.Error("Expected an error for a shape-valid but empty summary")
	}
	if got != "" {
		t.Errorf("Expected no summary returned, got %q", got)
	}
}

func TestGenerateWeeklyReportRejectsEmptySummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionResponse(`{"summary":"","accomplishments":[],"challenges":[],"priorities":[],"meetingHighlights":[]}`))
	}))
	defer server.Close()

	svc := NewOpenAIService(testConfig(server.URL))
	sections, err := svc.GenerateWeeklyReport(context.Background(), taskFixture("Write spec"), nil)
	if err == nil {
		t.Error("Expected an error for a shape-valid but empty report")
	}
	if sections != nil {
		t.Errorf("Expected no sections returned, got %+v", sections)
	}
}

func TestSummarizeRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	svc := NewOpenAIService(testConfig(server.URL))
	if _, err := svc.SummarizeMeetingNotes(context.Background(), "notes"); err == nil {
		t.Error("Expected an error for an empty response")
	}
}

func TestSummarizeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewOpenAIService(testConfig(server.URL))
	_, err := svc.SummarizeMeetingNotes(context.Background(), "notes")
	if err == nil {
		t.Fatal("Expected an error for upstream 500")
	}
	if errors.Is(err, ErrRateLimited) {
		t.Error("Upstream 500 must not map to ErrRateLimited")
	}
}

func TestGenerateWeeklyReportSections(t *testing.T) {
	reportJSON := `{"summary":"On track","accomplishments":["API shipped"],"challenges":[],"priorities":["tests"],"meetingHighlights":["kickoff held"]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		messages := req["messages"].([]any)
		content := messages[0].(map[string]any)["content"].(string)
		if !strings.Contains(content, "Write spec") {
			t.Error("Prompt does not include task data")
		}
		json.NewEncoder(w).Encode(completionResponse(reportJSON))
	}))
	defer server.Close()

	svc := NewOpenAIService(testConfig(server.URL))
	tasks := taskFixture("Write spec")
	sections, err := svc.GenerateWeeklyReport(context.Background(), tasks, nil)
	if err != nil {
		t.Fatalf("GenerateWeeklyReport failed: %v", err)
	}
	if len(sections) != 5 {
		t.Fatalf("Expected 5 sections, got %d", len(sections))
	}
	if sections[0].Items[0] != "On track" {
		t.Errorf("Unexpected summary section: %+v", sections[0])
	}
	if sections[1].Items[0] != "API shipped" {
		t.Errorf("Unexpected accomplishments section: %+v", sections[1])
	}
}
