package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"evote-api/internal/domain"
	"evote-api/internal/service"
	"evote-api/pkg/logger"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Fallback strings. The collaborator is optional decoration: every failure
// path returns one of these instead of an error, so the surrounding admin
// workflow is never blocked.
const (
	fallbackNoKeyBio       = "AI Bio generation unavailable (Missing API Key)."
	fallbackNoKeyAnalysis  = "AI Analysis unavailable (Missing API Key)."
	fallbackFailedBio      = "Bio generation failed."
	fallbackFailedAnalysis = "Analysis failed."
)

// Service implements the TextGenerator interface against the Gemini REST API.
type Service struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewService creates a new text generation service. An empty apiKey is valid
// and yields the fallback strings.
func NewService(apiKey string, logger *logger.Logger) service.TextGenerator {
	return &Service{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// GenerateBio writes a short campaign bio for a candidate.
func (s *Service) GenerateBio(ctx context.Context, name string, department domain.Department) string {
	if s.apiKey == "" {
		return fallbackNoKeyBio
	}

	prompt := fmt.Sprintf(
		"Write a professional, inspiring, short (2 sentences max) election campaign bio for a candidate named %s running for %s.",
		name, department)

	text, err := s.generateContent(ctx, prompt)
	if err != nil {
		s.logger.WithError(err).Warn("Bio generation failed, using fallback")
		return fallbackFailedBio
	}
	return text
}

// AnalyzeResults summarizes the current tallies.
func (s *Service) AnalyzeResults(ctx context.Context, candidates []domain.Candidate) string {
	if s.apiKey == "" {
		return fallbackNoKeyAnalysis
	}

	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf("%s (%s): %d votes", c.Name, c.Department, c.Votes))
	}

	prompt := fmt.Sprintf(
		"Analyze these election results briefly. Identify the leading candidates and any close races. Keep it under 100 words.\n\nData:\n%s",
		strings.Join(lines, "\n"))

	text, err := s.generateContent(ctx, prompt)
	if err != nil {
		s.logger.WithError(err).Warn("Results analysis failed, using fallback")
		return fallbackFailedAnalysis
	}
	return text
}

// Request/response shapes for the generateContent endpoint.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (s *Service) generateContent(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(&generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	text := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("empty response text")
	}
	return text, nil
}
