package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mfd_crm_backend/internal/config"
	"mfd_crm_backend/internal/scoring"
)

// ScoringGenerator produces a scoring configuration for a question list.
// The deterministic compiler is the default; the AI-backed implementation
// is swapped in where a distributor asks for generated scoring.
type ScoringGenerator interface {
	Generate(ctx context.Context, questions []scoring.Question) (scoring.ScoringConfig, error)
}

// DefaultScoringGenerator wraps the deterministic compiler.
type DefaultScoringGenerator struct{}

func (DefaultScoringGenerator) Generate(_ context.Context, questions []scoring.Question) (scoring.ScoringConfig, error) {
	return scoring.CompileScoring(questions), nil
}

// AIScoringService asks an OpenAI-compatible completions endpoint for a
// scoring configuration. Errors are returned to the caller as-is; there is
// no retry and no silent fallback to the compiler.
type AIScoringService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIScoringService(cfg config.AIConfig) *AIScoringService {
	return &AIScoringService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type aiChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type aiChatResponse struct {
	Choices []struct {
		Message aiChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const scoringPrompt = `You are a risk-profiling analyst for mutual fund distribution. Given the questionnaire below, produce a scoring configuration as a single JSON object with keys "weights" (question id to weight in [0,1], summing to 1), "scoring" (question id to a map of option value to integer points), "thresholds" ({"low":{"min","max"},"medium":{...},"high":{...}}, contiguous and covering the achievable range) and "reasoning" (a short explanation). Respond with JSON only, no prose and no code fences.`

func (s *AIScoringService) Generate(ctx context.Context, questions []scoring.Question) (scoring.ScoringConfig, error) {
	var cfg scoring.ScoringConfig

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return cfg, err
	}

	reqBody := map[string]interface{}{
		"model": s.config.Model,
		"messages": []aiChatMessage{
			{Role: "system", Content: scoringPrompt},
			{Role: "user", Content: string(questionsJSON)},
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return cfg, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return cfg, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return cfg, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return cfg, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp aiChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return cfg, err
	}
	if chatResp.Error != nil {
		return cfg, fmt.Errorf("AI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return cfg, fmt.Errorf("AI API returned no choices")
	}

	content := stripCodeFence(chatResp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &cfg); err != nil {
		return cfg, fmt.Errorf("parse generated scoring config: %w", err)
	}
	if len(cfg.Weights) == 0 {
		return cfg, fmt.Errorf("generated scoring config has no weights")
	}

	return cfg, nil
}

// stripCodeFence tolerates models that wrap JSON in markdown fences despite
// the prompt.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
