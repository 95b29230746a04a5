package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mfd_crm_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aiServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

const generatedConfig = `{
	"weights": {"horizon": 0.6, "loss": 0.4},
	"scoring": {
		"horizon": {"Under 1 year": 1, "1-3 years": 2, "Over 3 years": 3},
		"loss": {"Sell everything": 1, "Hold": 2, "Buy more": 3}
	},
	"thresholds": {
		"low": {"min": 0, "max": 3},
		"medium": {"min": 4, "max": 5},
		"high": {"min": 6, "max": 6}
	},
	"reasoning": "horizon weighted higher than loss reaction"
}`

func TestAIScoringGenerate(t *testing.T) {
	srv := aiServer(t, http.StatusOK, generatedConfig)
	defer srv.Close()

	svc := NewAIScoringService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
	cfg, err := svc.Generate(context.Background(), riskQuestions())
	require.NoError(t, err)
	assert.InDelta(t, 0.6, cfg.Weights["horizon"], 1e-9)
	assert.Equal(t, 3, cfg.Scoring["loss"]["Buy more"])
	assert.Equal(t, "horizon weighted higher than loss reaction", cfg.Reasoning)
}

func TestAIScoringStripsCodeFence(t *testing.T) {
	srv := aiServer(t, http.StatusOK, "```json\n"+generatedConfig+"\n```")
	defer srv.Close()

	svc := NewAIScoringService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key"})
	cfg, err := svc.Generate(context.Background(), riskQuestions())
	require.NoError(t, err)
	assert.InDelta(t, 0.4, cfg.Weights["loss"], 1e-9)
}

func TestAIScoringSurfacesErrors(t *testing.T) {
	srv := aiServer(t, http.StatusTooManyRequests, "")
	defer srv.Close()

	svc := NewAIScoringService(config.AIConfig{BaseURL: srv.URL, APIKey: "test-key"})
	_, err := svc.Generate(context.Background(), riskQuestions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	garbled := aiServer(t, http.StatusOK, "sorry, I cannot help with that")
	defer garbled.Close()

	svc = NewAIScoringService(config.AIConfig{BaseURL: garbled.URL, APIKey: "test-key"})
	_, err = svc.Generate(context.Background(), riskQuestions())
	assert.Error(t, err)
}
