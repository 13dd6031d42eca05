package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spigell/schememitra/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizeEntities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, entitiesPath, r.URL.Path)
		assert.Equal(t, "ta-key", r.Header.Get("Ocp-Apim-Subscription-Key"))

		var req analyticsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Documents, 1)
		assert.Equal(t, "1", req.Documents[0].ID)
		assert.Equal(t, "en", req.Documents[0].Language)
		assert.Equal(t, "farmer from Punjab", req.Documents[0].Text)

		_, _ = w.Write([]byte(`{"documents":[{"id":"1","entities":[{"text":"Punjab","category":"Location"}]}],"errors":[]}`))
	}))
	defer server.Close()

	ta := NewTextAnalytics(TextAnalyticsConfig{APIKey: "ta-key", Endpoint: server.URL}, nil)

	raw, err := ta.RecognizeEntities(context.Background(), "farmer from Punjab")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Punjab"`)
}

func TestAnalyzeNotConfigured(t *testing.T) {
	ta := NewTextAnalytics(TextAnalyticsConfig{}, nil)

	var out map[string]string
	require.NoError(t, json.Unmarshal(ta.Analyze(context.Background(), "anything"), &out))
	assert.Equal(t, "Azure Text Analytics not configured", out["error"])

	_, err := ta.RecognizeEntities(context.Background(), "anything")
	assert.ErrorIs(t, err, ai.ErrNotConfigured)
}

func TestAnalyzeReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	ta := NewTextAnalytics(TextAnalyticsConfig{APIKey: "k", Endpoint: server.URL}, nil)

	var out map[string]string
	require.NoError(t, json.Unmarshal(ta.Analyze(context.Background(), "text"), &out))
	assert.Contains(t, out["error"], "403")
}
