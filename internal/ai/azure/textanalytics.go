package azure

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

	"github.com/spigell/schememitra/internal/ai"
	"github.com/spigell/schememitra/internal/utils"
	"go.uber.org/zap"
)

const entitiesPath = "/text/analytics/v3.1/entities/recognition/general"

// TextAnalyticsConfig holds the Azure Text Analytics connection settings.
type TextAnalyticsConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// TextAnalytics recognizes named entities in free text, for example in a user profile.
type TextAnalytics struct {
	cfg        TextAnalyticsConfig
	HTTPClient *http.Client
	logger     *zap.Logger
}

type analyticsDocument struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type analyticsRequest struct {
	Documents []analyticsDocument `json:"documents"`
}

func NewTextAnalytics(cfg TextAnalyticsConfig, log *zap.Logger) *TextAnalytics {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &TextAnalytics{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.With(zap.String("provider", "Azure Text Analytics")),
	}
}

func (t *TextAnalytics) Configured() bool {
	return t.cfg.APIKey != "" && t.cfg.Endpoint != ""
}

// RecognizeEntities returns the raw entity recognition response for the text.
func (t *TextAnalytics) RecognizeEntities(ctx context.Context, text string) (json.RawMessage, error) {
	if !t.Configured() {
		return nil, fmt.Errorf("azure text analytics: %w", ai.ErrNotConfigured)
	}

	payload, err := json.Marshal(analyticsRequest{
		Documents: []analyticsDocument{{ID: "1", Language: "en", Text: text}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal entities request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint+entitiesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	setHeaders(req, "Ocp-Apim-Subscription-Key", t.cfg.APIKey)

	t.logger.Debug("sending request", zap.String("path", req.URL.Path), zap.String("text_preview", utils.TruncateForLog(text, 80)))

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ai.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d: %s", ai.ErrBadStatus, resp.StatusCode, utils.TruncateForLog(string(data), 200))
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: body is not json", ai.ErrMalformedResponse)
	}

	return json.RawMessage(data), nil
}

// Analyze never fails: problems are returned as {"error": "..."}.
func (t *TextAnalytics) Analyze(ctx context.Context, text string) json.RawMessage {
	data, err := t.RecognizeEntities(ctx, text)
	if err == nil {
		return data
	}

	message := err.Error()
	if errors.Is(err, ai.ErrNotConfigured) {
		message = "Azure Text Analytics not configured"
	} else {
		t.logger.Warn("entity recognition failed", zap.Error(err))
	}

	out, _ := json.Marshal(map[string]string{"error": message})
	return out
}
