package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spigell/schememitra/internal/ai"
	"github.com/spigell/schememitra/internal/logger"
	"github.com/spigell/schememitra/internal/utils"
	"go.uber.org/zap"
)

const (
	ProviderName = "Azure OpenAI"

	DefaultDeployment = "gpt-35-turbo"
	DefaultAPIVersion = "2023-05-15"
	DefaultTimeout    = 10 * time.Second

	temperature = 0.7
	topP        = 0.95
)

// Config holds the Azure OpenAI connection settings.
type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// Client calls the chat completions endpoint of an Azure OpenAI deployment.
type Client struct {
	cfg        Config
	HTTPClient *http.Client
	logger     *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func New(cfg Config, log *zap.Logger) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if cfg.Deployment = strings.TrimSpace(cfg.Deployment); cfg.Deployment == "" {
		cfg.Deployment = DefaultDeployment
	}
	if cfg.APIVersion = strings.TrimSpace(cfg.APIVersion); cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.WithFields(log, logger.ProviderFields(ProviderName, cfg.Deployment)...),
	}
}

// Configured reports whether both the key and the endpoint are set.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.Endpoint != ""
}

func (c *Client) Provider() string {
	return ProviderName
}

func (c *Client) Deployment() string {
	return c.cfg.Deployment
}

// Generate sends the prompt as the user message of a chat completion. No
// request is made when the client is not configured.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("azure openai: %w", ai.ErrNotConfigured)
	}

	body := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: ai.SystemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		TopP:        topP,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	data, err := c.request(ctx, c.completionsURL(), payload)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ai.ErrMalformedResponse)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) completionsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.cfg.Endpoint, url.PathEscape(c.cfg.Deployment), url.QueryEscape(c.cfg.APIVersion))
}

func (c *Client) request(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	setHeaders(req, "api-key", c.cfg.APIKey)

	c.logger.Debug("sending request", zap.String("method", req.Method), zap.String("path", req.URL.Path))

	resp, err := c.HTTPClient.Do(req)
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

	return data, nil
}

func setHeaders(req *http.Request, keyHeader, key string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(keyHeader, key)
}
