// Package azure calls Azure OpenAI chat-completion deployments.
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
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/utils"
)

const (
	providerName = "azure"
	// APIVersion is the chat-completions API version the client speaks.
	APIVersion = "2024-12-01-preview"
	// DefaultDeployment is used when the settings carry no deployment name.
	DefaultDeployment = "gpt-5.2"

	defaultMaxLogLength = 200
	maxErrorBody        = 64 << 10
)

// StatusError is returned for any non-2xx reply from the endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Azure OpenAI 调用失败 (%d): %s", e.StatusCode, e.Body)
}

// Config describes one deployment.
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
	// RequestsPerSecond throttles outgoing calls; zero disables throttling.
	RequestsPerSecond float64
	MaxLogLength      int
	HTTPClient        *http.Client
}

// Client implements ai.Completer against an Azure OpenAI deployment.
type Client struct {
	url       string
	apiKey    string
	deploy    string
	http      *http.Client
	limiter   *rate.Limiter
	maxLogLen int
	logger    *zap.Logger
}

var _ ai.Completer = (*Client)(nil)

type chatRequest struct {
	Messages       []ai.Message    `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// New validates cfg and builds a Client. A missing endpoint or key yields ai.ErrNotConfigured.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	apiKey := strings.TrimSpace(cfg.APIKey)
	if endpoint == "" || apiKey == "" {
		return nil, ai.ErrNotConfigured
	}

	deployment := strings.TrimSpace(cfg.Deployment)
	if deployment == "" {
		deployment = DefaultDeployment
	}

	target, err := url.JoinPath(endpoint, "openai", "deployments", deployment, "chat/completions")
	if err != nil {
		return nil, fmt.Errorf("invalid azure endpoint %q: %w", endpoint, err)
	}
	target += "?api-version=" + APIVersion

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	c := &Client{
		url:       target,
		apiKey:    apiKey,
		deploy:    deployment,
		http:      httpClient,
		maxLogLen: maxLogLen,
		logger:    logger.WithCommonFields(log, providerName, deployment),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return c, nil
}

func (c *Client) Provider() string { return providerName }

func (c *Client) Model() string { return c.deploy }

// Complete posts the conversation and returns choices[0].message.content, or "" when absent.
func (c *Client) Complete(ctx context.Context, req ai.Request) (string, error) {
	body := chatRequest{
		Messages:    req.Messages,
		Temperature: req.Temperature,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	prompt := lastUserContent(req.Messages)
	c.logger.Debug("azure chat completion request",
		zap.Int("messages", len(req.Messages)),
		zap.Float64("temperature", req.Temperature),
		zap.Bool("json", req.JSON),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	content := ""
	if len(decoded.Choices) > 0 {
		content = decoded.Choices[0].Message.Content
	}

	c.logger.Debug("azure chat completion response",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("response_length", utf8.RuneCountInString(content)),
		zap.String("response_preview", utils.TruncateForLog(content, c.maxLogLen)),
	)

	return content, nil
}

func lastUserContent(messages []ai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
