package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/utils"
)

const (
	providerName = "gemini"
	defaultModel = "gemini-2.5-pro"

	defaultMaxRetries   = 3
	defaultMaxLogLength = 200
	retryBaseDelay      = 2 * time.Second
	// maxQuotaDelay is the longest server-requested wait we are willing to sleep through.
	maxQuotaDelay = 30 * time.Second
)

var sleep = time.Sleep

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type sdkChats struct {
	chats *genai.Chats
}

func (s sdkChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	return s.chats.Create(ctx, model, config, history)
}

// Options configures a Generator.
type Options struct {
	APIKey       string
	Model        string
	MaxRetries   int
	MaxLogLength int
}

// Generator implements ai.Completer on the Google GenAI chat API.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

var _ ai.Completer = (*Generator)(nil)

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, opts Options, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}

	return &Generator{
		chats:      sdkChats{chats: client.Chats},
		model:      model,
		maxRetries: opts.MaxRetries,
		maxLogLen:  opts.MaxLogLength,
		logger:     logger.WithCommonFields(log, providerName, model),
	}, nil
}

func (g *Generator) Provider() string { return providerName }

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// Complete sends the last message of req as a chat turn; earlier turns become history
// and system messages become the system instruction.
func (g *Generator) Complete(ctx context.Context, req ai.Request) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	system, turns := ai.SplitSystem(req.Messages)
	if len(turns) == 0 {
		return "", errors.New("request has no user message")
	}

	last := turns[len(turns)-1]
	message := strings.TrimSpace(last.Content)
	if message == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, turn := range turns[:len(turns)-1] {
		role := genai.Role(genai.RoleUser)
		if turn.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(turn.Content, role))
	}

	log := g.logger
	if log == nil {
		log = zap.NewNop()
	}

	attempts := max(g.maxRetries, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		log.Debug("gemini generate content request",
			zap.Int("attempt", attempt),
			zap.Int("prompt_length", utf8.RuneCountInString(message)),
			zap.String("prompt_preview", utils.TruncateForLog(message, g.logLimit())),
		)

		output, err := g.send(ctx, config, history, message)
		if err == nil {
			log.Debug("gemini generate content response",
				zap.Int("response_length", utf8.RuneCountInString(output)),
				zap.String("response_preview", utils.TruncateForLog(output, g.logLimit())),
			)
			return output, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}

		log.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		sleep(delay)
	}

	return "", lastErr
}

func (g *Generator) send(ctx context.Context, config *genai.GenerateContentConfig, history []*genai.Content, message string) (string, error) {
	chat, err := g.chats.Create(ctx, g.model, config, history)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output := responseText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

func (g *Generator) logLimit() int {
	if g.maxLogLen <= 0 {
		return defaultMaxLogLength
	}
	return g.maxLogLen
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// retryDelay decides whether err is worth another attempt and how long to wait first.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		if requested, ok := requestedDelay(apiErr.Message); ok {
			if requested > maxQuotaDelay {
				return 0, false
			}
			return requested, true
		}
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
	default:
		return 0, false
	}

	return time.Duration(attempt) * retryBaseDelay, true
}

func requestedDelay(message string) (time.Duration, bool) {
	match := retryAfterPattern.FindStringSubmatch(message)
	if len(match) != 2 {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
