// Package screening evaluates candidates against hiring criteria with a chat model.
package screening

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/recruiting"
	"github.com/spigell/resume-screener/internal/utils"
)

const (
	// DefaultConcurrency is the chunk size used when a batch gives no usable limit.
	DefaultConcurrency = 3
	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 90 * time.Second

	ScreenTemperature  = 0.3
	CompareTemperature = 0.4

	pingPrompt = "请回复 ok"
)

// Options tunes a Screener.
type Options struct {
	// Timeout bounds each model call; zero uses DefaultTimeout, negative disables it.
	Timeout time.Duration
}

// Screener turns candidates into evaluations using a Completer.
type Screener struct {
	completer ai.Completer
	timeout   time.Duration
	logger    *zap.Logger
}

// New builds a Screener over completer.
func New(completer ai.Completer, opts Options, log *zap.Logger) *Screener {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Screener{
		completer: completer,
		timeout:   timeout,
		logger:    logger.WithCommonFields(log, completer.Provider(), completer.Model()),
	}
}

// Screen evaluates one candidate. Endpoint failures are returned; unreadable replies are not
// errors and come back as degraded evaluations.
func (s *Screener) Screen(ctx context.Context, c recruiting.Candidate, criteria recruiting.Criteria) (recruiting.Evaluation, error) {
	evaluation, err := s.screen(ctx, c, criteria)
	if err != nil {
		return recruiting.Evaluation{}, fmt.Errorf("screen candidate %q: %w", c.Name, err)
	}
	return evaluation, nil
}

func (s *Screener) screen(ctx context.Context, c recruiting.Candidate, criteria recruiting.Criteria) (recruiting.Evaluation, error) {
	raw, err := s.complete(ctx, ai.Request{
		Messages: []ai.Message{
			ai.System(SystemPrompt()),
			ai.User(BuildScreeningPrompt(c, criteria)),
		},
		Temperature: ScreenTemperature,
		JSON:        true,
	})
	if err != nil {
		return recruiting.Evaluation{}, err
	}

	evaluation := ParseEvaluation(raw, c.Name)
	if evaluation.Summary == ParseFailureSummary {
		s.logger.Warn("model reply could not be parsed",
			zap.String("candidate", c.Name),
			zap.String("reply_preview", utils.TruncateForLog(raw, 200)),
		)
	}

	s.logger.Debug("candidate screened",
		zap.String("candidate", evaluation.CandidateName),
		zap.Float64("score", evaluation.OverallScore),
		zap.String("recommendation", string(evaluation.Recommendation)),
	)

	return evaluation, nil
}

// ScreenBatch evaluates candidates in consecutive chunks of limit concurrent calls. A chunk
// finishes completely before the next starts. Failed calls become degraded results. The result
// is sorted by descending score; ties keep submission order.
func (s *Screener) ScreenBatch(ctx context.Context, candidates []recruiting.Candidate, criteria recruiting.Criteria, limit int) []recruiting.Evaluation {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	log := s.logger.With(zap.String(logger.FieldBatchID, uuid.NewString()))
	chunks := utils.Chunk(candidates, limit)

	log.Info("batch screening started",
		zap.Int("candidates", len(candidates)),
		zap.Int("limit", limit),
		zap.Int("chunks", len(chunks)),
	)

	results := make([]recruiting.Evaluation, 0, len(candidates))
	failed := 0

	for i, chunk := range chunks {
		evaluations := make([]recruiting.Evaluation, len(chunk))
		errs := make([]error, len(chunk))

		var g errgroup.Group
		for j, c := range chunk {
			g.Go(func() error {
				evaluations[j], errs[j] = s.screen(ctx, c, criteria)
				return nil
			})
		}
		_ = g.Wait()

		for j, err := range errs {
			if err == nil {
				continue
			}
			failed++
			log.Warn("candidate screening failed",
				zap.String("candidate", chunk[j].Name),
				zap.Error(err),
			)
			evaluations[j] = recruiting.Degraded(chunk[j].Name, failureSummary(err))
		}

		results = append(results, evaluations...)
		log.Debug("chunk screened", zap.Int("chunk", i+1), zap.Int("size", len(chunk)))
	}

	SortByScore(results)

	log.Info("batch screening finished",
		zap.Int("results", len(results)),
		zap.Int("failed", failed),
	)

	return results
}

// Compare asks for a Markdown comparison report of candidates.
func (s *Screener) Compare(ctx context.Context, candidates []recruiting.Candidate, criteria recruiting.Criteria) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New("no candidates to compare")
	}

	report, err := s.complete(ctx, ai.Request{
		Messages: []ai.Message{
			ai.System(ComparisonSystemPrompt),
			ai.User(BuildComparisonPrompt(candidates, criteria)),
		},
		Temperature: CompareTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("compare candidates: %w", err)
	}

	return report, nil
}

// Ping checks that the model answers at all.
func (s *Screener) Ping(ctx context.Context) (bool, error) {
	reply, err := s.complete(ctx, ai.Request{Messages: []ai.Message{ai.User(pingPrompt)}})
	if err != nil {
		return false, err
	}
	return reply != "", nil
}

// SortByScore orders evaluations by descending overall score, keeping the order of ties.
func SortByScore(evaluations []recruiting.Evaluation) {
	sort.SliceStable(evaluations, func(i, j int) bool {
		return evaluations[i].OverallScore > evaluations[j].OverallScore
	})
}

func (s *Screener) complete(ctx context.Context, req ai.Request) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.completer.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("model call timed out after %s: %w", s.timeout, err)
		}
		return "", err
	}
	return reply, nil
}

func failureSummary(err error) string {
	return "筛选失败：" + err.Error()
}
