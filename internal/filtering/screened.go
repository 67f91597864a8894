package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/recruiting"
)

const rescreenFlagSetMsg = "rescreen flag is set"

// ResultsReader lists cached evaluations.
type ResultsReader interface {
	Results(ctx context.Context) ([]recruiting.Evaluation, error)
}

type screenedHistoryFilter struct {
	results ResultsReader
	ignore  bool
	logger  *zap.Logger
}

// NewScreenedHistory creates a filter that removes candidates already present in the result cache.
// With ignore set the filter passes everything through.
func NewScreenedHistory(results ResultsReader, ignore bool, logger *zap.Logger) Filter {
	return &screenedHistoryFilter{results: results, ignore: ignore, logger: logger}
}

func (f *screenedHistoryFilter) Name() string { return "screened_history" }

func (f *screenedHistoryFilter) Disable(string) {}

func (f *screenedHistoryFilter) IsEnabled() bool { return true }

func (f *screenedHistoryFilter) Validate() error {
	if f.results == nil && !f.ignore {
		return errors.New("result store is required")
	}
	return nil
}

func (f *screenedHistoryFilter) Apply(ctx context.Context, candidates []recruiting.Candidate) ([]recruiting.Candidate, Step, error) {
	initial := len(candidates)
	if f.ignore {
		if f.logger != nil {
			f.logger.Info("ignoring already screened candidates", zap.String("reason", rescreenFlagSetMsg))
		}
		return candidates, Step{Initial: initial, Left: initial}, nil
	}

	cached, err := f.results.Results(ctx)
	if err != nil {
		return candidates, Step{}, fmt.Errorf("get cached results: %w", err)
	}

	screened := make(map[string]struct{}, len(cached))
	for _, ev := range cached {
		if ev.CandidateName != "" {
			screened[ev.CandidateName] = struct{}{}
		}
	}

	kept, dropped := keep(candidates, func(c recruiting.Candidate) bool {
		_, ok := screened[c.Name]
		return ok
	})

	if f.logger != nil && len(dropped) > 0 {
		f.logger.Info("excluding candidates based on cached results",
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *screenedHistoryFilter) Status() Status {
	details := map[string]string{
		"exclude_screened": strconv.FormatBool(!f.ignore),
	}
	reason := ""
	if f.ignore {
		reason = "skip requested via flag"
	}
	return Status{Name: f.Name(), Enabled: true, Reason: reason, Details: details}
}
