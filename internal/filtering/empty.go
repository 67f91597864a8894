package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/recruiting"
)

type emptyFilter struct {
	logger *zap.Logger
}

// NewEmpty creates a filter that removes records with neither a name nor any captured text.
// Such records cannot be screened meaningfully.
func NewEmpty(logger *zap.Logger) Filter {
	return &emptyFilter{logger: logger}
}

func (f *emptyFilter) Name() string { return "empty_records" }

func (f *emptyFilter) Disable(string) {}

func (f *emptyFilter) IsEnabled() bool { return true }

func (f *emptyFilter) Validate() error { return nil }

func (f *emptyFilter) Apply(_ context.Context, candidates []recruiting.Candidate) ([]recruiting.Candidate, Step, error) {
	initial := len(candidates)
	kept, dropped := keep(candidates, func(c recruiting.Candidate) bool {
		return strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.RawText) == ""
	})

	if f.logger != nil && len(dropped) > 0 {
		f.logger.Info("excluding empty records",
			zap.Int("excluded", len(dropped)),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}
