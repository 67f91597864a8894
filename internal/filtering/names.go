package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/recruiting"
)

type namesFilter struct {
	names  map[string]struct{}
	logger *zap.Logger
}

// NewExcludedNames creates a filter that removes candidates by names configured in the config.
func NewExcludedNames(names []string, logger *zap.Logger) Filter {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return &namesFilter{names: set, logger: logger}
}

func (f *namesFilter) Name() string { return "excluded_names" }

func (f *namesFilter) Disable(string) {}

func (f *namesFilter) IsEnabled() bool { return true }

func (f *namesFilter) Validate() error { return nil }

func (f *namesFilter) Apply(_ context.Context, candidates []recruiting.Candidate) ([]recruiting.Candidate, Step, error) {
	initial := len(candidates)
	if len(f.names) == 0 {
		return candidates, Step{Initial: initial, Left: initial}, nil
	}

	kept, dropped := keep(candidates, func(c recruiting.Candidate) bool {
		_, ok := f.names[strings.TrimSpace(c.Name)]
		return ok
	})

	if f.logger != nil && len(dropped) > 0 {
		f.logger.Info("excluding candidates by name",
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *namesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		names := make([]string, 0, len(f.names))
		for n := range f.names {
			names = append(names, n)
		}
		details["names"] = strings.Join(sortedCopy(names), ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
