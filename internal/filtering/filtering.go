// Package filtering narrows a candidate list before it is sent for screening.
package filtering

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/recruiting"
)

// Filter is a single step of the pre-screening pipeline.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, candidates []recruiting.Candidate) ([]recruiting.Candidate, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// Filtering runs filters in order.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

// New creates a pipeline from steps.
func New(steps []Filter, logger *zap.Logger) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filtering{steps: steps, logger: logger}
}

// RunFilters validates every enabled step, then applies them sequentially.
func (f *Filtering) RunFilters(ctx context.Context, candidates []recruiting.Candidate) ([]recruiting.Candidate, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, candidates)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		candidates = next
	}

	return candidates, nil
}

// Describe returns status entries for the configured filters.
func (f *Filtering) Describe() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the candidates for which drop is false and the names of those dropped.
func keep(candidates []recruiting.Candidate, drop func(recruiting.Candidate) bool) ([]recruiting.Candidate, []string) {
	kept := make([]recruiting.Candidate, 0, len(candidates))
	var dropped []string
	for _, c := range candidates {
		if drop(c) {
			dropped = append(dropped, displayName(c))
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

func displayName(c recruiting.Candidate) string {
	if c.Name != "" {
		return c.Name
	}
	if c.ProfileURL != "" {
		return c.ProfileURL
	}
	return "<unnamed>"
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
