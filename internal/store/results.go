package store

import (
	"context"

	"github.com/spigell/resume-screener/internal/recruiting"
)

// MaxResults bounds the result cache.
const MaxResults = 100

// Criteria returns the saved criteria, or nil when none were saved.
func (s *Store) Criteria(ctx context.Context) (*recruiting.Criteria, error) {
	var criteria recruiting.Criteria
	found, err := s.get(ctx, KeyCriteria, &criteria)
	if err != nil || !found {
		return nil, err
	}
	return &criteria, nil
}

// SaveCriteria replaces the saved criteria.
func (s *Store) SaveCriteria(ctx context.Context, criteria recruiting.Criteria) error {
	return s.put(ctx, KeyCriteria, criteria)
}

// Results returns cached evaluations, most recent first.
func (s *Store) Results(ctx context.Context) ([]recruiting.Evaluation, error) {
	results := []recruiting.Evaluation{}
	if _, err := s.get(ctx, KeyResults, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []recruiting.Evaluation{}
	}
	return results, nil
}

// PrependResults puts evaluations in front of the cache, keeping their order, and drops the
// oldest entries beyond MaxResults.
func (s *Store) PrependResults(ctx context.Context, evaluations ...recruiting.Evaluation) error {
	if len(evaluations) == 0 {
		return nil
	}

	cached, err := s.Results(ctx)
	if err != nil {
		return err
	}

	merged := make([]recruiting.Evaluation, 0, len(evaluations)+len(cached))
	merged = append(merged, evaluations...)
	merged = append(merged, cached...)
	if len(merged) > MaxResults {
		merged = merged[:MaxResults]
	}

	return s.put(ctx, KeyResults, merged)
}

// ClearResults empties the result cache.
func (s *Store) ClearResults(ctx context.Context) error {
	return s.put(ctx, KeyResults, []recruiting.Evaluation{})
}
