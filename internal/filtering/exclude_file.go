package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/recruiting"
)

// ExcludedCandidates is the content of an exclude file.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate `json:"items"`
}

// ExcludedCandidate identifies a candidate that must not be screened again.
type ExcludedCandidate struct {
	Name       string    `json:"name"`
	ProfileURL string    `json:"profileUrl,omitempty"`
	Platform   string    `json:"platform,omitempty"`
	ExcludedAt time.Time `json:"excludedAt"`
}

// ToExcluded converts candidates into exclude-file entries stamped with now.
func ToExcluded(candidates []recruiting.Candidate, now time.Time) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, c := range candidates {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			Name:       c.Name,
			ProfileURL: c.ProfileURL,
			Platform:   c.Platform,
			ExcludedAt: now.UTC(),
		})
	}
	return excluded
}

// LoadExcluded reads an exclude file. A missing or empty file yields an empty list.
func LoadExcluded(path string) (*ExcludedCandidates, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, fmt.Errorf("decode exclude file %s: %w", path, err)
	}
	return &excluded, nil
}

// Append adds entries from s.
func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	e.Items = append(e.Items, s.Items...)
}

// Matches reports whether c is listed, by profile URL when both sides have one, otherwise by name.
func (e *ExcludedCandidates) Matches(c recruiting.Candidate) bool {
	for _, item := range e.Items {
		if item.ProfileURL != "" && c.ProfileURL != "" {
			if item.ProfileURL == c.ProfileURL {
				return true
			}
			continue
		}
		if item.Name != "" && item.Name == c.Name {
			return true
		}
	}
	return false
}

// ToFile overwrites path with the list.
func (e *ExcludedCandidates) ToFile(path string) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

type excludeFileFilter struct {
	path     string
	excluded *ExcludedCandidates
	logger   *zap.Logger
}

// NewExcludeFile creates a filter that removes candidates listed in the exclude file at path.
// An empty path drops nothing.
func NewExcludeFile(path string, logger *zap.Logger) Filter {
	return &excludeFileFilter{path: strings.TrimSpace(path), logger: logger}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error {
	if f.path == "" {
		return nil
	}
	excluded, err := LoadExcluded(f.path)
	if err != nil {
		return fmt.Errorf("getting excluded candidates from file: %w", err)
	}
	f.excluded = excluded
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, candidates []recruiting.Candidate) ([]recruiting.Candidate, Step, error) {
	initial := len(candidates)
	if f.excluded == nil || len(f.excluded.Items) == 0 {
		return candidates, Step{Initial: initial, Left: initial}, nil
	}

	kept, dropped := keep(candidates, f.excluded.Matches)

	if f.logger != nil && len(dropped) > 0 {
		f.logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
