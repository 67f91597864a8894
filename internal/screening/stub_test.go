package screening

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spigell/resume-screener/internal/ai"
)

// stubCompleter answers from a per-candidate reply table keyed by a substring of the user prompt.
type stubCompleter struct {
	mu       sync.Mutex
	requests []ai.Request
	replies  map[string]string
	errs     map[string]error
	fallback string
	delay    time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *stubCompleter) Complete(ctx context.Context, req ai.Request) (string, error) {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.peak.Load()
		if current <= peak || s.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	prompt := ""
	if n := len(req.Messages); n > 0 {
		prompt = req.Messages[n-1].Content
	}
	for key, err := range s.errs {
		if strings.Contains(prompt, key) {
			return "", err
		}
	}
	for key, reply := range s.replies {
		if strings.Contains(prompt, key) {
			return reply, nil
		}
	}
	return s.fallback, nil
}

func (s *stubCompleter) Provider() string { return "stub" }

func (s *stubCompleter) Model() string { return "stub-model" }
