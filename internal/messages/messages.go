// Package messages dispatches action envelopes to extraction, screening and settings.
package messages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/recruiting"
	"github.com/spigell/resume-screener/internal/store"
)

// Action names one request kind.
type Action string

const (
	ActionExtractAll     Action = "extract-all"
	ActionExtractCurrent Action = "extract-current"
	ActionScreenOne      Action = "screen-one"
	ActionScreenBatch    Action = "screen-batch"
	ActionCompare        Action = "compare"
	ActionGetSettings    Action = "get-settings"
	ActionSaveSettings   Action = "save-settings"
	ActionOpenPanel      Action = "open-panel"
)

// ErrNotConfigured is reported before any model call when the endpoint or key is missing.
var ErrNotConfigured = ai.ErrNotConfigured

// Envelope is an incoming request.
type Envelope struct {
	Action  Action          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the reply to every envelope.
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// PagePayload carries a captured page for the extraction actions.
type PagePayload struct {
	HTML     string `json:"html"`
	URL      string `json:"url"`
	Platform string `json:"platform,omitempty"`
}

// ScreenOnePayload carries one resume. Missing criteria fields come from the saved defaults.
type ScreenOnePayload struct {
	Resume   recruiting.Candidate `json:"resume"`
	Criteria *recruiting.Criteria `json:"criteria,omitempty"`
}

// ResumesPayload carries several resumes for batch screening or comparison.
type ResumesPayload struct {
	Resumes  []recruiting.Candidate `json:"resumes"`
	Criteria *recruiting.Criteria   `json:"criteria,omitempty"`
}

// Screener is the screening surface the dispatcher needs.
type Screener interface {
	Screen(ctx context.Context, c recruiting.Candidate, criteria recruiting.Criteria) (recruiting.Evaluation, error)
	ScreenBatch(ctx context.Context, candidates []recruiting.Candidate, criteria recruiting.Criteria, limit int) []recruiting.Evaluation
	Compare(ctx context.Context, candidates []recruiting.Candidate, criteria recruiting.Criteria) (string, error)
}

// ScreenerFactory builds a Screener for the current settings. It must return an error wrapping
// ErrNotConfigured, without touching the network, when credentials are missing.
type ScreenerFactory func(ctx context.Context, settings store.Settings) (Screener, error)

// Store is the persistence the dispatcher needs.
type Store interface {
	Settings(ctx context.Context) (store.Settings, error)
	SaveSettings(ctx context.Context, patch store.SettingsPatch) (store.Settings, error)
	PrependResults(ctx context.Context, evaluations ...recruiting.Evaluation) error
}

// Dispatcher routes envelopes to their handlers.
type Dispatcher struct {
	registry    *extract.Registry
	store       Store
	newScreener ScreenerFactory
	logger      *zap.Logger
	now         func() time.Time
}

// NewDispatcher wires the dispatcher.
func NewDispatcher(registry *extract.Registry, st Store, newScreener ScreenerFactory, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		registry:    registry,
		store:       st,
		newScreener: newScreener,
		logger:      log,
		now:         time.Now,
	}
}

// Dispatch handles env. It never fails: every problem becomes an unsuccessful Response.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) Response {
	log := d.logger.With(zap.String(logger.FieldAction, string(env.Action)))
	started := d.now()

	data, err := d.handle(ctx, env)
	if err != nil {
		log.Warn("message failed", zap.Error(err))
		return d.failure(err)
	}

	log.Debug("message handled", zap.Duration("elapsed", d.now().Sub(started)))
	return Response{Success: true, Data: data, Timestamp: d.timestamp()}
}

func (d *Dispatcher) handle(ctx context.Context, env Envelope) (any, error) {
	switch env.Action {
	case ActionExtractAll:
		return d.extractAll(env.Payload)
	case ActionExtractCurrent:
		return d.extractCurrent(env.Payload)
	case ActionScreenOne:
		return d.screenOne(ctx, env.Payload)
	case ActionScreenBatch:
		return d.screenBatch(ctx, env.Payload)
	case ActionCompare:
		return d.compare(ctx, env.Payload)
	case ActionGetSettings:
		return d.store.Settings(ctx)
	case ActionSaveSettings:
		return d.saveSettings(ctx, env.Payload)
	case ActionOpenPanel:
		return nil, nil
	default:
		return nil, fmt.Errorf("未知的 action: %s", env.Action)
	}
}

func (d *Dispatcher) failure(err error) Response {
	msg := err.Error()
	if errors.Is(err, ErrNotConfigured) {
		msg = ErrNotConfigured.Error()
	}
	return Response{Success: false, Error: msg, Timestamp: d.timestamp()}
}

func (d *Dispatcher) timestamp() string {
	return d.now().UTC().Format(time.RFC3339)
}

func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, errors.New("payload is required")
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("invalid payload: %w", err)
	}
	return v, nil
}
