package messages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/recruiting"
	"github.com/spigell/resume-screener/internal/store"
)

func (d *Dispatcher) page(payload json.RawMessage) (extract.Strategy, *extract.Page, error) {
	p, err := decode[PagePayload](payload)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(p.HTML) == "" {
		return nil, nil, errors.New("page html is required")
	}

	strategy, err := d.registry.Resolve(p.Platform, p.URL)
	if err != nil {
		return nil, nil, err
	}

	page, err := extract.NewPage(p.HTML, p.URL)
	if err != nil {
		return nil, nil, err
	}
	return strategy, page, nil
}

func (d *Dispatcher) extractAll(payload json.RawMessage) (any, error) {
	strategy, page, err := d.page(payload)
	if err != nil {
		return nil, err
	}
	return extract.ExtractAll(strategy, page), nil
}

func (d *Dispatcher) extractCurrent(payload json.RawMessage) (any, error) {
	strategy, page, err := d.page(payload)
	if err != nil {
		return nil, err
	}

	c := strategy.ExtractCurrentResume(page)
	if c == nil {
		return nil, errors.New("未能从当前页面提取到简历")
	}
	return c, nil
}

// prepare loads settings, resolves criteria against the saved defaults and builds a screener.
func (d *Dispatcher) prepare(ctx context.Context, criteria *recruiting.Criteria) (Screener, store.Settings, recruiting.Criteria, error) {
	settings, err := d.store.Settings(ctx)
	if err != nil {
		return nil, store.Settings{}, recruiting.Criteria{}, err
	}

	resolved := settings.DefaultCriteria
	if criteria != nil {
		resolved = criteria.WithDefaults(settings.DefaultCriteria)
	}
	if err := resolved.Validate(); err != nil {
		return nil, store.Settings{}, recruiting.Criteria{}, fmt.Errorf("invalid criteria: %w", err)
	}

	screener, err := d.newScreener(ctx, settings)
	if err != nil {
		return nil, store.Settings{}, recruiting.Criteria{}, err
	}
	return screener, settings, resolved, nil
}

func (d *Dispatcher) screenOne(ctx context.Context, payload json.RawMessage) (any, error) {
	p, err := decode[ScreenOnePayload](payload)
	if err != nil {
		return nil, err
	}

	screener, _, criteria, err := d.prepare(ctx, p.Criteria)
	if err != nil {
		return nil, err
	}

	evaluation, err := screener.Screen(ctx, p.Resume, criteria)
	if err != nil {
		return nil, err
	}

	d.cache(ctx, evaluation)
	return evaluation, nil
}

func (d *Dispatcher) screenBatch(ctx context.Context, payload json.RawMessage) (any, error) {
	p, err := decode[ResumesPayload](payload)
	if err != nil {
		return nil, err
	}
	if len(p.Resumes) == 0 {
		return nil, errors.New("no resumes to screen")
	}

	screener, settings, criteria, err := d.prepare(ctx, p.Criteria)
	if err != nil {
		return nil, err
	}

	results := screener.ScreenBatch(ctx, p.Resumes, criteria, settings.MaxConcurrent)
	d.cache(ctx, results...)
	return results, nil
}

func (d *Dispatcher) compare(ctx context.Context, payload json.RawMessage) (any, error) {
	p, err := decode[ResumesPayload](payload)
	if err != nil {
		return nil, err
	}

	screener, _, criteria, err := d.prepare(ctx, p.Criteria)
	if err != nil {
		return nil, err
	}

	return screener.Compare(ctx, p.Resumes, criteria)
}

func (d *Dispatcher) saveSettings(ctx context.Context, payload json.RawMessage) (any, error) {
	patch, err := decode[store.SettingsPatch](payload)
	if err != nil {
		return nil, err
	}
	return d.store.SaveSettings(ctx, patch)
}

// cache stores evaluations in the result cache; failures are logged, not returned.
func (d *Dispatcher) cache(ctx context.Context, evaluations ...recruiting.Evaluation) {
	if err := d.store.PrependResults(ctx, evaluations...); err != nil {
		d.logger.Warn("failed to cache results", zap.Int("results", len(evaluations)), zap.Error(err))
	}
}
