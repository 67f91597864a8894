package messages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/recruiting"
	"github.com/spigell/resume-screener/internal/store"
)

const listHTML = `<html><body>
<div class="candidate-list">
  <div class="candidate-card"><span class="name">李四</span><span>3年</span></div>
  <div class="candidate-card"><span class="name">王五</span></div>
</div>
</body></html>`

type stubScreener struct {
	mu       sync.Mutex
	criteria []recruiting.Criteria
	limits   []int
	err      error
}

func (s *stubScreener) record(criteria recruiting.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = append(s.criteria, criteria)
}

func (s *stubScreener) Screen(_ context.Context, c recruiting.Candidate, criteria recruiting.Criteria) (recruiting.Evaluation, error) {
	s.record(criteria)
	if s.err != nil {
		return recruiting.Evaluation{}, s.err
	}
	return recruiting.Evaluation{CandidateName: c.Name, OverallScore: 75, Recommendation: recruiting.Recommended}, nil
}

func (s *stubScreener) ScreenBatch(_ context.Context, candidates []recruiting.Candidate, criteria recruiting.Criteria, limit int) []recruiting.Evaluation {
	s.record(criteria)
	s.mu.Lock()
	s.limits = append(s.limits, limit)
	s.mu.Unlock()

	out := make([]recruiting.Evaluation, 0, len(candidates))
	for i, c := range candidates {
		out = append(out, recruiting.Evaluation{CandidateName: c.Name, OverallScore: float64(90 - i*10)})
	}
	return out
}

func (s *stubScreener) Compare(_ context.Context, candidates []recruiting.Candidate, criteria recruiting.Criteria) (string, error) {
	s.record(criteria)
	return fmt.Sprintf("# 对比 %d", len(candidates)), nil
}

type fixture struct {
	dispatcher *Dispatcher
	store      *store.Store
	screener   *stubScreener
}

func newFixture(t *testing.T, configured bool) *fixture {
	t.Helper()

	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "screener.db"), store.DefaultSettings(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	if configured {
		endpoint, key := "https://example.openai.azure.com", "secret"
		_, err := st.SaveSettings(context.Background(), store.SettingsPatch{
			AIConfig: &store.AIConfigPatch{Endpoint: &endpoint, APIKey: &key},
		})
		require.NoError(t, err)
	}

	screener := &stubScreener{}
	factory := func(_ context.Context, settings store.Settings) (Screener, error) {
		if !settings.Configured() {
			return nil, fmt.Errorf("build screener: %w", ai.ErrNotConfigured)
		}
		return screener, nil
	}

	d := NewDispatcher(extract.NewRegistry(zap.NewNop()), st, factory, zap.NewNop())
	d.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	return &fixture{dispatcher: d, store: st, screener: screener}
}

func envelope(t *testing.T, action Action, payload any) Envelope {
	t.Helper()
	if payload == nil {
		return Envelope{Action: action}
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Envelope{Action: action, Payload: raw}
}

func TestDispatchUnknownAction(t *testing.T) {
	f := newFixture(t, true)

	resp := f.dispatcher.Dispatch(context.Background(), Envelope{Action: "fly"})

	assert.False(t, resp.Success)
	assert.Equal(t, "未知的 action: fly", resp.Error)
	assert.Equal(t, "2026-03-01T08:00:00Z", resp.Timestamp)
}

func TestDispatchOpenPanel(t *testing.T) {
	f := newFixture(t, false)

	resp := f.dispatcher.Dispatch(context.Background(), Envelope{Action: ActionOpenPanel})

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Data)
}

func TestDispatchExtractAll(t *testing.T) {
	f := newFixture(t, false)

	resp := f.dispatcher.Dispatch(context.Background(), envelope(t, ActionExtractAll, PagePayload{
		HTML: listHTML,
		URL:  "https://www.zhipin.com/web/boss/recommend",
	}))

	require.True(t, resp.Success, resp.Error)
	got, ok := resp.Data.(extract.Extraction)
	require.True(t, ok)
	require.Len(t, got.Resumes, 2)
	assert.Equal(t, "李四", got.Resumes[0].Name)
	assert.Equal(t, "Boss直聘", got.Platform)
}

func TestDispatchExtractRequiresKnownPlatform(t *testing.T) {
	f := newFixture(t, false)

	resp := f.dispatcher.Dispatch(context.Background(), envelope(t, ActionExtractCurrent, PagePayload{
		HTML: listHTML,
		URL:  "https://example.com/resume",
	}))

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "cannot detect platform")
}

func TestDispatchExtractCurrentWithExplicitPlatform(t *testing.T) {
	f := newFixture(t, false)

	resp := f.dispatcher.Dispatch(context.Background(), envelope(t, ActionExtractCurrent, PagePayload{
		HTML:     `<html><body><div class="resume-detail"><div class="geek-name">张三</div></div></body></html>`,
		URL:      "https://example.com/resume/1",
		Platform: "boss",
	}))

	require.True(t, resp.Success, resp.Error)
	c, ok := resp.Data.(*recruiting.Candidate)
	require.True(t, ok)
	assert.Equal(t, "张三", c.Name)
}

func TestDispatchMissingPayload(t *testing.T) {
	f := newFixture(t, true)

	resp := f.dispatcher.Dispatch(context.Background(), Envelope{Action: ActionScreenOne})

	assert.False(t, resp.Success)
	assert.Equal(t, "payload is required", resp.Error)
}

func TestDispatchScreenOneRequiresConfiguration(t *testing.T) {
	f := newFixture(t, false)

	resp := f.dispatcher.Dispatch(context.Background(), envelope(t, ActionScreenOne, ScreenOnePayload{
		Resume: recruiting.Candidate{Name: "张三"},
	}))

	assert.False(t, resp.Success)
	assert.Equal(t, ai.ErrNotConfigured.Error(), resp.Error)
	assert.Empty(t, f.screener.criteria)
}

func TestDispatchScreenOneCachesResultAndUsesDefaults(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.store.SaveSettings(ctx, store.SettingsPatch{DefaultCriteria: &recruiting.Criteria{
		JobTitle:       "后端工程师",
		RequiredSkills: []string{"Go"},
	}})
	require.NoError(t, err)

	resp := f.dispatcher.Dispatch(ctx, envelope(t, ActionScreenOne, ScreenOnePayload{
		Resume:   recruiting.Candidate{Name: "张三"},
		Criteria: &recruiting.Criteria{JobDescription: "负责核心服务"},
	}))

	require.True(t, resp.Success, resp.Error)
	ev, ok := resp.Data.(recruiting.Evaluation)
	require.True(t, ok)
	assert.Equal(t, "张三", ev.CandidateName)

	require.Len(t, f.screener.criteria, 1)
	used := f.screener.criteria[0]
	assert.Equal(t, "后端工程师", used.JobTitle)
	assert.Equal(t, "负责核心服务", used.JobDescription)
	assert.Equal(t, []string{"Go"}, used.RequiredSkills)

	cached, err := f.store.Results(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "张三", cached[0].CandidateName)
}

func TestDispatchScreenOneSurfacesErrors(t *testing.T) {
	f := newFixture(t, true)
	f.screener.err = errors.New("Azure OpenAI 调用失败 (500): boom")

	resp := f.dispatcher.Dispatch(context.Background(), envelope(t, ActionScreenOne, ScreenOnePayload{
		Resume: recruiting.Candidate{Name: "张三"},
	}))

	assert.False(t, resp.Success)
	assert.Equal(t, "Azure OpenAI 调用失败 (500): boom", resp.Error)
}

func TestDispatchRejectsInvalidCriteria(t *testing.T) {
	f := newFixture(t, true)
	low, high := 30.0, 20.0

	resp := f.dispatcher.Dispatch(context.Background(), envelope(t, ActionScreenOne, ScreenOnePayload{
		Resume:   recruiting.Candidate{Name: "张三"},
		Criteria: &recruiting.Criteria{MinSalaryK: &low, MaxSalaryK: &high},
	}))

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "above maximum")
}

func TestDispatchScreenBatchUsesMaxConcurrent(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	limit := 5
	_, err := f.store.SaveSettings(ctx, store.SettingsPatch{MaxConcurrent: &limit})
	require.NoError(t, err)

	resp := f.dispatcher.Dispatch(ctx, envelope(t, ActionScreenBatch, ResumesPayload{
		Resumes: []recruiting.Candidate{{Name: "甲"}, {Name: "乙"}},
	}))

	require.True(t, resp.Success, resp.Error)
	results, ok := resp.Data.([]recruiting.Evaluation)
	require.True(t, ok)
	assert.Len(t, results, 2)
	assert.Equal(t, []int{5}, f.screener.limits)

	cached, err := f.store.Results(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestDispatchScreenBatchRejectsEmptyList(t *testing.T) {
	f := newFixture(t, true)

	resp := f.dispatcher.Dispatch(context.Background(), envelope(t, ActionScreenBatch, ResumesPayload{}))

	assert.False(t, resp.Success)
	assert.Equal(t, "no resumes to screen", resp.Error)
}

func TestDispatchCompare(t *testing.T) {
	f := newFixture(t, true)

	resp := f.dispatcher.Dispatch(context.Background(), envelope(t, ActionCompare, ResumesPayload{
		Resumes: []recruiting.Candidate{{Name: "甲"}, {Name: "乙"}, {Name: "丙"}},
	}))

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "# 对比 3", resp.Data)
}

func TestDispatchSettingsRoundTrip(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	resp := f.dispatcher.Dispatch(ctx, envelope(t, ActionSaveSettings, map[string]any{
		"aiConfig":      map[string]any{"endpoint": "https://example.openai.azure.com", "apiKey": "k"},
		"maxConcurrent": 4,
	}))
	require.True(t, resp.Success, resp.Error)

	resp = f.dispatcher.Dispatch(ctx, Envelope{Action: ActionGetSettings})
	require.True(t, resp.Success, resp.Error)

	settings, ok := resp.Data.(store.Settings)
	require.True(t, ok)
	assert.True(t, settings.Configured())
	assert.Equal(t, 4, settings.MaxConcurrent)
	assert.Equal(t, store.DefaultDeployment, settings.AIConfig.DeploymentName)
}
