package screening

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/recruiting"
)

func candidate(name string) recruiting.Candidate {
	c := recruiting.NewCandidate("Boss直聘", "")
	c.Name = name
	return c
}

func scoreReply(score int) string {
	return fmt.Sprintf(`{"overallScore": %d, "summary": "ok"}`, score)
}

func TestScreenEndToEndDerivesTierFromScore(t *testing.T) {
	stub := &stubCompleter{fallback: `{"candidateName":"张三","overallScore":72,"summary":"匹配"}`}
	s := New(stub, Options{}, zap.NewNop())

	c := candidate("张三")
	c.Skills = []string{"React", "Node"}
	criteria := recruiting.Criteria{JobTitle: "前端", RequiredSkills: []string{"React", "TypeScript"}}

	got, err := s.Screen(context.Background(), c, criteria)
	require.NoError(t, err)

	assert.Equal(t, 72.0, got.OverallScore)
	assert.Equal(t, recruiting.Recommended, got.Recommendation)

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, ScreenTemperature, req.Temperature)
	assert.True(t, req.JSON)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, ai.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, SystemPrompt(), req.Messages[0].Content)
	assert.Contains(t, req.Messages[1].Content, "- 必备技能：React、TypeScript")
	assert.Contains(t, req.Messages[1].Content, "- 技能标签：React、Node")
}

func TestScreenReturnsEndpointErrors(t *testing.T) {
	boom := errors.New("Azure OpenAI 调用失败 (500): oops")
	s := New(&stubCompleter{errs: map[string]error{"张三": boom}}, Options{}, nil)

	_, err := s.Screen(context.Background(), candidate("张三"), recruiting.Criteria{})
	assert.ErrorIs(t, err, boom)
}

func TestScreenUnparseableReplyIsDegraded(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	s := New(&stubCompleter{fallback: "sorry, I cannot"}, Options{}, zap.New(core))

	got, err := s.Screen(context.Background(), candidate("李四"), recruiting.Criteria{})
	require.NoError(t, err)

	assert.Equal(t, "李四", got.CandidateName)
	assert.Equal(t, ParseFailureSummary, got.Summary)
	assert.Equal(t, 1, observed.FilterMessage("model reply could not be parsed").Len())
}

func TestScreenBatchOrdersByScore(t *testing.T) {
	stub := &stubCompleter{replies: map[string]string{
		"- 姓名：甲": scoreReply(50),
		"- 姓名：乙": scoreReply(90),
		"- 姓名：丙": scoreReply(70),
	}}
	s := New(stub, Options{}, zap.NewNop())

	got := s.ScreenBatch(context.Background(),
		[]recruiting.Candidate{candidate("甲"), candidate("乙"), candidate("丙")},
		recruiting.Criteria{}, 2)

	require.Len(t, got, 3)
	assert.Equal(t, []float64{90, 70, 50}, []float64{got[0].OverallScore, got[1].OverallScore, got[2].OverallScore})
	assert.Equal(t, []string{"乙", "丙", "甲"}, []string{got[0].CandidateName, got[1].CandidateName, got[2].CandidateName})
}

func TestScreenBatchStableForTies(t *testing.T) {
	s := New(&stubCompleter{fallback: scoreReply(60)}, Options{}, nil)

	names := []string{"A", "B", "C", "D", "E"}
	batch := make([]recruiting.Candidate, 0, len(names))
	for _, n := range names {
		batch = append(batch, candidate(n))
	}

	got := s.ScreenBatch(context.Background(), batch, recruiting.Criteria{}, 2)

	order := make([]string, 0, len(got))
	for _, e := range got {
		order = append(order, e.CandidateName)
	}
	assert.Equal(t, names, order)
}

func TestScreenBatchBoundsInFlightCalls(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	stub := &stubCompleter{fallback: scoreReply(50), delay: 20 * time.Millisecond}
	s := New(stub, Options{}, zap.New(core))

	batch := []recruiting.Candidate{candidate("1"), candidate("2"), candidate("3"), candidate("4"), candidate("5")}
	got := s.ScreenBatch(context.Background(), batch, recruiting.Criteria{}, 2)

	assert.Len(t, got, 5)
	assert.LessOrEqual(t, stub.peak.Load(), int32(2))
	assert.Len(t, stub.requests, 5)

	chunks := observed.FilterMessage("chunk screened").All()
	require.Len(t, chunks, 3)
	sizes := []int64{}
	for _, entry := range chunks {
		sizes = append(sizes, entry.ContextMap()["size"].(int64))
	}
	assert.Equal(t, []int64{2, 2, 1}, sizes)

	started := observed.FilterMessage("batch screening started").All()
	require.Len(t, started, 1)
	assert.NotEmpty(t, started[0].ContextMap()[logger.FieldBatchID])
}

func TestScreenBatchDegradesFailures(t *testing.T) {
	stub := &stubCompleter{
		fallback: scoreReply(80),
		errs:     map[string]error{"- 姓名：坏": errors.New("connection reset")},
	}
	s := New(stub, Options{}, zap.NewNop())

	got := s.ScreenBatch(context.Background(), []recruiting.Candidate{candidate("坏"), candidate("好")}, recruiting.Criteria{}, 0)

	require.Len(t, got, 2)
	assert.Equal(t, "好", got[0].CandidateName)
	assert.Equal(t, "坏", got[1].CandidateName)
	assert.Equal(t, recruiting.NotRecommended, got[1].Recommendation)
	assert.Contains(t, got[1].Summary, "connection reset")
}

func TestScreenBatchTimeoutProducesDegradedResult(t *testing.T) {
	stub := &stubCompleter{fallback: scoreReply(80), delay: time.Second}
	s := New(stub, Options{Timeout: 10 * time.Millisecond}, zap.NewNop())

	got := s.ScreenBatch(context.Background(), []recruiting.Candidate{candidate("慢")}, recruiting.Criteria{}, 1)

	require.Len(t, got, 1)
	assert.Zero(t, got[0].OverallScore)
	assert.Contains(t, got[0].Summary, "timed out")
}

func TestScreenBatchEmpty(t *testing.T) {
	s := New(&stubCompleter{}, Options{}, nil)

	got := s.ScreenBatch(context.Background(), nil, recruiting.Criteria{}, 3)
	assert.Empty(t, got)
}

func TestCompare(t *testing.T) {
	stub := &stubCompleter{fallback: "| 排名 | 姓名 |"}
	s := New(stub, Options{}, nil)

	report, err := s.Compare(context.Background(), []recruiting.Candidate{candidate("甲"), candidate("乙")}, recruiting.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, "| 排名 | 姓名 |", report)

	req := stub.requests[0]
	assert.Equal(t, CompareTemperature, req.Temperature)
	assert.False(t, req.JSON)
	assert.Equal(t, ComparisonSystemPrompt, req.Messages[0].Content)

	_, err = s.Compare(context.Background(), nil, recruiting.Criteria{})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	ok, err := New(&stubCompleter{fallback: "ok"}, Options{}, nil).Ping(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = New(&stubCompleter{}, Options{}, nil).Ping(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	boom := errors.New("401")
	_, err = New(&stubCompleter{errs: map[string]error{"ok": boom}}, Options{}, nil).Ping(context.Background())
	assert.ErrorIs(t, err, boom)
}
