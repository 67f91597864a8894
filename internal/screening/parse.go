package screening

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/recruiting"
)

// ParseFailureSummary is the summary carried by results whose reply could not be read.
const ParseFailureSummary = "AI 响应解析失败"

const fence = "```"

// ParseEvaluation reads a model reply into an Evaluation. It never fails: unreadable replies
// produce a degraded result named after fallbackName. String values are trimmed and empty list
// entries are dropped; non-finite scores become 0.
func ParseEvaluation(raw, fallbackName string) recruiting.Evaluation {
	var root any
	if err := json.Unmarshal([]byte(stripFence(raw)), &root); err != nil {
		return recruiting.Degraded(fallbackName, ParseFailureSummary)
	}

	data, ok := root.(map[string]any)
	if !ok {
		return recruiting.Degraded(fallbackName, ParseFailureSummary)
	}

	name := coerceString(data["candidateName"])
	if name == "" {
		name = fallbackName
	}

	score := coerceFloat(data["overallScore"])
	if math.IsNaN(score) {
		score = 0
	}

	return recruiting.Evaluation{
		CandidateName:      name,
		OverallScore:       score,
		Recommendation:     recruiting.ResolveRecommendation(coerceString(data["recommendation"]), score),
		DimensionScores:    coerceDimensions(data["dimensionScores"]),
		Strengths:          coerceStrings(data["strengths"]),
		Concerns:           coerceStrings(data["concerns"]),
		Summary:            coerceString(data["summary"]),
		SuggestedQuestions: coerceStrings(data["suggestedQuestions"]),
	}
}

// stripFence removes a leading fence line (with its language tag) and a trailing fence.
func stripFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, fence) {
		if idx := strings.Index(cleaned, "\n"); idx != -1 {
			cleaned = cleaned[idx+1:]
		} else {
			cleaned = cleaned[len(fence):]
		}
	}
	if strings.HasSuffix(cleaned, fence) {
		cleaned = cleaned[:strings.LastIndex(cleaned, fence)]
	}
	return strings.TrimSpace(cleaned)
}

func coerceDimensions(v any) []recruiting.DimensionScore {
	result := []recruiting.DimensionScore{}
	items, ok := v.([]any)
	if !ok {
		return result
	}

	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		score := coerceFloat(entry["score"])
		if math.IsNaN(score) {
			score = 0
		}
		result = append(result, recruiting.DimensionScore{
			Dimension: coerceString(entry["dimension"]),
			Score:     score,
			Comment:   coerceString(entry["comment"]),
		})
	}

	return result
}

func coerceStrings(v any) []string {
	result := []string{}
	items, ok := v.([]any)
	if !ok {
		return result
	}

	for _, item := range items {
		if text := coerceString(item); text != "" {
			result = append(result, text)
		}
	}
	return result
}

// coerceFloat returns NaN for anything that is not a finite number.
func coerceFloat(v any) float64 {
	f := parseFloat(v)
	if math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

func parseFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
