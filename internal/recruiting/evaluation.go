package recruiting

import "strings"

// Recommendation is one of four ordered outcome labels.
type Recommendation string

const (
	StronglyRecommended Recommendation = "StronglyRecommended"
	Recommended         Recommendation = "Recommended"
	MaybeConsider       Recommendation = "MaybeConsider"
	NotRecommended      Recommendation = "NotRecommended"
)

// Score band lower bounds shared by the prompt rubric and the tier fallback.
const (
	StronglyRecommendedMin = 80
	RecommendedMin         = 60
	MaybeConsiderMin       = 40
)

var recommendationLabels = map[Recommendation]string{
	StronglyRecommended: "强烈推荐",
	Recommended:         "推荐",
	MaybeConsider:       "待定",
	NotRecommended:      "不推荐",
}

// TierForScore derives the recommendation from an overall score.
func TierForScore(score float64) Recommendation {
	switch {
	case score >= StronglyRecommendedMin:
		return StronglyRecommended
	case score >= RecommendedMin:
		return Recommended
	case score >= MaybeConsiderMin:
		return MaybeConsider
	default:
		return NotRecommended
	}
}

// ParseRecommendation matches one of the four tier names case-insensitively.
func ParseRecommendation(value string) (Recommendation, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "stronglyrecommended":
		return StronglyRecommended, true
	case "recommended":
		return Recommended, true
	case "maybeconsider":
		return MaybeConsider, true
	case "notrecommended":
		return NotRecommended, true
	default:
		return "", false
	}
}

// ResolveRecommendation uses value when it names a known tier and falls back to the score band.
func ResolveRecommendation(value string, score float64) Recommendation {
	if r, ok := ParseRecommendation(value); ok {
		return r
	}
	return TierForScore(score)
}

// Label returns the display label used in reports.
func (r Recommendation) Label() string {
	if label, ok := recommendationLabels[r]; ok {
		return label
	}
	return string(r)
}

// Rank orders tiers from 3 (strongest) to 0; unknown values rank -1.
func (r Recommendation) Rank() int {
	switch r {
	case StronglyRecommended:
		return 3
	case Recommended:
		return 2
	case MaybeConsider:
		return 1
	case NotRecommended:
		return 0
	default:
		return -1
	}
}

// DimensionScore is one weighted sub-score of an evaluation.
type DimensionScore struct {
	Dimension string  `json:"dimension" yaml:"dimension"`
	Score     float64 `json:"score" yaml:"score"`
	Comment   string  `json:"comment" yaml:"comment"`
}

// Evaluation is the scored assessment of one candidate against one set of criteria.
type Evaluation struct {
	CandidateName      string           `json:"candidateName" yaml:"candidateName"`
	OverallScore       float64          `json:"overallScore" yaml:"overallScore"`
	Recommendation     Recommendation   `json:"recommendation" yaml:"recommendation"`
	DimensionScores    []DimensionScore `json:"dimensionScores" yaml:"dimensionScores"`
	Strengths          []string         `json:"strengths" yaml:"strengths"`
	Concerns           []string         `json:"concerns" yaml:"concerns"`
	Summary            string           `json:"summary" yaml:"summary"`
	SuggestedQuestions []string         `json:"suggestedQuestions" yaml:"suggestedQuestions"`
}

// Degraded builds the zero-score result used when a reply cannot be used.
func Degraded(candidateName, summary string) Evaluation {
	return Evaluation{
		CandidateName:      candidateName,
		OverallScore:       0,
		Recommendation:     NotRecommended,
		DimensionScores:    []DimensionScore{},
		Strengths:          []string{},
		Concerns:           []string{},
		Summary:            summary,
		SuggestedQuestions: []string{},
	}
}
