package screening

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/recruiting"
)

var (
	//go:embed system.md
	systemTemplate string
	//go:embed screening.md
	screeningTemplate string
	//go:embed comparison.md
	comparisonTemplate string
)

// ComparisonSystemPrompt frames the model as a comparison consultant.
const ComparisonSystemPrompt = "你是一位资深HR顾问，擅长候选人对比分析。请用专业、客观的语言进行分析。"

const (
	listSeparator       = "、"
	candidateSeparator  = "\n\n---\n\n"
	unlimited           = "不限"
	notSpecified        = "未指定"
	none                = "无"
	noCandidateSkills   = "未提取到"
	noComparisonSkills  = "未提取"
	salaryNegotiable    = "面议"
	rawTextSectionTitle = "### 原始简历文本"
)

// SystemPrompt returns the fixed evaluation rubric.
func SystemPrompt() string {
	return strings.TrimSpace(strings.NewReplacer(
		"{{STRONG_MIN}}", strconv.Itoa(recruiting.StronglyRecommendedMin),
		"{{STRONG_MAX}}", strconv.Itoa(recruiting.StronglyRecommendedMin-1),
		"{{RECOMMENDED_MIN}}", strconv.Itoa(recruiting.RecommendedMin),
		"{{RECOMMENDED_MAX}}", strconv.Itoa(recruiting.RecommendedMin-1),
		"{{MAYBE_MIN}}", strconv.Itoa(recruiting.MaybeConsiderMin),
	).Replace(systemTemplate))
}

// BuildScreeningPrompt renders the single-candidate evaluation request.
func BuildScreeningPrompt(c recruiting.Candidate, criteria recruiting.Criteria) string {
	rawSection := ""
	if c.RawText != "" {
		rawSection = "\n" + rawTextSectionTitle + "\n" + c.RawText + "\n"
	}

	minEducation := unlimited
	if criteria.MinEducation != nil {
		minEducation = *criteria.MinEducation
	}

	return strings.TrimSpace(strings.NewReplacer(
		"{{JOB_TITLE}}", criteria.JobTitle,
		"{{JOB_DESCRIPTION}}", criteria.JobDescription,
		"{{REQUIRED_SKILLS}}", joinOr(criteria.RequiredSkills, notSpecified),
		"{{PREFERRED_SKILLS}}", joinOr(criteria.PreferredSkills, none),
		"{{MIN_EXPERIENCE}}", FormatExperience(criteria.MinExperienceYears),
		"{{MIN_EDUCATION}}", minEducation,
		"{{SALARY_RANGE}}", FormatSalary(criteria.MinSalaryK, criteria.MaxSalaryK),
		"{{PREFERRED_LOCATIONS}}", joinOr(criteria.PreferredLocations, unlimited),
		"{{ADDITIONAL_REQUIREMENTS}}", orDefault(criteria.AdditionalRequirements, none),
		"{{NAME}}", c.Name,
		"{{CURRENT_TITLE}}", c.CurrentTitle,
		"{{WORK_EXPERIENCE}}", c.WorkExperience,
		"{{EDUCATION}}", c.Education,
		"{{EXPECTED_SALARY}}", c.ExpectedSalary,
		"{{AGE}}", c.Age,
		"{{LOCATION}}", c.Location,
		"{{SKILLS}}", joinOr(c.Skills, noCandidateSkills),
		"{{PLATFORM}}", c.Platform,
		"{{WORK_HISTORY}}", c.WorkHistory,
		"{{EDUCATION_HISTORY}}", c.EducationHistory,
		"{{PROJECT_EXPERIENCE}}", c.ProjectExperience,
		"{{SELF_DESCRIPTION}}", c.SelfDescription,
		"{{RAW_TEXT_SECTION}}", rawSection,
	).Replace(screeningTemplate))
}

// BuildComparisonPrompt renders the side-by-side ranking request for several candidates.
func BuildComparisonPrompt(candidates []recruiting.Candidate, criteria recruiting.Criteria) string {
	summaries := make([]string, 0, len(candidates))
	for i, c := range candidates {
		summaries = append(summaries, fmt.Sprintf(
			"### 候选人 %d：%s\n- 当前职位：%s\n- 工作年限：%s\n- 学历：%s\n- 技能：%s\n- 工作经历：%s\n- 项目经验：%s",
			i+1, c.Name, c.CurrentTitle, c.WorkExperience, c.Education,
			joinOr(c.Skills, noComparisonSkills), c.WorkHistory, c.ProjectExperience,
		))
	}

	return strings.TrimSpace(strings.NewReplacer(
		"{{JOB_TITLE}}", criteria.JobTitle,
		"{{JOB_DESCRIPTION}}", criteria.JobDescription,
		"{{REQUIRED_SKILLS}}", joinOr(criteria.RequiredSkills, notSpecified),
		"{{CANDIDATES}}", strings.Join(summaries, candidateSeparator),
		"{{COUNT}}", strconv.Itoa(len(candidates)),
	).Replace(comparisonTemplate))
}

// FormatSalary renders a salary band in thousands.
func FormatSalary(minK, maxK *float64) string {
	switch {
	case minK != nil && maxK != nil:
		return fmt.Sprintf("%sK - %sK", formatNumber(*minK), formatNumber(*maxK))
	case minK != nil:
		return formatNumber(*minK) + "K 以上"
	case maxK != nil:
		return formatNumber(*maxK) + "K 以下"
	default:
		return salaryNegotiable
	}
}

// FormatExperience renders the minimum years requirement, "不限" when unset.
func FormatExperience(years *int) string {
	if years == nil {
		return unlimited
	}
	return strconv.Itoa(*years) + "年"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, listSeparator)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
