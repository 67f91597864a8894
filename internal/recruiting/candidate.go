package recruiting

// Candidate is a profile extracted from one resume page or one list card.
type Candidate struct {
	Name              string   `json:"name"`
	CurrentTitle      string   `json:"currentTitle"`
	WorkExperience    string   `json:"workExperience"`
	Education         string   `json:"education"`
	ExpectedSalary    string   `json:"expectedSalary"`
	Age               string   `json:"age"`
	Location          string   `json:"location"`
	Skills            []string `json:"skills"`
	WorkHistory       string   `json:"workHistory"`
	EducationHistory  string   `json:"educationHistory"`
	ProjectExperience string   `json:"projectExperience"`
	SelfDescription   string   `json:"selfDescription"`
	Platform          string   `json:"platform"`
	ProfileURL        string   `json:"profileUrl"`
	RawText           string   `json:"rawText"`
}

// NewCandidate returns an empty record tagged with the source platform and page URL.
func NewCandidate(platform, profileURL string) Candidate {
	return Candidate{
		Skills:     []string{},
		Platform:   platform,
		ProfileURL: profileURL,
	}
}

// UniqueSkills removes repeated skill tags, keeping the first occurrence order.
func UniqueSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	result := make([]string, 0, len(skills))
	for _, s := range skills {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}
