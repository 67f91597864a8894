package recruiting

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Criteria holds the hiring requirements a candidate is evaluated against.
type Criteria struct {
	JobTitle               string   `json:"jobTitle" mapstructure:"jobTitle" yaml:"jobTitle"`
	JobDescription         string   `json:"jobDescription" mapstructure:"jobDescription" yaml:"jobDescription"`
	RequiredSkills         []string `json:"requiredSkills" mapstructure:"requiredSkills" yaml:"requiredSkills"`
	PreferredSkills        []string `json:"preferredSkills" mapstructure:"preferredSkills" yaml:"preferredSkills"`
	MinExperienceYears     *int     `json:"minExperienceYears,omitempty" mapstructure:"minExperienceYears" yaml:"minExperienceYears,omitempty" validate:"omitempty,min=0,max=60"`
	MinEducation           *string  `json:"minEducation,omitempty" mapstructure:"minEducation" yaml:"minEducation,omitempty"`
	MaxSalaryK             *float64 `json:"maxSalaryK,omitempty" mapstructure:"maxSalaryK" yaml:"maxSalaryK,omitempty" validate:"omitempty,min=0"`
	MinSalaryK             *float64 `json:"minSalaryK,omitempty" mapstructure:"minSalaryK" yaml:"minSalaryK,omitempty" validate:"omitempty,min=0"`
	PreferredLocations     []string `json:"preferredLocations" mapstructure:"preferredLocations" yaml:"preferredLocations"`
	AdditionalRequirements string   `json:"additionalRequirements" mapstructure:"additionalRequirements" yaml:"additionalRequirements"`
}

// Validate checks numeric bounds and the salary range ordering.
func (c *Criteria) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.MinSalaryK != nil && c.MaxSalaryK != nil && *c.MinSalaryK > *c.MaxSalaryK {
		return fmt.Errorf("minimum salary %gK is above maximum salary %gK", *c.MinSalaryK, *c.MaxSalaryK)
	}
	return nil
}

// WithDefaults returns a copy of c where empty fields are taken from defaults.
func (c Criteria) WithDefaults(defaults Criteria) Criteria {
	if c.JobTitle == "" {
		c.JobTitle = defaults.JobTitle
	}
	if c.JobDescription == "" {
		c.JobDescription = defaults.JobDescription
	}
	if len(c.RequiredSkills) == 0 {
		c.RequiredSkills = defaults.RequiredSkills
	}
	if len(c.PreferredSkills) == 0 {
		c.PreferredSkills = defaults.PreferredSkills
	}
	if c.MinExperienceYears == nil {
		c.MinExperienceYears = defaults.MinExperienceYears
	}
	if c.MinEducation == nil {
		c.MinEducation = defaults.MinEducation
	}
	if c.MaxSalaryK == nil {
		c.MaxSalaryK = defaults.MaxSalaryK
	}
	if c.MinSalaryK == nil {
		c.MinSalaryK = defaults.MinSalaryK
	}
	if len(c.PreferredLocations) == 0 {
		c.PreferredLocations = defaults.PreferredLocations
	}
	if c.AdditionalRequirements == "" {
		c.AdditionalRequirements = defaults.AdditionalRequirements
	}
	return c
}
