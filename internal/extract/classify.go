package extract

import (
	"regexp"

	"github.com/spigell/resume-screener/internal/recruiting"
)

// Bucket is a basic-info field a short tag can be sorted into.
type Bucket int

const (
	BucketExperience Bucket = iota
	BucketEducation
	BucketAge
	BucketSalary
	BucketLocation
)

// Rule assigns tags matching Pattern to Bucket.
type Rule struct {
	Bucket  Bucket
	Pattern *regexp.Regexp
}

// Rules is an ordered rule cascade. For each tag the first matching rule wins;
// across tags the last tag written into a bucket wins.
type Rules []Rule

func rule(b Bucket, pattern string) Rule {
	return Rule{Bucket: b, Pattern: regexp.MustCompile(pattern)}
}

// Buckets holds the classified basic-info values.
type Buckets struct {
	Experience string
	Education  string
	Age        string
	Salary     string
	Location   string
}

// Classify sorts tags into buckets.
func (r Rules) Classify(tags []string) Buckets {
	var b Buckets
	for _, tag := range tags {
		for _, rl := range r {
			if !rl.Pattern.MatchString(tag) {
				continue
			}
			b.set(rl.Bucket, tag)
			break
		}
	}
	return b
}

func (b *Buckets) set(bucket Bucket, value string) {
	switch bucket {
	case BucketExperience:
		b.Experience = value
	case BucketEducation:
		b.Education = value
	case BucketAge:
		b.Age = value
	case BucketSalary:
		b.Salary = value
	case BucketLocation:
		b.Location = value
	}
}

func (b Buckets) applyTo(c *recruiting.Candidate) {
	c.WorkExperience = b.Experience
	c.Education = b.Education
	c.Age = b.Age
	c.ExpectedSalary = b.Salary
	c.Location = b.Location
}
