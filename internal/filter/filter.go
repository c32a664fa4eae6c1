// Package filter applies post-fetch predicates to a normalised job list.
package filter

import (
	"strings"

	"jobmate/aggregator-service/internal/model"
)

// FilterSet holds the optional predicates of one request. A nil pointer or
// nil slice leaves that predicate inactive.
type FilterSet struct {
	JobType         *string  `json:"job_type,omitempty"`
	ExperienceLevel *string  `json:"experience_level,omitempty"`
	Remote          *bool    `json:"remote,omitempty"`
	MinSalary       *float64 `json:"min_salary,omitempty"`
	MaxSalary       *float64 `json:"max_salary,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Company         *string  `json:"company,omitempty"`
	Location        *string  `json:"location,omitempty"`

	// ExcludeTerms drops any job whose title, company or description
	// contains one of the terms.
	ExcludeTerms []string `json:"exclude_terms,omitempty"`
}

// ParseRemote coerces a query-string flag: "true" in any case is true,
// anything else is false.
func ParseRemote(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// Active lists the keys of the predicates that are set, in a fixed order.
func (f FilterSet) Active() []string {
	keys := []string{}
	add := func(on bool, key string) {
		if on {
			keys = append(keys, key)
		}
	}
	add(f.JobType != nil, "job_type")
	add(f.ExperienceLevel != nil, "experience_level")
	add(f.Remote != nil, "remote")
	add(f.MinSalary != nil, "min_salary")
	add(f.MaxSalary != nil, "max_salary")
	add(len(f.Skills) > 0, "skills")
	add(f.Company != nil, "company")
	add(f.Location != nil, "location")
	add(len(f.ExcludeTerms) > 0, "exclude_terms")
	return keys
}

// Apply returns the jobs that pass every active predicate, in their
// original order. The input slice is not modified.
func Apply(jobs []model.Job, f FilterSet) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for i := range jobs {
		if f.Keep(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}

// Keep reports whether job passes every active predicate of f.
func (f FilterSet) Keep(job *model.Job) bool {
	if f.JobType != nil && !strings.EqualFold(string(job.JobType), *f.JobType) {
		return false
	}
	if f.ExperienceLevel != nil && !strings.EqualFold(string(job.ExperienceLevel), *f.ExperienceLevel) {
		return false
	}
	if f.Remote != nil && job.Remote.Bool() != *f.Remote {
		return false
	}
	if f.MinSalary != nil && (!nonZero(job.SalaryMin) || *job.SalaryMin < *f.MinSalary) {
		return false
	}
	if f.MaxSalary != nil && (!nonZero(job.SalaryMax) || *job.SalaryMax > *f.MaxSalary) {
		return false
	}
	if len(f.Skills) > 0 && !hasAnySkill(job.Skills, f.Skills) {
		return false
	}
	if f.Company != nil && !containsFold(job.Company, *f.Company) {
		return false
	}
	if f.Location != nil && !containsFold(job.Location, *f.Location) {
		return false
	}
	if ContainsTerm(job.Title, job.Company, job.Description, f.ExcludeTerms) {
		return false
	}
	return true
}

// ContainsTerm reports whether any term appears (case-insensitive) anywhere
// in the combined title, company and description text. Empty terms never
// match.
func ContainsTerm(title, company, description string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	combined := strings.ToLower(title + " " + company + " " + description)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(combined, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func hasAnySkill(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// nonZero treats a missing or zero bound as no salary.
func nonZero(v *float64) bool { return v != nil && *v != 0 }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
