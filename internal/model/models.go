// Package model defines shared data structures for the aggregator service.
package model

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// Source identifies one external job-board API.
type Source string

const (
	SourceJSearch   Source = "jsearch"
	SourceAdzuna    Source = "adzuna"
	SourceRemotive  Source = "remotive"
	SourceArbeitnow Source = "arbeitnow"
	SourceTheMuse   Source = "themuse"
)

// AllSources lists every supported provider in a stable order.
func AllSources() []Source {
	return []Source{SourceJSearch, SourceAdzuna, SourceRemotive, SourceArbeitnow, SourceTheMuse}
}

// ParseSource converts a raw tag to a Source, returning an error for
// unknown values.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	switch src {
	case SourceJSearch, SourceAdzuna, SourceRemotive, SourceArbeitnow, SourceTheMuse:
		return src, nil
	}
	return "", errors.Newf("unknown job source %q", s)
}

// JobType is the normalised employment type.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeTemporary  JobType = "temporary"
)

// ExperienceLevel is the seniority inferred from a posting's text.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

// Remote is a tri-state flag: providers that say nothing about remote work
// leave it unknown.
type Remote int8

const (
	RemoteUnknown Remote = iota
	RemoteYes
	RemoteNo
)

// RemoteFrom maps a provider boolean to a known Remote value.
func RemoteFrom(b bool) Remote {
	if b {
		return RemoteYes
	}
	return RemoteNo
}

// Bool reports whether the job is remote; unknown counts as false.
func (r Remote) Bool() bool { return r == RemoteYes }

// Known reports whether the provider stated a value.
func (r Remote) Known() bool { return r != RemoteUnknown }

// MarshalJSON encodes unknown as null.
func (r Remote) MarshalJSON() ([]byte, error) {
	switch r {
	case RemoteYes:
		return []byte("true"), nil
	case RemoteNo:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts true, false or null.
func (r *Remote) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return errors.Wrap(err, "remote flag")
	}
	if b == nil {
		*r = RemoteUnknown
		return nil
	}
	*r = RemoteFrom(*b)
	return nil
}

// RawRecord is a provider-shaped record as decoded from the API response.
// It is consumed by the parser and then discarded.
type RawRecord map[string]any

// Job is the canonical posting every source normalises into.
// ExternalJobID is unique only within its Source.
type Job struct {
	ExternalJobID   string          `json:"external_job_id"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	Remote          Remote          `json:"remote"`
	JobType         JobType         `json:"job_type"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	SalaryMin       *float64        `json:"salary_min,omitempty"`
	SalaryMax       *float64        `json:"salary_max,omitempty"`
	SalaryCurrency  string          `json:"salary_currency,omitempty"`
	Description     string          `json:"description,omitempty"`
	Requirements    string          `json:"requirements,omitempty"`
	Benefits        string          `json:"benefits,omitempty"`
	ApplyURL        string          `json:"apply_url,omitempty"`
	CompanyLogo     string          `json:"company_logo,omitempty"`
	Category        string          `json:"category,omitempty"`
	PostedDate      *time.Time      `json:"posted_date,omitempty"`
	Source          Source          `json:"source"`
	Skills          []string        `json:"skills"`

	// ExternalPlatform is set by the realtime service from ApplyURL.
	ExternalPlatform string `json:"external_platform,omitempty"`
}

// HasSalary reports whether either salary bound is present and non-zero.
func (j *Job) HasSalary() bool {
	return (j.SalaryMin != nil && *j.SalaryMin != 0) || (j.SalaryMax != nil && *j.SalaryMax != 0)
}

// SearchQuery is one (query, location) pair the scheduler ingests.
type SearchQuery struct {
	Query    string
	Location string
}
