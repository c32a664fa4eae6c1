package api

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	"jobmate/aggregator-service/internal/filter"
)

const (
	defaultQuery      = "software developer"
	defaultLocation   = "United States"
	defaultMatchPlace = "Remote"
	defaultQuickLimit = 50
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// flexBool accepts a JSON boolean or a "true"/"false" string.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "remote filter")
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(filter.ParseRemote(t))
	case nil:
		*b = false
	default:
		return errors.Newf("remote filter must be a boolean, got %s", data)
	}
	return nil
}

// filterBody is the "filters" object of the POST endpoints.
// location_filter is an alias of location and wins when both are sent.
type filterBody struct {
	JobType         *string   `json:"job_type"`
	ExperienceLevel *string   `json:"experience_level"`
	Remote          *flexBool `json:"remote"`
	MinSalary       *float64  `json:"min_salary"`
	MaxSalary       *float64  `json:"max_salary"`
	Skills          []string  `json:"skills"`
	Company         *string   `json:"company"`
	Location        *string   `json:"location"`
	LocationFilter  *string   `json:"location_filter"`
	ExcludeTerms    []string  `json:"exclude_terms"`
}

func (b *filterBody) set() filter.FilterSet {
	if b == nil {
		return filter.FilterSet{}
	}
	fs := filter.FilterSet{
		JobType:         b.JobType,
		ExperienceLevel: b.ExperienceLevel,
		MinSalary:       b.MinSalary,
		MaxSalary:       b.MaxSalary,
		Skills:          b.Skills,
		Company:         b.Company,
		Location:        b.Location,
		ExcludeTerms:    b.ExcludeTerms,
	}
	if b.Remote != nil {
		r := bool(*b.Remote)
		fs.Remote = &r
	}
	if b.LocationFilter != nil {
		fs.Location = b.LocationFilter
	}
	return fs
}

// fetchBody is shared by every POST endpoint that triggers a fetch.
type fetchBody struct {
	Query    *string  `json:"query"`
	Location *string  `json:"location"`
	Sources  []string `json:"sources"`
}

func (b fetchBody) query() string { return orDefault(b.Query, defaultQuery) }

func (b fetchBody) location(fallback string) string { return orDefault(b.Location, fallback) }

type searchBody struct {
	fetchBody
	UseCache *bool      `json:"use_cache"`
	Filters  filterBody `json:"filters"`
}

type analyticsBody struct {
	fetchBody
	Filters filterBody `json:"filters"`
}

type skillsBody struct {
	fetchBody
	UserSkills []string `json:"user_skills" binding:"required"`
}

type matchBody struct {
	skillsBody
	MinMatchPercentage float64 `json:"min_match_percentage" binding:"min=0,max=100"`
}

type skillTrendsBody struct {
	fetchBody
	UserSkills []string `json:"user_skills"`
}

// quickSearchQuery is the query string of GET quick-search.
type quickSearchQuery struct {
	Q               string   `form:"q" binding:"required,max=200"`
	Location        *string  `form:"location"`
	Limit           int      `form:"limit" binding:"omitempty,min=1,max=500"`
	JobType         string   `form:"job_type"`
	ExperienceLevel string   `form:"experience_level"`
	Remote          string   `form:"remote"`
	MinSalary       *float64 `form:"min_salary"`
	MaxSalary       *float64 `form:"max_salary"`
	Skills          string   `form:"skills"`
	Company         string   `form:"company"`
	LocationFilter  string   `form:"location_filter"`
}

func (q quickSearchQuery) set() filter.FilterSet {
	fs := filter.FilterSet{MinSalary: q.MinSalary, MaxSalary: q.MaxSalary}
	if q.JobType != "" {
		fs.JobType = &q.JobType
	}
	if q.ExperienceLevel != "" {
		fs.ExperienceLevel = &q.ExperienceLevel
	}
	if q.Remote != "" {
		r := filter.ParseRemote(q.Remote)
		fs.Remote = &r
	}
	if q.Skills != "" {
		for _, s := range strings.Split(q.Skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				fs.Skills = append(fs.Skills, s)
			}
		}
	}
	if q.Company != "" {
		fs.Company = &q.Company
	}
	if q.LocationFilter != "" {
		fs.Location = &q.LocationFilter
	}
	return fs
}

type platformsQuery struct {
	Query    string `form:"query" binding:"required,max=200"`
	Location string `form:"location"`
}

type listJobsQuery struct {
	Source          string `form:"source" binding:"omitempty,oneof=jsearch adzuna remotive arbeitnow themuse"`
	JobType         string `form:"job_type"`
	ExperienceLevel string `form:"experience_level" binding:"omitempty,oneof=entry mid senior"`
	Remote          string `form:"remote" binding:"omitempty,oneof=true false"`
	Location        string `form:"location"`
	Limit           int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset          int    `form:"offset" binding:"omitempty,min=0"`
}

type searchJobsQuery struct {
	Q     string `form:"q" binding:"required,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

func orDefault(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
