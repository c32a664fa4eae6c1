// Package analytics computes dashboard statistics over a job collection.
// Every function is pure; none of them touches the providers.
package analytics

import (
	"slices"
	"time"

	"jobmate/aggregator-service/internal/model"
)

const (
	topLocations  = 10
	topCompanies  = 10
	topSkills     = 20
	topCategories = 10
	sampleLocs    = 3
)

// Report is the full dashboard payload produced by Generate.
type Report struct {
	Overview             Overview           `json:"overview"`
	BySource             map[string]int     `json:"by_source"`
	ByExperienceLevel    map[string]int     `json:"by_experience_level"`
	ByJobType            map[string]int     `json:"by_job_type"`
	ByLocation           LocationBreakdown  `json:"by_location"`
	RemoteDistribution   RemoteDistribution `json:"remote_distribution"`
	SalaryStatistics     SalaryStatistics   `json:"salary_statistics"`
	TopCompanies         []TopCompany       `json:"top_companies"`
	TopSkills            []SkillCount       `json:"top_skills"`
	RecentPostings       RecentPostings     `json:"recent_postings"`
	CategoryDistribution []Count            `json:"category_distribution"`
	Timestamp            time.Time          `json:"timestamp"`
}

// Overview holds the headline counts of a job set.
type Overview struct {
	TotalJobs                int     `json:"total_jobs"`
	JobsWithSalary           int     `json:"jobs_with_salary"`
	JobsWithSalaryPercentage float64 `json:"jobs_with_salary_percentage"`
	RemoteJobs               int     `json:"remote_jobs"`
	RemotePercentage         float64 `json:"remote_percentage"`
	EntryLevelJobs           int     `json:"entry_level_jobs"`
	MidLevelJobs             int     `json:"mid_level_jobs"`
	SeniorLevelJobs          int     `json:"senior_level_jobs"`
	Message                  string  `json:"message,omitempty"`
}

// LocationBreakdown ranks the most common locations.
type LocationBreakdown struct {
	TopLocations      []Count `json:"top_locations"`
	UniqueLocations   int     `json:"unique_locations"`
	TotalWithLocation int     `json:"total_with_location"`
}

// RemoteDistribution splits the set three ways; jobs whose provider said
// nothing about remote work are NotSpecified.
type RemoteDistribution struct {
	Remote                 int     `json:"remote"`
	RemotePercentage       float64 `json:"remote_percentage"`
	OnSite                 int     `json:"on_site"`
	OnSitePercentage       float64 `json:"on_site_percentage"`
	NotSpecified           int     `json:"not_specified"`
	NotSpecifiedPercentage float64 `json:"not_specified_percentage"`
}

// SalaryRange summarises one salary bound across jobs.
type SalaryRange struct {
	Lowest  float64 `json:"lowest"`
	Highest float64 `json:"highest"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
}

// SalaryBuckets is a histogram over every salary_min and salary_max value.
type SalaryBuckets struct {
	Under50k     int `json:"0-50k"`
	From50kTo80k int `json:"50k-80k"`
	From80To120k int `json:"80k-120k"`
	From120To150 int `json:"120k-150k"`
	Over150k     int `json:"150k+"`
}

// SalaryStatistics describes the jobs that carry a non-zero salary.
type SalaryStatistics struct {
	JobsWithSalary int            `json:"jobs_with_salary"`
	MinimumSalary  *SalaryRange   `json:"minimum_salary,omitempty"`
	MaximumSalary  *SalaryRange   `json:"maximum_salary,omitempty"`
	SalaryRanges   *SalaryBuckets `json:"salary_ranges,omitempty"`
	Message        string         `json:"message,omitempty"`
}

// TopCompany is one row of the top hiring companies.
type TopCompany struct {
	Company         string   `json:"company"`
	JobCount        int      `json:"job_count"`
	SampleLocations []string `json:"sample_locations"`
	RemoteJobs      int      `json:"remote_jobs"`
}

// SkillCount is how many jobs mention a skill.
type SkillCount struct {
	Skill      string  `json:"skill"`
	JobCount   int     `json:"job_count"`
	Percentage float64 `json:"percentage"`
}

// RecentPostings counts dated jobs only; undated jobs appear in no bucket.
type RecentPostings struct {
	Last24Hours int `json:"last_24_hours"`
	Last7Days   int `json:"last_7_days"`
	Last30Days  int `json:"last_30_days"`
	Older       int `json:"older"`
}

// Generate builds the dashboard report for jobs as of now.
func Generate(jobs []model.Job, now time.Time) Report {
	if len(jobs) == 0 {
		return emptyReport(now)
	}
	return Report{
		Overview:             GetOverview(jobs),
		BySource:             tally(jobs, func(j *model.Job) string { return string(j.Source) }),
		ByExperienceLevel:    tally(jobs, func(j *model.Job) string { return string(j.ExperienceLevel) }),
		ByJobType:            tally(jobs, func(j *model.Job) string { return string(j.JobType) }),
		ByLocation:           GetByLocation(jobs),
		RemoteDistribution:   GetRemoteDistribution(jobs),
		SalaryStatistics:     GetSalaryStatistics(jobs),
		TopCompanies:         GetTopCompanies(jobs),
		TopSkills:            GetTopSkills(jobs),
		RecentPostings:       GetRecentPostings(jobs, now),
		CategoryDistribution: GetCategoryDistribution(jobs),
		Timestamp:            now.UTC(),
	}
}

func emptyReport(now time.Time) Report {
	return Report{
		Overview:             Overview{Message: "No jobs available"},
		BySource:             map[string]int{},
		ByExperienceLevel:    map[string]int{},
		ByJobType:            map[string]int{},
		ByLocation:           LocationBreakdown{TopLocations: []Count{}},
		SalaryStatistics:     SalaryStatistics{Message: "No salary data available"},
		TopCompanies:         []TopCompany{},
		TopSkills:            []SkillCount{},
		CategoryDistribution: []Count{},
		Timestamp:            now.UTC(),
	}
}

func tally(jobs []model.Job, key func(*model.Job) string) map[string]int {
	c := newCounter()
	for i := range jobs {
		c.add(key(&jobs[i]))
	}
	return c.asMap()
}

// GetOverview counts salaried, remote and per-level jobs.
func GetOverview(jobs []model.Job) Overview {
	o := Overview{TotalJobs: len(jobs)}
	for i := range jobs {
		j := &jobs[i]
		if j.HasSalary() {
			o.JobsWithSalary++
		}
		if j.Remote.Bool() {
			o.RemoteJobs++
		}
		switch j.ExperienceLevel {
		case model.ExperienceEntry:
			o.EntryLevelJobs++
		case model.ExperienceMid:
			o.MidLevelJobs++
		case model.ExperienceSenior:
			o.SeniorLevelJobs++
		}
	}
	o.JobsWithSalaryPercentage = percent(o.JobsWithSalary, o.TotalJobs)
	o.RemotePercentage = percent(o.RemoteJobs, o.TotalJobs)
	return o
}

// GetByLocation ranks the locations of jobs that have one.
func GetByLocation(jobs []model.Job) LocationBreakdown {
	c := newCounter()
	for i := range jobs {
		if jobs[i].Location != "" {
			c.add(jobs[i].Location)
		}
	}
	return LocationBreakdown{
		TopLocations:      c.top(topLocations),
		UniqueLocations:   c.len(),
		TotalWithLocation: c.total(),
	}
}

// GetRemoteDistribution splits jobs by their remote flag.
func GetRemoteDistribution(jobs []model.Job) RemoteDistribution {
	var d RemoteDistribution
	for i := range jobs {
		switch jobs[i].Remote {
		case model.RemoteYes:
			d.Remote++
		case model.RemoteNo:
			d.OnSite++
		default:
			d.NotSpecified++
		}
	}
	total := len(jobs)
	d.RemotePercentage = percent(d.Remote, total)
	d.OnSitePercentage = percent(d.OnSite, total)
	d.NotSpecifiedPercentage = percent(d.NotSpecified, total)
	return d
}

// GetSalaryStatistics summarises the salary bounds jobs report. Zero is
// treated as not reported.
func GetSalaryStatistics(jobs []model.Job) SalaryStatistics {
	var mins, maxes []float64
	withSalary := 0
	for i := range jobs {
		lo, hasLo := nonZero(jobs[i].SalaryMin)
		hi, hasHi := nonZero(jobs[i].SalaryMax)
		if hasLo {
			mins = append(mins, lo)
		}
		if hasHi {
			maxes = append(maxes, hi)
		}
		if hasLo || hasHi {
			withSalary++
		}
	}
	if withSalary == 0 {
		return SalaryStatistics{Message: "No salary data available"}
	}

	stats := SalaryStatistics{
		JobsWithSalary: withSalary,
		MinimumSalary:  salaryRange(mins),
		MaximumSalary:  salaryRange(maxes),
		SalaryRanges:   &SalaryBuckets{},
	}
	for _, s := range append(slices.Clone(mins), maxes...) {
		b := stats.SalaryRanges
		switch {
		case s < 50000:
			b.Under50k++
		case s < 80000:
			b.From50kTo80k++
		case s < 120000:
			b.From80To120k++
		case s < 150000:
			b.From120To150++
		default:
			b.Over150k++
		}
	}
	return stats
}

func salaryRange(vs []float64) *SalaryRange {
	if len(vs) == 0 {
		return nil
	}
	return &SalaryRange{
		Lowest:  slices.Min(vs),
		Highest: slices.Max(vs),
		Average: round(mean(vs), 2),
		Median:  round(median(vs), 2),
	}
}

// GetTopCompanies ranks companies by job count. Sample locations are the
// distinct locations among a company's first three postings.
func GetTopCompanies(jobs []model.Job) []TopCompany {
	c := newCounter()
	byCompany := map[string][]*model.Job{}
	for i := range jobs {
		name := jobs[i].Company
		if name == "" {
			continue
		}
		c.add(name)
		byCompany[name] = append(byCompany[name], &jobs[i])
	}

	out := make([]TopCompany, 0, topCompanies)
	for _, row := range c.top(topCompanies) {
		owned := byCompany[row.Name]
		tc := TopCompany{Company: row.Name, JobCount: row.Count, SampleLocations: []string{}}
		for i, j := range owned {
			if i < sampleLocs && j.Location != "" && !slices.Contains(tc.SampleLocations, j.Location) {
				tc.SampleLocations = append(tc.SampleLocations, j.Location)
			}
			if j.Remote.Bool() {
				tc.RemoteJobs++
			}
		}
		out = append(out, tc)
	}
	return out
}

// GetTopSkills ranks skills by the number of jobs that list them.
func GetTopSkills(jobs []model.Job) []SkillCount {
	c := skillCounter(jobs)
	out := make([]SkillCount, 0, topSkills)
	for _, row := range c.top(topSkills) {
		out = append(out, SkillCount{Skill: row.Name, JobCount: row.Count, Percentage: percent(row.Count, len(jobs))})
	}
	return out
}

func skillCounter(jobs []model.Job) *counter {
	c := newCounter()
	for i := range jobs {
		for _, s := range jobs[i].Skills {
			c.add(s)
		}
	}
	return c
}

// GetRecentPostings buckets dated jobs by age relative to now. The buckets
// are cumulative; Older counts dated jobs outside the 30-day window.
func GetRecentPostings(jobs []model.Job, now time.Time) RecentPostings {
	var r RecentPostings
	dated := 0
	day, week, month := now.Add(-24*time.Hour), now.Add(-7*24*time.Hour), now.Add(-30*24*time.Hour)
	for i := range jobs {
		p := jobs[i].PostedDate
		if p == nil {
			continue
		}
		dated++
		if !p.Before(day) {
			r.Last24Hours++
		}
		if !p.Before(week) {
			r.Last7Days++
		}
		if !p.Before(month) {
			r.Last30Days++
		}
	}
	r.Older = dated - r.Last30Days
	return r
}

// GetCategoryDistribution counts jobs per provider category.
func GetCategoryDistribution(jobs []model.Job) []Count {
	c := newCounter()
	for i := range jobs {
		if jobs[i].Category != "" {
			c.add(jobs[i].Category)
		}
	}
	return c.top(topCategories)
}
