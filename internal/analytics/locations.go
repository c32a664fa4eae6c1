package analytics

import (
	"sort"

	"jobmate/aggregator-service/internal/model"
)

const (
	insightLocations = 10
	insightCompanies = 3
	insightSkills    = 5
)

// LocationInsight summarises the jobs of one location.
type LocationInsight struct {
	Location         string   `json:"location"`
	TotalJobs        int      `json:"total_jobs"`
	RemoteJobs       int      `json:"remote_jobs"`
	RemotePercentage float64  `json:"remote_percentage"`
	AvgMinSalary     *float64 `json:"avg_min_salary,omitempty"`
	AvgMaxSalary     *float64 `json:"avg_max_salary,omitempty"`
	TopCompanies     []string `json:"top_companies,omitempty"`
	TopSkills        []string `json:"top_skills,omitempty"`
}

// LocationInsightsReport is the result of LocationInsights.
type LocationInsightsReport struct {
	TopLocations         []LocationInsight `json:"top_locations"`
	TotalUniqueLocations int               `json:"total_unique_locations"`
}

type locationAcc struct {
	name      string
	total     int
	remote    int
	mins      []float64
	maxes     []float64
	companies *counter
	skills    *counter
}

// LocationInsights summarises the busiest locations.
func LocationInsights(jobs []model.Job) LocationInsightsReport {
	var accs []*locationAcc
	index := map[string]*locationAcc{}
	for i := range jobs {
		j := &jobs[i]
		acc, ok := index[j.Location]
		if !ok {
			acc = &locationAcc{name: j.Location, companies: newCounter(), skills: newCounter()}
			index[j.Location] = acc
			accs = append(accs, acc)
		}
		acc.total++
		if j.Remote.Bool() {
			acc.remote++
		}
		if v, ok := nonZero(j.SalaryMin); ok {
			acc.mins = append(acc.mins, v)
		}
		if v, ok := nonZero(j.SalaryMax); ok {
			acc.maxes = append(acc.maxes, v)
		}
		if j.Company != "" {
			acc.companies.add(j.Company)
		}
		for _, s := range j.Skills {
			acc.skills.add(s)
		}
	}

	sort.SliceStable(accs, func(a, b int) bool { return accs[a].total > accs[b].total })
	if len(accs) > insightLocations {
		accs = accs[:insightLocations]
	}

	rep := LocationInsightsReport{
		TopLocations:         make([]LocationInsight, 0, len(accs)),
		TotalUniqueLocations: len(index),
	}
	for _, acc := range accs {
		li := LocationInsight{
			Location:         acc.name,
			TotalJobs:        acc.total,
			RemoteJobs:       acc.remote,
			RemotePercentage: percent(acc.remote, acc.total),
			AvgMinSalary:     avg(acc.mins),
			AvgMaxSalary:     avg(acc.maxes),
		}
		if acc.companies.len() > 0 {
			li.TopCompanies = names(acc.companies.top(insightCompanies))
		}
		if acc.skills.len() > 0 {
			li.TopSkills = names(acc.skills.top(insightSkills))
		}
		rep.TopLocations = append(rep.TopLocations, li)
	}
	return rep
}

func avg(vs []float64) *float64 {
	if len(vs) == 0 {
		return nil
	}
	v := round(mean(vs), 2)
	return &v
}
