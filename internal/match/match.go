// Package match scores jobs against a user's skill set.
package match

import (
	"math"
	"sort"
	"strings"

	"jobmate/aggregator-service/internal/model"
)

// Result is a job annotated with its skill overlap.
type Result struct {
	model.Job
	MatchPercentage float64  `json:"match_percentage"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
}

// Match scores every job as the share of its skills the user has, drops
// those under minPercentage and sorts the rest best first. Equal scores
// keep their input order. Skills compare case-insensitively and are
// reported in the job's own casing.
func Match(jobs []model.Job, userSkills []string, minPercentage float64) []Result {
	have := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	out := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		r := score(job, have)
		if r.MatchPercentage < minPercentage {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out
}

func score(job model.Job, have map[string]struct{}) Result {
	r := Result{Job: job, MatchedSkills: []string{}, MissingSkills: []string{}}

	seen := make(map[string]struct{}, len(job.Skills))
	for _, s := range job.Skills {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := have[key]; ok {
			r.MatchedSkills = append(r.MatchedSkills, s)
		} else {
			r.MissingSkills = append(r.MissingSkills, s)
		}
	}
	sort.Strings(r.MatchedSkills)
	sort.Strings(r.MissingSkills)

	if total := len(seen); total > 0 {
		r.MatchPercentage = round2(float64(len(r.MatchedSkills)) / float64(total) * 100)
	}
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
