package realtime

import (
	"sort"
	"strings"

	"jobmate/aggregator-service/internal/model"
)

const skillGapLimit = 10

// DemandedSkill is a skill and the number of jobs asking for it.
type DemandedSkill struct {
	Skill    string `json:"skill"`
	JobCount int    `json:"job_count"`
}

// SkillGap is a demanded skill the user does not list.
type SkillGap struct {
	Skill         string `json:"skill"`
	MissingInJobs int    `json:"missing_in_jobs"`
}

// SkillGapReport is the result of AnalyzeSkillGap.
type SkillGapReport struct {
	UserSkills         []string        `json:"user_skills"`
	MostDemandedSkills []DemandedSkill `json:"most_demanded_skills"`
	TopSkillGaps       []SkillGap      `json:"top_skill_gaps"`
	TotalUniqueSkills  int             `json:"total_unique_skills"`
	UserSkillCount     int             `json:"user_skill_count"`
}

// AnalyzeSkillGap counts how often each skill is demanded across jobs and
// how often it is demanded but missing from userSkills. Comparison is
// case-insensitive; ties keep first-seen order.
func AnalyzeSkillGap(jobs []model.Job, userSkills []string) SkillGapReport {
	have := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		have[strings.ToLower(s)] = true
	}

	var order []string
	demand := map[string]int{}
	missing := map[string]int{}
	for _, job := range jobs {
		for _, s := range job.Skills {
			if _, ok := demand[s]; !ok {
				order = append(order, s)
			}
			demand[s]++
			if !have[strings.ToLower(s)] {
				missing[s]++
			}
		}
	}

	rep := SkillGapReport{
		UserSkills:         userSkills,
		MostDemandedSkills: []DemandedSkill{},
		TopSkillGaps:       []SkillGap{},
		TotalUniqueSkills:  len(demand),
		UserSkillCount:     len(userSkills),
	}
	if rep.UserSkills == nil {
		rep.UserSkills = []string{}
	}

	for _, s := range rankBy(order, demand) {
		rep.MostDemandedSkills = append(rep.MostDemandedSkills, DemandedSkill{Skill: s, JobCount: demand[s]})
	}
	for _, s := range rankBy(order, missing) {
		rep.TopSkillGaps = append(rep.TopSkillGaps, SkillGap{Skill: s, MissingInJobs: missing[s]})
	}
	return rep
}

// rankBy returns up to skillGapLimit keys of counts, highest first, in a
// stable order over order.
func rankBy(order []string, counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for _, k := range order {
		if counts[k] > 0 {
			keys = append(keys, k)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })
	if len(keys) > skillGapLimit {
		keys = keys[:skillGapLimit]
	}
	return keys
}
