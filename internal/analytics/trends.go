package analytics

import (
	"slices"
	"strings"

	"jobmate/aggregator-service/internal/model"
)

const (
	trendingLimit   = 20
	gapCandidates   = 30
	userSkillsLimit = 10
)

// Priority thresholds are shares of the job count.
const (
	highPriorityShare   = 0.30
	mediumPriorityShare = 0.15
)

// TrendingSkill is a ranked skill with its category.
type TrendingSkill struct {
	Skill      string  `json:"skill"`
	Demand     int     `json:"demand"`
	Percentage float64 `json:"percentage"`
	Category   string  `json:"category"`
}

// SkillDemand is a skill with its demand and, for missing skills, a
// learning priority.
type SkillDemand struct {
	Skill      string  `json:"skill"`
	Demand     int     `json:"demand"`
	Percentage float64 `json:"percentage"`
	Priority   string  `json:"priority,omitempty"`
}

// UserSkillsAnalysis compares the user skills with market demand.
type UserSkillsAnalysis struct {
	SkillsYouHave        []SkillDemand `json:"skills_you_have"`
	SkillsToLearn        []SkillDemand `json:"skills_to_learn"`
	SkillMatchPercentage float64       `json:"skill_match_percentage"`
}

// SkillTrendsReport is the result of SkillTrends.
type SkillTrendsReport struct {
	TrendingSkills     []TrendingSkill     `json:"trending_skills"`
	TotalUniqueSkills  int                 `json:"total_unique_skills"`
	TotalSkillMentions int                 `json:"total_skill_mentions"`
	UserSkillsAnalysis *UserSkillsAnalysis `json:"user_skills_analysis,omitempty"`
	Message            string              `json:"message,omitempty"`
}

// SkillTrends ranks the skills jobs ask for. With userSkills it also
// reports which in-demand skills the user has and which to learn next.
func SkillTrends(jobs []model.Job, userSkills []string) SkillTrendsReport {
	c := skillCounter(jobs)
	if c.len() == 0 {
		return SkillTrendsReport{TrendingSkills: []TrendingSkill{}, Message: "No skill data available"}
	}
	total := len(jobs)

	rep := SkillTrendsReport{
		TrendingSkills:     make([]TrendingSkill, 0, trendingLimit),
		TotalUniqueSkills:  c.len(),
		TotalSkillMentions: c.total(),
	}
	for _, row := range c.top(trendingLimit) {
		rep.TrendingSkills = append(rep.TrendingSkills, TrendingSkill{
			Skill:      row.Name,
			Demand:     row.Count,
			Percentage: percent(row.Count, total),
			Category:   CategorizeSkill(row.Name),
		})
	}

	if len(userSkills) == 0 {
		return rep
	}

	owned := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		owned[strings.ToLower(s)] = true
	}

	ua := &UserSkillsAnalysis{SkillsYouHave: []SkillDemand{}, SkillsToLearn: []SkillDemand{}}
	matching := 0
	for _, name := range c.order {
		if !owned[strings.ToLower(name)] {
			continue
		}
		matching++
		if len(ua.SkillsYouHave) < userSkillsLimit {
			n := c.counts[name]
			ua.SkillsYouHave = append(ua.SkillsYouHave, SkillDemand{Skill: name, Demand: n, Percentage: percent(n, total)})
		}
	}
	for _, row := range c.top(gapCandidates) {
		if owned[strings.ToLower(row.Name)] || len(ua.SkillsToLearn) == userSkillsLimit {
			continue
		}
		ua.SkillsToLearn = append(ua.SkillsToLearn, SkillDemand{
			Skill:      row.Name,
			Demand:     row.Count,
			Percentage: percent(row.Count, total),
			Priority:   priority(row.Count, total),
		})
	}
	ua.SkillMatchPercentage = percent(matching, c.len())
	rep.UserSkillsAnalysis = ua
	return rep
}

func priority(count, total int) string {
	share := float64(count)
	switch {
	case share > float64(total)*highPriorityShare:
		return "high"
	case share > float64(total)*mediumPriorityShare:
		return "medium"
	}
	return "low"
}

var skillCategories = []struct {
	name    string
	members []string
	substr  string
}{
	{"Programming Language", []string{"python", "java", "javascript", "typescript", "go", "rust", "c++", "c#", "php", "ruby", "swift", "kotlin", "scala", "r"}, ""},
	{"Framework", []string{"react", "angular", "vue", "django", "flask", "spring", "express", "nodejs", "laravel", "rails"}, ""},
	{"Database", []string{"sql", "mysql", "postgresql", "mongodb", "redis", "dynamodb", "cassandra", "oracle"}, "sql"},
	{"Cloud Platform", []string{"aws", "azure", "gcp", "cloud"}, ""},
	{"DevOps", []string{"docker", "kubernetes", "jenkins", "terraform", "ansible", "ci/cd", "git"}, ""},
	{"Testing", []string{"testing", "jest", "pytest", "selenium", "cypress"}, "test"},
	{"Methodology/Soft Skill", []string{"agile", "scrum", "leadership", "communication"}, ""},
}

// CategorizeSkill assigns a coarse category from fixed membership lists,
// checked in order. Unlisted skills are "Other".
func CategorizeSkill(skill string) string {
	s := strings.ToLower(skill)
	for _, cat := range skillCategories {
		if slices.Contains(cat.members, s) || (cat.substr != "" && strings.Contains(s, cat.substr)) {
			return cat.name
		}
	}
	return "Other"
}
