package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobmate/aggregator-service/internal/filter"
	"jobmate/aggregator-service/internal/model"
)

func ptr[T any](v T) *T { return &v }

func jobs() []model.Job {
	return []model.Job{
		{
			ExternalJobID: "1", Title: "Python Engineer", Company: "Acme Corp", Location: "Berlin, Germany",
			Remote: model.RemoteYes, JobType: model.JobTypeFullTime, ExperienceLevel: model.ExperienceSenior,
			SalaryMin: ptr(90000.0), SalaryMax: ptr(120000.0), Skills: []string{"Python", "React"},
		},
		{
			ExternalJobID: "2", Title: "Go Developer", Company: "Globex", Location: "Remote",
			Remote: model.RemoteNo, JobType: model.JobTypeContract, ExperienceLevel: model.ExperienceMid,
			SalaryMin: ptr(60000.0), Skills: []string{"Go", "Docker"},
			Description: "Unpaid trial week required",
		},
		{
			ExternalJobID: "3", Title: "Intern", Company: "acme labs", Location: "Austin",
			JobType: model.JobTypeInternship, ExperienceLevel: model.ExperienceEntry,
			Skills: []string{},
		},
	}
}

func ids(js []model.Job) []string {
	out := make([]string, len(js))
	for i, j := range js {
		out[i] = j.ExternalJobID
	}
	return out
}

func TestApply_SkillsAtLeastOne(t *testing.T) {
	job := []model.Job{{ExternalJobID: "x", Skills: []string{"Python", "React"}}}

	assert.Len(t, filter.Apply(job, filter.FilterSet{Skills: []string{"Python", "Go"}}), 1)
	assert.Empty(t, filter.Apply(job, filter.FilterSet{Skills: []string{"Go", "Rust"}}))
	assert.Len(t, filter.Apply(job, filter.FilterSet{Skills: []string{"python"}}), 1)
}

func TestApply_NoFiltersKeepsEverything(t *testing.T) {
	in := jobs()
	assert.Equal(t, in, filter.Apply(in, filter.FilterSet{}))
	assert.Equal(t, in, filter.Apply(in, filter.FilterSet{Skills: []string{}}), "empty skills list is inactive")
}

func TestApply_Predicates(t *testing.T) {
	cases := []struct {
		name string
		fs   filter.FilterSet
		want []string
	}{
		{"job type case-insensitive", filter.FilterSet{JobType: ptr("CONTRACT")}, []string{"2"}},
		{"experience", filter.FilterSet{ExperienceLevel: ptr("Entry")}, []string{"3"}},
		{"remote true", filter.FilterSet{Remote: ptr(true)}, []string{"1"}},
		{"remote false includes unknown", filter.FilterSet{Remote: ptr(false)}, []string{"2", "3"}},
		{"min salary needs salary_min", filter.FilterSet{MinSalary: ptr(70000.0)}, []string{"1"}},
		{"max salary needs salary_max", filter.FilterSet{MaxSalary: ptr(200000.0)}, []string{"1"}},
		{"company substring", filter.FilterSet{Company: ptr("ACME")}, []string{"1", "3"}},
		{"location substring", filter.FilterSet{Location: ptr("germany")}, []string{"1"}},
		{"exclude terms", filter.FilterSet{ExcludeTerms: []string{"unpaid"}}, []string{"1", "3"}},
		{"anded", filter.FilterSet{Company: ptr("acme"), Remote: ptr(false)}, []string{"3"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ids(filter.Apply(jobs(), c.fs)))
		})
	}
}

func TestApply_ZeroSalaryIsNoSalary(t *testing.T) {
	in := []model.Job{
		{ExternalJobID: "zero", SalaryMin: ptr(0.0), SalaryMax: ptr(0.0)},
		{ExternalJobID: "paid", SalaryMin: ptr(50000.0), SalaryMax: ptr(80000.0)},
	}
	assert.Equal(t, []string{"paid"}, ids(filter.Apply(in, filter.FilterSet{MinSalary: ptr(0.0)})))
	assert.Equal(t, []string{"paid"}, ids(filter.Apply(in, filter.FilterSet{MaxSalary: ptr(100000.0)})))
}

func TestApply_Commutative(t *testing.T) {
	a := filter.FilterSet{Company: ptr("acme")}
	b := filter.FilterSet{Skills: []string{"react", "go"}}
	ab := filter.FilterSet{Company: ptr("acme"), Skills: []string{"react", "go"}}

	first := filter.Apply(filter.Apply(jobs(), a), b)
	second := filter.Apply(filter.Apply(jobs(), b), a)
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, ids(first), ids(filter.Apply(jobs(), ab)))
}

func TestApply_PreservesOrderAndInput(t *testing.T) {
	in := jobs()
	out := filter.Apply(in, filter.FilterSet{Company: ptr("a")})
	assert.Equal(t, []string{"1", "3"}, ids(out))
	assert.Equal(t, []string{"1", "2", "3"}, ids(in))
}

func TestParseRemote(t *testing.T) {
	assert.True(t, filter.ParseRemote("true"))
	assert.True(t, filter.ParseRemote("TRUE"))
	assert.False(t, filter.ParseRemote("yes"))
	assert.False(t, filter.ParseRemote(""))
	assert.False(t, filter.ParseRemote("false"))
}

func TestActive(t *testing.T) {
	assert.Empty(t, filter.FilterSet{}.Active())
	fs := filter.FilterSet{Remote: ptr(false), Skills: []string{"go"}, Location: ptr("x")}
	assert.Equal(t, []string{"remote", "skills", "location"}, fs.Active())
}

func TestContainsTerm(t *testing.T) {
	assert.False(t, filter.ContainsTerm("a", "b", "c", nil))
	assert.False(t, filter.ContainsTerm("a", "b", "c", []string{""}))
	assert.True(t, filter.ContainsTerm("Sales Rep", "Acme", "commission only", []string{"Commission Only"}))
	assert.True(t, filter.ContainsTerm("Dev", "MLM Partners", "", []string{"mlm"}))
}
