package realtime

import "strings"

// platformTemplates are the job boards a user can continue the search on.
// {q} and {l} are replaced by the query and location with spaces as "+".
var platformTemplates = []struct {
	name string
	tmpl string
}{
	{"LinkedIn", "https://www.linkedin.com/jobs/search/?keywords={q}&location={l}"},
	{"Indeed", "https://www.indeed.com/jobs?q={q}&l={l}"},
	{"Glassdoor", "https://www.glassdoor.com/Job/jobs.htm?sc.keyword={q}&locT=&locId="},
	{"Google Jobs", "https://www.google.com/search?q={q}+jobs+{l}&ibp=htl;jobs"},
	{"BDjobs", "https://www.bdjobs.com/jobsearch.asp?fcatId=&q={q}"},
	{"Bdjobstoday", "https://bdjobstoday.com/?s={q}"},
	{"Chakri.com", "https://www.chakri.com/jobs?q={q}"},
	{"Remote.co", "https://remote.co/remote-jobs/search/?search_keywords={q}"},
	{"We Work Remotely", "https://weworkremotely.com/remote-jobs/search?term={q}"},
	{"FlexJobs", "https://www.flexjobs.com/search?search={q}"},
	{"AngelList", "https://angel.co/jobs#find/f!%7B%22keywords%22%3A%5B%22{q}%22%5D%7D"},
	{"Stack Overflow", "https://stackoverflow.com/jobs?q={q}"},
	{"GitHub Jobs", "https://github.com/search?q={q}+jobs&type=repositories"},
}

// PlatformLinks returns a search URL per job board for query and location.
// Only spaces are rewritten; other characters are substituted as given.
func PlatformLinks(query, location string) map[string]string {
	r := strings.NewReplacer(
		"{q}", strings.ReplaceAll(query, " ", "+"),
		"{l}", strings.ReplaceAll(location, " ", "+"),
	)
	links := make(map[string]string, len(platformTemplates))
	for _, p := range platformTemplates {
		links[p.name] = r.Replace(p.tmpl)
	}
	return links
}
