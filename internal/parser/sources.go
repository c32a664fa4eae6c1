package parser

import (
	"strings"

	"jobmate/aggregator-service/internal/model"
)

// CountryKey is set on Adzuna records by the fetcher so the parser can
// derive the salary currency from the country endpoint that served them.
const CountryKey = "_country"

var adzunaCurrencies = map[string]string{
	"us": "USD",
	"gb": "GBP",
	"ca": "CAD",
	"au": "AUD",
	"in": "INR",
}

func parseJSearch(r model.RawRecord) (model.Job, error) {
	id := str(r, "job_id")
	if id == "" {
		return model.Job{}, ErrMissingID
	}
	highlights := object(r, "job_highlights")

	location := str(r, "job_city")
	if location == "" {
		location = str(r, "job_country")
	}

	job := model.Job{
		ExternalJobID:  id,
		Title:          str(r, "job_title"),
		Company:        str(r, "employer_name"),
		Location:       location,
		Remote:         boolean(r, "job_is_remote"),
		JobType:        NormalizeJobType(str(r, "job_employment_type")),
		SalaryMin:      number(r, "job_min_salary"),
		SalaryMax:      number(r, "job_max_salary"),
		SalaryCurrency: str(r, "job_salary_currency"),
		Description:    str(r, "job_description"),
		Requirements:   joinLines(list(highlights, "Qualifications")),
		Benefits:       joinLines(list(highlights, "Benefits")),
		ApplyURL:       str(r, "job_apply_link"),
		CompanyLogo:    str(r, "employer_logo"),
		PostedDate:     ParseDate(r["job_posted_at_datetime_utc"]),
	}
	return finish(job, job.Title+" "+job.Description), nil
}

func parseAdzuna(r model.RawRecord) (model.Job, error) {
	id := str(r, "id")
	if id == "" {
		return model.Job{}, ErrMissingID
	}
	title := str(r, "title")
	description := str(r, "description")
	text := strings.ToLower(title + " " + description)

	currency := adzunaCurrencies[str(r, CountryKey)]
	if currency == "" {
		currency = "USD"
	}

	job := model.Job{
		ExternalJobID:  id,
		Title:          title,
		Company:        str(object(r, "company"), "display_name"),
		Location:       str(object(r, "location"), "display_name"),
		Remote:         model.RemoteFrom(strings.Contains(text, "remote")),
		JobType:        adzunaJobType(r),
		SalaryMin:      number(r, "salary_min"),
		SalaryMax:      number(r, "salary_max"),
		SalaryCurrency: currency,
		Description:    description,
		ApplyURL:       str(r, "redirect_url"),
		Category:       str(object(r, "category"), "label"),
		PostedDate:     ParseDate(r["created"]),
	}
	return finish(job, title+" "+description), nil
}

// adzunaJobType prefers contract_type. Contract roles usually also carry
// contract_time "full_time", so that is only read when the type is missing or
// "permanent".
func adzunaJobType(r model.RawRecord) model.JobType {
	ct := strings.ToLower(strings.TrimSpace(str(r, "contract_type")))
	if ct == "" || ct == "permanent" {
		return NormalizeJobType(str(r, "contract_time"))
	}
	return NormalizeJobType(ct)
}

func parseRemotive(r model.RawRecord) (model.Job, error) {
	id := str(r, "id")
	if id == "" {
		return model.Job{}, ErrMissingID
	}
	location := str(r, "candidate_required_location")
	if location == "" {
		location = "Remote"
	}

	job := model.Job{
		ExternalJobID: id,
		Title:         str(r, "title"),
		Company:       str(r, "company_name"),
		Location:      location,
		Remote:        model.RemoteYes,
		JobType:       NormalizeJobType(str(r, "job_type")),
		Description:   str(r, "description"),
		ApplyURL:      str(r, "url"),
		CompanyLogo:   str(r, "company_logo"),
		Category:      str(r, "category"),
		PostedDate:    ParseDate(r["publication_date"]),
	}
	return finish(job, job.Title+" "+job.Description), nil
}

func parseArbeitnow(r model.RawRecord) (model.Job, error) {
	id := str(r, "slug")
	if id == "" {
		return model.Job{}, ErrMissingID
	}
	location := str(r, "location")
	if location == "" {
		location = "Remote"
	}

	jobType := model.JobTypeFullTime
	if types := list(r, "job_types"); len(types) > 0 {
		jobType = NormalizeJobType(toString(types[0]))
	}

	job := model.Job{
		ExternalJobID: id,
		Title:         str(r, "title"),
		Company:       str(r, "company_name"),
		Location:      location,
		Remote:        boolean(r, "remote"),
		JobType:       jobType,
		Description:   str(r, "description"),
		ApplyURL:      str(r, "url"),
		PostedDate:    ParseDate(r["created_at"]),
	}
	return finish(job, job.Title+" "+job.Description), nil
}

func parseTheMuse(r model.RawRecord) (model.Job, error) {
	id := str(r, "id")
	if id == "" {
		return model.Job{}, ErrMissingID
	}
	company := object(r, "company")

	location := "Unknown"
	remote := false
	for i, l := range list(r, "locations") {
		loc, _ := l.(map[string]any)
		name := str(loc, "name")
		if i == 0 && name != "" {
			location = name
		}
		if strings.Contains(strings.ToLower(name), "remote") {
			remote = true
		}
	}

	category := ""
	if cats := list(r, "categories"); len(cats) > 0 {
		first, _ := cats[0].(map[string]any)
		category = str(first, "name")
	}

	job := model.Job{
		ExternalJobID: id,
		Title:         str(r, "name"),
		Company:       str(company, "name"),
		Location:      location,
		Remote:        model.RemoteFrom(remote),
		JobType:       NormalizeJobType(str(r, "type")),
		Description:   str(r, "contents"),
		ApplyURL:      str(object(r, "refs"), "landing_page"),
		CompanyLogo:   str(company, "logo"),
		Category:      category,
		PostedDate:    ParseDate(r["publication_date"]),
	}
	return finish(job, job.Title+" "+job.Description), nil
}
