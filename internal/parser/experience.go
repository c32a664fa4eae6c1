package parser

import (
	"strings"

	"jobmate/aggregator-service/internal/model"
)

var entryKeywords = []string{
	"entry level", "junior", "graduate", "fresher",
	"0-2 years", "0-1 year", "internship",
}

var seniorKeywords = []string{
	"senior", "lead", "principal", "architect",
	"5+ years", "7+ years", "10+ years", "expert",
}

// ExtractExperienceLevel infers seniority from free text. Entry markers are
// checked before senior markers; no match, or no text, means mid.
func ExtractExperienceLevel(text string) model.ExperienceLevel {
	if text == "" {
		return model.ExperienceMid
	}
	lower := strings.ToLower(text)
	if containsAny(lower, entryKeywords) {
		return model.ExperienceEntry
	}
	if containsAny(lower, seniorKeywords) {
		return model.ExperienceSenior
	}
	return model.ExperienceMid
}

// NormalizeJobType maps a provider's employment-type string onto the fixed
// enumeration. Unrecognised and empty input is full-time.
func NormalizeJobType(raw string) model.JobType {
	lower := strings.ToLower(raw)
	switch {
	case lower == "":
		return model.JobTypeFullTime
	case strings.Contains(lower, "full"):
		return model.JobTypeFullTime
	case strings.Contains(lower, "part"):
		return model.JobTypePartTime
	case strings.Contains(lower, "contract"):
		return model.JobTypeContract
	case strings.Contains(lower, "intern"):
		return model.JobTypeInternship
	case strings.Contains(lower, "temp"):
		return model.JobTypeTemporary
	}
	return model.JobTypeFullTime
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
