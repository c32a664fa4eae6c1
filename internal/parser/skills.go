package parser

import (
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// skillVocabulary is the fixed set of lower-case terms recognised in
// posting text. Matching is plain substring search, so short terms such as
// "r" and "go" over-match; callers treat the result as a hint, not a fact.
var skillVocabulary = []string{
	// programming languages
	"python", "javascript", "java", "c++", "c#", "ruby", "php", "swift",
	"kotlin", "go", "rust", "typescript", "scala", "r", "matlab",

	// web frameworks
	"react", "angular", "vue", "django", "flask", "fastapi", "nodejs",
	"express", "nextjs", "nuxt", "spring", "laravel", "rails",

	// mobile
	"react native", "flutter", "android", "ios", "xamarin",

	// databases
	"sql", "mysql", "postgresql", "mongodb", "redis", "cassandra",
	"oracle", "dynamodb", "firebase", "supabase",

	// cloud and devops
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "ci/cd",
	"terraform", "ansible", "git", "github", "gitlab",

	// data science and ML
	"machine learning", "deep learning", "tensorflow", "pytorch",
	"scikit-learn", "pandas", "numpy", "data analysis", "nlp",

	// other
	"rest api", "graphql", "microservices", "agile", "scrum",
	"linux", "testing", "unit testing", "integration testing",
}

// ExtractSkills returns the title-cased vocabulary terms found in text,
// deduplicated and sorted. Empty text yields an empty, non-nil slice.
func ExtractSkills(text string) []string {
	found := []string{}
	if text == "" {
		return found
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	for _, term := range skillVocabulary {
		if !strings.Contains(lower, term) {
			continue
		}
		skill := TitleCase(term)
		if seen[skill] {
			continue
		}
		seen[skill] = true
		found = append(found, skill)
	}
	sort.Strings(found)
	return found
}

// TitleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest: "c++" -> "C++", "ci/cd" -> "Ci/Cd".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// plainText reduces HTML descriptions (Remotive, Arbeitnow and The Muse
// send markup) to their text content. Input without markup is returned
// unchanged.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}
