// Package parser normalises provider-shaped records into model.Job.
//
// Each source has one pure projection; Normalize dispatches on the source
// tag. Skill extraction and experience inference are keyword lookups over
// fixed vocabularies.
package parser

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"jobmate/aggregator-service/internal/model"
)

// ErrUnknownSource is returned for a source tag outside the closed set.
// It signals a programming error, not a runtime condition.
var ErrUnknownSource = errors.New("unknown source")

// ErrMissingID is returned when a record carries no identifier.
var ErrMissingID = errors.New("record has no external id")

const (
	defaultCompany  = "Unknown"
	defaultLocation = "Not specified"
	defaultCategory = "IT"
	defaultTitle    = "Untitled"
)

// Normalize converts one raw record from src into the canonical Job.
func Normalize(raw model.RawRecord, src model.Source) (model.Job, error) {
	var (
		job model.Job
		err error
	)
	switch src {
	case model.SourceJSearch:
		job, err = parseJSearch(raw)
	case model.SourceAdzuna:
		job, err = parseAdzuna(raw)
	case model.SourceRemotive:
		job, err = parseRemotive(raw)
	case model.SourceArbeitnow:
		job, err = parseArbeitnow(raw)
	case model.SourceTheMuse:
		job, err = parseTheMuse(raw)
	default:
		return model.Job{}, errors.Wrapf(ErrUnknownSource, "%q", src)
	}
	if err != nil {
		return model.Job{}, errors.Wrapf(err, "%s record", src)
	}
	job.Source = src
	return job, nil
}

// NormalizeBatch normalises every record of one source. Records that fail
// are logged and skipped; the rest of the batch is still returned. The only
// error is ErrUnknownSource.
func NormalizeBatch(log *zap.SugaredLogger, records []model.RawRecord, src model.Source) ([]model.Job, error) {
	if _, err := model.ParseSource(string(src)); err != nil {
		return nil, errors.Wrapf(ErrUnknownSource, "%q", src)
	}

	jobs := make([]model.Job, 0, len(records))
	for i, raw := range records {
		job, err := Normalize(raw, src)
		if err != nil {
			log.Warnw("skipping unparsable record", "source", src, "index", i, "error", err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// finish fills the derived fields shared by every source.
func finish(job model.Job, scanText string) model.Job {
	if job.Title == "" {
		job.Title = defaultTitle
	}
	if job.Company == "" {
		job.Company = defaultCompany
	}
	if job.Location == "" {
		job.Location = defaultLocation
	}
	if job.Category == "" {
		job.Category = defaultCategory
	}
	job.Skills = ExtractSkills(plainText(scanText))
	job.ExperienceLevel = ExtractExperienceLevel(plainText(job.Description))
	return job
}

// ─── Raw record accessors ─────────────────────────────────────────────────────

func str(r map[string]any, key string) string {
	return toString(r[key])
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func object(r map[string]any, key string) map[string]any {
	switch o := r[key].(type) {
	case map[string]any:
		return o
	case model.RawRecord:
		return o
	}
	return map[string]any{}
}

func list(r map[string]any, key string) []any {
	switch l := r[key].(type) {
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	}
	return nil
}

func number(r map[string]any, key string) *float64 {
	var f float64
	switch n := r[key].(type) {
	case float64:
		f = n
	case json.Number:
		v, err := n.Float64()
		if err != nil {
			return nil
		}
		f = v
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil
	}
	return &f
}

func boolean(r map[string]any, key string) model.Remote {
	if b, ok := r[key].(bool); ok {
		return model.RemoteFrom(b)
	}
	return model.RemoteUnknown
}

func joinLines(items []any) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if s := toString(it); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
