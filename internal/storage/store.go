// Package storage persists normalised jobs in PostgreSQL. It is the sink of
// the scheduled ingestion path; the real-time path never touches it.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobmate/aggregator-service/internal/model"
)

// ErrNotFound is returned when no active job has the requested id.
var ErrNotFound = errors.New("job not found")

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StoredJob is a persisted job with its row metadata.
type StoredJob struct {
	ID string `json:"id"`
	model.Job
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BatchStats counts the outcome of StoreBatch.
type BatchStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// FetchLog records what one source returned during an ingestion episode.
type FetchLog struct {
	EpisodeID   uuid.UUID
	Source      model.Source
	Query       string
	Location    string
	JobsFetched int
	JobsStored  int
	Status      string
	Error       string
}

// FetchLog statuses.
const (
	FetchSuccess = "success"
	FetchFailed  = "failed"
	FetchSkipped = "skipped"
)

// ListFilter narrows ListJobs. Zero fields are ignored.
type ListFilter struct {
	Source          model.Source
	JobType         model.JobType
	ExperienceLevel model.ExperienceLevel
	Remote          *bool
	Location        string
	Limit           int
	Offset          int
}

// JobStore reads and writes the jobs table.
type JobStore struct {
	db DB
}

// NewJobStore wraps db, usually a *pgxpool.Pool.
func NewJobStore(db DB) *JobStore {
	return &JobStore{db: db}
}

// EnsureSchema applies Schema.
func (s *JobStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}

const jobColumns = `id, external_job_id, source, title, company, location, remote, job_type,
	experience_level, salary_min, salary_max, salary_currency, description, requirements,
	benefits, apply_url, company_logo, category, skills, posted_date, is_active, created_at, updated_at`

// UpsertJob inserts job or refreshes the row with the same source and
// external id. It returns the row id and whether a new row was created.
// Refreshing a row reactivates it.
func (s *JobStore) UpsertJob(ctx context.Context, job model.Job) (string, bool, error) {
	skills := job.Skills
	if skills == nil {
		skills = []string{}
	}

	var (
		id       string
		inserted bool
	)
	err := s.db.QueryRow(ctx,
		`INSERT INTO jobs (id, external_job_id, source, title, company, location, remote, job_type,
		                   experience_level, salary_min, salary_max, salary_currency, description,
		                   requirements, benefits, apply_url, company_logo, category, skills, posted_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 ON CONFLICT (source, external_job_id) DO UPDATE SET
		   title = EXCLUDED.title,
		   company = EXCLUDED.company,
		   location = EXCLUDED.location,
		   remote = EXCLUDED.remote,
		   job_type = EXCLUDED.job_type,
		   experience_level = EXCLUDED.experience_level,
		   salary_min = EXCLUDED.salary_min,
		   salary_max = EXCLUDED.salary_max,
		   salary_currency = EXCLUDED.salary_currency,
		   description = EXCLUDED.description,
		   requirements = EXCLUDED.requirements,
		   benefits = EXCLUDED.benefits,
		   apply_url = EXCLUDED.apply_url,
		   company_logo = EXCLUDED.company_logo,
		   category = EXCLUDED.category,
		   skills = EXCLUDED.skills,
		   posted_date = EXCLUDED.posted_date,
		   is_active = TRUE,
		   updated_at = NOW()
		 RETURNING id::text, (xmax = 0)`,
		uuid.NewString(), job.ExternalJobID, string(job.Source), job.Title, job.Company, job.Location,
		remoteToDB(job.Remote), string(job.JobType), string(job.ExperienceLevel),
		job.SalaryMin, job.SalaryMax, job.SalaryCurrency, job.Description,
		job.Requirements, job.Benefits, job.ApplyURL, job.CompanyLogo, job.Category,
		skills, job.PostedDate,
	).Scan(&id, &inserted)
	if err != nil {
		return "", false, errors.Wrapf(err, "upsert %s/%s", job.Source, job.ExternalJobID)
	}
	return id, inserted, nil
}

// StoreBatch upserts every job independently; one failing row does not
// stop the rest. The last error is returned alongside the stats.
func (s *JobStore) StoreBatch(ctx context.Context, jobs []model.Job) (BatchStats, error) {
	var (
		stats   BatchStats
		lastErr error
	)
	for _, job := range jobs {
		_, inserted, err := s.UpsertJob(ctx, job)
		switch {
		case err != nil:
			stats.Failed++
			lastErr = err
		case inserted:
			stats.Inserted++
		default:
			stats.Updated++
		}
	}
	return stats, lastErr
}

// LogFetch appends a row to job_fetch_logs.
func (s *JobStore) LogFetch(ctx context.Context, l FetchLog) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO job_fetch_logs (id, episode_id, source, query, location, jobs_fetched,
		                             jobs_stored, status, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.NewString(), l.EpisodeID.String(), string(l.Source), l.Query, l.Location,
		l.JobsFetched, l.JobsStored, l.Status, l.Error,
	)
	return errors.Wrap(err, "insert fetch log")
}

// ListJobs returns active jobs matching f, newest first.
func (s *JobStore) ListJobs(ctx context.Context, f ListFilter) ([]StoredJob, error) {
	sql, args := buildListQuery(f)
	return s.queryJobs(ctx, sql, args...)
}

// SearchJobs matches term case-insensitively against title, company and
// description of active jobs.
func (s *JobStore) SearchJobs(ctx context.Context, term string, limit int) ([]StoredJob, error) {
	pattern := "%" + escapeLike(term) + "%"
	return s.queryJobs(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE is_active
		   AND (title ILIKE $1 OR company ILIKE $1 OR description ILIKE $1)
		 ORDER BY posted_date DESC NULLS LAST
		 LIMIT $2`,
		pattern, clampLimit(limit),
	)
}

// GetJob returns one active job by row id.
func (s *JobStore) GetJob(ctx context.Context, id string) (*StoredJob, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND is_active`, id)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get job")
	}
	return j, nil
}

// CleanupOldJobs marks jobs posted before cutoff inactive and returns how
// many rows changed. Undated jobs are left alone.
func (s *JobStore) CleanupOldJobs(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE jobs SET is_active = FALSE, updated_at = NOW()
		 WHERE is_active AND posted_date < $1`,
		cutoff,
	)
	if err != nil {
		return 0, errors.Wrap(err, "cleanup old jobs")
	}
	return tag.RowsAffected(), nil
}

func (s *JobStore) queryJobs(ctx context.Context, sql string, args ...any) ([]StoredJob, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query jobs")
	}
	defer rows.Close()

	jobs := make([]StoredJob, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan job")
		}
		jobs = append(jobs, *j)
	}
	return jobs, errors.Wrap(rows.Err(), "iterate jobs")
}

func scanJob(row pgx.Row) (*StoredJob, error) {
	var (
		j       StoredJob
		source  string
		jobType string
		level   string
		remote  *bool
	)
	err := row.Scan(
		&j.ID, &j.ExternalJobID, &source, &j.Title, &j.Company, &j.Location, &remote, &jobType,
		&level, &j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency, &j.Description, &j.Requirements,
		&j.Benefits, &j.ApplyURL, &j.CompanyLogo, &j.Category, &j.Skills, &j.PostedDate,
		&j.IsActive, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Source = model.Source(source)
	j.JobType = model.JobType(jobType)
	j.ExperienceLevel = model.ExperienceLevel(level)
	j.Remote = remoteFromDB(remote)
	return &j, nil
}

func buildListQuery(f ListFilter) (string, []any) {
	var (
		where = []string{"is_active"}
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Source != "" {
		add("source = $%d", string(f.Source))
	}
	if f.JobType != "" {
		add("job_type = $%d", string(f.JobType))
	}
	if f.ExperienceLevel != "" {
		add("experience_level = $%d", string(f.ExperienceLevel))
	}
	if f.Remote != nil {
		add("remote = $%d", *f.Remote)
	}
	if f.Location != "" {
		add("location ILIKE $%d", "%"+escapeLike(f.Location)+"%")
	}

	args = append(args, clampLimit(f.Limit), max(f.Offset, 0))
	sql := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY posted_date DESC NULLS LAST LIMIT $%d OFFSET $%d`,
		jobColumns, strings.Join(where, " AND "), len(args)-1, len(args))
	return sql, args
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func remoteToDB(r model.Remote) *bool {
	if !r.Known() {
		return nil
	}
	b := r.Bool()
	return &b
}

func remoteFromDB(b *bool) model.Remote {
	if b == nil {
		return model.RemoteUnknown
	}
	return model.RemoteFrom(*b)
}
