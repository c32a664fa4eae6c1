package storage

// Schema creates the tables the store reads and writes. Every statement is
// idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id               UUID PRIMARY KEY,
	external_job_id  TEXT NOT NULL,
	source           TEXT NOT NULL,
	title            TEXT NOT NULL,
	company          TEXT NOT NULL,
	location         TEXT NOT NULL,
	remote           BOOLEAN,
	job_type         TEXT NOT NULL,
	experience_level TEXT NOT NULL,
	salary_min       DOUBLE PRECISION,
	salary_max       DOUBLE PRECISION,
	salary_currency  TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	requirements     TEXT NOT NULL DEFAULT '',
	benefits         TEXT NOT NULL DEFAULT '',
	apply_url        TEXT NOT NULL DEFAULT '',
	company_logo     TEXT NOT NULL DEFAULT '',
	category         TEXT NOT NULL DEFAULT '',
	skills           TEXT[] NOT NULL DEFAULT '{}',
	posted_date      TIMESTAMPTZ,
	is_active        BOOLEAN NOT NULL DEFAULT TRUE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (source, external_job_id)
);

CREATE INDEX IF NOT EXISTS jobs_active_posted_idx ON jobs (is_active, posted_date DESC);

CREATE TABLE IF NOT EXISTS job_fetch_logs (
	id            UUID PRIMARY KEY,
	episode_id    UUID NOT NULL,
	source        TEXT NOT NULL,
	query         TEXT NOT NULL,
	location      TEXT NOT NULL,
	jobs_fetched  INTEGER NOT NULL,
	jobs_stored   INTEGER NOT NULL,
	status        TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	fetched_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
