package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Keyword queries.
const (
	queryCreateKeyword = `
		INSERT INTO tracked_keywords (keyword, country, enabled)
		VALUES (@keyword, @country, @enabled)
		ON CONFLICT (keyword, country) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	queryGetKeyword = `
		SELECT id, keyword, country, enabled, created_at, updated_at
		FROM tracked_keywords
		WHERE id = $1`

	queryListKeywordsAll = `
		SELECT id, keyword, country, enabled, created_at, updated_at
		FROM tracked_keywords
		ORDER BY keyword, country`

	queryListKeywordsEnabled = `
		SELECT id, keyword, country, enabled, created_at, updated_at
		FROM tracked_keywords
		WHERE enabled = true
		ORDER BY keyword, country`

	querySetKeywordEnabled = `
		UPDATE tracked_keywords
		SET enabled = $2, updated_at = now()
		WHERE id = $1`

	queryDeleteKeyword = `
		DELETE FROM tracked_keywords
		WHERE id = $1`
)

// Observation queries.
const (
	queryInsertObservation = `
		INSERT INTO rank_observations (keyword, country, rank, observed_at)
		VALUES (@keyword, @country, @rank, @observed_at)`

	queryLatestObservation = `
		SELECT keyword, country, rank, observed_at
		FROM rank_observations
		WHERE keyword = $1 AND country = $2
		ORDER BY observed_at DESC
		LIMIT 1`

	queryObservationHistory = `
		SELECT keyword, country, rank, observed_at
		FROM rank_observations
		WHERE keyword = $1 AND country = $2
		ORDER BY observed_at DESC
		LIMIT $3`

	// One row per keyword/country pair, newest observation wins.
	queryLatestObservations = `
		SELECT DISTINCT ON (keyword, country)
			keyword, country, rank, observed_at
		FROM rank_observations
		ORDER BY keyword, country, observed_at DESC`

	queryPruneObservations = `
		DELETE FROM rank_observations
		WHERE observed_at < $1`
)

// Alert record queries.
const (
	queryInsertAlertRecord = `
		INSERT INTO alert_records (
			type, keyword, country, previous_rank, current_rank, delta, priority
		) VALUES (
			@type, @keyword, @country, @previous_rank, @current_rank, @delta, @priority
		)`

	queryAlertRecordsSince = `
		SELECT id, type, keyword, country, previous_rank, current_rank,
			delta, priority, created_at
		FROM alert_records
		WHERE created_at >= $1
		ORDER BY created_at ASC`

	queryPruneAlertRecords = `
		DELETE FROM alert_records
		WHERE created_at < $1`
)

// Job run queries.
const (
	queryInsertJobRun = `
		INSERT INTO job_runs (job_name, started_at, status)
		VALUES ($1, now(), 'running')
		RETURNING id`

	queryCompleteJobRun = `
		UPDATE job_runs
		SET completed_at = now(), status = $2, error_text = $3, rows_affected = $4
		WHERE id = $1`

	queryListJobRuns = `
		SELECT id, job_name, started_at, completed_at, status, error_text, rows_affected
		FROM job_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT $2`

	queryListLatestJobRuns = `
		SELECT DISTINCT ON (job_name)
			id, job_name, started_at, completed_at, status, error_text, rows_affected
		FROM job_runs
		ORDER BY job_name, started_at DESC`
)
