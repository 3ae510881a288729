package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

func (s *Store) migrate(ctx context.Context) error {
	autoID := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == dialect.Postgres {
		autoID = "BIGSERIAL PRIMARY KEY"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS learners (
			id TEXT NOT NULL,
			language TEXT NOT NULL,
			reading DOUBLE PRECISION NOT NULL DEFAULT 0,
			writing DOUBLE PRECISION NOT NULL DEFAULT 0,
			listening DOUBLE PRECISION NOT NULL DEFAULT 0,
			speaking DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_study_minutes INTEGER NOT NULL DEFAULT 0,
			last_session_at TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (id, language)
		)`,
		`CREATE TABLE IF NOT EXISTS vocabulary_progress (
			learner_id TEXT NOT NULL,
			language TEXT NOT NULL,
			item_id TEXT NOT NULL,
			strength DOUBLE PRECISION NOT NULL,
			ease_factor DOUBLE PRECISION NOT NULL,
			interval_days DOUBLE PRECISION NOT NULL,
			repetition_count INTEGER NOT NULL,
			last_reviewed TEXT NOT NULL DEFAULT '',
			next_review TEXT NOT NULL DEFAULT '',
			times_correct INTEGER NOT NULL DEFAULT 0,
			times_incorrect INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (learner_id, language, item_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vocabulary_next_review
			ON vocabulary_progress (learner_id, language, next_review)`,
		`CREATE TABLE IF NOT EXISTS grammar_progress (
			learner_id TEXT NOT NULL,
			language TEXT NOT NULL,
			concept_id TEXT NOT NULL,
			level INTEGER NOT NULL,
			times_practiced INTEGER NOT NULL DEFAULT 0,
			recent_error_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_practiced TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (learner_id, language, concept_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			learner_id TEXT NOT NULL,
			language TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			plan TEXT NOT NULL,
			version INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_learner
			ON sessions (learner_id, language, created_at)`,
		`CREATE TABLE IF NOT EXISTS session_summaries (
			session_id TEXT PRIMARY KEY,
			learner_id TEXT NOT NULL,
			summary TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS llm_requests (
			id ` + autoID + `,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			learner_id TEXT NOT NULL DEFAULT '',
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms BIGINT NOT NULL DEFAULT 0,
			success BOOLEAN NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_llm_requests_learner ON llm_requests (learner_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}
