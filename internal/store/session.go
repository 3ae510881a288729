package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/session"
)

type sessionRepo struct {
	s *Store
}

type sessionRow struct {
	Language string `db:"language"`
	Plan     string `db:"plan"`
	Version  int    `db:"version"`
}

var sessionColumns = []string{"language", "plan", "version"}

func (r *sessionRepo) Create(ctx context.Context, lang curriculum.Language, plan *session.Plan) (*StoredSession, error) {
	raw, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	now := formatTime(time.Now())
	query, args := r.s.builder().Insert("sessions").
		Columns("id", "learner_id", "language", "type", "status", "plan", "version", "created_at", "updated_at").
		Values(plan.ID, plan.LearnerID, string(lang), string(plan.Type), string(plan.Status()), string(raw), 1, now, now).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return &StoredSession{Plan: plan, Language: lang, Version: 1}, nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*StoredSession, error) {
	b := r.s.builder()
	query, args := b.Select(sessionColumns...).
		From(b.Table("sessions")).
		Where(entsql.EQ("id", id)).
		Query()
	return r.one(ctx, "session "+id, query, args)
}

func (r *sessionRepo) Latest(ctx context.Context, learnerID string, lang curriculum.Language) (*StoredSession, error) {
	b := r.s.builder()
	query, args := b.Select(sessionColumns...).
		From(b.Table("sessions")).
		Where(ownedBy(learnerID, lang)).
		OrderBy(entsql.Desc("created_at")).
		Limit(1).
		Query()
	return r.one(ctx, "latest session for "+learnerID, query, args)
}

func (r *sessionRepo) one(ctx context.Context, what, query string, args []any) (*StoredSession, error) {
	var row sessionRow
	if err := r.s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	var plan session.Plan
	if err := json.Unmarshal([]byte(row.Plan), &plan); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	return &StoredSession{Plan: &plan, Language: curriculum.Language(row.Language), Version: row.Version}, nil
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *sessionRepo) Update(ctx context.Context, ss *StoredSession) error {
	if err := r.update(ctx, r.s.db, ss); err != nil {
		return err
	}
	ss.Version++
	return nil
}

// update writes ss at ss.Version+1, leaving ss.Version for the caller to
// bump once the write is durable.
func (r *sessionRepo) update(ctx context.Context, db execer, ss *StoredSession) error {
	raw, err := json.Marshal(ss.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	query, args := r.s.builder().Update("sessions").
		Set("plan", string(raw)).
		Set("status", string(ss.Plan.Status())).
		Set("version", ss.Version+1).
		Set("updated_at", formatTime(time.Now())).
		Where(entsql.And(entsql.EQ("id", ss.Plan.ID), entsql.EQ("version", ss.Version))).
		Query()
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s at version %d: %w", ss.Plan.ID, ss.Version, ErrConcurrentUpdate)
	}
	return nil
}

func (r *sessionRepo) SaveSummary(ctx context.Context, sum session.Summary) error {
	return r.saveSummary(ctx, r.s.db, sum)
}

func (r *sessionRepo) saveSummary(ctx context.Context, db execer, sum session.Summary) error {
	raw, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	query, args := r.s.builder().Insert("session_summaries").
		Columns("session_id", "learner_id", "summary", "created_at").
		Values(sum.SessionID, sum.LearnerID, string(raw), formatTime(time.Now())).
		OnConflict(entsql.ConflictColumns("session_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetSummary(ctx context.Context, sessionID string) (session.Summary, error) {
	b := r.s.builder()
	query, args := b.Select("summary").
		From(b.Table("session_summaries")).
		Where(entsql.EQ("session_id", sessionID)).
		Query()
	var raw string
	if err := r.s.db.GetContext(ctx, &raw, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Summary{}, fmt.Errorf("summary %s: %w", sessionID, ErrNotFound)
		}
		return session.Summary{}, fmt.Errorf("query summary: %w", err)
	}
	var sum session.Summary
	if err := json.Unmarshal([]byte(raw), &sum); err != nil {
		return session.Summary{}, fmt.Errorf("decode summary: %w", err)
	}
	return sum, nil
}
