package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/logos/internal/capacity"
	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/mastery"
	"github.com/abhisek/logos/internal/spacedrep"
)

type learnerRepo struct {
	s *Store
}

type learnerRow struct {
	ID                string  `db:"id"`
	Language          string  `db:"language"`
	Reading           float64 `db:"reading"`
	Writing           float64 `db:"writing"`
	Listening         float64 `db:"listening"`
	Speaking          float64 `db:"speaking"`
	TotalStudyMinutes int     `db:"total_study_minutes"`
	LastSessionAt     string  `db:"last_session_at"`
}

type vocabularyRow struct {
	ItemID          string  `db:"item_id"`
	Strength        float64 `db:"strength"`
	EaseFactor      float64 `db:"ease_factor"`
	IntervalDays    float64 `db:"interval_days"`
	RepetitionCount int     `db:"repetition_count"`
	LastReviewed    string  `db:"last_reviewed"`
	NextReview      string  `db:"next_review"`
	TimesCorrect    int     `db:"times_correct"`
	TimesIncorrect  int     `db:"times_incorrect"`
}

type grammarRow struct {
	ConceptID       string  `db:"concept_id"`
	Level           int     `db:"level"`
	TimesPracticed  int     `db:"times_practiced"`
	RecentErrorRate float64 `db:"recent_error_rate"`
	LastPracticed   string  `db:"last_practiced"`
}

func ownedBy(learnerID string, lang curriculum.Language) *entsql.Predicate {
	return entsql.And(entsql.EQ("learner_id", learnerID), entsql.EQ("language", string(lang)))
}

func (r *learnerRepo) LoadSnapshot(ctx context.Context, learnerID string, cat *curriculum.Catalog) (*learner.Snapshot, error) {
	b := r.s.builder()

	query, args := b.Select("id", "language", "reading", "writing", "listening", "speaking", "total_study_minutes", "last_session_at").
		From(b.Table("learners")).
		Where(entsql.And(entsql.EQ("id", learnerID), entsql.EQ("language", string(cat.Language)))).
		Query()
	var lr learnerRow
	if err := r.s.db.GetContext(ctx, &lr, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("learner %s (%s): %w", learnerID, cat.Language, ErrNotFound)
		}
		return nil, fmt.Errorf("query learner: %w", err)
	}

	snap := learner.New(learnerID, cat)
	snap.Capacity = capacity.State{
		Reading:           lr.Reading,
		Writing:           lr.Writing,
		Listening:         lr.Listening,
		Speaking:          lr.Speaking,
		TotalStudyMinutes: lr.TotalStudyMinutes,
	}
	var err error
	if snap.LastSessionAt, err = parseTime(lr.LastSessionAt); err != nil {
		return nil, err
	}

	query, args = b.Select("item_id", "strength", "ease_factor", "interval_days", "repetition_count", "last_reviewed", "next_review", "times_correct", "times_incorrect").
		From(b.Table("vocabulary_progress")).
		Where(ownedBy(learnerID, cat.Language)).
		OrderBy("item_id").
		Query()
	var vrows []vocabularyRow
	if err := r.s.db.SelectContext(ctx, &vrows, query, args...); err != nil {
		return nil, fmt.Errorf("query vocabulary progress: %w", err)
	}
	for _, v := range vrows {
		p := spacedrep.Progress{
			LearnerID:       learnerID,
			ItemID:          v.ItemID,
			Strength:        v.Strength,
			EaseFactor:      v.EaseFactor,
			IntervalDays:    v.IntervalDays,
			RepetitionCount: v.RepetitionCount,
			TimesCorrect:    v.TimesCorrect,
			TimesIncorrect:  v.TimesIncorrect,
		}
		if p.LastReviewed, err = parseTime(v.LastReviewed); err != nil {
			return nil, err
		}
		if p.NextReview, err = parseTime(v.NextReview); err != nil {
			return nil, err
		}
		snap.Vocabulary = append(snap.Vocabulary, p)
	}

	query, args = b.Select("concept_id", "level", "times_practiced", "recent_error_rate", "last_practiced").
		From(b.Table("grammar_progress")).
		Where(ownedBy(learnerID, cat.Language)).
		OrderBy("concept_id").
		Query()
	var grows []grammarRow
	if err := r.s.db.SelectContext(ctx, &grows, query, args...); err != nil {
		return nil, fmt.Errorf("query grammar progress: %w", err)
	}
	for _, g := range grows {
		p := mastery.Progress{
			LearnerID:       learnerID,
			ConceptID:       g.ConceptID,
			Level:           mastery.Level(g.Level),
			TimesPracticed:  g.TimesPracticed,
			RecentErrorRate: g.RecentErrorRate,
		}
		if p.LastPracticed, err = parseTime(g.LastPracticed); err != nil {
			return nil, err
		}
		snap.Grammar = append(snap.Grammar, p)
	}

	return snap, nil
}

func (r *learnerRepo) SaveSnapshot(ctx context.Context, snap *learner.Snapshot) error {
	tx, err := r.s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := r.saveSnapshot(ctx, tx, snap); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *learnerRepo) saveSnapshot(ctx context.Context, tx execer, snap *learner.Snapshot) error {
	b := r.s.builder()
	lang := string(snap.Language)

	query, args := b.Insert("learners").
		Columns("id", "language", "reading", "writing", "listening", "speaking", "total_study_minutes", "last_session_at", "updated_at").
		Values(snap.LearnerID, lang, snap.Capacity.Reading, snap.Capacity.Writing, snap.Capacity.Listening, snap.Capacity.Speaking,
			snap.Capacity.TotalStudyMinutes, formatTime(snap.LastSessionAt), formatTime(time.Now())).
		OnConflict(entsql.ConflictColumns("id", "language"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert learner: %w", err)
	}

	for _, v := range snap.Vocabulary {
		query, args := b.Insert("vocabulary_progress").
			Columns("learner_id", "language", "item_id", "strength", "ease_factor", "interval_days", "repetition_count",
				"last_reviewed", "next_review", "times_correct", "times_incorrect").
			Values(snap.LearnerID, lang, v.ItemID, v.Strength, v.EaseFactor, v.IntervalDays, v.RepetitionCount,
				formatTime(v.LastReviewed), formatTime(v.NextReview), v.TimesCorrect, v.TimesIncorrect).
			OnConflict(entsql.ConflictColumns("learner_id", "language", "item_id"), entsql.ResolveWithNewValues()).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert vocabulary %s: %w", v.ItemID, err)
		}
	}

	for _, g := range snap.Grammar {
		query, args := b.Insert("grammar_progress").
			Columns("learner_id", "language", "concept_id", "level", "times_practiced", "recent_error_rate", "last_practiced").
			Values(snap.LearnerID, lang, g.ConceptID, int(g.Level), g.TimesPracticed, g.RecentErrorRate, formatTime(g.LastPracticed)).
			OnConflict(entsql.ConflictColumns("learner_id", "language", "concept_id"), entsql.ResolveWithNewValues()).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert grammar %s: %w", g.ConceptID, err)
		}
	}
	return nil
}

func (r *learnerRepo) ListLearners(ctx context.Context) ([]LearnerRef, error) {
	b := r.s.builder()
	query, args := b.Select("id", "language").
		From(b.Table("learners")).
		OrderBy("id", "language").
		Query()
	var refs []LearnerRef
	if err := r.s.db.SelectContext(ctx, &refs, query, args...); err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	return refs, nil
}
