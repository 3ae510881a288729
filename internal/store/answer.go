package store

import (
	"context"
	"fmt"

	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/session"
)

// RecordAnswer persists the effects of one answered exercise in a single
// transaction: the session plan (version checked), the learner snapshot,
// and sum when the answer completed the session. On ErrConcurrentUpdate
// nothing is written. ss.Version is bumped only after commit.
func (s *Store) RecordAnswer(ctx context.Context, ss *StoredSession, snap *learner.Snapshot, sum *session.Summary) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	sessions := &sessionRepo{s: s}
	if err := sessions.update(ctx, tx, ss); err != nil {
		return err
	}
	if err := (&learnerRepo{s: s}).saveSnapshot(ctx, tx, snap); err != nil {
		return err
	}
	if sum != nil {
		if err := sessions.saveSummary(ctx, tx, *sum); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	ss.Version++
	return nil
}
