// Package sweep runs the periodic maintenance pass over stored learners:
// vocabulary strength is recomputed from recall probability and idle
// grammar concepts regress.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/store"
)

// Report summarizes one pass.
type Report struct {
	Learners    int
	Skipped     int
	Transitions int
}

// Sweeper walks every stored learner.
type Sweeper struct {
	learners  store.LearnerRepo
	catalogs  map[curriculum.Language]*curriculum.Catalog
	logger    *slog.Logger
	scheduler *gocron.Scheduler
	now       func() time.Time
}

// New creates a sweeper. Learners whose language has no catalog are skipped.
func New(learners store.LearnerRepo, catalogs map[curriculum.Language]*curriculum.Catalog, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		learners: learners,
		catalogs: catalogs,
		logger:   logger.With(slog.String("component", "sweep")),
		now:      time.Now,
	}
}

// RunOnce sweeps every learner as of now. A failing learner is logged and
// the pass continues; the failures are returned joined.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) (Report, error) {
	var rep Report

	refs, err := s.learners.ListLearners(ctx)
	if err != nil {
		return rep, fmt.Errorf("list learners: %w", err)
	}

	var errs []error
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		cat, ok := s.catalogs[ref.Language]
		if !ok {
			rep.Skipped++
			s.logger.Warn("no curriculum for learner language",
				slog.String("learner_id", ref.ID),
				slog.String("language", string(ref.Language)))
			continue
		}
		n, err := s.sweepLearner(ctx, ref.ID, cat, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("learner %s: %w", ref.ID, err))
			s.logger.Error("sweep learner failed",
				slog.String("learner_id", ref.ID),
				slog.String("error", err.Error()))
			continue
		}
		rep.Learners++
		rep.Transitions += n
	}

	s.logger.Info("sweep complete",
		slog.Int("learners", rep.Learners),
		slog.Int("skipped", rep.Skipped),
		slog.Int("transitions", rep.Transitions))
	return rep, errors.Join(errs...)
}

func (s *Sweeper) sweepLearner(ctx context.Context, id string, cat *curriculum.Catalog, now time.Time) (int, error) {
	snap, err := s.learners.LoadSnapshot(ctx, id, cat)
	if err != nil {
		return 0, err
	}

	snap.RefreshStrength(now)
	transitions := snap.CheckRegression(now)
	for _, tr := range transitions {
		s.logger.Info("grammar regressed",
			slog.String("learner_id", id),
			slog.String("concept_id", tr.ConceptID),
			slog.String("from", tr.From.String()),
			slog.String("to", tr.To.String()))
	}

	if err := s.learners.SaveSnapshot(ctx, snap); err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return len(transitions), nil
}

// Start schedules RunOnce daily at the given HH:MM (UTC) and returns
// immediately.
func (s *Sweeper) Start(at string) error {
	sch := gocron.NewScheduler(time.UTC)
	_, err := sch.Every(1).Day().At(at).Do(func() {
		if _, err := s.RunOnce(context.Background(), s.now()); err != nil {
			s.logger.Error("scheduled sweep", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep at %q: %w", at, err)
	}
	sch.StartAsync()
	s.scheduler = sch
	s.logger.Info("sweep scheduled", slog.String("at", at))
	return nil
}

// Stop terminates the schedule started by Start.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
