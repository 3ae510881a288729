package sweep

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/logos/internal/curriculum"
	"github.com/abhisek/logos/internal/curriculum/curriculumtest"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/logging"
	"github.com/abhisek/logos/internal/mastery"
	"github.com/abhisek/logos/internal/spacedrep"
	"github.com/abhisek/logos/internal/store"
)

var now = time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(context.Background(), fmt.Sprintf("file:sweep_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func catalogs() map[curriculum.Language]*curriculum.Catalog {
	return map[curriculum.Language]*curriculum.Catalog{curriculum.Latin: curriculumtest.Latin()}
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	repo := st.LearnerRepo()

	snap := learner.New("u1", curriculumtest.Latin())
	snap.Vocabulary = []spacedrep.Progress{{
		ItemID: curriculumtest.Rosa, Strength: 0.9, EaseFactor: 2.5, IntervalDays: 1, RepetitionCount: 1,
		LastReviewed: now.AddDate(0, 0, -3), NextReview: now.AddDate(0, 0, -2), TimesCorrect: 1,
	}}
	snap.Grammar = []mastery.Progress{
		{ConceptID: curriculumtest.FirstDeclension, Level: mastery.Proficient, TimesPracticed: 30, RecentErrorRate: 0.5, LastPracticed: now.AddDate(0, 0, -30)},
		{ConceptID: curriculumtest.PresentActive, Level: mastery.Proficient, TimesPracticed: 30, RecentErrorRate: 0.05, LastPracticed: now.AddDate(0, 0, -30)},
	}
	require.NoError(t, repo.SaveSnapshot(ctx, snap))

	greek := &learner.Snapshot{LearnerID: "g1", Language: curriculum.Greek}
	require.NoError(t, repo.SaveSnapshot(ctx, greek))

	rep, err := New(repo, catalogs(), logging.Discard()).RunOnce(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Learners)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, 1, rep.Transitions)

	got, err := repo.LoadSnapshot(ctx, "u1", curriculumtest.Latin())
	require.NoError(t, err)
	assert.Equal(t, mastery.Familiar, got.GrammarLevel(curriculumtest.FirstDeclension))
	assert.Equal(t, mastery.Proficient, got.GrammarLevel(curriculumtest.PresentActive))

	v, ok := got.Vocab(curriculumtest.Rosa)
	require.True(t, ok)
	assert.InDelta(t, 0.125, v.Strength, 1e-6, "three half-lives elapsed")
}

func TestRunOnceEmpty(t *testing.T) {
	st := openStore(t)
	rep, err := New(st.LearnerRepo(), catalogs(), logging.Discard()).RunOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)
}

type failingRepo struct {
	store.LearnerRepo
	refs []store.LearnerRef
}

func (f failingRepo) ListLearners(context.Context) ([]store.LearnerRef, error) {
	return f.refs, nil
}

func (f failingRepo) LoadSnapshot(context.Context, string, *curriculum.Catalog) (*learner.Snapshot, error) {
	return nil, store.ErrNotFound
}

func TestRunOnceContinuesPastFailures(t *testing.T) {
	repo := failingRepo{refs: []store.LearnerRef{
		{ID: "a", Language: curriculum.Latin},
		{ID: "b", Language: curriculum.Latin},
	}}
	rep, err := New(repo, catalogs(), logging.Discard()).RunOnce(context.Background(), now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Contains(t, err.Error(), "learner a")
	assert.Contains(t, err.Error(), "learner b")
	assert.Equal(t, 0, rep.Learners)
}

func TestRunOnceHonorsCancel(t *testing.T) {
	repo := failingRepo{refs: []store.LearnerRef{{ID: "a", Language: curriculum.Latin}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(repo, catalogs(), logging.Discard()).RunOnce(ctx, now)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStartRejectsBadTime(t *testing.T) {
	s := New(failingRepo{}, catalogs(), logging.Discard())
	assert.Error(t, s.Start("25:99"))
	s.Stop()
}

func TestStartStop(t *testing.T) {
	s := New(failingRepo{}, catalogs(), logging.Discard())
	require.NoError(t, s.Start("03:00"))
	s.Stop()
}
