package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/logos/internal/curriculum/curriculumtest"
	"github.com/abhisek/logos/internal/exercise"
	"github.com/abhisek/logos/internal/learner"
	"github.com/abhisek/logos/internal/mastery"
	"github.com/abhisek/logos/internal/session"
	"github.com/abhisek/logos/internal/spacedrep"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("LOGOS_TEST_DATABASE_URL")
	if url == "" {
		name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
		url = fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	}
	s, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.migrate(context.Background()))
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	if s.Dialect() != "sqlite3" {
		t.Skip("sqlite only")
	}
	var got string
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&got))
	assert.Equal(t, "1", got)
}

func TestTimeRoundTrip(t *testing.T) {
	got, err := parseTime(formatTime(testNow.Add(123 * time.Microsecond)))
	require.NoError(t, err)
	assert.True(t, got.Equal(testNow.Add(123*time.Microsecond)))

	zero, err := parseTime(formatTime(time.Time{}))
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestLearnerRepo_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LearnerRepo().LoadSnapshot(context.Background(), "nobody", curriculumtest.Latin())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLearnerRepo_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.LearnerRepo()
	ctx := context.Background()
	cat := curriculumtest.Latin()

	snap := learner.New("ada", cat)
	_, err := snap.ReviewVocabulary(curriculumtest.Rosa, spacedrep.QualityPerfect, testNow)
	require.NoError(t, err)
	snap.CompleteLesson(curriculumtest.FirstDeclension)
	_, _, err = snap.RecordGrammarAttempt(curriculumtest.FirstDeclension, false, testNow)
	require.NoError(t, err)
	snap.Capacity.Reading = 1.25
	snap.RecordStudyTime(testNow, testNow.Add(30*time.Minute))
	require.NoError(t, repo.SaveSnapshot(ctx, snap))

	got, err := repo.LoadSnapshot(ctx, "ada", cat)
	require.NoError(t, err)
	assert.Equal(t, 1.25, got.Capacity.Reading)
	assert.Equal(t, 30, got.Capacity.TotalStudyMinutes)
	assert.True(t, got.LastSessionAt.Equal(snap.LastSessionAt))

	require.Len(t, got.Vocabulary, 1)
	v := got.Vocabulary[0]
	assert.Equal(t, curriculumtest.Rosa, v.ItemID)
	assert.Equal(t, 1, v.RepetitionCount)
	assert.True(t, v.NextReview.Equal(snap.Vocabulary[0].NextReview))

	require.Len(t, got.Grammar, 1)
	assert.Equal(t, mastery.Practicing, got.Grammar[0].Level)
	assert.InDelta(t, 0.1, got.Grammar[0].RecentErrorRate, 1e-9)

	// A second save updates rows in place.
	_, err = got.ReviewVocabulary(curriculumtest.Rosa, spacedrep.QualityPerfect, testNow.Add(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.SaveSnapshot(ctx, got))
	again, err := repo.LoadSnapshot(ctx, "ada", cat)
	require.NoError(t, err)
	require.Len(t, again.Vocabulary, 1)
	assert.Equal(t, 2, again.Vocabulary[0].RepetitionCount)

	refs, err := repo.ListLearners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []LearnerRef{{ID: "ada", Language: cat.Language}}, refs)
}

func testPlan(t *testing.T) *session.Plan {
	t.Helper()
	item, ok := curriculumtest.Latin().Item(curriculumtest.Et)
	require.True(t, ok)
	return session.NewPlan("ada", session.TypePractice, []exercise.Exercise{exercise.Recall(item)}, testNow)
}

func TestSessionRepo_CreateGetUpdate(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()
	lang := curriculumtest.Latin().Language

	plan := testPlan(t)
	ss, err := repo.Create(ctx, lang, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, ss.Version)

	got, err := repo.Get(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.Plan.ID)
	require.Len(t, got.Plan.Exercises, 1)
	id, ok := got.Plan.Exercises[0].ItemID()
	assert.True(t, ok)
	assert.Equal(t, curriculumtest.Et, id)

	// Two writers read version 1; the second write loses.
	other, err := repo.Get(ctx, plan.ID)
	require.NoError(t, err)

	got.Plan.RecordResult(session.ActivityResult{Response: "and", Correct: true, Score: 1})
	require.NoError(t, repo.Update(ctx, got))
	assert.Equal(t, 2, got.Version)

	other.Plan.RecordResult(session.ActivityResult{Response: "but"})
	err = repo.Update(ctx, other)
	assert.True(t, errors.Is(err, ErrConcurrentUpdate))

	latest, err := repo.Latest(ctx, "ada", lang)
	require.NoError(t, err)
	assert.Equal(t, session.StatusComplete, latest.Plan.Status())
	assert.Equal(t, "and", latest.Plan.Results[0].Response)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSessionRepo_Summary(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	plan := testPlan(t)
	plan.RecordResult(session.ActivityResult{Kind: exercise.DefinitionRecall, Correct: true, TimeTakenMs: 900})
	sum := session.ComputeSummary(plan, testNow.Add(5*time.Minute))
	require.NoError(t, repo.SaveSummary(ctx, sum))

	got, err := repo.GetSummary(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, 1.0, got.Accuracy)
	assert.Equal(t, 1, got.ByKind[exercise.DefinitionRecall].Correct)
}

func TestRecordAnswer_WritesAllOrNothing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cat := curriculumtest.Latin()
	lang := cat.Language

	snap := learner.New("ada", cat)
	_, err := snap.ReviewVocabulary(curriculumtest.Et, spacedrep.QualityPerfect, testNow)
	require.NoError(t, err)
	require.NoError(t, s.LearnerRepo().SaveSnapshot(ctx, snap))

	ss, err := s.SessionRepo().Create(ctx, lang, testPlan(t))
	require.NoError(t, err)
	stale, err := s.SessionRepo().Get(ctx, ss.Plan.ID)
	require.NoError(t, err)

	// The first answer completes the session.
	ss.Plan.RecordResult(session.ActivityResult{Kind: exercise.DefinitionRecall, Response: "and", Correct: true, Score: 1})
	_, err = snap.ReviewVocabulary(curriculumtest.Et, spacedrep.QualityPerfect, testNow.Add(24*time.Hour))
	require.NoError(t, err)
	sum := session.ComputeSummary(ss.Plan, testNow.Add(time.Minute))
	require.NoError(t, s.RecordAnswer(ctx, ss, snap, &sum))
	assert.Equal(t, 2, ss.Version)

	got, err := s.LearnerRepo().LoadSnapshot(ctx, "ada", cat)
	require.NoError(t, err)
	require.Len(t, got.Vocabulary, 1)
	assert.Equal(t, 2, got.Vocabulary[0].RepetitionCount)
	saved, err := s.SessionRepo().GetSummary(ctx, ss.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Total)

	// A writer holding version 1 fails the version check; its snapshot
	// changes must not land.
	stale.Plan.RecordResult(session.ActivityResult{Response: "but"})
	_, err = got.ReviewVocabulary(curriculumtest.Et, spacedrep.QualityBlackout, testNow.Add(48*time.Hour))
	require.NoError(t, err)
	_, err = got.ReviewVocabulary(curriculumtest.Rosa, spacedrep.QualityPerfect, testNow.Add(48*time.Hour))
	require.NoError(t, err)
	err = s.RecordAnswer(ctx, stale, got, nil)
	assert.True(t, errors.Is(err, ErrConcurrentUpdate))
	assert.Equal(t, 1, stale.Version)

	after, err := s.LearnerRepo().LoadSnapshot(ctx, "ada", cat)
	require.NoError(t, err)
	require.Len(t, after.Vocabulary, 1, "no new vocabulary rows")
	assert.Equal(t, 2, after.Vocabulary[0].RepetitionCount)
	assert.Equal(t, 2, after.Vocabulary[0].TimesCorrect)
	assert.Zero(t, after.Vocabulary[0].TimesIncorrect)

	latest, err := s.SessionRepo().Get(ctx, ss.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, "and", latest.Plan.Results[0].Response)
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	learners := []string{"u1", "u2", "u1"}
	for i, purpose := range []string{"translation-score", "composition-score", "translation-score"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEvent{
			Provider:     "mock",
			Model:        "mock",
			Purpose:      purpose,
			LearnerID:    learners[i],
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    int64(100 + i),
			Success:      i != 1,
			CreatedAt:    testNow.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 30, all[0].InputTokens, "newest first")
	assert.False(t, all[1].Success)

	translations, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "translation-score", Limit: 1})
	require.NoError(t, err)
	require.Len(t, translations, 1)
	assert.True(t, translations[0].CreatedAt.Equal(testNow.Add(2*time.Minute)))

	windowed, err := repo.QueryLLMEvents(ctx, QueryOpts{From: testNow.Add(30 * time.Second), To: testNow.Add(90 * time.Second)})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, "composition-score", windowed[0].Purpose)

	byLearner, err := repo.QueryLLMEvents(ctx, QueryOpts{LearnerID: "u2"})
	require.NoError(t, err)
	require.Len(t, byLearner, 1)
	assert.Equal(t, "composition-score", byLearner[0].Purpose)

	one, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "translation-score", one.Purpose)
	assert.Equal(t, "u1", one.LearnerID)
	assert.True(t, one.CreatedAt.Equal(testNow))

	_, err = repo.GetLLMEvent(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
