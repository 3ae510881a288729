package mastery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "mastered", Mastered.String())
	assert.Equal(t, "level(9)", Level(9).String())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("familiar")
	require.NoError(t, err)
	assert.Equal(t, Familiar, l)

	l, err = ParseLevel("4")
	require.NoError(t, err)
	assert.Equal(t, Proficient, l)

	_, err = ParseLevel("expert")
	assert.Error(t, err)
}

func TestCompleteLesson(t *testing.T) {
	p, tr := CompleteLesson(NewProgress("ana", "c1"))
	assert.Equal(t, Introduced, p.Level)
	require.NotNil(t, tr)
	assert.Equal(t, TriggerLessonComplete, tr.Trigger)

	p.Level = Familiar
	got, tr := CompleteLesson(p)
	assert.Equal(t, Familiar, got.Level)
	assert.Nil(t, tr)
}

func TestRecordAttempt_RequiresIntroduction(t *testing.T) {
	p := NewProgress("ana", "c1")
	got, tr, err := RecordAttempt(p, true, t0)
	assert.ErrorIs(t, err, ErrNotIntroduced)
	assert.Nil(t, tr)
	assert.Equal(t, p, got)
}

func TestRecordAttempt_FirstAttemptAdvances(t *testing.T) {
	p, _ := CompleteLesson(NewProgress("ana", "c1"))
	p, tr, err := RecordAttempt(p, false, t0)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, Practicing, p.Level)
	assert.Equal(t, TriggerFirstAttempt, tr.Trigger)
	assert.Equal(t, 1, p.TimesPracticed)
	assert.InDelta(t, 0.1, p.RecentErrorRate, 1e-9)
	assert.Equal(t, t0, p.LastPracticed)
}

func TestRecordAttempt_ThresholdAdvancement(t *testing.T) {
	p, _ := CompleteLesson(NewProgress("ana", "c1"))

	var transitions []*StateTransition
	for i := 0; i < 20; i++ {
		var tr *StateTransition
		var err error
		p, tr, err = RecordAttempt(p, true, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		if tr != nil {
			transitions = append(transitions, tr)
		}
		switch {
		case i == 0:
			assert.Equal(t, Practicing, p.Level)
		case i < 9:
			assert.Equal(t, Practicing, p.Level, "attempt %d", i+1)
		case i < 19:
			assert.Equal(t, Familiar, p.Level, "attempt %d", i+1)
		}
	}
	assert.Equal(t, Proficient, p.Level)
	require.Len(t, transitions, 3)
	assert.Equal(t, Familiar, transitions[1].To)
	assert.Equal(t, TriggerThreshold, transitions[2].Trigger)

	// Proficient never auto-advances.
	p, tr, err := RecordAttempt(p, true, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, Proficient, p.Level)
}

func TestRecordAttempt_HighErrorBlocksAdvance(t *testing.T) {
	p := Progress{ConceptID: "c1", Level: Practicing, TimesPracticed: 30, RecentErrorRate: 0.9}
	p, tr, err := RecordAttempt(p, true, t0)
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, Practicing, p.Level)
	assert.InDelta(t, 0.81, p.RecentErrorRate, 1e-9)
}

func TestConfirmMastery(t *testing.T) {
	p := Progress{ConceptID: "c1", Level: Proficient}
	p, tr, err := ConfirmMastery(p)
	require.NoError(t, err)
	assert.Equal(t, Mastered, p.Level)
	assert.Equal(t, TriggerConfirmed, tr.Trigger)

	for _, l := range []Level{Unknown, Familiar, Mastered} {
		in := Progress{Level: l}
		got, tr, err := ConfirmMastery(in)
		assert.ErrorIs(t, err, ErrNotProficient)
		assert.Nil(t, tr)
		assert.Equal(t, in, got)
	}
}

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name string
		p    Progress
		want bool
	}{
		{"unknown", Progress{Level: Unknown}, true},
		{"introduced", Progress{Level: Introduced}, true},
		{"practicing ready", Progress{Level: Practicing, TimesPracticed: 10, RecentErrorRate: 0.39}, true},
		{"practicing few attempts", Progress{Level: Practicing, TimesPracticed: 9}, false},
		{"practicing at threshold", Progress{Level: Practicing, TimesPracticed: 10, RecentErrorRate: 0.40}, false},
		{"familiar ready", Progress{Level: Familiar, TimesPracticed: 20, RecentErrorRate: 0.1}, true},
		{"familiar error", Progress{Level: Familiar, TimesPracticed: 20, RecentErrorRate: 0.15}, false},
		{"proficient", Progress{Level: Proficient, TimesPracticed: 100}, false},
		{"mastered", Progress{Level: Mastered}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAdvance(tt.p))
		})
	}
}

func TestCheckRegression(t *testing.T) {
	idle := func(days float64) time.Time {
		return t0.Add(time.Duration(days * 24 * float64(time.Hour)))
	}
	tests := []struct {
		name string
		p    Progress
		now  time.Time
		want Level
	}{
		{"familiar idle and weak", Progress{Level: Familiar, RecentErrorRate: 0.40, LastPracticed: t0}, idle(15), Practicing},
		{"exactly fourteen days", Progress{Level: Familiar, RecentErrorRate: 0.9, LastPracticed: t0}, idle(14), Familiar},
		{"familiar below threshold", Progress{Level: Familiar, RecentErrorRate: 0.39, LastPracticed: t0}, idle(30), Familiar},
		{"proficient", Progress{Level: Proficient, RecentErrorRate: 0.15, LastPracticed: t0}, idle(20), Familiar},
		{"mastered", Progress{Level: Mastered, RecentErrorRate: 0.2, LastPracticed: t0}, idle(20), Proficient},
		{"practicing never regresses", Progress{Level: Practicing, RecentErrorRate: 1, LastPracticed: t0}, idle(100), Practicing},
		{"never practiced", Progress{Level: Proficient, RecentErrorRate: 1}, idle(100), Proficient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tr := CheckRegression(tt.p, tt.now)
			assert.Equal(t, tt.want, got.Level)
			if tt.want != tt.p.Level {
				require.NotNil(t, tr)
				assert.Equal(t, TriggerInactivity, tr.Trigger)
			} else {
				assert.Nil(t, tr)
			}
		})
	}
}
