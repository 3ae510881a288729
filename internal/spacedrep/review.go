// Package spacedrep schedules vocabulary reviews with the SM-2 algorithm
// and estimates recall probability from elapsed time.
package spacedrep

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidQuality is returned for ratings outside 0-5.
var ErrInvalidQuality = errors.New("spacedrep: quality must be 0-5")

const day = 24 * time.Hour

// Progress is a learner's retention record for one vocabulary item.
// A zero LastReviewed means the item has never been reviewed.
type Progress struct {
	LearnerID       string    `json:"learner_id"`
	ItemID          string    `json:"item_id"`
	Strength        float64   `json:"strength"`
	EaseFactor      float64   `json:"ease_factor"`
	IntervalDays    float64   `json:"interval_days"`
	RepetitionCount int       `json:"repetition_count"`
	LastReviewed    time.Time `json:"last_reviewed"`
	NextReview      time.Time `json:"next_review"`
	TimesCorrect    int       `json:"times_correct"`
	TimesIncorrect  int       `json:"times_incorrect"`
}

// NewProgress returns the record for an item on first exposure.
func NewProgress(learnerID, itemID string) Progress {
	return Progress{
		LearnerID:  learnerID,
		ItemID:     itemID,
		EaseFactor: DefaultEaseFactor,
	}
}

// Reviewed reports whether the item has ever been reviewed.
func (p Progress) Reviewed() bool {
	return !p.LastReviewed.IsZero()
}

// Review applies one SM-2 review and returns the updated record. The input
// is not modified; on error it is returned unchanged.
func Review(p Progress, q Quality, now time.Time) (Progress, error) {
	if !q.Valid() {
		return p, fmt.Errorf("%w: got %d", ErrInvalidQuality, q)
	}

	miss := float64(5 - q)
	p.EaseFactor = math.Max(MinEaseFactor, p.EaseFactor+0.1-miss*(0.08+miss*0.02))

	if q.Successful() {
		switch p.RepetitionCount {
		case 0:
			p.IntervalDays = FirstIntervalDays
		case 1:
			p.IntervalDays = SecondIntervalDays
		default:
			p.IntervalDays = math.Min(p.IntervalDays*p.EaseFactor, MaxIntervalDays)
		}
		p.RepetitionCount++
		p.TimesCorrect++
	} else {
		p.IntervalDays = FirstIntervalDays
		p.RepetitionCount = 0
		p.TimesIncorrect++
	}

	p.Strength = 1.0
	p.LastReviewed = now
	p.NextReview = now.Add(time.Duration(p.IntervalDays * float64(day)))
	return p, nil
}

// RecallProbability estimates current recall as 2^(-elapsed/interval),
// clamped to [0, 1]. Never-reviewed items score 0; at or before the last
// review the stored strength (capped at 1) is returned.
func RecallProbability(p Progress, now time.Time) float64 {
	if !p.Reviewed() || p.IntervalDays <= 0 {
		return 0
	}
	elapsed := now.Sub(p.LastReviewed).Hours() / 24.0
	if elapsed <= 0 {
		return math.Min(1, p.Strength)
	}
	r := math.Exp(-math.Ln2 * elapsed / p.IntervalDays)
	return math.Max(0, math.Min(1, r))
}

// RefreshStrength stores the current recall probability in Strength.
func RefreshStrength(p Progress, now time.Time) Progress {
	p.Strength = RecallProbability(p, now)
	return p
}

// IsDue reports whether the item is at or past its review time. Records
// without a scheduled review are never due.
func (p Progress) IsDue(now time.Time) bool {
	return !p.NextReview.IsZero() && !now.Before(p.NextReview)
}

// OverdueDays returns how many days past due the item is, or 0.
func (p Progress) OverdueDays(now time.Time) float64 {
	if !p.IsDue(now) {
		return 0
	}
	return now.Sub(p.NextReview).Hours() / 24.0
}

// Accuracy returns the share of correct reviews, or 0 with no reviews.
func (p Progress) Accuracy() float64 {
	total := p.TimesCorrect + p.TimesIncorrect
	if total == 0 {
		return 0
	}
	return float64(p.TimesCorrect) / float64(total)
}
