// Package mastery tracks grammar concept mastery through six ordered
// levels, advancing on error-rate thresholds and regressing after
// inactivity.
package mastery

import "fmt"

// Level is a grammar mastery level. Levels are ordered.
type Level int

const (
	Unknown Level = iota
	Introduced
	Practicing
	Familiar
	Proficient
	Mastered
)

var levelNames = [...]string{"unknown", "introduced", "practicing", "familiar", "proficient", "mastered"}

func (l Level) String() string {
	if l < Unknown || l > Mastered {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts a level name or its number.
func ParseLevel(s string) (Level, error) {
	for i, n := range levelNames {
		if n == s {
			return Level(i), nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= int(Unknown) && n <= int(Mastered) {
		return Level(n), nil
	}
	return Unknown, fmt.Errorf("mastery: unknown level %q", s)
}

// Transition triggers.
const (
	TriggerLessonComplete = "lesson-complete"
	TriggerFirstAttempt   = "first-attempt"
	TriggerThreshold      = "threshold"
	TriggerConfirmed      = "confirmed"
	TriggerInactivity     = "inactivity"
	TriggerPlacement      = "placement"
)

// StateTransition records a level change for display and event logging.
type StateTransition struct {
	ConceptID string
	From      Level
	To        Level
	Trigger   string // one of the Trigger* constants
}

func (t StateTransition) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s)", t.ConceptID, t.From, t.To, t.Trigger)
}
