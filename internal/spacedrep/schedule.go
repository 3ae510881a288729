package spacedrep

// SM-2 parameters.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxIntervalDays   = 365.0

	// FirstIntervalDays and SecondIntervalDays are the fixed intervals for
	// the first two successful recalls.
	FirstIntervalDays  = 1.0
	SecondIntervalDays = 6.0

	// FastResponseMs is the response-time ceiling for a quality-5 recall.
	FastResponseMs = 3000
)

// Quality is an SM-2 recall rating.
type Quality int

const (
	QualityBlackout  Quality = 0
	QualityHintWrong Quality = 1
	QualityWrong     Quality = 2
	QualityHint      Quality = 3
	QualitySlow      Quality = 4
	QualityPerfect   Quality = 5
)

// Valid reports whether q is within 0-5.
func (q Quality) Valid() bool {
	return q >= 0 && q <= 5
}

// Successful reports whether q counts as a recall.
func (q Quality) Successful() bool {
	return q >= 3
}

// QualityFromOutcome maps an exercise outcome to a rating:
// correct, fast, no hint -> 5; correct, slow, no hint -> 4;
// correct with hint -> 3; incorrect -> 2; incorrect with hint -> 1.
func QualityFromOutcome(correct bool, responseTimeMs int, hintUsed bool) Quality {
	if correct {
		if hintUsed {
			return QualityHint
		}
		if responseTimeMs <= FastResponseMs {
			return QualityPerfect
		}
		return QualitySlow
	}
	if hintUsed {
		return QualityHintWrong
	}
	return QualityWrong
}
