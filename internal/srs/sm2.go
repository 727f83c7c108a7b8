// Package srs implements the SM-2 scheduling function and the derived
// mastery classifier. Everything here is pure: no clock, no store, no
// logging. Ease factors are fixed-point integers (x1000) so that values
// survive persistence round-trips bit-exact.
package srs

import (
	"errors"
	"time"

	"github.com/ferrat/linguaflash/internal/models"
)

// Quality bounds for a single review. Below PassThreshold the review counts
// as a failure.
const (
	MinQuality    = 0
	MaxQuality    = 5
	PassThreshold = 3
)

// Reduced-path qualities: callers that only know correct/incorrect map onto
// the full scale here.
const (
	QualityCorrect   = 5
	QualityIncorrect = 2
)

// ErrQualityOutOfRange is returned when quality is outside [0,5]. Callers
// must reject the review before any store write.
var ErrQualityOutOfRange = errors.New("quality out of range")

// EaseDelta returns the fixed-point ease adjustment for a quality,
// (0.1 - (5-q)*(0.08 + (5-q)*0.02)) scaled x1000. Positive only for q=5.
func EaseDelta(quality int) int {
	d := MaxQuality - quality
	return 100 - d*(80+d*20)
}

// NextState applies one review of the given quality to a state and returns
// the successor state. The input is not mutated.
//
// The ease factor is updated on every review, success or failure, and
// floored at models.MinEaseFactor. On failure (quality < 3) repetitions
// reset to 0 and the interval resets to 1 day. On success repetitions
// increment and the interval follows the 1, 3, round(interval*ease) ladder.
// NextReviewAt is always re-set, preserving time-of-day.
func NextState(state models.SRSState, quality int, now time.Time) (models.SRSState, error) {
	if quality < MinQuality || quality > MaxQuality {
		return models.SRSState{}, ErrQualityOutOfRange
	}

	next := state

	next.EaseFactor = state.EaseFactor + EaseDelta(quality)
	if next.EaseFactor < models.MinEaseFactor {
		next.EaseFactor = models.MinEaseFactor
	}

	if quality < PassThreshold {
		next.Repetitions = 0
		next.IntervalDays = 1
		next.IncorrectCount = state.IncorrectCount + 1
	} else {
		next.Repetitions = state.Repetitions + 1
		next.CorrectCount = state.CorrectCount + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = 1
		case 2:
			next.IntervalDays = 3
		default:
			next.IntervalDays = roundedInterval(state.IntervalDays, next.EaseFactor)
		}
	}

	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)
	reviewed := now
	next.LastReviewedAt = &reviewed
	next.Status = Classify(next)
	return next, nil
}

// roundedInterval computes round(interval * ease/1000) in integer math.
func roundedInterval(intervalDays, easeFactor int) int {
	n := intervalDays*easeFactor + 500
	if v := n / 1000; v >= 1 {
		return v
	}
	return 1
}
