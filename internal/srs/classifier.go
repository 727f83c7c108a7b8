package srs

import "github.com/ferrat/linguaflash/internal/models"

// Mastery thresholds: a phrase counts as mastered after five consecutive
// qualifying reviews with the ease comfortably above the floor.
const (
	masteredRepetitions = 5
	masteredEaseFactor  = 2000
)

// Contribution caps for the mastery percentage blend.
const (
	repetitionCap = 10
	easeRange     = 1700 // spread between the ease floor and the 100% point
)

// Classify derives the coarse learning status from a state.
func Classify(state models.SRSState) models.Status {
	switch {
	case state.Repetitions == 0:
		return models.StatusNew
	case state.Repetitions >= masteredRepetitions && state.EaseFactor >= masteredEaseFactor:
		return models.StatusMastered
	default:
		return models.StatusLearning
	}
}

// MasteryPercent blends repetition count and ease factor into a 0-100
// display score. Each half contributes up to 50 points: repetitions cap at
// 10, ease caps at floor+1700.
func MasteryPercent(state models.SRSState) int {
	reps := state.Repetitions
	if reps > repetitionCap {
		reps = repetitionCap
	}
	repPart := reps * 50 / repetitionCap

	ease := state.EaseFactor - models.MinEaseFactor
	if ease < 0 {
		ease = 0
	}
	if ease > easeRange {
		ease = easeRange
	}
	// round(ease/1700*50)
	easePart := (ease*50 + easeRange/2) / easeRange

	return repPart + easePart
}
