// Package stats derives daily workout tallies from set entries. The numbers
// feed the "today" summary surface and are recomputed from scratch on every
// call, so they can never drift from the underlying sets.
package stats

import (
	"github.com/google/uuid"

	"github.com/liftledger/liftledger/workout"
)

// Totals summarizes one day of training.
type Totals struct {
	TotalSets     int `json:"total_sets"`
	ExerciseCount int `json:"exercise_count"`
	TotalReps     int `json:"total_reps"`
}

// Calculate tallies the given sets. Distinct exercises are counted by ID, so
// renaming an exercise does not change the count.
func Calculate(sets []workout.SetEntry) Totals {
	t := Totals{TotalSets: len(sets)}
	seen := make(map[uuid.UUID]struct{}, len(sets))
	for _, s := range sets {
		t.TotalReps += s.Reps
		if _, ok := seen[s.ExerciseID]; !ok {
			seen[s.ExerciseID] = struct{}{}
			t.ExerciseCount++
		}
	}
	return t
}
