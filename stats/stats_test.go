package stats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/liftledger/liftledger/workout"
)

func entry(exerciseID uuid.UUID, reps int) workout.SetEntry {
	return workout.SetEntry{Set: workout.Set{ID: uuid.New(), ExerciseID: exerciseID, Reps: reps}}
}

func TestCalculate(t *testing.T) {
	pushups := uuid.New()
	squats := uuid.New()

	cases := []struct {
		name string
		sets []workout.SetEntry
		want Totals
	}{
		{
			name: "no sets",
			sets: nil,
			want: Totals{},
		},
		{
			name: "single exercise",
			sets: []workout.SetEntry{entry(pushups, 10), entry(pushups, 8)},
			want: Totals{TotalSets: 2, ExerciseCount: 1, TotalReps: 18},
		},
		{
			name: "two exercises",
			sets: []workout.SetEntry{entry(pushups, 5), entry(squats, 8), entry(squats, 10)},
			want: Totals{TotalSets: 3, ExerciseCount: 2, TotalReps: 23},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Calculate(tc.sets))
		})
	}
}
