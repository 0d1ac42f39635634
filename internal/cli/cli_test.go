package cli

import (
	"testing"

	"github.com/google/uuid"

	"github.com/liftledger/liftledger/workout"
)

func TestFindExerciseIgnoresCase(t *testing.T) {
	exercises := []workout.Exercise{
		{ID: uuid.New(), Name: "Bench Press"},
		{ID: uuid.New(), Name: "Push-ups"},
	}

	got, ok := findExercise(exercises, "  push-UPS ")
	if !ok {
		t.Fatal("findExercise missed an existing name")
	}
	if got.Name != "Push-ups" {
		t.Fatalf("Name = %q, want %q", got.Name, "Push-ups")
	}

	if _, ok := findExercise(exercises, "Deadlift"); ok {
		t.Fatal("findExercise matched a missing name")
	}
}

func TestDescribeSet(t *testing.T) {
	weight := 102.5

	weighted := workout.SetEntry{
		Set:          workout.Set{Reps: 5, Weight: &weight},
		ExerciseName: "Squats",
	}
	if got, want := describeSet(weighted), "Squats, 5 reps @ 102.5"; got != want {
		t.Fatalf("describeSet = %q, want %q", got, want)
	}

	bodyweight := workout.SetEntry{
		Set:          workout.Set{Reps: 10},
		ExerciseName: "Push-ups",
	}
	if got, want := describeSet(bodyweight), "Push-ups, 10 reps"; got != want {
		t.Fatalf("describeSet = %q, want %q", got, want)
	}

	nameless := workout.SetEntry{Set: workout.Set{Reps: 8}}
	if got, want := describeSet(nameless), "Unknown, 8 reps"; got != want {
		t.Fatalf("describeSet = %q, want %q", got, want)
	}
}
