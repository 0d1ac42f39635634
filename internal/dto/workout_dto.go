package dto

import (
	"github.com/google/uuid"

	"github.com/liftledger/liftledger/internal/models"
)

type UpsertProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type CreateExerciseRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type CreateWorkoutRequest struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

type CreateSetRequest struct {
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Reps       int       `json:"reps"`
	Weight     *float64  `json:"weight"`
}

// UpdateSetRequest is a partial update; nil fields are left unchanged.
type UpdateSetRequest struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

// SetWithExercise is a set joined with its exercise's display name.
type SetWithExercise struct {
	models.Set
	ExerciseName string `json:"exercise_name"`
}

// WorkoutWithSets is a workout with its ordered sets, as served by history
// and export endpoints.
type WorkoutWithSets struct {
	models.Workout
	Sets []SetWithExercise `json:"sets"`
}
