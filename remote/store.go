// Package remote defines the remote store contract the session layer
// consumes, the store error taxonomy, and an HTTP client implementing the
// contract against a LiftLedger server.
package remote

import (
	"context"

	"github.com/google/uuid"

	"github.com/liftledger/liftledger/workout"
)

// Identity is the opaque authenticated-user reference scoping all data
// access.
type Identity struct {
	UserID uuid.UUID `json:"id" toml:"user_id"`
	Email  string    `json:"email" toml:"email"`
}

// NewExercise carries the fields of an exercise create.
type NewExercise struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// NewSet carries the fields of a set create. The store assigns the set's
// order index as the count of sets already in the workout.
type NewSet struct {
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Reps       int       `json:"reps"`
	Weight     *float64  `json:"weight,omitempty"`
}

// SetPatch carries a partial set update; nil fields are left unchanged.
type SetPatch struct {
	Reps   *int     `json:"reps,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// Store is the remote store contract. Every method may fail with a *Error;
// methods documented as returning a not-found sentinel do so via
// CodeNotFound, which callers must treat as a valid empty result.
type Store interface {
	// CurrentIdentity reports the authenticated identity, if any.
	CurrentIdentity() (Identity, bool)

	// Profile returns the caller's profile, or a not-found error when the
	// profile has not been created yet.
	Profile(ctx context.Context) (*workout.Profile, error)
	CreateProfile(ctx context.Context, displayName string) (*workout.Profile, error)
	UpdateProfile(ctx context.Context, displayName string) (*workout.Profile, error)

	// ActiveExercises lists the caller's non-archived exercises sorted by
	// name.
	ActiveExercises(ctx context.Context) ([]workout.Exercise, error)
	CreateExercise(ctx context.Context, in NewExercise) (*workout.Exercise, error)
	ArchiveExercise(ctx context.Context, id uuid.UUID) error

	// WorkoutByDate returns the workout logged on the given calendar day, or
	// a not-found error.
	WorkoutByDate(ctx context.Context, date string) (*workout.Workout, error)
	CreateWorkout(ctx context.Context, date, note string) (*workout.Workout, error)
	// WorkoutsBetween lists workouts in the inclusive date range, newest
	// first.
	WorkoutsBetween(ctx context.Context, start, end string) ([]workout.Workout, error)

	// Sets lists a workout's sets ordered by order index, each joined with
	// its exercise display name.
	Sets(ctx context.Context, workoutID uuid.UUID) ([]workout.SetEntry, error)
	CreateSet(ctx context.Context, in NewSet) (*workout.Set, error)
	UpdateSet(ctx context.Context, id uuid.UUID, patch SetPatch) (*workout.Set, error)
	DeleteSet(ctx context.Context, id uuid.UUID) error

	// AllWorkoutsWithSets returns the caller's complete history, newest
	// first, for export.
	AllWorkoutsWithSets(ctx context.Context) ([]workout.Detail, error)
}
