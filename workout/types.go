// Package workout defines the wire types exchanged between the LiftLedger
// remote store API and its clients. The session, cache and export packages
// all speak in these types.
package workout

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used everywhere a workout date
// crosses the wire or appears in an export.
const DateLayout = "2006-01-02"

// Profile is the identity-bound display record. Its ID equals the owning
// user's identity; there is exactly one per authenticated user.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Exercise is a user-defined movement. Archived exercises are tombstoned:
// they disappear from active listings but stay referenced by historical sets.
type Exercise struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
}

// Workout is one calendar day of training. At most one exists per user per
// date.
type Workout struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"workout_date"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Set is a single logged set. OrderIndex is the zero-based append position
// within its workout.
type Set struct {
	ID         uuid.UUID `json:"id"`
	WorkoutID  uuid.UUID `json:"workout_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Reps       int       `json:"reps"`
	Weight     *float64  `json:"weight,omitempty"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetEntry is a set joined with its exercise's display name. The store joins
// the name regardless of the exercise's archive flag, so history keeps
// resolving names after an exercise is archived.
type SetEntry struct {
	Set
	ExerciseName string `json:"exercise_name"`
}

// Detail is a workout together with its ordered sets.
type Detail struct {
	Workout
	Sets []SetEntry `json:"sets"`
}

// DateOf formats t as a calendar day in t's location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate validates s against DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}
