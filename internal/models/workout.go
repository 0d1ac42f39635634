package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout is one user's training day. The date is stored as YYYY-MM-DD text,
// so lexicographic range scans line up with chronological order, and the
// unique index enforces at most one workout per user per day.
type Workout struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_workouts_user_date" json:"user_id"`
	Date      string    `gorm:"column:workout_date;size:10;not null;uniqueIndex:idx_workouts_user_date" json:"workout_date"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Set records one performed set. OrderIndex is assigned as the count of sets
// already in the workout, making it an append-only sequence. Weight is nil
// for bodyweight sets.
type Set struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkoutID  uuid.UUID `gorm:"type:uuid;not null;index" json:"workout_id"`
	ExerciseID uuid.UUID `gorm:"type:uuid;not null;index" json:"exercise_id"`
	Reps       int       `gorm:"not null" json:"reps"`
	Weight     *float64  `gorm:"type:decimal(6,2)" json:"weight,omitempty"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}
