package session

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/liftledger/liftledger/remote"
	"github.com/liftledger/liftledger/workout"
)

// ExerciseInput carries the user-entered fields for a new exercise.
type ExerciseInput struct {
	Name     string
	Category string
	Notes    string
}

// CreateExercise validates the input, creates the exercise remotely, and
// slots it into the in-memory catalog at its name-sorted position. Concurrent
// creations of the same name (compared case-insensitively) collapse into a
// single store call; a name the store already holds surfaces as
// ErrDuplicateName.
func (s *Session) CreateExercise(ctx context.Context, in ExerciseInput) (*workout.Exercise, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > maxNameLength {
		return nil, ErrNameTooLong
	}
	notes := strings.TrimSpace(in.Notes)
	if len(notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}
	if s.hasExercise(name) {
		return nil, ErrDuplicateName
	}

	v, err, _ := s.flights.Do("exercise:"+strings.ToLower(name), func() (any, error) {
		// Recheck inside the flight: a racing call may have just added it.
		if s.hasExercise(name) {
			return nil, ErrDuplicateName
		}
		created, err := s.store.CreateExercise(ctx, remote.NewExercise{
			Name:     name,
			Category: strings.TrimSpace(in.Category),
			Notes:    notes,
		})
		if err != nil {
			if remote.CodeOf(err) == remote.CodeDuplicateName {
				return nil, ErrDuplicateName
			}
			return nil, err
		}
		s.insertExercise(ctx, *created)
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*workout.Exercise), nil
}

// DeleteExercise archives the exercise remotely and drops it from the active
// catalog. Historical sets keep referencing it and still resolve its name on
// history queries.
func (s *Session) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.store.ArchiveExercise(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := make([]workout.Exercise, 0, len(s.exercises))
	for _, ex := range s.exercises {
		if ex.ID != id {
			kept = append(kept, ex)
		}
	}
	s.exercises = kept
	snapshot := cloneExercises(kept)
	s.mu.Unlock()

	s.writeExerciseCache(ctx, snapshot)
	return nil
}

func (s *Session) hasExercise(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ex := range s.exercises {
		if strings.EqualFold(ex.Name, name) {
			return true
		}
	}
	return false
}

func (s *Session) insertExercise(ctx context.Context, ex workout.Exercise) {
	s.mu.Lock()
	s.exercises = append(s.exercises, ex)
	sortExercises(s.exercises)
	snapshot := cloneExercises(s.exercises)
	s.mu.Unlock()

	s.writeExerciseCache(ctx, snapshot)
}

// exerciseName resolves a display name from the in-memory catalog, falling
// back to "Unknown" for archived or never-loaded exercises.
func (s *Session) exerciseName(id uuid.UUID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ex := range s.exercises {
		if ex.ID == id {
			return ex.Name
		}
	}
	return "Unknown"
}
