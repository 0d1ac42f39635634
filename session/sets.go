package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/liftledger/liftledger/remote"
	"github.com/liftledger/liftledger/workout"
)

// AddSet records one set of an exercise against today's workout, creating the
// workout first when the day has none. The store assigns the set's position
// at the end of the workout. The returned entry is already annotated with the
// exercise's display name and appended to the in-memory day.
func (s *Session) AddSet(ctx context.Context, exerciseID uuid.UUID, reps int, weight *float64) (*workout.SetEntry, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if reps < 1 {
		return nil, ErrInvalidReps
	}
	if weight != nil && *weight < 0 {
		return nil, ErrInvalidWeight
	}

	today, err := s.ensureTodayWorkout(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateSet(ctx, remote.NewSet{
		WorkoutID:  today.ID,
		ExerciseID: exerciseID,
		Reps:       reps,
		Weight:     weight,
	})
	if err != nil {
		return nil, err
	}

	entry := workout.SetEntry{Set: *created, ExerciseName: s.exerciseName(exerciseID)}

	s.mu.Lock()
	if s.today != nil && s.today.ID == created.WorkoutID {
		s.todaySets = append(s.todaySets, entry)
	}
	s.mu.Unlock()
	return &entry, nil
}

// DeleteSet removes the set remotely and from today's in-memory list.
func (s *Session) DeleteSet(ctx context.Context, id uuid.UUID) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.store.DeleteSet(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := make([]workout.SetEntry, 0, len(s.todaySets))
	for _, entry := range s.todaySets {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	s.todaySets = kept
	s.mu.Unlock()
	return nil
}

// ensureTodayWorkout returns today's workout, creating it when absent. All
// concurrent callers for the same date share one lookup-then-create flight,
// and a duplicate-date conflict from a racing device resolves by fetching the
// winning row.
func (s *Session) ensureTodayWorkout(ctx context.Context) (*workout.Workout, error) {
	date := workout.DateOf(s.now())

	s.mu.RLock()
	current := s.today
	s.mu.RUnlock()
	if current != nil && current.Date == date {
		return current, nil
	}

	v, err, _ := s.flights.Do("workout:"+date, func() (any, error) {
		s.mu.RLock()
		cur := s.today
		s.mu.RUnlock()
		if cur != nil && cur.Date == date {
			return cur, nil
		}

		w, err := s.store.WorkoutByDate(ctx, date)
		if remote.IsNotFound(err) {
			w, err = s.store.CreateWorkout(ctx, date, "")
			if remote.CodeOf(err) == remote.CodeDuplicateDate {
				w, err = s.store.WorkoutByDate(ctx, date)
			}
		}
		if err != nil {
			return nil, err
		}
		s.adoptToday(w)
		return w, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*workout.Workout), nil
}

// adoptToday switches the session to a new current workout. Crossing into a
// different workout (midnight rollover, first workout of the day) resets the
// set list; the next sync fills in anything recorded elsewhere.
func (s *Session) adoptToday(w *workout.Workout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.today == nil || s.today.ID != w.ID {
		s.today = w
		s.todaySets = nil
	}
}
