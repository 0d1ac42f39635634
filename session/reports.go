package session

import (
	"context"
	"sort"
	"strings"

	"github.com/liftledger/liftledger/export"
	"github.com/liftledger/liftledger/remote"
	"github.com/liftledger/liftledger/stats"
	"github.com/liftledger/liftledger/workout"
)

// WorkoutHistory fetches workouts in the inclusive date range, newest first,
// each enriched with its ordered sets. A range with no workouts is an empty
// result, not an error.
func (s *Session) WorkoutHistory(ctx context.Context, startDate, endDate string) ([]workout.Detail, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if _, err := workout.ParseDate(startDate); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := workout.ParseDate(endDate); err != nil {
		return nil, ErrInvalidDate
	}

	workouts, err := s.store.WorkoutsBetween(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].Date > workouts[j].Date
	})

	details := make([]workout.Detail, 0, len(workouts))
	for _, w := range workouts {
		sets, err := s.store.Sets(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, workout.Detail{Workout: w, Sets: sets})
	}
	return details, nil
}

// ExportData renders the full workout history as CSV.
func (s *Session) ExportData(ctx context.Context) (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	details, err := s.store.AllWorkoutsWithSets(ctx)
	if err != nil {
		return "", err
	}
	return export.Format(details), nil
}

// TodayStats derives tallies from the in-memory day. Always recomputed, so
// it reflects every add and delete immediately.
func (s *Session) TodayStats() stats.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Calculate(s.todaySets)
}

// Profile returns the user's profile, creating one on first use with a
// display name derived from the sign-in email.
func (s *Session) Profile(ctx context.Context) (*workout.Profile, error) {
	return s.EnsureProfile(ctx, "")
}

// EnsureProfile returns the profile, creating it with defaultName when the
// user has none yet. An empty defaultName falls back to the local part of
// the sign-in email.
func (s *Session) EnsureProfile(ctx context.Context, defaultName string) (*workout.Profile, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	p, err := s.store.Profile(ctx)
	if err == nil {
		return p, nil
	}
	if !remote.IsNotFound(err) {
		return nil, err
	}
	name := strings.TrimSpace(defaultName)
	if name == "" {
		name = s.defaultDisplayName()
	}
	return s.store.CreateProfile(ctx, name)
}

// UpdateProfile sets a new display name after trimming and length checks.
func (s *Session) UpdateProfile(ctx context.Context, displayName string) (*workout.Profile, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, ErrDisplayNameRequired
	}
	if len(name) > maxNameLength {
		return nil, ErrDisplayNameTooLong
	}
	return s.store.UpdateProfile(ctx, name)
}

func (s *Session) defaultDisplayName() string {
	id, ok := s.store.CurrentIdentity()
	if !ok || id.Email == "" {
		return "Athlete"
	}
	if local, _, found := strings.Cut(id.Email, "@"); found && local != "" {
		return local
	}
	return id.Email
}
