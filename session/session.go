// Package session owns the client-side view of a signed-in user's training
// data. A Session keeps in-memory state for the exercise catalog, today's
// workout and its sets, warms a local cache so the UI has data on offline
// starts, and funnels every mutation through the remote store so the server
// stays the single source of truth.
//
// A Session is created after sign-in and closed on sign-out. All methods are
// safe for concurrent use; duplicate-prone creations (today's workout, a new
// exercise) are collapsed through per-key single-flight groups.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/liftledger/liftledger/cache"
	"github.com/liftledger/liftledger/remote"
	"github.com/liftledger/liftledger/workout"
)

const (
	cacheKeyExercises = "exercises"

	maxNameLength  = 100
	maxNotesLength = 500
)

var (
	ErrClosed              = errors.New("session is closed")
	ErrNameRequired        = errors.New("exercise name is required")
	ErrNameTooLong         = errors.New("exercise name must be 100 characters or fewer")
	ErrNotesTooLong        = errors.New("notes must be 500 characters or fewer")
	ErrDuplicateName       = errors.New("an exercise with that name already exists")
	ErrInvalidReps         = errors.New("reps must be a positive number")
	ErrInvalidWeight       = errors.New("weight cannot be negative")
	ErrInvalidDate         = errors.New("dates must be formatted YYYY-MM-DD")
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrDisplayNameTooLong  = errors.New("display name must be 100 characters or fewer")
)

// Snapshot is a point-in-time copy of the session state for rendering.
// Mutating a snapshot never affects the session.
type Snapshot struct {
	Exercises    []workout.Exercise
	TodayWorkout *workout.Workout
	TodaySets    []workout.SetEntry
	Loading      bool
	Syncing      bool
	LastSynced   time.Time
	LastError    error
}

// Options tunes a Session. The zero value is usable.
type Options struct {
	Logger *slog.Logger
	// Now overrides the clock, letting tests pin "today".
	Now func() time.Time
}

// Session mediates between in-memory state, the local cache, and the remote
// store for one signed-in identity.
type Session struct {
	store  remote.Store
	cache  cache.Store
	logger *slog.Logger
	now    func() time.Time

	flights singleflight.Group

	mu        sync.RWMutex
	exercises []workout.Exercise
	today     *workout.Workout
	todaySets []workout.SetEntry
	loading   bool
	syncDepth int
	lastSync  time.Time
	lastErr   error
	closed    bool
}

// New builds a Session over the given store. A nil cacheStore falls back to
// an in-process cache.
func New(store remote.Store, cacheStore cache.Store, opts Options) *Session {
	if cacheStore == nil {
		cacheStore = cache.NewMemory()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		store:  store,
		cache:  cacheStore,
		logger: logger,
		now:    now,
	}
}

// Close marks the session inactive. Every later call fails with ErrClosed, so
// callbacks landing after sign-out cannot mutate stale state.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Session) guard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Exercises:  cloneExercises(s.exercises),
		TodaySets:  cloneSets(s.todaySets),
		Loading:    s.loading,
		Syncing:    s.syncDepth > 0,
		LastSynced: s.lastSync,
		LastError:  s.lastErr,
	}
	if s.today != nil {
		w := *s.today
		snap.TodayWorkout = &w
	}
	return snap
}

// Initialize warms state for first render: exercises come from the local
// cache when present, then a full Synchronize runs against the store. Loading
// stays true until the sync finishes, successfully or not.
func (s *Session) Initialize(ctx context.Context) {
	if err := s.guard(); err != nil {
		s.record("initialize", err)
		return
	}
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if cached, ok := s.readExerciseCache(ctx); ok {
		s.mu.Lock()
		if len(s.exercises) == 0 {
			s.exercises = cached
		}
		s.mu.Unlock()
	}

	s.Synchronize(ctx)
}

// Synchronize refreshes the exercise catalog and today's workout from the
// store. Failures are recorded in the snapshot and logged; previously loaded
// exercises stay visible so the UI never blanks out on a flaky network.
// Refreshes may overlap; the snapshot reports syncing until the last one
// finishes.
func (s *Session) Synchronize(ctx context.Context) {
	if err := s.guard(); err != nil {
		s.record("synchronize", err)
		return
	}
	s.mu.Lock()
	s.syncDepth++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.syncDepth--
		s.mu.Unlock()
	}()

	clean := true

	list, err := s.store.ActiveExercises(ctx)
	if err != nil {
		clean = false
		s.record("refresh exercises", err)
	} else {
		sortExercises(list)
		s.mu.Lock()
		s.exercises = list
		snapshot := cloneExercises(list)
		s.mu.Unlock()
		s.writeExerciseCache(ctx, snapshot)
	}

	if err := s.LoadTodayWorkout(ctx); err != nil {
		clean = false
		s.record("load today workout", err)
	}

	if clean {
		s.mu.Lock()
		s.lastErr = nil
		s.lastSync = s.now()
		s.mu.Unlock()
	}
}

// LoadTodayWorkout fetches the workout for the local calendar date along with
// its sets. A missing workout is a normal state, not an error: today and its
// sets become empty. Any other store failure clears the set list as a safe
// default and is returned to the caller.
func (s *Session) LoadTodayWorkout(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}
	date := workout.DateOf(s.now())

	w, err := s.store.WorkoutByDate(ctx, date)
	if remote.IsNotFound(err) {
		s.mu.Lock()
		s.today = nil
		s.todaySets = nil
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.clearTodaySets()
		return err
	}

	sets, err := s.store.Sets(ctx, w.ID)
	if err != nil {
		s.clearTodaySets()
		return err
	}

	s.mu.Lock()
	s.today = w
	s.todaySets = sets
	s.mu.Unlock()
	return nil
}

func (s *Session) clearTodaySets() {
	s.mu.Lock()
	s.todaySets = nil
	s.mu.Unlock()
}

// record notes a failed step in the snapshot without disturbing loaded data.
func (s *Session) record(op string, err error) {
	wrapped := fmt.Errorf("%s: %w", op, err)
	s.mu.Lock()
	s.lastErr = wrapped
	s.mu.Unlock()
	s.logger.Warn("sync step failed", "op", op, "error", err)
}

func (s *Session) readExerciseCache(ctx context.Context) ([]workout.Exercise, bool) {
	raw, ok, err := s.cache.Get(ctx, cacheKeyExercises)
	if err != nil {
		s.logger.Debug("cache read failed", "key", cacheKeyExercises, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var list []workout.Exercise
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Debug("cache entry unreadable", "key", cacheKeyExercises, "error", err)
		return nil, false
	}
	return list, true
}

// writeExerciseCache persists the catalog snapshot. Cache trouble is never
// fatal; the store copy remains authoritative.
func (s *Session) writeExerciseCache(ctx context.Context, list []workout.Exercise) {
	encoded, err := json.Marshal(list)
	if err != nil {
		s.logger.Debug("cache encode failed", "key", cacheKeyExercises, "error", err)
		return
	}
	if err := s.cache.Set(ctx, cacheKeyExercises, string(encoded)); err != nil {
		s.logger.Debug("cache write failed", "key", cacheKeyExercises, "error", err)
	}
}

func sortExercises(list []workout.Exercise) {
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
}

func cloneExercises(list []workout.Exercise) []workout.Exercise {
	if len(list) == 0 {
		return nil
	}
	dup := make([]workout.Exercise, len(list))
	copy(dup, list)
	return dup
}

func cloneSets(list []workout.SetEntry) []workout.SetEntry {
	if len(list) == 0 {
		return nil
	}
	dup := make([]workout.SetEntry, len(list))
	copy(dup, list)
	return dup
}
