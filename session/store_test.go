package session

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/liftledger/liftledger/remote"
	"github.com/liftledger/liftledger/workout"
)

// fakeStore is an in-memory remote.Store enforcing the same uniqueness and
// ordering rules as the real server: one workout per date, case-insensitive
// exercise names, order_index assigned as the count of existing sets.
type fakeStore struct {
	mu sync.Mutex

	identity remote.Identity
	profile  *workout.Profile

	exercises map[uuid.UUID]*workout.Exercise
	workouts  map[uuid.UUID]*workout.Workout
	sets      map[uuid.UUID]*workout.Set

	profileCreates  int
	exerciseCreates int
	workoutCreates  int

	failActiveExercises error
	failWorkoutByDate   error
	failSets            error
	failCreateSet       error

	hookActiveExercises func()
}

var _ remote.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		identity:  remote.Identity{UserID: uuid.New(), Email: "ada@example.com"},
		exercises: make(map[uuid.UUID]*workout.Exercise),
		workouts:  make(map[uuid.UUID]*workout.Workout),
		sets:      make(map[uuid.UUID]*workout.Set),
	}
}

func notFoundErr(msg string) error {
	return &remote.Error{Code: remote.CodeNotFound, Message: msg, Status: 404}
}

func (f *fakeStore) CurrentIdentity() (remote.Identity, bool) {
	return f.identity, true
}

func (f *fakeStore) Profile(_ context.Context) (*workout.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return nil, notFoundErr("no profile")
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeStore) CreateProfile(_ context.Context, displayName string) (*workout.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCreates++
	f.profile = &workout.Profile{ID: f.identity.UserID, DisplayName: displayName}
	p := *f.profile
	return &p, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, displayName string) (*workout.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return nil, notFoundErr("no profile")
	}
	f.profile.DisplayName = displayName
	p := *f.profile
	return &p, nil
}

func (f *fakeStore) ActiveExercises(_ context.Context) ([]workout.Exercise, error) {
	f.mu.Lock()
	hook := f.hookActiveExercises
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failActiveExercises != nil {
		return nil, f.failActiveExercises
	}
	var list []workout.Exercise
	for _, ex := range f.exercises {
		if !ex.IsArchived {
			list = append(list, *ex)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

func (f *fakeStore) CreateExercise(_ context.Context, in remote.NewExercise) (*workout.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exerciseCreates++
	for _, ex := range f.exercises {
		if !ex.IsArchived && strings.EqualFold(ex.Name, in.Name) {
			return nil, &remote.Error{Code: remote.CodeDuplicateName, Message: "exercise already exists", Status: 409}
		}
	}
	ex := &workout.Exercise{
		ID:       uuid.New(),
		UserID:   f.identity.UserID,
		Name:     in.Name,
		Category: in.Category,
		Notes:    in.Notes,
	}
	f.exercises[ex.ID] = ex
	copied := *ex
	return &copied, nil
}

func (f *fakeStore) ArchiveExercise(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ex, ok := f.exercises[id]
	if !ok {
		return notFoundErr("no exercise")
	}
	ex.IsArchived = true
	return nil
}

func (f *fakeStore) WorkoutByDate(_ context.Context, date string) (*workout.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWorkoutByDate != nil {
		return nil, f.failWorkoutByDate
	}
	for _, w := range f.workouts {
		if w.Date == date {
			copied := *w
			return &copied, nil
		}
	}
	return nil, notFoundErr("no workout")
}

func (f *fakeStore) CreateWorkout(_ context.Context, date, note string) (*workout.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workoutCreates++
	for _, w := range f.workouts {
		if w.Date == date {
			return nil, &remote.Error{Code: remote.CodeDuplicateDate, Message: "workout already exists", Status: 409}
		}
	}
	w := &workout.Workout{ID: uuid.New(), UserID: f.identity.UserID, Date: date, Note: note}
	f.workouts[w.ID] = w
	copied := *w
	return &copied, nil
}

func (f *fakeStore) WorkoutsBetween(_ context.Context, start, end string) ([]workout.Workout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []workout.Workout
	for _, w := range f.workouts {
		if w.Date >= start && w.Date <= end {
			list = append(list, *w)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	return list, nil
}

func (f *fakeStore) Sets(_ context.Context, workoutID uuid.UUID) ([]workout.SetEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSets != nil {
		return nil, f.failSets
	}
	return f.setsLocked(workoutID), nil
}

func (f *fakeStore) setsLocked(workoutID uuid.UUID) []workout.SetEntry {
	var list []workout.SetEntry
	for _, s := range f.sets {
		if s.WorkoutID != workoutID {
			continue
		}
		entry := workout.SetEntry{Set: *s}
		if ex, ok := f.exercises[s.ExerciseID]; ok {
			entry.ExerciseName = ex.Name
		}
		list = append(list, entry)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OrderIndex < list[j].OrderIndex })
	return list
}

func (f *fakeStore) CreateSet(_ context.Context, in remote.NewSet) (*workout.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateSet != nil {
		return nil, f.failCreateSet
	}
	if _, ok := f.workouts[in.WorkoutID]; !ok {
		return nil, notFoundErr("no workout")
	}
	order := 0
	for _, s := range f.sets {
		if s.WorkoutID == in.WorkoutID {
			order++
		}
	}
	s := &workout.Set{
		ID:         uuid.New(),
		WorkoutID:  in.WorkoutID,
		ExerciseID: in.ExerciseID,
		Reps:       in.Reps,
		Weight:     in.Weight,
		OrderIndex: order,
	}
	f.sets[s.ID] = s
	copied := *s
	return &copied, nil
}

func (f *fakeStore) UpdateSet(_ context.Context, id uuid.UUID, patch remote.SetPatch) (*workout.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sets[id]
	if !ok {
		return nil, notFoundErr("no set")
	}
	if patch.Reps != nil {
		s.Reps = *patch.Reps
	}
	if patch.Weight != nil {
		s.Weight = patch.Weight
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) DeleteSet(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sets[id]; !ok {
		return notFoundErr("no set")
	}
	delete(f.sets, id)
	return nil
}

func (f *fakeStore) AllWorkoutsWithSets(_ context.Context) ([]workout.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []workout.Detail
	for _, w := range f.workouts {
		list = append(list, workout.Detail{Workout: *w, Sets: f.setsLocked(w.ID)})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	return list, nil
}

func (f *fakeStore) seedExercise(name string) *workout.Exercise {
	f.mu.Lock()
	defer f.mu.Unlock()
	ex := &workout.Exercise{ID: uuid.New(), UserID: f.identity.UserID, Name: name}
	f.exercises[ex.ID] = ex
	copied := *ex
	return &copied
}

func (f *fakeStore) seedWorkout(date string) *workout.Workout {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := &workout.Workout{ID: uuid.New(), UserID: f.identity.UserID, Date: date}
	f.workouts[w.ID] = w
	copied := *w
	return &copied
}

func (f *fakeStore) seedSet(workoutID, exerciseID uuid.UUID, reps int, weight *float64) *workout.Set {
	f.mu.Lock()
	defer f.mu.Unlock()
	order := 0
	for _, s := range f.sets {
		if s.WorkoutID == workoutID {
			order++
		}
	}
	s := &workout.Set{ID: uuid.New(), WorkoutID: workoutID, ExerciseID: exerciseID, Reps: reps, Weight: weight, OrderIndex: order}
	f.sets[s.ID] = s
	copied := *s
	return &copied
}

func (f *fakeStore) exerciseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.exercises)
}

func (f *fakeStore) workoutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.workouts)
}

func (f *fakeStore) setOrders(workoutID uuid.UUID) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var orders []int
	for _, s := range f.sets {
		if s.WorkoutID == workoutID {
			orders = append(orders, s.OrderIndex)
		}
	}
	sort.Ints(orders)
	return orders
}

func (f *fakeStore) setFailures(active, byDate, sets, createSet error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failActiveExercises = active
	f.failWorkoutByDate = byDate
	f.failSets = sets
	f.failCreateSet = createSet
}

// setActiveExercisesHook installs a callback that runs at the start of every
// ActiveExercises call, outside the store mutex so it may block.
func (f *fakeStore) setActiveExercisesHook(hook func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hookActiveExercises = hook
}
