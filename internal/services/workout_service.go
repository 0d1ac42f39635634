package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liftledger/liftledger/internal/dto"
	"github.com/liftledger/liftledger/internal/identity"
	"github.com/liftledger/liftledger/internal/models"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrWorkoutExists   = errors.New("a workout for that date already exists")
	ErrInvalidDate     = errors.New("date must be formatted YYYY-MM-DD")
	ErrSetNotFound     = errors.New("set not found")
	ErrInvalidReps     = errors.New("reps must be a positive number")
	ErrInvalidWeight   = errors.New("weight cannot be negative")
)

type WorkoutService struct {
	db *gorm.DB
}

func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{db: db}
}

func validDate(raw string) (string, error) {
	date := strings.TrimSpace(raw)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", ErrInvalidDate
	}
	return date, nil
}

func (s *WorkoutService) ByDate(userID uuid.UUID, rawDate string) (*models.Workout, error) {
	date, err := validDate(rawDate)
	if err != nil {
		return nil, err
	}

	var workout models.Workout
	err = s.db.Scopes(identity.ForUser(userID)).Where("workout_date = ?", date).First(&workout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// Create inserts the day's workout. The unique index on (user, date) makes
// racing creates lose with ErrWorkoutExists; callers resolve the conflict by
// fetching the winning row.
func (s *WorkoutService) Create(userID uuid.UUID, req dto.CreateWorkoutRequest) (*models.Workout, error) {
	date, err := validDate(req.Date)
	if err != nil {
		return nil, err
	}

	workout := models.Workout{
		ID:     uuid.New(),
		UserID: userID,
		Date:   date,
		Note:   strings.TrimSpace(req.Note),
	}

	if err := s.db.Create(&workout).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWorkoutExists
		}
		return nil, err
	}
	return &workout, nil
}

// Between lists workouts in the inclusive date range, newest first. The
// stored YYYY-MM-DD form makes BETWEEN a chronological range.
func (s *WorkoutService) Between(userID uuid.UUID, rawStart, rawEnd string) ([]models.Workout, error) {
	start, err := validDate(rawStart)
	if err != nil {
		return nil, err
	}
	end, err := validDate(rawEnd)
	if err != nil {
		return nil, err
	}

	var workouts []models.Workout
	err = s.db.Scopes(identity.ForUser(userID)).
		Where("workout_date BETWEEN ? AND ?", start, end).
		Order("workout_date DESC").
		Find(&workouts).Error
	return workouts, err
}

// Sets lists a workout's sets in stored order, each annotated with its
// exercise's display name. Archived exercises still resolve.
func (s *WorkoutService) Sets(userID, workoutID uuid.UUID) ([]dto.SetWithExercise, error) {
	var workout models.Workout
	if err := s.db.Scopes(identity.ForUser(userID)).First(&workout, "id = ?", workoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	var sets []models.Set
	if err := s.db.Where("workout_id = ?", workoutID).Order("order_index ASC, created_at ASC").Find(&sets).Error; err != nil {
		return nil, err
	}
	return s.annotate(sets)
}

// CreateSet appends a set to a workout the user owns. The parent workout row
// is locked for the span of the transaction, so concurrent appends to the
// same workout serialize and the order index is assigned as the count of
// sets already present. On SQLite the lock clause is a no-op; its
// single-writer transactions serialize siblings anyway.
func (s *WorkoutService) CreateSet(userID uuid.UUID, req dto.CreateSetRequest) (*models.Set, error) {
	if req.Reps < 1 {
		return nil, ErrInvalidReps
	}
	if req.Weight != nil && *req.Weight < 0 {
		return nil, ErrInvalidWeight
	}

	var created models.Set
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var workout models.Workout
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(identity.ForUser(userID)).
			First(&workout, "id = ?", req.WorkoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkoutNotFound
			}
			return err
		}

		var exercise models.Exercise
		if err := tx.Scopes(identity.ForUser(userID)).First(&exercise, "id = ?", req.ExerciseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExerciseNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Set{}).Where("workout_id = ?", req.WorkoutID).Count(&count).Error; err != nil {
			return err
		}

		created = models.Set{
			ID:         uuid.New(),
			WorkoutID:  req.WorkoutID,
			ExerciseID: req.ExerciseID,
			Reps:       req.Reps,
			Weight:     req.Weight,
			OrderIndex: int(count),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *WorkoutService) UpdateSet(userID, setID uuid.UUID, req dto.UpdateSetRequest) (*models.Set, error) {
	set, err := s.ownedSet(userID, setID)
	if err != nil {
		return nil, err
	}

	if req.Reps != nil {
		if *req.Reps < 1 {
			return nil, ErrInvalidReps
		}
		set.Reps = *req.Reps
	}
	if req.Weight != nil {
		if *req.Weight < 0 {
			return nil, ErrInvalidWeight
		}
		set.Weight = req.Weight
	}

	if err := s.db.Save(set).Error; err != nil {
		return nil, err
	}
	return set, nil
}

func (s *WorkoutService) DeleteSet(userID, setID uuid.UUID) error {
	set, err := s.ownedSet(userID, setID)
	if err != nil {
		return err
	}
	return s.db.Delete(set).Error
}

// AllWithSets returns the user's entire history, newest workout first, for
// export.
func (s *WorkoutService) AllWithSets(userID uuid.UUID) ([]dto.WorkoutWithSets, error) {
	var workouts []models.Workout
	err := s.db.Scopes(identity.ForUser(userID)).Order("workout_date DESC").Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return []dto.WorkoutWithSets{}, nil
	}

	ids := make([]uuid.UUID, 0, len(workouts))
	for _, w := range workouts {
		ids = append(ids, w.ID)
	}

	var sets []models.Set
	if err := s.db.Where("workout_id IN ?", ids).Order("order_index ASC, created_at ASC").Find(&sets).Error; err != nil {
		return nil, err
	}
	annotated, err := s.annotate(sets)
	if err != nil {
		return nil, err
	}

	byWorkout := make(map[uuid.UUID][]dto.SetWithExercise, len(workouts))
	for _, entry := range annotated {
		byWorkout[entry.WorkoutID] = append(byWorkout[entry.WorkoutID], entry)
	}

	details := make([]dto.WorkoutWithSets, 0, len(workouts))
	for _, w := range workouts {
		sets := byWorkout[w.ID]
		if sets == nil {
			sets = []dto.SetWithExercise{}
		}
		details = append(details, dto.WorkoutWithSets{Workout: w, Sets: sets})
	}
	return details, nil
}

// ownedSet loads a set and verifies the parent workout belongs to the user.
// Foreign sets are reported as missing, not forbidden.
func (s *WorkoutService) ownedSet(userID, setID uuid.UUID) (*models.Set, error) {
	var set models.Set
	if err := s.db.First(&set, "id = ?", setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}

	var workout models.Workout
	if err := s.db.Scopes(identity.ForUser(userID)).First(&workout, "id = ?", set.WorkoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	return &set, nil
}

// annotate joins sets with exercise names in one query per batch.
func (s *WorkoutService) annotate(sets []models.Set) ([]dto.SetWithExercise, error) {
	out := make([]dto.SetWithExercise, 0, len(sets))
	if len(sets) == 0 {
		return out, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(sets))
	ids := make([]uuid.UUID, 0, len(sets))
	for _, set := range sets {
		if _, ok := seen[set.ExerciseID]; !ok {
			seen[set.ExerciseID] = struct{}{}
			ids = append(ids, set.ExerciseID)
		}
	}

	var exercises []models.Exercise
	if err := s.db.Where("id IN ?", ids).Find(&exercises).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(exercises))
	for _, ex := range exercises {
		names[ex.ID] = ex.Name
	}

	for _, set := range sets {
		out = append(out, dto.SetWithExercise{Set: set, ExerciseName: names[set.ExerciseID]})
	}
	return out, nil
}
