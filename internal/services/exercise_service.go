package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftledger/liftledger/internal/dto"
	"github.com/liftledger/liftledger/internal/identity"
	"github.com/liftledger/liftledger/internal/models"
)

var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseNameTaken    = errors.New("an exercise with that name already exists")
	ErrExerciseNameRequired = errors.New("exercise name is required")
	ErrExerciseNameTooLong  = errors.New("exercise name must be 100 characters or fewer")
	ErrNotesTooLong         = errors.New("notes must be 500 characters or fewer")
)

type ExerciseService struct {
	db *gorm.DB
}

func NewExerciseService(db *gorm.DB) *ExerciseService {
	return &ExerciseService{db: db}
}

// ListActive returns the user's non-archived exercises. Ordering by name_key
// gives a case-insensitive name sort without dialect-specific SQL.
func (s *ExerciseService) ListActive(userID uuid.UUID) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := s.db.Scopes(identity.ForUser(userID)).
		Where("is_archived = false").
		Order("name_key ASC").
		Find(&exercises).Error
	return exercises, err
}

// Create inserts a new exercise. Name uniqueness is case-insensitive and
// enforced by the store's unique index, so two racing creates of the same
// name cannot both land.
func (s *ExerciseService) Create(userID uuid.UUID, req dto.CreateExerciseRequest) (*models.Exercise, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrExerciseNameRequired
	}
	if len(name) > 100 {
		return nil, ErrExerciseNameTooLong
	}
	notes := strings.TrimSpace(req.Notes)
	if len(notes) > 500 {
		return nil, ErrNotesTooLong
	}

	exercise := models.Exercise{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     name,
		NameKey:  strings.ToLower(name),
		Category: strings.TrimSpace(req.Category),
		Notes:    notes,
	}

	if err := s.db.Create(&exercise).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	return &exercise, nil
}

// Archive soft-deletes an exercise. The row stays so historical sets keep
// resolving its name; archiving an already-archived exercise is a no-op.
func (s *ExerciseService) Archive(userID, exerciseID uuid.UUID) error {
	var exercise models.Exercise
	if err := s.db.Scopes(identity.ForUser(userID)).First(&exercise, "id = ?", exerciseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if exercise.IsArchived {
		return nil
	}
	return s.db.Model(&exercise).Update("is_archived", true).Error
}
