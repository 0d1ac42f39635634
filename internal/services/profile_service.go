package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftledger/liftledger/internal/dto"
	"github.com/liftledger/liftledger/internal/models"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrDisplayNameTooLong  = errors.New("display name must be 100 characters or fewer")
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) Get(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Create makes the user's profile. Concurrent creates resolve to the row that
// won; creating an already-present profile returns it unchanged.
func (s *ProfileService) Create(userID uuid.UUID, req dto.UpsertProfileRequest) (*models.Profile, error) {
	name, err := validDisplayName(req.DisplayName)
	if err != nil {
		return nil, err
	}

	profile := models.Profile{ID: userID, DisplayName: name}
	if err := s.db.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.Get(userID)
		}
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileService) Update(userID uuid.UUID, req dto.UpsertProfileRequest) (*models.Profile, error) {
	name, err := validDisplayName(req.DisplayName)
	if err != nil {
		return nil, err
	}

	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	profile.DisplayName = name
	if err := s.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func validDisplayName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrDisplayNameRequired
	}
	if len(name) > 100 {
		return "", ErrDisplayNameTooLong
	}
	return name, nil
}
