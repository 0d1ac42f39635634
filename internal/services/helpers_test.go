package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liftledger/liftledger/internal/config"
	"github.com/liftledger/liftledger/internal/dto"
	"github.com/liftledger/liftledger/internal/models"
)

// newTestDB opens a private in-memory database migrated with the domain
// schema. The database lives and dies with its single connection, so the
// pool is pinned to one. TranslateError stays on so unique-index violations
// surface as gorm.ErrDuplicatedKey, same as production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Exercise{},
		&models.Workout{},
		&models.Set{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
}

func seedUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedExercise(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *models.Exercise {
	t.Helper()

	exercise, err := NewExerciseService(db).Create(userID, dto.CreateExerciseRequest{Name: name})
	require.NoError(t, err)
	return exercise
}

func seedWorkout(t *testing.T, db *gorm.DB, userID uuid.UUID, date string) *models.Workout {
	t.Helper()

	workout, err := NewWorkoutService(db).Create(userID, dto.CreateWorkoutRequest{Date: date})
	require.NoError(t, err)
	return workout
}

func exerciseInput(name, category, notes string) dto.CreateExerciseRequest {
	return dto.CreateExerciseRequest{Name: name, Category: category, Notes: notes}
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
