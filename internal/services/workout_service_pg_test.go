package services

import (
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liftledger/liftledger/internal/dto"
	"github.com/liftledger/liftledger/internal/models"
)

// newPostgresTestDB connects to the database named by TEST_POSTGRES_DSN.
// Row locking needs real concurrent connections, which the single-connection
// in-memory SQLite setup cannot provide, so these tests skip unless a
// Postgres instance is configured.
func newPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Exercise{},
		&models.Workout{},
		&models.Set{},
	))
	return db
}

// Concurrent appends to one workout must serialize on the locked parent row:
// every set gets a distinct order index and the sequence has no holes.
func TestCreateSetConcurrentAppendsSerialize(t *testing.T) {
	db := newPostgresTestDB(t)
	svc := NewWorkoutService(db)
	userID := seedUser(t, db)
	workout := seedWorkout(t, db, userID, "2024-06-15")
	exercise := seedExercise(t, db, userID, "Squats")

	t.Cleanup(func() {
		db.Where("workout_id = ?", workout.ID).Delete(&models.Set{})
		db.Delete(&models.Workout{}, "id = ?", workout.ID)
		db.Delete(&models.Exercise{}, "id = ?", exercise.ID)
		db.Unscoped().Delete(&models.User{}, "id = ?", userID)
	})

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	orders := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set, err := svc.CreateSet(userID, dto.CreateSetRequest{
				WorkoutID:  workout.ID,
				ExerciseID: exercise.ID,
				Reps:       5,
			})
			errs[i] = err
			if err == nil {
				orders[i] = set.OrderIndex
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Ints(orders)
	for want, got := range orders {
		require.Equal(t, want, got, "order indexes must be distinct and gapless")
	}

	var stored []models.Set
	require.NoError(t, db.Where("workout_id = ?", workout.ID).Order("order_index ASC").Find(&stored).Error)
	require.Len(t, stored, callers)
}
