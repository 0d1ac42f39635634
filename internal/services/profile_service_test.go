package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftledger/liftledger/internal/dto"
)

func TestProfileGetMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)

	_, err := svc.Get(seedUser(t, db))
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileCreateAndUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	userID := seedUser(t, db)

	created, err := svc.Create(userID, dto.UpsertProfileRequest{DisplayName: "  Ada  "})
	require.NoError(t, err)
	require.Equal(t, userID, created.ID)
	require.Equal(t, "Ada", created.DisplayName)

	fetched, err := svc.Get(userID)
	require.NoError(t, err)
	require.Equal(t, "Ada", fetched.DisplayName)

	updated, err := svc.Update(userID, dto.UpsertProfileRequest{DisplayName: "Grace"})
	require.NoError(t, err)
	require.Equal(t, "Grace", updated.DisplayName)

	_, err = svc.Update(userID, dto.UpsertProfileRequest{DisplayName: "   "})
	require.ErrorIs(t, err, ErrDisplayNameRequired)

	_, err = svc.Update(userID, dto.UpsertProfileRequest{DisplayName: strings.Repeat("x", 101)})
	require.ErrorIs(t, err, ErrDisplayNameTooLong)
}

func TestProfileCreateConflictReturnsExisting(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	userID := seedUser(t, db)

	first, err := svc.Create(userID, dto.UpsertProfileRequest{DisplayName: "Ada"})
	require.NoError(t, err)

	// A second create resolves to the row that won, not an error.
	second, err := svc.Create(userID, dto.UpsertProfileRequest{DisplayName: "Someone Else"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Ada", second.DisplayName)
}

func TestUpdateMissingProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)

	_, err := svc.Update(seedUser(t, db), dto.UpsertProfileRequest{DisplayName: "Ada"})
	require.ErrorIs(t, err, ErrProfileNotFound)
}
