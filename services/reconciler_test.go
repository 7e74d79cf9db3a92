package services

import (
	"testing"
	"time"

	"breakfast-backend/cache"
	"breakfast-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileUnknownProperty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReconcilerService(db, cache.NewGuestCache())

	_, _, err := svc.Reconcile("NOPE", time.Now())
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestReconcileEmptyRoomsHaveNoGuest(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "101", "102", "103")
	svc := NewReconcilerService(db, cache.NewGuestCache())

	occupancies, warnings, err := svc.Reconcile("PROP001", time.Now())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, occupancies, 3)
	for _, occ := range occupancies {
		assert.Nil(t, occ.Guest)
	}
}

func TestReconcileMatchesActiveStay(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204")
	svc := NewReconcilerService(db, cache.NewGuestCache())

	seedGuest(t, db, models.Guest{
		PropertyID:   "PROP001",
		RoomNumber:   "204",
		FirstName:    "J.",
		LastName:     "Doe",
		CheckInDate:  day(2026, time.March, 1),
		CheckOutDate: day(2026, time.March, 5),
	})

	occ, warnings, err := svc.ReconcileRoom("PROP001", "204", day(2026, time.March, 3))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.NotNil(t, occ.Guest)
	assert.Equal(t, "J. Doe", occ.Guest.FullName())

	// Check-out day is exclusive.
	occ, _, err = svc.ReconcileRoom("PROP001", "204", day(2026, time.March, 5))
	require.NoError(t, err)
	assert.Nil(t, occ.Guest)

	// Check-in day is inclusive.
	occ, _, err = svc.ReconcileRoom("PROP001", "204", day(2026, time.March, 1))
	require.NoError(t, err)
	assert.NotNil(t, occ.Guest)
}

func TestReconcileUnknownRoom(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "101")
	svc := NewReconcilerService(db, cache.NewGuestCache())

	_, _, err := svc.ReconcileRoom("PROP001", "999", time.Now())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestReconcileOverlappingGuestsWarnsAndKeepsLatest(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204")
	svc := NewReconcilerService(db, cache.NewGuestCache())

	seedGuest(t, db, models.Guest{
		PMSGuestID:   "G-OLD",
		PropertyID:   "PROP001",
		RoomNumber:   "204",
		FirstName:    "Stale",
		LastName:     "Booking",
		CheckInDate:  day(2026, time.March, 1),
		CheckOutDate: day(2026, time.March, 10),
	})
	seedGuest(t, db, models.Guest{
		PMSGuestID:   "G-NEW",
		PropertyID:   "PROP001",
		RoomNumber:   "204",
		FirstName:    "Current",
		LastName:     "Guest",
		CheckInDate:  day(2026, time.March, 3),
		CheckOutDate: day(2026, time.March, 8),
	})

	occupancies, warnings, err := svc.Reconcile("PROP001", day(2026, time.March, 4))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "room 204")
	require.NotNil(t, occupancies[0].Guest)
	assert.Equal(t, "G-NEW", occupancies[0].Guest.PMSGuestID)
}

func TestTodayUsesPropertyTimezone(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Property{PropertyID: "PROP001", Name: "Test Property", Timezone: "UTC"}).Error)
	svc := NewReconcilerService(db, cache.NewGuestCache())

	today, err := svc.Today("PROP001")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, today.Location())

	_, err = svc.Today("NOPE")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestReconcilePropagatesGuestQueryFailure(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "101")
	svc := NewReconcilerService(db, cache.NewGuestCache())

	require.NoError(t, db.Migrator().DropTable(&models.Guest{}))

	_, _, err := svc.Reconcile("PROP001", time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPropertyNotFound)

	_, _, err = svc.ReconcileRoom("PROP001", "101", time.Now())
	require.Error(t, err)
}

func TestReconcilePrefersSnapshotOverDB(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204")

	guests := cache.NewGuestCache()
	svc := NewReconcilerService(db, guests)

	// DB row says Doe; the fresher snapshot says Smith. The snapshot wins.
	seedGuest(t, db, models.Guest{
		PMSGuestID:   "G-1",
		PropertyID:   "PROP001",
		RoomNumber:   "204",
		FirstName:    "J.",
		LastName:     "Doe",
		CheckInDate:  day(2026, time.March, 1),
		CheckOutDate: day(2026, time.March, 5),
	})
	guests.Replace("PROP001", []models.Guest{{
		PMSGuestID:   "G-2",
		PropertyID:   "PROP001",
		RoomNumber:   "204",
		FirstName:    "A.",
		LastName:     "Smith",
		CheckInDate:  day(2026, time.March, 1),
		CheckOutDate: day(2026, time.March, 5),
		IsActive:     true,
	}})

	occ, _, err := svc.ReconcileRoom("PROP001", "204", day(2026, time.March, 2))
	require.NoError(t, err)
	require.NotNil(t, occ.Guest)
	assert.Equal(t, "A. Smith", occ.Guest.FullName())
}
