package services

import (
	"context"
	"testing"
	"time"

	"breakfast-backend/cache"
	"breakfast-backend/models"
	"breakfast-backend/pms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testSyncConfig() SyncConfig {
	return SyncConfig{
		MinInterval:  time.Minute,
		MaxAttempts:  2,
		RetryBackoff: time.Millisecond,
		FetchTimeout: time.Second,
	}
}

func newSyncService(db *gorm.DB, adapter pms.Adapter, guests *cache.GuestCache) *SyncService {
	return NewSyncService(db, adapter, guests, cache.NewReportCache(nil), testSyncConfig())
}

func guestRecord(id, room string, breakfast bool) pms.GuestRecord {
	return pms.GuestRecord{
		GuestID:          id,
		ReservationID:    "R-" + id,
		PropertyID:       "PROP001",
		RoomNumber:       room,
		FirstName:        "Guest",
		LastName:         id,
		CheckInDate:      day(2026, time.March, 1),
		CheckOutDate:     day(2026, time.March, 5),
		BreakfastPackage: breakfast,
		BreakfastCount:   2,
		Status:           "checked_in",
	}
}

func TestSyncUnknownProperty(t *testing.T) {
	db := setupTestDB(t)
	svc := newSyncService(db, &fakeAdapter{}, cache.NewGuestCache())

	_, err := svc.SyncFromPMS(context.Background(), "NOPE", true)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestSyncAppliesGuestsAndSwapsSnapshot(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204", "205")
	guests := cache.NewGuestCache()
	adapter := &fakeAdapter{fetchResult: &pms.FetchResult{
		Guests:   []pms.GuestRecord{guestRecord("G-1", "204", true), guestRecord("G-2", "205", false)},
		Complete: true,
	}}
	svc := newSyncService(db, adapter, guests)

	resp, err := svc.SyncFromPMS(context.Background(), "PROP001", true)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SyncedGuests)
	assert.Equal(t, 2, resp.UpdatedRooms)
	assert.Empty(t, resp.Errors)

	snap := guests.Snapshot("PROP001")
	require.NotNil(t, snap)
	assert.Len(t, snap.Guests, 2)
	for _, g := range snap.Guests {
		assert.NotZero(t, g.ID, "snapshot guests carry DB-assigned ids")
	}

	status, err := svc.Status("PROP001")
	require.NoError(t, err)
	assert.Equal(t, models.SyncSuccess, status.Result)
	assert.Equal(t, 2, status.SyncedCount)
	require.NotNil(t, status.LastSync)
}

func TestSyncTwiceWithoutChangesIsStable(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204")
	guests := cache.NewGuestCache()
	adapter := &fakeAdapter{fetchResult: &pms.FetchResult{
		Guests:   []pms.GuestRecord{guestRecord("G-1", "204", true)},
		Complete: true,
	}}
	svc := newSyncService(db, adapter, guests)

	ctx := context.Background()
	first, err := svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err)
	second, err := svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err)

	assert.Equal(t, first.SyncedGuests, second.SyncedGuests)
	assert.Empty(t, second.Errors)

	// The upsert keyed on pms_guest_id keeps one row per guest.
	var count int64
	db.Model(&models.Guest{}).Count(&count)
	assert.Equal(t, int64(1), count)

	snap := guests.Snapshot("PROP001")
	require.NotNil(t, snap)
	assert.Len(t, snap.Guests, 1)
}

func TestSyncCompleteDeactivatesDepartedGuests(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204", "205")
	guests := cache.NewGuestCache()
	adapter := &fakeAdapter{fetchResult: &pms.FetchResult{
		Guests:   []pms.GuestRecord{guestRecord("G-1", "204", true), guestRecord("G-2", "205", false)},
		Complete: true,
	}}
	svc := newSyncService(db, adapter, guests)
	ctx := context.Background()

	_, err := svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err)

	// G-2 checked out; the next complete batch omits them.
	adapter.fetchResult = &pms.FetchResult{
		Guests:   []pms.GuestRecord{guestRecord("G-1", "204", true)},
		Complete: true,
	}
	_, err = svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err)

	var departed models.Guest
	require.NoError(t, db.Where("pms_guest_id = ?", "G-2").First(&departed).Error)
	assert.False(t, departed.IsActive)

	snap := guests.Snapshot("PROP001")
	require.NotNil(t, snap)
	require.Len(t, snap.Guests, 1)
	assert.Equal(t, "G-1", snap.Guests[0].PMSGuestID)
}

func TestSyncPartialKeepsUnfetchedGuests(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204", "205")
	guests := cache.NewGuestCache()
	adapter := &fakeAdapter{fetchResult: &pms.FetchResult{
		Guests:   []pms.GuestRecord{guestRecord("G-1", "204", true), guestRecord("G-2", "205", false)},
		Complete: true,
	}}
	svc := newSyncService(db, adapter, guests)
	ctx := context.Background()

	_, err := svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err)

	// A partial fetch only overlays what came back; G-2 stays active.
	adapter.fetchResult = &pms.FetchResult{
		Guests:   []pms.GuestRecord{guestRecord("G-1", "204", true)},
		Complete: false,
		Errors:   []string{"page 2 timed out", "page 3 timed out"},
	}
	resp, err := svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err)
	assert.Len(t, resp.Errors, 2)
	assert.Equal(t, "Guest data partially synchronized", resp.Message)

	snap := guests.Snapshot("PROP001")
	require.NotNil(t, snap)
	assert.Len(t, snap.Guests, 2)

	status, err := svc.Status("PROP001")
	require.NoError(t, err)
	assert.Equal(t, models.SyncPartial, status.Result)
	assert.Len(t, status.Errors, 2)
}

func TestSyncFetchFailureRetainsPriorCache(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204")
	guests := cache.NewGuestCache()
	adapter := &fakeAdapter{fetchResult: &pms.FetchResult{
		Guests:   []pms.GuestRecord{guestRecord("G-1", "204", true)},
		Complete: true,
	}}
	svc := newSyncService(db, adapter, guests)
	ctx := context.Background()

	_, err := svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err)
	before := guests.Snapshot("PROP001")

	adapter.fetchErr = errPMSDown
	adapter.fetchCalls = 0
	resp, err := svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err, "a failed sync is reported in the response, not as a transport error")
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "pms unreachable")
	assert.Contains(t, resp.Message, "previous guest data retained")

	assert.Equal(t, 2, adapter.fetchCalls, "fetch is retried up to MaxAttempts")
	assert.Same(t, before, guests.Snapshot("PROP001"), "prior snapshot stands")

	status, err := svc.Status("PROP001")
	require.NoError(t, err)
	assert.Equal(t, models.SyncFailure, status.Result)
}

func TestSyncSkipsWhenRecentlyCompleted(t *testing.T) {
	db := setupTestDB(t)
	seedProperty(t, db, "PROP001", "204")
	adapter := &fakeAdapter{fetchResult: &pms.FetchResult{
		Guests:   []pms.GuestRecord{guestRecord("G-1", "204", true)},
		Complete: true,
	}}
	svc := newSyncService(db, adapter, cache.NewGuestCache())
	ctx := context.Background()

	_, err := svc.SyncFromPMS(ctx, "PROP001", false)
	require.NoError(t, err)
	require.Equal(t, 1, adapter.fetchCalls)

	resp, err := svc.SyncFromPMS(ctx, "PROP001", false)
	require.NoError(t, err)
	assert.Equal(t, 1, adapter.fetchCalls, "non-forced sync inside the interval does not hit the PMS")
	assert.Contains(t, resp.Message, "skipped")

	// force bypasses the interval.
	_, err = svc.SyncFromPMS(ctx, "PROP001", true)
	require.NoError(t, err)
	assert.Equal(t, 2, adapter.fetchCalls)
}
