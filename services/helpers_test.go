package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"breakfast-backend/models"
	"breakfast-backend/pms"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Property{},
		&models.Room{},
		&models.Staff{},
		&models.Guest{},
		&models.DailyBreakfastConsumption{},
		&models.SyncMetadata{},
	))
	return db
}

func seedProperty(t *testing.T, db *gorm.DB, propertyID string, roomNumbers ...string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Property{PropertyID: propertyID, Name: "Test Property"}).Error)
	for i, number := range roomNumbers {
		require.NoError(t, db.Create(&models.Room{
			PropertyID: propertyID,
			RoomNumber: number,
			Floor:      i/8 + 1,
			RoomType:   "standard",
			Status:     models.RoomAvailable,
		}).Error)
	}
}

func seedGuest(t *testing.T, db *gorm.DB, g models.Guest) models.Guest {
	t.Helper()
	if g.PMSGuestID == "" {
		g.PMSGuestID = fmt.Sprintf("G-%s-%s", g.PropertyID, g.RoomNumber)
	}
	if g.ReservationID == "" {
		g.ReservationID = "R-" + g.PMSGuestID
	}
	g.IsActive = true
	require.NoError(t, db.Create(&g).Error)
	return g
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.Local)
}

// fakeAdapter is a scriptable PMS for tests.
type fakeAdapter struct {
	fetchResult *pms.FetchResult
	fetchErr    error
	fetchCalls  int

	chargeResp  *pms.ChargeResponse
	chargeErr   error
	chargeCalls int
	lastCharge  pms.ChargeRequest
}

func (f *fakeAdapter) FetchGuests(ctx context.Context, propertyID string) (*pms.FetchResult, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetchResult, nil
}

func (f *fakeAdapter) PostCharge(ctx context.Context, charge pms.ChargeRequest) (*pms.ChargeResponse, error) {
	f.chargeCalls++
	f.lastCharge = charge
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	if f.chargeResp != nil {
		return f.chargeResp, nil
	}
	return &pms.ChargeResponse{Success: true, TransactionID: "TXN-1", Status: "posted"}, nil
}

var errPMSDown = errors.New("pms unreachable")
