package services

import (
	"errors"
	"fmt"
	"time"

	"breakfast-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns the per-room-per-day consumption rows. All mutations go
// through conditional writes keyed on (property_id, room_number,
// consumption_date); different keys never contend.
type LedgerService struct {
	db   *gorm.DB
	rate float64
}

func NewLedgerService(db *gorm.DB, rate float64) *LedgerService {
	if rate <= 0 {
		rate = 25.00
	}
	return &LedgerService{db: db, rate: rate}
}

// GetOrCreate returns the ledger row for the key, creating a pending one if
// absent. Safe under concurrent calls with the same key: the insert is
// on-conflict-do-nothing against the unique index, so exactly one row wins
// and everyone reads it back.
func (s *LedgerService) GetOrCreate(propertyID, roomNumber string, date time.Time, guestID uint) (*models.DailyBreakfastConsumption, error) {
	day := models.DateOnly(date)

	record := models.DailyBreakfastConsumption{
		PropertyID:      propertyID,
		RoomNumber:      roomNumber,
		ConsumptionDate: day,
		GuestID:         guestID,
		Status:          models.ConsumptionPending,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "property_id"}, {Name: "room_number"}, {Name: "consumption_date"}},
		DoNothing: true,
	}).Create(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert consumption record: %w", err)
	}

	var existing models.DailyBreakfastConsumption
	err = s.db.Where("property_id = ? AND room_number = ? AND consumption_date = ?",
		propertyID, roomNumber, day).First(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read consumption record: %w", err)
	}
	return &existing, nil
}

// MarkConsumed transitions the row for the key from pending to consumed. The
// update is guarded on status=pending; a lost race or a client retry falls
// through to the read-back, which returns the existing consumed row together
// with ErrAlreadyConsumed so callers can report idempotent success.
func (s *LedgerService) MarkConsumed(propertyID, roomNumber string, date time.Time, consumedBy uint, method models.PaymentMethod, ohipCovered bool, notes string) (*models.DailyBreakfastConsumption, error) {
	day := models.DateOnly(date)
	now := time.Now()

	res := s.db.Model(&models.DailyBreakfastConsumption{}).
		Where("property_id = ? AND room_number = ? AND consumption_date = ? AND status = ?",
			propertyID, roomNumber, day, models.ConsumptionPending).
		Updates(map[string]interface{}{
			"status":         models.ConsumptionConsumed,
			"consumed_at":    now,
			"consumed_by":    consumedBy,
			"payment_method": method,
			"ohip_covered":   ohipCovered,
			"amount":         s.amountFor(method),
			"notes":          notes,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark consumption: %w", res.Error)
	}

	var record models.DailyBreakfastConsumption
	err := s.db.Where("property_id = ? AND room_number = ? AND consumption_date = ?",
		propertyID, roomNumber, day).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPendingRecord
		}
		return nil, fmt.Errorf("failed to read consumption record: %w", err)
	}

	if res.RowsAffected == 0 {
		if record.Status == models.ConsumptionConsumed {
			return &record, ErrAlreadyConsumed
		}
		return nil, ErrNoPendingRecord
	}
	return &record, nil
}

// MarkPosted records a successful PMS charge against the row. Billing state
// only; the consumption mark is untouched.
func (s *LedgerService) MarkPosted(recordID uint, transactionID string) error {
	return s.db.Model(&models.DailyBreakfastConsumption{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"pms_posted":         true,
			"pms_transaction_id": transactionID,
		}).Error
}

// ListForProperty returns the ledger rows for the property in the date range,
// ordered by consumption date then room number ascending.
func (s *LedgerService) ListForProperty(propertyID string, start, end time.Time) ([]models.DailyBreakfastConsumption, error) {
	var records []models.DailyBreakfastConsumption
	err := s.db.Preload("Guest").Preload("Staff").
		Where("property_id = ? AND consumption_date >= ? AND consumption_date <= ?",
			propertyID, models.DateOnly(start), models.DateOnly(end)).
		Order("consumption_date ASC, room_number ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list consumption records: %w", err)
	}
	return records, nil
}

// Lookup returns the row for the key, or nil when none exists.
func (s *LedgerService) Lookup(propertyID, roomNumber string, date time.Time) (*models.DailyBreakfastConsumption, error) {
	var record models.DailyBreakfastConsumption
	err := s.db.Preload("Staff").
		Where("property_id = ? AND room_number = ? AND consumption_date = ?",
			propertyID, roomNumber, models.DateOnly(date)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up consumption record: %w", err)
	}
	return &record, nil
}

// CloseDay marks every still-pending row for the property and day as no_show.
// Run by the scheduler after breakfast service closes.
func (s *LedgerService) CloseDay(propertyID string, date time.Time) (int64, error) {
	res := s.db.Model(&models.DailyBreakfastConsumption{}).
		Where("property_id = ? AND consumption_date = ? AND status = ?",
			propertyID, models.DateOnly(date), models.ConsumptionPending).
		Update("status", models.ConsumptionNoShow)
	return res.RowsAffected, res.Error
}

func (s *LedgerService) amountFor(method models.PaymentMethod) float64 {
	if method == models.PaymentComp {
		return 0
	}
	return s.rate
}
