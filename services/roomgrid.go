package services

import (
	"context"
	"fmt"
	"time"

	"breakfast-backend/cache"
	"breakfast-backend/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RoomGridService projects reconciled occupancy plus today's ledger state
// into the RoomBreakfastStatus view, and serves the history, report, and
// analytics reads off the ledger.
type RoomGridService struct {
	db         *gorm.DB
	reconciler *ReconcilerService
	ledger     *LedgerService
	reports    *cache.ReportCache
	log        zerolog.Logger
}

func NewRoomGridService(db *gorm.DB, reconciler *ReconcilerService, ledger *LedgerService, reports *cache.ReportCache) *RoomGridService {
	return &RoomGridService{
		db:         db,
		reconciler: reconciler,
		ledger:     ledger,
		reports:    reports,
		log:        log.With().Str("component", "roomgrid").Logger(),
	}
}

// ProjectGrid returns the breakfast status of every room in the property for
// the given day. A zero date means today in the property's timezone. The
// merge itself is pure; the only write side effect is the lazy creation of
// pending ledger rows for breakfast-package rooms.
func (s *RoomGridService) ProjectGrid(propertyID string, date time.Time) ([]models.RoomBreakfastStatus, []string, error) {
	if date.IsZero() {
		var err error
		if date, err = s.reconciler.Today(propertyID); err != nil {
			return nil, nil, err
		}
	}

	occupancies, warnings, err := s.reconciler.Reconcile(propertyID, date)
	if err != nil {
		return nil, nil, err
	}

	statuses := make([]models.RoomBreakfastStatus, 0, len(occupancies))
	for _, occ := range occupancies {
		status, err := s.projectOccupancy(occ, date)
		if err != nil {
			return nil, nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, warnings, nil
}

// ProjectRoom returns the breakfast status of a single room.
func (s *RoomGridService) ProjectRoom(propertyID, roomNumber string, date time.Time) (*models.RoomBreakfastStatus, error) {
	if date.IsZero() {
		var err error
		if date, err = s.reconciler.Today(propertyID); err != nil {
			return nil, err
		}
	}

	occ, _, err := s.reconciler.ReconcileRoom(propertyID, roomNumber, date)
	if err != nil {
		return nil, err
	}
	status, err := s.projectOccupancy(*occ, date)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *RoomGridService) projectOccupancy(occ models.RoomOccupancy, date time.Time) (models.RoomBreakfastStatus, error) {
	status := models.RoomBreakfastStatus{
		PropertyID: occ.Room.PropertyID,
		RoomNumber: occ.Room.RoomNumber,
		Floor:      occ.Room.Floor,
		RoomType:   occ.Room.RoomType,
		Status:     occ.Room.Status,
	}

	if occ.Guest == nil {
		return status, nil
	}

	guest := occ.Guest
	status.HasGuest = true
	status.GuestName = guest.FullName()
	status.BreakfastPackage = guest.BreakfastPackage
	status.BreakfastCount = guest.BreakfastCount
	checkIn, checkOut := guest.CheckInDate, guest.CheckOutDate
	status.CheckInDate = &checkIn
	status.CheckOutDate = &checkOut

	if !guest.BreakfastPackage {
		return status, nil
	}

	record, err := s.ledger.GetOrCreate(occ.Room.PropertyID, occ.Room.RoomNumber, date, guest.ID)
	if err != nil {
		return status, err
	}

	if record.Status == models.ConsumptionConsumed {
		status.ConsumedToday = true
		status.ConsumedAt = record.ConsumedAt
		status.ConsumedBy = s.staffName(record.ConsumedBy)
	}
	return status, nil
}

func (s *RoomGridService) staffName(staffID *uint) string {
	if staffID == nil {
		return ""
	}
	var staff models.Staff
	if err := s.db.First(&staff, *staffID).Error; err != nil {
		return ""
	}
	return staff.FullName()
}

// Summarize computes the dashboard header counters for a projected grid.
func Summarize(statuses []models.RoomBreakfastStatus) models.RoomGridData {
	data := models.RoomGridData{Rooms: statuses, TotalRooms: len(statuses)}
	for _, st := range statuses {
		if st.HasGuest {
			data.OccupiedRooms++
		}
		switch st.Status {
		case models.RoomMaintenance, models.RoomOutOfOrder:
			data.MaintenanceRooms++
		}
		if st.BreakfastPackage {
			data.RoomsWithBreakfast++
			if st.ConsumedToday {
				data.ConsumedToday++
			}
		}
	}
	data.AvailableRooms = data.TotalRooms - data.OccupiedRooms - data.MaintenanceRooms
	if data.AvailableRooms < 0 {
		data.AvailableRooms = 0
	}
	data.RemainingBreakfasts = data.RoomsWithBreakfast - data.ConsumedToday
	return data
}

// History returns the ledger rows for the property between start and end.
func (s *RoomGridService) History(propertyID string, start, end time.Time) ([]models.DailyBreakfastConsumption, error) {
	if err := s.propertyExists(propertyID); err != nil {
		return nil, err
	}
	return s.ledger.ListForProperty(propertyID, start, end)
}

// DailyReport aggregates the day's counters for a property. Results are
// cached briefly; consumption marks and syncs invalidate the cache.
func (s *RoomGridService) DailyReport(ctx context.Context, propertyID string, date time.Time) (*models.DailyBreakfastReport, error) {
	if date.IsZero() {
		var err error
		if date, err = s.reconciler.Today(propertyID); err != nil {
			return nil, err
		}
	} else if err := s.propertyExists(propertyID); err != nil {
		return nil, err
	}

	day := models.DateOnly(date)
	if cached, err := s.reports.Get(ctx, propertyID, day); err == nil && cached != nil {
		return cached, nil
	}

	report := models.DailyBreakfastReport{
		Date:       day.Format("2006-01-02"),
		PropertyID: propertyID,
	}

	s.db.Model(&models.Room{}).Where("property_id = ?", propertyID).Count(&report.TotalRooms)

	occupancies, _, err := s.reconciler.Reconcile(propertyID, day)
	if err != nil {
		return nil, err
	}
	for _, occ := range occupancies {
		if occ.Guest != nil {
			report.OccupiedRooms++
			if occ.Guest.BreakfastPackage {
				report.TotalRoomsWithBreakfast++
			}
		}
	}

	s.db.Model(&models.DailyBreakfastConsumption{}).
		Where("property_id = ? AND consumption_date = ? AND status = ?", propertyID, day, models.ConsumptionConsumed).
		Count(&report.TotalConsumed)
	s.db.Model(&models.DailyBreakfastConsumption{}).
		Where("property_id = ? AND consumption_date = ? AND status = ? AND ohip_covered = ?",
			propertyID, day, models.ConsumptionConsumed, true).
		Count(&report.OHIPCoveredCount)
	s.db.Model(&models.DailyBreakfastConsumption{}).
		Where("property_id = ? AND consumption_date = ? AND pms_posted = ?", propertyID, day, true).
		Count(&report.PMSChargesPosted)
	if err := s.db.Model(&models.DailyBreakfastConsumption{}).
		Where("property_id = ? AND consumption_date = ? AND status = ?", propertyID, day, models.ConsumptionConsumed).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&report.Revenue); err != nil {
		s.log.Warn().Err(err).Str("property_id", propertyID).Msg("failed to sum revenue")
	}

	report.TotalNotConsumed = report.TotalRoomsWithBreakfast - report.TotalConsumed
	if report.TotalNotConsumed < 0 {
		report.TotalNotConsumed = 0
	}
	if report.TotalRoomsWithBreakfast > 0 {
		report.ConsumptionRate = float64(report.TotalConsumed) / float64(report.TotalRoomsWithBreakfast) * 100
	}

	if err := s.reports.Set(ctx, propertyID, day, &report); err != nil {
		s.log.Warn().Err(err).Str("property_id", propertyID).Msg("failed to cache daily report")
	}
	return &report, nil
}

// Analytics returns the per-day consumed/total trend for the period
// (today, week, or month).
func (s *RoomGridService) Analytics(propertyID, period string) (*models.BreakfastAnalytics, error) {
	now, err := s.reconciler.Today(propertyID)
	if err != nil {
		return nil, err
	}

	var start time.Time
	switch period {
	case "today":
		start = models.DateOnly(now)
	case "month":
		start = now.AddDate(0, -1, 0)
	case "week", "":
		period = "week"
		start = now.AddDate(0, 0, -7)
	default:
		period = "week"
		start = now.AddDate(0, 0, -7)
	}

	records, err := s.ledger.ListForProperty(propertyID, start, now)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		consumed int
		total    int
	}
	buckets := make(map[string]*bucket)
	var order []string
	for _, rec := range records {
		key := rec.ConsumptionDate.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.total++
		if rec.Status == models.ConsumptionConsumed {
			b.consumed++
		}
	}

	analytics := &models.BreakfastAnalytics{Period: period, DailyTrend: []models.DailyTrend{}}
	for _, key := range order {
		b := buckets[key]
		trend := models.DailyTrend{Date: key, Consumed: b.consumed, Total: b.total}
		if b.total > 0 {
			trend.Rate = float64(b.consumed) / float64(b.total) * 100
		}
		analytics.DailyTrend = append(analytics.DailyTrend, trend)
	}
	return analytics, nil
}

func (s *RoomGridService) propertyExists(propertyID string) error {
	var count int64
	if err := s.db.Model(&models.Property{}).Where("property_id = ?", propertyID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check property: %w", err)
	}
	if count == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
