package services

import (
	"fmt"
	"sort"
	"time"

	"breakfast-backend/cache"
	"breakfast-backend/models"

	"gorm.io/gorm"
)

// ReconcilerService merges the most recently synced guest set with the
// property's room inventory into a per-room occupancy view. It never calls
// the PMS itself; the sync orchestrator feeds the guest cache.
type ReconcilerService struct {
	db     *gorm.DB
	guests *cache.GuestCache
}

func NewReconcilerService(db *gorm.DB, guests *cache.GuestCache) *ReconcilerService {
	return &ReconcilerService{db: db, guests: guests}
}

// Today returns the current time in the property's timezone. Used to default
// date parameters the client omitted, so "today" means the hotel's today even
// when the server runs in another zone.
func (s *ReconcilerService) Today(propertyID string) (time.Time, error) {
	var property models.Property
	if err := s.db.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return time.Time{}, ErrPropertyNotFound
		}
		return time.Time{}, fmt.Errorf("failed to load property: %w", err)
	}
	return time.Now().In(property.Location()), nil
}

// Reconcile computes the occupancy of every room in the property as of the
// given day. Rooms with more than one overlapping active guest are a PMS data
// anomaly: the guest with the most recent check-in wins and the conflict is
// reported as a warning, never an error.
func (s *ReconcilerService) Reconcile(propertyID string, asOf time.Time) ([]models.RoomOccupancy, []string, error) {
	var property models.Property
	if err := s.db.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrPropertyNotFound
		}
		return nil, nil, fmt.Errorf("failed to load property: %w", err)
	}

	var rooms []models.Room
	if err := s.db.Where("property_id = ?", propertyID).Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	active, err := s.activeGuestsByRoom(propertyID, asOf)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	occupancies := make([]models.RoomOccupancy, 0, len(rooms))
	for _, room := range rooms {
		occ := models.RoomOccupancy{Room: room}
		candidates := active[room.RoomNumber]
		if len(candidates) > 1 {
			warnings = append(warnings, fmt.Sprintf(
				"room %s has %d overlapping active guests; keeping most recent check-in",
				room.RoomNumber, len(candidates)))
		}
		if len(candidates) > 0 {
			guest := candidates[0]
			occ.Guest = &guest
		}
		occupancies = append(occupancies, occ)
	}
	return occupancies, warnings, nil
}

// ReconcileRoom computes the occupancy for a single room.
func (s *ReconcilerService) ReconcileRoom(propertyID, roomNumber string, asOf time.Time) (*models.RoomOccupancy, []string, error) {
	var room models.Room
	err := s.db.Where("property_id = ? AND room_number = ?", propertyID, roomNumber).First(&room).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, fmt.Errorf("failed to load room: %w", err)
	}

	occ := models.RoomOccupancy{Room: room}
	var warnings []string
	active, err := s.activeGuestsByRoom(propertyID, asOf)
	if err != nil {
		return nil, nil, err
	}
	candidates := active[roomNumber]
	if len(candidates) > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"room %s has %d overlapping active guests; keeping most recent check-in",
			roomNumber, len(candidates)))
	}
	if len(candidates) > 0 {
		guest := candidates[0]
		occ.Guest = &guest
	}
	return &occ, warnings, nil
}

// activeGuestsByRoom groups the property's active guests by room, most recent
// check-in first. Prefers the in-memory snapshot; falls back to the persisted
// guest rows when the property was never synced this process lifetime.
func (s *ReconcilerService) activeGuestsByRoom(propertyID string, asOf time.Time) (map[string][]models.Guest, error) {
	var guests []models.Guest
	if snap := s.guests.Snapshot(propertyID); snap != nil {
		guests = snap.ActiveGuests(asOf)
	} else {
		if err := s.db.Where("property_id = ? AND is_active = ?", propertyID, true).Find(&guests).Error; err != nil {
			return nil, fmt.Errorf("failed to load guests: %w", err)
		}
		filtered := guests[:0]
		for _, g := range guests {
			if g.StayCovers(asOf) {
				filtered = append(filtered, g)
			}
		}
		guests = filtered
	}

	byRoom := make(map[string][]models.Guest)
	for _, g := range guests {
		byRoom[g.RoomNumber] = append(byRoom[g.RoomNumber], g)
	}
	for room := range byRoom {
		set := byRoom[room]
		sort.Slice(set, func(i, j int) bool {
			return set[i].CheckInDate.After(set[j].CheckInDate)
		})
	}
	return byRoom, nil
}
