package models

import "time"

// RoomOccupancy pairs a room with the guest occupying it on a given day, if
// any. Derived by the reconciler; never persisted.
type RoomOccupancy struct {
	Room  Room   `json:"room"`
	Guest *Guest `json:"guest,omitempty"`
}

// RoomBreakfastStatus is the merged room + occupancy + ledger view the mobile
// grid consumes.
type RoomBreakfastStatus struct {
	PropertyID       string     `json:"property_id"`
	RoomNumber       string     `json:"room_number"`
	Floor            int        `json:"floor"`
	RoomType         string     `json:"room_type"`
	Status           RoomStatus `json:"status"`
	HasGuest         bool       `json:"has_guest"`
	GuestName        string     `json:"guest_name"`
	BreakfastPackage bool       `json:"breakfast_package"`
	BreakfastCount   int        `json:"breakfast_count"`
	ConsumedToday    bool       `json:"consumed_today"`
	ConsumedAt       *time.Time `json:"consumed_at,omitempty"`
	ConsumedBy       string     `json:"consumed_by"`
	CheckInDate      *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate     *time.Time `json:"check_out_date,omitempty"`
}

// RoomGridData wraps a grid projection with the summary counters shown in the
// dashboard header.
type RoomGridData struct {
	Rooms               []RoomBreakfastStatus `json:"rooms"`
	TotalRooms          int                   `json:"total_rooms"`
	OccupiedRooms       int                   `json:"occupied_rooms"`
	AvailableRooms      int                   `json:"available_rooms"`
	MaintenanceRooms    int                   `json:"maintenance_rooms"`
	RoomsWithBreakfast  int                   `json:"rooms_with_breakfast"`
	ConsumedToday       int                   `json:"consumed_today"`
	RemainingBreakfasts int                   `json:"remaining_breakfasts"`
}

type MarkConsumptionRequest struct {
	PropertyID    string        `json:"property_id" binding:"required"`
	RoomNumber    string        `json:"room_number" binding:"required"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Notes         string        `json:"notes"`
}

type PMSSyncResponse struct {
	SyncedGuests int      `json:"synced_guests"`
	UpdatedRooms int      `json:"updated_rooms"`
	Errors       []string `json:"errors"`
	Message      string   `json:"message"`
}

// PMSIntegrationStatus reports the last sync outcome for a property.
type PMSIntegrationStatus struct {
	PropertyID  string     `json:"property_id"`
	LastSync    *time.Time `json:"last_sync,omitempty"`
	Result      SyncResult `json:"result"`
	SyncedCount int        `json:"synced_count"`
	Errors      []string   `json:"errors"`
}

type DailyBreakfastReport struct {
	Date                    string  `json:"date"`
	PropertyID              string  `json:"property_id"`
	TotalRooms              int64   `json:"total_rooms"`
	OccupiedRooms           int64   `json:"occupied_rooms"`
	TotalRoomsWithBreakfast int64   `json:"total_rooms_with_breakfast"`
	TotalConsumed           int64   `json:"total_consumed"`
	TotalNotConsumed        int64   `json:"total_not_consumed"`
	ConsumptionRate         float64 `json:"consumption_rate"`
	OHIPCoveredCount        int64   `json:"ohip_covered_count"`
	PMSChargesPosted        int64   `json:"pms_charges_posted"`
	Revenue                 float64 `json:"revenue"`
}

type DailyTrend struct {
	Date     string  `json:"date"`
	Consumed int     `json:"consumed"`
	Total    int     `json:"total"`
	Rate     float64 `json:"rate"`
}

type BreakfastAnalytics struct {
	Period     string       `json:"period"`
	DailyTrend []DailyTrend `json:"daily_trend"`
}
