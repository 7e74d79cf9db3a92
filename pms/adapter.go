package pms

import (
	"context"
	"time"
)

// GuestRecord is one occupant row as reported by the property management
// system. The PMS is the system of record; the backend only caches these.
type GuestRecord struct {
	GuestID          string    `json:"guest_id"`
	ReservationID    string    `json:"reservation_id"`
	PropertyID       string    `json:"property_id"`
	RoomNumber       string    `json:"room_number"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	CheckInDate      time.Time `json:"check_in_date"`
	CheckOutDate     time.Time `json:"check_out_date"`
	BreakfastPackage bool      `json:"breakfast_package"`
	BreakfastCount   int       `json:"breakfast_count"`
	OHIPNumber       string    `json:"ohip_number"`
	Status           string    `json:"status"` // checked_in, checked_out, no_show
}

// FetchResult is one pull of a property's in-house guest list. Complete=false
// means some pages failed; Errors carries one entry per failed page.
type FetchResult struct {
	Guests   []GuestRecord
	Complete bool
	Errors   []string
}

type ChargeRequest struct {
	GuestID         string  `json:"guest_id"`
	ReservationID   string  `json:"reservation_id"`
	RoomNumber      string  `json:"room_number"`
	PropertyID      string  `json:"property_id"`
	ChargeCode      string  `json:"charge_code"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
	TransactionDate string  `json:"transaction_date"`
	DepartmentCode  string  `json:"department_code"`
}

type ChargeResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// Adapter is the boundary to the external PMS. Implementations must tolerate
// repeated calls for the same property and must not assume call ordering
// between properties.
type Adapter interface {
	FetchGuests(ctx context.Context, propertyID string) (*FetchResult, error)
	PostCharge(ctx context.Context, charge ChargeRequest) (*ChargeResponse, error)
}
