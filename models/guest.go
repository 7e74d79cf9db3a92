package models

import "time"

// Guest is a read-only cached copy of a PMS reservation occupant. The PMS owns
// this data; rows are replaced wholesale by the sync orchestrator and must not
// be edited by hand.
type Guest struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PMSGuestID       string    `gorm:"column:pms_guest_id;uniqueIndex;size:64;not null" json:"pms_guest_id"`
	ReservationID    string    `gorm:"size:64;not null" json:"reservation_id"`
	PropertyID       string    `gorm:"size:64;not null;index" json:"property_id"`
	RoomNumber       string    `gorm:"size:50;not null;index" json:"room_number"`
	FirstName        string    `gorm:"not null" json:"first_name"`
	LastName         string    `gorm:"not null" json:"last_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	CheckInDate      time.Time `json:"check_in_date"`
	CheckOutDate     time.Time `json:"check_out_date"`
	BreakfastPackage bool      `gorm:"default:false" json:"breakfast_package"`
	BreakfastCount   int       `gorm:"default:0" json:"breakfast_count"`
	OHIPNumber       string    `gorm:"column:ohip_number;size:64" json:"ohip_number"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (g Guest) FullName() string {
	if g.FirstName == "" {
		return g.LastName
	}
	return g.FirstName + " " + g.LastName
}

// StayCovers reports whether the guest occupies their room on the given day.
// Check-in day is inclusive, check-out day exclusive.
func (g Guest) StayCovers(day time.Time) bool {
	d := DateOnly(day)
	return g.IsActive && !DateOnly(g.CheckInDate).After(d) && DateOnly(g.CheckOutDate).After(d)
}

// DateOnly truncates a timestamp to midnight UTC of its own calendar day.
// Every consumption-date key passes through here, so a date parsed from a
// YYYY-MM-DD query parameter and a clock reading in the server or property
// zone collapse to the same value for the same calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
