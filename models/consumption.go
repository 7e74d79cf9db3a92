package models

import "time"

// DailyBreakfastConsumption is the ledger row for one room on one day. Exactly
// one row exists per (property_id, room_number, consumption_date); the unique
// index backs the insert-if-absent discipline in the ledger service. Rows are
// never deleted and become immutable once consumed.
type DailyBreakfastConsumption struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	PropertyID       string            `gorm:"size:64;not null;uniqueIndex:idx_room_day" json:"property_id"`
	RoomNumber       string            `gorm:"size:50;not null;uniqueIndex:idx_room_day" json:"room_number"`
	ConsumptionDate  time.Time         `gorm:"not null;uniqueIndex:idx_room_day;index" json:"consumption_date"`
	GuestID          uint              `gorm:"not null" json:"guest_id"`
	Guest            *Guest            `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Status           ConsumptionStatus `gorm:"size:32;default:'pending'" json:"status"`
	ConsumedAt       *time.Time        `json:"consumed_at,omitempty"`
	ConsumedBy       *uint             `json:"consumed_by,omitempty"`
	Staff            *Staff            `gorm:"foreignKey:ConsumedBy" json:"staff,omitempty"`
	PaymentMethod    PaymentMethod     `gorm:"size:32" json:"payment_method"`
	OHIPCovered      bool              `gorm:"column:ohip_covered;default:false" json:"ohip_covered"`
	PMSPosted        bool              `gorm:"column:pms_posted;default:false" json:"pms_posted"`
	PMSTransactionID string            `gorm:"column:pms_transaction_id;size:128" json:"pms_transaction_id"`
	Amount           float64           `json:"amount"`
	Notes            string            `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
