package models

import "time"

type Room struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PropertyID   string     `gorm:"size:64;not null;uniqueIndex:idx_property_room" json:"property_id"`
	RoomNumber   string     `gorm:"size:50;not null;uniqueIndex:idx_property_room" json:"room_number"`
	Floor        int        `json:"floor"`
	RoomType     string     `gorm:"size:64" json:"room_type"` // standard, deluxe, suite
	MaxOccupancy int        `gorm:"default:2" json:"max_occupancy"`
	Status       RoomStatus `gorm:"size:32;default:'available'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
