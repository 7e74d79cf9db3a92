package models

import "time"

type Property struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID string    `gorm:"uniqueIndex;size:64;not null" json:"property_id"`
	Name       string    `gorm:"not null" json:"name"`
	Address    string    `json:"address"`
	Timezone   string    `gorm:"size:64;default:'Local'" json:"timezone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Location resolves the property's IANA timezone, falling back to the
// server's local zone when the name is empty or unknown.
func (p Property) Location() *time.Location {
	if p.Timezone == "" || p.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
