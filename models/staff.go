package models

import (
	"time"

	"gorm.io/gorm"
)

type Staff struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	FirstName  string         `gorm:"not null" json:"first_name"`
	LastName   string         `gorm:"not null" json:"last_name"`
	Role       string         `gorm:"size:32;default:'staff'" json:"role"` // staff, manager, admin
	PropertyID string         `gorm:"size:64;not null" json:"property_id"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s Staff) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	return s.FirstName + " " + s.LastName
}
