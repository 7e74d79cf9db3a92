package cache

import (
	"sync"
	"time"

	"breakfast-backend/models"

	"gorm.io/gorm"
)

// GuestSnapshot is an immutable view of one property's synced guest set.
// Readers hold the snapshot pointer; the sync orchestrator swaps in a fresh
// snapshot on each apply, so a reader never observes a half-applied set.
type GuestSnapshot struct {
	PropertyID string
	Guests     []models.Guest
	SyncedAt   time.Time
}

// ActiveGuests returns the guests whose stay covers the given day.
func (s *GuestSnapshot) ActiveGuests(day time.Time) []models.Guest {
	var active []models.Guest
	for _, g := range s.Guests {
		if g.StayCovers(day) {
			active = append(active, g)
		}
	}
	return active
}

// GuestCache holds the per-property guest snapshots. Properties never share
// state; the mutex only guards the map itself.
type GuestCache struct {
	mu        sync.RWMutex
	snapshots map[string]*GuestSnapshot
}

func NewGuestCache() *GuestCache {
	return &GuestCache{snapshots: make(map[string]*GuestSnapshot)}
}

// Replace swaps in a new snapshot for the property.
func (c *GuestCache) Replace(propertyID string, guests []models.Guest) *GuestSnapshot {
	snap := &GuestSnapshot{
		PropertyID: propertyID,
		Guests:     guests,
		SyncedAt:   time.Now(),
	}
	c.mu.Lock()
	c.snapshots[propertyID] = snap
	c.mu.Unlock()
	return snap
}

// Snapshot returns the current snapshot for the property, or nil when the
// property has never been synced this process lifetime.
func (c *GuestCache) Snapshot(propertyID string) *GuestSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshots[propertyID]
}

// Hydrate loads the persisted guest rows into snapshots so the grid is
// servable before the first PMS sync after a restart.
func (c *GuestCache) Hydrate(db *gorm.DB) error {
	var guests []models.Guest
	if err := db.Where("is_active = ?", true).Find(&guests).Error; err != nil {
		return err
	}

	byProperty := make(map[string][]models.Guest)
	for _, g := range guests {
		byProperty[g.PropertyID] = append(byProperty[g.PropertyID], g)
	}
	for propertyID, set := range byProperty {
		c.Replace(propertyID, set)
	}
	return nil
}
