package cache

import (
	"sync"
	"testing"
	"time"

	"breakfast-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestSnapshotNilUntilReplaced(t *testing.T) {
	c := NewGuestCache()
	assert.Nil(t, c.Snapshot("PROP001"))

	c.Replace("PROP001", nil)
	assert.NotNil(t, c.Snapshot("PROP001"))
	assert.Nil(t, c.Snapshot("PROP002"))
}

func TestReplaceSwapsWholeSnapshot(t *testing.T) {
	c := NewGuestCache()

	old := c.Replace("PROP001", []models.Guest{{PMSGuestID: "G-1", IsActive: true}})
	held := c.Snapshot("PROP001")
	require.Same(t, old, held)

	c.Replace("PROP001", []models.Guest{{PMSGuestID: "G-2", IsActive: true}})

	// A reader holding the old pointer still sees the old complete set.
	require.Len(t, held.Guests, 1)
	assert.Equal(t, "G-1", held.Guests[0].PMSGuestID)

	fresh := c.Snapshot("PROP001")
	require.Len(t, fresh.Guests, 1)
	assert.Equal(t, "G-2", fresh.Guests[0].PMSGuestID)
}

func TestActiveGuestsFiltersByStay(t *testing.T) {
	snap := &GuestSnapshot{Guests: []models.Guest{
		{PMSGuestID: "G-IN", IsActive: true, CheckInDate: day(2026, time.March, 1), CheckOutDate: day(2026, time.March, 5)},
		{PMSGuestID: "G-OUT", IsActive: true, CheckInDate: day(2026, time.February, 20), CheckOutDate: day(2026, time.March, 1)},
		{PMSGuestID: "G-CANCELLED", IsActive: false, CheckInDate: day(2026, time.March, 1), CheckOutDate: day(2026, time.March, 5)},
	}}

	active := snap.ActiveGuests(day(2026, time.March, 2))
	require.Len(t, active, 1)
	assert.Equal(t, "G-IN", active[0].PMSGuestID)
}

func TestConcurrentReplaceAndRead(t *testing.T) {
	c := NewGuestCache()
	c.Replace("PROP001", []models.Guest{{PMSGuestID: "G-0", IsActive: true}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Replace("PROP001", []models.Guest{{PMSGuestID: "G-X", IsActive: true}})
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := c.Snapshot("PROP001")
				require.NotNil(t, snap)
				require.Len(t, snap.Guests, 1)
			}
		}()
	}
	wg.Wait()
}
