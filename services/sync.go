package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"breakfast-backend/cache"
	"breakfast-backend/models"
	"breakfast-backend/pms"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyncConfig struct {
	// MinInterval short-circuits non-forced syncs that arrive too soon after
	// a completed one.
	MinInterval time.Duration
	// MaxAttempts bounds the fetch retries against the PMS.
	MaxAttempts int
	// RetryBackoff is the base delay between attempts, scaled linearly.
	RetryBackoff time.Duration
	// FetchTimeout caps a single PMS fetch; an expired fetch counts as a
	// failed attempt and the prior cache is retained.
	FetchTimeout time.Duration
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		MinInterval:  2 * time.Minute,
		MaxAttempts:  3,
		RetryBackoff: 2 * time.Second,
		FetchTimeout: 30 * time.Second,
	}
}

// SyncService drives the PMS adapter and applies the fetched guest set to the
// persisted cache and the in-memory snapshots. Syncs for the same property
// are serialized; different properties run independently.
type SyncService struct {
	db      *gorm.DB
	adapter pms.Adapter
	guests  *cache.GuestCache
	reports *cache.ReportCache
	cfg     SyncConfig
	log     zerolog.Logger

	locks sync.Map // propertyID -> *sync.Mutex
}

func NewSyncService(db *gorm.DB, adapter pms.Adapter, guests *cache.GuestCache, reports *cache.ReportCache, cfg SyncConfig) *SyncService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &SyncService{
		db:      db,
		adapter: adapter,
		guests:  guests,
		reports: reports,
		cfg:     cfg,
		log:     log.With().Str("component", "sync").Logger(),
	}
}

func (s *SyncService) propertyLock(propertyID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(propertyID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// SyncFromPMS fetches the property's guest set from the PMS and applies it.
// Adapter failures are retried internally; once retries are exhausted the
// attempt is recorded as a failure, the prior cache stands, and the errors
// come back in the response rather than as a transport error.
func (s *SyncService) SyncFromPMS(ctx context.Context, propertyID string, force bool) (*models.PMSSyncResponse, error) {
	var property models.Property
	if err := s.db.Where("property_id = ?", propertyID).First(&property).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to load property: %w", err)
	}

	mu := s.propertyLock(propertyID)
	mu.Lock()
	defer mu.Unlock()

	if !force {
		if meta := s.loadMetadata(propertyID); meta != nil && meta.Result != models.SyncFailure &&
			time.Since(meta.LastSync) < s.cfg.MinInterval {
			return &models.PMSSyncResponse{
				SyncedGuests: meta.SyncedCount,
				Errors:       []string{},
				Message:      fmt.Sprintf("sync skipped; last completed %s ago", time.Since(meta.LastSync).Round(time.Second)),
			}, nil
		}
	}

	result, fetchErr := s.fetchWithRetry(ctx, propertyID)
	if fetchErr != nil {
		errMsg := fetchErr.Error()
		s.writeMetadata(propertyID, models.SyncFailure, 0, []string{errMsg})
		s.log.Error().Str("property_id", propertyID).Err(fetchErr).Msg("pms sync failed; prior cache retained")
		return &models.PMSSyncResponse{
			Errors:  []string{errMsg},
			Message: "PMS sync failed; previous guest data retained",
		}, nil
	}

	applied, err := s.apply(propertyID, result)
	if err != nil {
		s.writeMetadata(propertyID, models.SyncFailure, 0, []string{err.Error()})
		return nil, err
	}

	syncResult := models.SyncSuccess
	if !result.Complete || len(result.Errors) > 0 {
		syncResult = models.SyncPartial
	}
	s.writeMetadata(propertyID, syncResult, len(result.Guests), result.Errors)

	day := models.DateOnly(time.Now().In(property.Location()))
	if err := s.reports.Invalidate(ctx, propertyID, day); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate report cache after sync")
	}

	rooms := make(map[string]struct{})
	for _, g := range result.Guests {
		rooms[g.RoomNumber] = struct{}{}
	}

	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	resp := &models.PMSSyncResponse{
		SyncedGuests: applied,
		UpdatedRooms: len(rooms),
		Errors:       errs,
		Message:      "Guest data synchronized successfully",
	}
	if syncResult == models.SyncPartial {
		resp.Message = "Guest data partially synchronized"
	}
	return resp, nil
}

// SyncAll runs a non-forced sync across every known property. Used by the
// scheduler.
func (s *SyncService) SyncAll(ctx context.Context) {
	var properties []models.Property
	if err := s.db.Find(&properties).Error; err != nil {
		s.log.Error().Err(err).Msg("failed to list properties for scheduled sync")
		return
	}
	for _, p := range properties {
		if _, err := s.SyncFromPMS(ctx, p.PropertyID, false); err != nil {
			s.log.Error().Str("property_id", p.PropertyID).Err(err).Msg("scheduled sync failed")
		}
	}
}

// Status reports the last sync outcome for the property.
func (s *SyncService) Status(propertyID string) (*models.PMSIntegrationStatus, error) {
	var count int64
	if err := s.db.Model(&models.Property{}).Where("property_id = ?", propertyID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPropertyNotFound
	}

	status := &models.PMSIntegrationStatus{PropertyID: propertyID, Errors: []string{}}
	meta := s.loadMetadata(propertyID)
	if meta == nil {
		return status, nil
	}

	lastSync := meta.LastSync
	status.LastSync = &lastSync
	status.Result = meta.Result
	status.SyncedCount = meta.SyncedCount
	if len(meta.Errors) > 0 {
		var errs []string
		if err := json.Unmarshal(meta.Errors, &errs); err == nil {
			status.Errors = errs
		}
	}
	return status, nil
}

func (s *SyncService) fetchWithRetry(ctx context.Context, propertyID string) (*pms.FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		fetchCtx := ctx
		var cancel context.CancelFunc
		if s.cfg.FetchTimeout > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		}
		result, err := s.adapter.FetchGuests(fetchCtx, propertyID)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return result, nil
		}
		lastErr = err
		s.log.Warn().Str("property_id", propertyID).Int("attempt", attempt).Err(err).Msg("pms fetch failed")
		if attempt < s.cfg.MaxAttempts {
			select {
			case <-time.After(s.cfg.RetryBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrPmsAdapterFailure, ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrPmsAdapterFailure, lastErr)
}

// apply upserts the fetched guest records and swaps the property's snapshot.
// For a complete fetch, guests absent from the batch are deactivated so the
// batch fully replaces the prior set; a partial fetch only overlays what was
// fetched and leaves the remainder of the prior cache intact.
func (s *SyncService) apply(propertyID string, result *pms.FetchResult) (int, error) {
	guests := make([]models.Guest, 0, len(result.Guests))
	seen := make([]string, 0, len(result.Guests))
	for _, rec := range result.Guests {
		guests = append(guests, guestFromRecord(rec))
		seen = append(seen, rec.GuestID)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(guests) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "pms_guest_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"reservation_id", "property_id", "room_number", "first_name", "last_name",
					"email", "phone", "check_in_date", "check_out_date",
					"breakfast_package", "breakfast_count", "ohip_number", "is_active", "updated_at",
				}),
			}).Create(&guests).Error
			if err != nil {
				return fmt.Errorf("failed to upsert guests: %w", err)
			}
		}

		if result.Complete {
			q := tx.Model(&models.Guest{}).Where("property_id = ?", propertyID)
			if len(seen) > 0 {
				q = q.Where("pms_guest_id NOT IN ?", seen)
			}
			if err := q.Update("is_active", false).Error; err != nil {
				return fmt.Errorf("failed to deactivate departed guests: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Reload so the snapshot carries DB-assigned ids, then swap the pointer.
	var current []models.Guest
	if err := s.db.Where("property_id = ? AND is_active = ?", propertyID, true).Find(&current).Error; err != nil {
		return 0, fmt.Errorf("failed to reload guest cache: %w", err)
	}
	s.guests.Replace(propertyID, current)

	return len(guests), nil
}

func guestFromRecord(rec pms.GuestRecord) models.Guest {
	breakfastCount := rec.BreakfastCount
	if breakfastCount == 0 && rec.BreakfastPackage {
		// PMS omits the count on some rate codes; double occupancy default.
		breakfastCount = 2
	}
	return models.Guest{
		PMSGuestID:       rec.GuestID,
		ReservationID:    rec.ReservationID,
		PropertyID:       rec.PropertyID,
		RoomNumber:       rec.RoomNumber,
		FirstName:        rec.FirstName,
		LastName:         rec.LastName,
		Email:            rec.Email,
		Phone:            rec.Phone,
		CheckInDate:      rec.CheckInDate,
		CheckOutDate:     rec.CheckOutDate,
		BreakfastPackage: rec.BreakfastPackage,
		BreakfastCount:   breakfastCount,
		OHIPNumber:       rec.OHIPNumber,
		IsActive:         rec.Status == "" || rec.Status == "checked_in",
	}
}

func (s *SyncService) loadMetadata(propertyID string) *models.SyncMetadata {
	var meta models.SyncMetadata
	if err := s.db.Where("property_id = ?", propertyID).First(&meta).Error; err != nil {
		return nil
	}
	return &meta
}

func (s *SyncService) writeMetadata(propertyID string, result models.SyncResult, count int, errs []string) {
	if errs == nil {
		errs = []string{}
	}
	raw, _ := json.Marshal(errs)

	meta := models.SyncMetadata{
		PropertyID:  propertyID,
		LastSync:    time.Now(),
		Result:      result,
		SyncedCount: count,
		Errors:      datatypes.JSON(raw),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_sync", "result", "synced_count", "errors", "updated_at",
		}),
	}).Create(&meta).Error
	if err != nil {
		s.log.Error().Str("property_id", propertyID).Err(err).Msg("failed to write sync metadata")
	}
}
