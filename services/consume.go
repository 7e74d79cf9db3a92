package services

import (
	"context"
	"errors"
	"fmt"

	"breakfast-backend/cache"
	"breakfast-backend/models"
	"breakfast-backend/pms"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConsumeService is the command handler for marking a room's breakfast
// consumed: validation, ledger transition, PMS posting, and the re-projection
// the caller sees.
type ConsumeService struct {
	grid       *RoomGridService
	reconciler *ReconcilerService
	ledger     *LedgerService
	adapter    pms.Adapter
	reports    *cache.ReportCache
	log        zerolog.Logger
}

func NewConsumeService(grid *RoomGridService, reconciler *ReconcilerService, ledger *LedgerService, adapter pms.Adapter, reports *cache.ReportCache) *ConsumeService {
	return &ConsumeService{
		grid:       grid,
		reconciler: reconciler,
		ledger:     ledger,
		adapter:    adapter,
		reports:    reports,
		log:        log.With().Str("component", "consume").Logger(),
	}
}

// MarkBreakfastConsumed validates and applies a consumption request, then
// returns the refreshed status for that single room. Warnings carry non-fatal
// conditions (idempotent replay, failed PMS posting); the consumption mark
// itself is never rolled back for a downstream billing failure.
func (s *ConsumeService) MarkBreakfastConsumed(ctx context.Context, req models.MarkConsumptionRequest, staffID uint) (*models.RoomBreakfastStatus, []string, error) {
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentRoomCharge
	}
	if !method.Valid() {
		return nil, nil, ErrInvalidPaymentMethod
	}

	today, err := s.reconciler.Today(req.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	occ, _, err := s.reconciler.ReconcileRoom(req.PropertyID, req.RoomNumber, today)
	if err != nil {
		return nil, nil, err
	}
	if occ.Guest == nil || !occ.Guest.BreakfastPackage {
		return nil, nil, ErrNoEligibleGuest
	}
	guest := occ.Guest

	if _, err := s.ledger.GetOrCreate(req.PropertyID, req.RoomNumber, today, guest.ID); err != nil {
		return nil, nil, err
	}

	ohipCovered := method == models.PaymentOHIP && guest.OHIPNumber != ""

	var warnings []string
	record, err := s.ledger.MarkConsumed(req.PropertyID, req.RoomNumber, today, staffID, method, ohipCovered, req.Notes)
	alreadyConsumed := errors.Is(err, ErrAlreadyConsumed)
	if err != nil && !alreadyConsumed {
		return nil, nil, err
	}
	if alreadyConsumed {
		warnings = append(warnings, "breakfast was already marked consumed today; returning existing record")
	}

	if !alreadyConsumed && record.PaymentMethod.PostsToPMS() {
		if err := s.postCharge(ctx, guest, record); err != nil {
			s.log.Warn().
				Str("property_id", req.PropertyID).
				Str("room_number", req.RoomNumber).
				Err(err).
				Msg("pms posting failed; consumption mark stands")
			warnings = append(warnings, fmt.Sprintf("%v: %v", ErrPmsPostingFailed, err))
		}
	}

	day := models.DateOnly(today)
	if err := s.reports.Invalidate(ctx, req.PropertyID, day); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate report cache")
	}

	status, err := s.grid.ProjectRoom(req.PropertyID, req.RoomNumber, today)
	if err != nil {
		return nil, warnings, err
	}
	return status, warnings, nil
}

func (s *ConsumeService) postCharge(ctx context.Context, guest *models.Guest, record *models.DailyBreakfastConsumption) error {
	resp, err := s.adapter.PostCharge(ctx, pms.ChargeRequest{
		GuestID:       guest.PMSGuestID,
		ReservationID: guest.ReservationID,
		RoomNumber:    guest.RoomNumber,
		PropertyID:    guest.PropertyID,
		Amount:        record.Amount,
	})
	if err != nil {
		return err
	}

	transactionID := resp.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	return s.ledger.MarkPosted(record.ID, transactionID)
}
