package services

import "errors"

var (
	// ErrPropertyNotFound is returned when the property id references no
	// known property.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrRoomNotFound is returned when the room number does not exist within
	// the property.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNoEligibleGuest is returned when no active guest with a breakfast
	// package occupies the room on the requested day.
	ErrNoEligibleGuest = errors.New("no eligible guest for room")

	// ErrNoPendingRecord is returned when no ledger row exists for the key
	// and none can be created.
	ErrNoPendingRecord = errors.New("no pending consumption record")

	// ErrAlreadyConsumed signals an idempotent replay: the ledger row was
	// already consumed. Callers get the existing record back alongside it and
	// should treat the replay as success.
	ErrAlreadyConsumed = errors.New("breakfast already consumed today")

	// ErrInvalidPaymentMethod is returned for a payment method outside the
	// closed set.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrPmsPostingFailed is a non-fatal warning: the consumption mark stands
	// but the PMS charge did not go through.
	ErrPmsPostingFailed = errors.New("pms posting failed")

	// ErrPmsAdapterFailure is returned when the PMS could not be reached
	// after the configured retries.
	ErrPmsAdapterFailure = errors.New("pms adapter failure")
)
