package models

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomOutOfOrder:
		return true
	}
	return false
}

type ConsumptionStatus string

const (
	ConsumptionPending  ConsumptionStatus = "pending"
	ConsumptionConsumed ConsumptionStatus = "consumed"
	ConsumptionNoShow   ConsumptionStatus = "no_show"
)

func (s ConsumptionStatus) Valid() bool {
	switch s {
	case ConsumptionPending, ConsumptionConsumed, ConsumptionNoShow:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentRoomCharge PaymentMethod = "room_charge"
	PaymentOHIP       PaymentMethod = "ohip"
	PaymentComp       PaymentMethod = "comp"
	PaymentCash       PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentRoomCharge, PaymentOHIP, PaymentComp, PaymentCash:
		return true
	}
	return false
}

// PostsToPMS reports whether the method results in a charge on the guest folio.
// Comp and cash settle outside the PMS.
func (m PaymentMethod) PostsToPMS() bool {
	return m == PaymentRoomCharge || m == PaymentOHIP
}

type SyncResult string

const (
	SyncSuccess SyncResult = "success"
	SyncPartial SyncResult = "partial"
	SyncFailure SyncResult = "failure"
)
