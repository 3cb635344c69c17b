package model

import "time"

const (
	//shipment statuses
	StatusPending        string = "pending"
	StatusOutForDelivery        = "out_for_delivery"
	StatusDelivered             = "delivered"
	StatusFailed                = "failed"

	//shipment types
	TypeDelivery = "delivery"
	TypePickup   = "pickup"
	TypeBoth     = "both"
)

// allowed status transitions; absent pairs are invalid
var transitions = map[string][]string{
	StatusPending:        {StatusOutForDelivery, StatusFailed},
	StatusOutForDelivery: {StatusDelivered, StatusFailed},
}

// CanTransition reports whether from -> to is an allowed status change.
// Delivered and failed are terminal.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusOutForDelivery, StatusDelivered, StatusFailed:
		return true
	}
	return false
}

type Shipment struct {
	Id            string    `storm:"id" json:"id"`
	Company       string    `json:"company"`
	Address       string    `json:"address"`
	RequestedAt   time.Time `storm:"index" json:"requestedAt"`
	PlannedAt     time.Time `json:"plannedAt,omitempty"`
	Type          string    `json:"type"`
	Status        string    `storm:"index" json:"status"`
	NeedsPlanning bool      `json:"needsPlanning"`
	Driver        *UserRef  `json:"driver,omitempty"`
	Requester     UserRef   `json:"requester"`
	Notes         string    `json:"notes,omitempty"`
	PhotoRef      string    `json:"photoRef,omitempty"`
}
