package model

import "time"

type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription is a browser push registration, unique by endpoint.
// UserId is optional: a device may register before its user logs in.
type Subscription struct {
	Endpoint  string           `storm:"id" json:"endpoint"`
	Keys      SubscriptionKeys `json:"keys"`
	UserId    string           `storm:"index" json:"userId,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// SubscribeDiag is a client-reported diagnostic about a failed or odd
// subscription attempt, kept for later inspection.
type SubscribeDiag struct {
	Id        uint32 `storm:"id,increment"`
	Payload   string
	CreatedAt time.Time `storm:"index"`
}
