package model

import "time"

// SystemSender authors machine generated chat messages (planning and delivery summaries)
var SystemSender = UserRef{Id: "system", Name: "System"}

// Message is append-only, never mutated after creation.
// Ids are ULIDs, so key order is creation order.
type Message struct {
	Id         string    `storm:"id" json:"id"`
	Sender     UserRef   `json:"sender"`
	Text       string    `json:"text"`
	Timestamp  time.Time `storm:"index" json:"timestamp"`
	ReplyTo    string    `json:"replyTo,omitempty"`
	ShipmentId string    `storm:"index" json:"shipmentId,omitempty"`
}
