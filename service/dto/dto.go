package dto

import (
	"time"

	"consegne/model"
	"consegne/push"
)

type Id struct {
	Id string `json:"id"`
}

type LoginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type ShipmentCreate struct {
	Company     string    `json:"company"`
	Address     string    `json:"address"`
	RequestedAt time.Time `json:"requestedAt"`
	Type        string    `json:"type"`
	Notes       string    `json:"notes"`
}

// ShipmentUpdate carries the planner-editable fields. Status and requester
// deliberately have no place here: status moves only through the state
// machine endpoint, drivers only through the assignment endpoint.
type ShipmentUpdate struct {
	Company     string    `json:"company"`
	Address     string    `json:"address"`
	RequestedAt time.Time `json:"requestedAt"`
	PlannedAt   time.Time `json:"plannedAt"`
	Type        string    `json:"type"`
	Notes       string    `json:"notes"`
	PhotoRef    string    `json:"photoRef"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type AssignDriver struct {
	DriverId  string    `json:"driverId"`
	PlannedAt time.Time `json:"plannedAt"`
}

type MessagePost struct {
	Text       string `json:"text"`
	ReplyTo    string `json:"replyTo,omitempty"`
	ShipmentId string `json:"shipmentId,omitempty"`
}

type SubscribeRequest struct {
	Endpoint string                 `json:"endpoint"`
	Keys     model.SubscriptionKeys `json:"keys"`
	UserId   string                 `json:"userId,omitempty"`
}

type AssociateRequest struct {
	Endpoint string `json:"endpoint"`
	UserId   string `json:"userId"`
}

type SendToUserRequest struct {
	UserId  string       `json:"userId"`
	Payload push.Payload `json:"payload"`
}

type PushResults struct {
	Results []push.Result `json:"results"`
}

type PublicKey struct {
	PublicKey string `json:"publicKey"`
}

type SubscriptionList struct {
	Count         int                  `json:"count"`
	Subscriptions []model.Subscription `json:"subscriptions"`
}

type UserUpsert struct {
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}
