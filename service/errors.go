package service

import "fmt"

type InvalidPayloadErr struct {
	message string
}

func (e *InvalidPayloadErr) Error() string {
	return e.message
}

func NewInvalidPayloadError(msg string) *InvalidPayloadErr {
	return &InvalidPayloadErr{message: msg}
}

// InvalidTransitionErr rejects a status change outside the allowed set.
// The shipment is left unchanged.
type InvalidTransitionErr struct {
	From string
	To   string
}

func (e *InvalidTransitionErr) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

type NotAuthorizedErr struct {
	message string
}

func (e *NotAuthorizedErr) Error() string {
	return e.message
}

func NewNotAuthorizedError(msg string) *NotAuthorizedErr {
	return &NotAuthorizedErr{message: msg}
}
