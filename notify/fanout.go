package notify

import (
	"context"
	"fmt"
	"time"

	"consegne/log"
	"consegne/model"
	"consegne/poller"
	"consegne/util"
)

// BannerDuration is how long an in-app banner stays up before auto-dismiss.
const BannerDuration = 5 * time.Second

// Notifier renders notifications for the session user.
type Notifier interface {
	//Banner shows a short-lived in-app notice
	Banner(text string, dismissAfter time.Duration)
	//Native raises a native notification; only called when the user enabled them
	Native(title, body, tag string)
}

// MessagePoster appends a chat message; rest.Client satisfies it.
type MessagePoster interface {
	PostMessage(text, replyTo, shipmentId string) (model.Message, error)
}

// Fanout turns poller events into banners, native notifications and the
// corroborating chat message for finished shipments. The poller already
// guarantees at-most-once emission per change, so no extra dedup happens here.
type Fanout struct {
	bus           *poller.Bus
	user          model.UserRef
	notifier      Notifier
	poster        MessagePoster
	nativeEnabled bool
}

func NewFanout(bus *poller.Bus, user model.UserRef, notifier Notifier, poster MessagePoster, nativeEnabled bool) *Fanout {
	return &Fanout{bus: bus, user: user, notifier: notifier, poster: poster, nativeEnabled: nativeEnabled}
}

// Run consumes events until the context is cancelled or the session expires.
// A session expiry is returned to the caller so it can re-authenticate.
func (f *Fanout) Run(ctx context.Context) error {
	msgCh := f.bus.Subscribe(poller.TopicMessages)
	shipCh := f.bus.Subscribe(poller.TopicShipments)
	sessCh := f.bus.Subscribe(poller.TopicSession)
	defer func() {
		f.bus.Unsubscribe(poller.TopicMessages, msgCh)
		f.bus.Unsubscribe(poller.TopicShipments, shipCh)
		f.bus.Unsubscribe(poller.TopicSession, sessCh)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sessCh:
			if !ok {
				return nil
			}
			expired := ev.(poller.SessionExpired)
			return expired.Err
		case ev, ok := <-msgCh:
			if !ok {
				return nil
			}
			f.handle(ev)
		case ev, ok := <-shipCh:
			if !ok {
				return nil
			}
			f.handle(ev)
		}
	}
}

func (f *Fanout) handle(ev interface{}) {
	switch e := ev.(type) {
	case poller.NewMessage:
		f.notifier.Banner(e.Message.Sender.Name+": "+e.Message.Text, BannerDuration)
		if f.nativeEnabled {
			f.notifier.Native(
				"New message from "+e.Message.Sender.Name,
				util.Truncate(e.Message.Text, 100),
				"chat-message")
		}
	case poller.ShipmentAssigned:
		title := assignmentTitle(e.Shipment.Type)
		body := e.Shipment.Company + " - " + e.Shipment.Address
		f.notifier.Banner(title+" "+body, BannerDuration)
		if f.nativeEnabled {
			f.notifier.Native(title, body, "delivery-assignment")
		}
	case poller.ShipmentStatusChanged:
		title := statusTitle(e.Shipment.Status)
		body := e.Shipment.Company + " - " + e.Shipment.Status
		f.notifier.Banner(title+" "+body, BannerDuration)
		if f.nativeEnabled {
			f.notifier.Native(title, body, "status")
		}
		if e.Shipment.Status == model.StatusDelivered || e.Shipment.Status == model.StatusFailed {
			//only the assigned driver's session posts the corroboration,
			//otherwise every watching agent would duplicate it
			if e.Shipment.Driver != nil && e.Shipment.Driver.Id == f.user.Id {
				f.corroborate(e.Shipment)
			}
		}
	}
}

// corroborate posts a chat message confirming a finished shipment. Best
// effort: a failed post is logged and never interrupts event handling.
func (f *Fanout) corroborate(s model.Shipment) {
	verb := "delivered"
	if s.Status == model.StatusFailed {
		verb = "failed"
	}
	text := fmt.Sprintf("Shipment #%s %s - %s", s.Id, verb, s.Company)
	_, err := f.poster.PostMessage(text, "", s.Id)
	log.WarnIfErr("posting corroborating message", err)
}

func assignmentTitle(shipmentType string) string {
	switch shipmentType {
	case model.TypeDelivery:
		return "New delivery assigned!"
	case model.TypePickup:
		return "New pickup assigned!"
	case model.TypeBoth:
		return "New delivery + pickup assigned!"
	}
	return "New shipment assigned!"
}

func statusTitle(status string) string {
	switch status {
	case model.StatusOutForDelivery:
		return "Delivery started"
	case model.StatusDelivered:
		return "Delivery completed"
	case model.StatusFailed:
		return "Delivery failed"
	}
	return "Status updated"
}
