package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"consegne/log"
	"consegne/model"
	"consegne/observability"
	"consegne/rest"

	"github.com/cskr/pubsub"
)

const (
	TopicMessages  = "messages"
	TopicShipments = "shipments"
	TopicSession   = "session"
)

// events published on the bus
type (
	NewMessage struct {
		Message model.Message
	}
	ShipmentAssigned struct {
		Shipment model.Shipment
	}
	ShipmentStatusChanged struct {
		Shipment  model.Shipment
		OldStatus string
	}
	SessionExpired struct {
		Err error
	}
)

// Source provides the polled collections; rest.Client satisfies it.
type Source interface {
	Messages() ([]model.Message, error)
	Shipments() ([]model.Shipment, error)
}

// Bus runs at most one poll loop per resource type no matter how many
// subscribers are interested. The first subscriber of a topic starts the
// loop, the last one leaving stops it.
//
// Each loop is a single goroutine: a tick fully completes, including its
// state update, before the next ticker fire is handled, so every append and
// status change is emitted exactly once for the lifetime of the bus.
type Bus struct {
	source   Source
	user     model.UserRef
	interval time.Duration
	relevant func(model.Shipment) bool
	ps       *pubsub.PubSub

	mu    sync.Mutex
	refs  map[string]int
	stops map[string]context.CancelFunc
}

// NewBus creates a bus polling at the given interval. The relevant filter
// scopes the shipment poller to the records the session actor cares about
// (typically: assigned to this driver); nil means everything is relevant.
func NewBus(source Source, user model.UserRef, interval time.Duration, relevant func(model.Shipment) bool) *Bus {
	if relevant == nil {
		relevant = func(model.Shipment) bool { return true }
	}
	return &Bus{
		source:   source,
		user:     user,
		interval: interval,
		relevant: relevant,
		ps:       pubsub.New(100),
		refs:     make(map[string]int),
		stops:    make(map[string]context.CancelFunc),
	}
}

func (b *Bus) Subscribe(topic string) chan interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := b.ps.Sub(topic)
	b.refs[topic]++
	if b.refs[topic] == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		switch topic {
		case TopicMessages:
			b.stops[topic] = cancel
			go b.pollMessages(ctx)
		case TopicShipments:
			b.stops[topic] = cancel
			go b.pollShipments(ctx)
		default:
			//session topic has no loop of its own
			cancel()
		}
	}
	return ch
}

func (b *Bus) Unsubscribe(topic string, ch chan interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ps.Unsub(ch, topic)
	if b.refs[topic] > 0 {
		b.refs[topic]--
	}
	if b.refs[topic] == 0 {
		if cancel, ok := b.stops[topic]; ok {
			cancel()
			delete(b.stops, topic)
		}
	}
}

// Shutdown stops every loop and closes all subscriber channels.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	for topic, cancel := range b.stops {
		cancel()
		delete(b.stops, topic)
	}
	b.mu.Unlock()
	b.ps.Shutdown()
}

// stopLoops halts polling but keeps subscriber channels open so the
// session-expired event can still be read.
func (b *Bus) stopLoops() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, cancel := range b.stops {
		cancel()
		delete(b.stops, topic)
	}
}

// checkSession reports whether the error ends the session. A 401/403 is
// never a transient failure: all polling stops and subscribers are told.
func (b *Bus) checkSession(err error) bool {
	if errors.Is(err, rest.ErrUnauthorized) {
		b.ps.Pub(SessionExpired{Err: err}, TopicSession)
		b.stopLoops()
		return true
	}
	return false
}

func (b *Bus) pollMessages(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	first := true
	lastSeenCount := 0

	for {
		messages, err := b.source.Messages()
		if ctx.Err() != nil {
			//stopped while the fetch was in flight, discard the result
			return
		}
		switch {
		case err != nil:
			if b.checkSession(err) {
				return
			}
			observability.PollTicks.WithLabelValues(TopicMessages, "error").Inc()
			log.Warn.Println("message poll failed", err)
		case first:
			//never emit for pre-existing data on the first tick
			first = false
			lastSeenCount = len(messages)
			observability.PollTicks.WithLabelValues(TopicMessages, "ok").Inc()
		default:
			observability.PollTicks.WithLabelValues(TopicMessages, "ok").Inc()
			if len(messages) > lastSeenCount {
				//messages are append-only and ordered, the tail is the delta
				for _, msg := range messages[lastSeenCount:] {
					if msg.Sender.Id == b.user.Id {
						continue
					}
					b.ps.Pub(NewMessage{Message: msg}, TopicMessages)
					observability.PollEvents.WithLabelValues(TopicMessages, "new_message").Inc()
				}
			}
			lastSeenCount = len(messages)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (b *Bus) pollShipments(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	first := true
	statusByKey := make(map[string]string)

	for {
		shipments, err := b.source.Shipments()
		if ctx.Err() != nil {
			return
		}
		switch {
		case err != nil:
			if b.checkSession(err) {
				return
			}
			observability.PollTicks.WithLabelValues(TopicShipments, "error").Inc()
			log.Warn.Println("shipment poll failed", err)
		default:
			observability.PollTicks.WithLabelValues(TopicShipments, "ok").Inc()
			current := make(map[string]string)
			for _, s := range shipments {
				if !b.relevant(s) {
					continue
				}
				current[s.Id] = s.Status
				if first {
					continue
				}
				prev, seen := statusByKey[s.Id]
				if !seen {
					//newly present id: one assignment event; status diffs
					//start from the next tick
					b.ps.Pub(ShipmentAssigned{Shipment: s}, TopicShipments)
					observability.PollEvents.WithLabelValues(TopicShipments, "assigned").Inc()
				} else if prev != s.Status {
					b.ps.Pub(ShipmentStatusChanged{Shipment: s, OldStatus: prev}, TopicShipments)
					observability.PollEvents.WithLabelValues(TopicShipments, "status_changed").Inc()
				}
			}
			statusByKey = current
			first = false
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
