package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"consegne/dao"
	"consegne/log"
	"consegne/model"
	"consegne/observability"
	"consegne/util"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned by every dispatch call when VAPID keys are
// missing. Call sites treat it as a no-op with a warning, never as a hard error.
var ErrNotConfigured = errors.New("push dispatcher not configured: VAPID keys missing")

type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Url   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

type Result struct {
	Endpoint string `json:"endpoint"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// SendFunc matches webpush.SendNotification, replaceable in tests
type SendFunc func(message []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error)

type Dispatcher interface {
	//Configured reports whether VAPID signing material is present
	Configured() bool
	//PublicKey returns the VAPID public key handed out to browsers
	PublicKey() string
	//SendToSubscription delivers one payload; failures land in the result, never in an error
	SendToSubscription(sub model.Subscription, payload Payload) Result
	//SendToUser delivers to every subscription of the user; zero subscriptions is not an error
	SendToUser(userId string, payload Payload) ([]Result, error)
	//BroadcastTest delivers to every stored subscription; diagnostics only
	BroadcastTest(payload Payload) ([]Result, error)
}

func NewDispatcher(subDao dao.SubscriptionDao, publicKey, privateKey, subscriber string, ttl, perSec int) Dispatcher {
	return &dispatcher{
		subDao:     subDao,
		send:       webpush.SendNotification,
		configured: !util.IsBlank(publicKey) && !util.IsBlank(privateKey),
		opts: webpush.Options{
			Subscriber:      subscriber,
			VAPIDPublicKey:  publicKey,
			VAPIDPrivateKey: privateKey,
			TTL:             ttl,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(perSec), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "webpush",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

type dispatcher struct {
	subDao      dao.SubscriptionDao
	send        SendFunc
	configured  bool
	opts        webpush.Options
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
}

func (d *dispatcher) Configured() bool {
	return d.configured
}

func (d *dispatcher) PublicKey() string {
	return d.opts.VAPIDPublicKey
}

func (d *dispatcher) SendToSubscription(sub model.Subscription, payload Payload) Result {
	if !d.configured {
		return Result{Endpoint: sub.Endpoint, Error: ErrNotConfigured.Error()}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Endpoint: sub.Endpoint, Error: err.Error()}
	}

	_ = d.rateLimiter.Wait(context.Background())

	start := time.Now()
	res, err := d.breaker.Execute(func() (interface{}, error) {
		return d.send(body, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{Auth: sub.Keys.Auth, P256dh: sub.Keys.P256dh},
		}, &d.opts)
	})
	observability.PushLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.PushSend.WithLabelValues("error").Inc()
		return Result{Endpoint: sub.Endpoint, Error: err.Error()}
	}

	resp := res.(*http.Response)
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		//endpoint permanently gone, prune the stored subscription
		observability.PushSend.WithLabelValues("gone").Inc()
		log.WarnIfErr("removing gone subscription", d.subDao.Remove(sub.Endpoint))
		return Result{Endpoint: sub.Endpoint, Error: "subscription gone: " + resp.Status}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		observability.PushSend.WithLabelValues("ok").Inc()
		return Result{Endpoint: sub.Endpoint, Success: true}
	default:
		observability.PushSend.WithLabelValues("rejected").Inc()
		return Result{Endpoint: sub.Endpoint, Error: "unexpected status: " + resp.Status}
	}
}

func (d *dispatcher) SendToUser(userId string, payload Payload) ([]Result, error) {
	if !d.configured {
		return nil, ErrNotConfigured
	}
	subs, err := d.subDao.GetAllByUser(userId)
	if err != nil {
		return nil, err
	}
	return d.sendToAll(subs, payload), nil
}

func (d *dispatcher) BroadcastTest(payload Payload) ([]Result, error) {
	if !d.configured {
		return nil, ErrNotConfigured
	}
	subs, err := d.subDao.GetAll()
	if err != nil {
		return nil, err
	}
	return d.sendToAll(subs, payload), nil
}

func (d *dispatcher) sendToAll(subs []model.Subscription, payload Payload) []Result {
	results := []Result{}
	for _, sub := range subs {
		results = append(results, d.SendToSubscription(sub, payload))
	}
	return results
}
