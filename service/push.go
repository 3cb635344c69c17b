package service

import (
	"consegne/dao"
	"consegne/model"
	"consegne/push"
	"consegne/service/dto"
	"consegne/util"
)

type PushService interface {
	//Subscribe upserts a browser subscription keyed by endpoint
	Subscribe(req dto.SubscribeRequest) (model.Subscription, error)
	//Associate attaches a user id to an already registered endpoint
	Associate(req dto.AssociateRequest) error
	//List returns all stored subscriptions; diagnostics only
	List() (dto.SubscriptionList, error)
	//PublicKey returns the VAPID public key for browsers
	PublicKey() string
	//NotifyTest sends a payload to every subscription; diagnostics only
	NotifyTest(payload push.Payload) ([]push.Result, error)
	//SendToUser sends a payload to all subscriptions of the user
	SendToUser(userId string, payload push.Payload) ([]push.Result, error)
	//LogDiag stores a client-reported subscription diagnostic
	LogDiag(payload map[string]interface{}) error
}

func NewPushService(subDao dao.SubscriptionDao, dispatcher push.Dispatcher) PushService {
	return &pushService{subDao: subDao, dispatcher: dispatcher}
}

type pushService struct {
	subDao     dao.SubscriptionDao
	dispatcher push.Dispatcher
}

func (s pushService) Subscribe(req dto.SubscribeRequest) (model.Subscription, error) {
	if util.IsBlank(req.Endpoint) {
		return model.Subscription{}, NewInvalidPayloadError("subscription endpoint required")
	}
	return s.subDao.Register(req.Endpoint, req.Keys, req.UserId)
}

func (s pushService) Associate(req dto.AssociateRequest) error {
	if util.IsBlank(req.Endpoint) || util.IsBlank(req.UserId) {
		return NewInvalidPayloadError("endpoint and userId required")
	}
	return s.subDao.Associate(req.Endpoint, req.UserId)
}

func (s pushService) List() (dto.SubscriptionList, error) {
	subs, err := s.subDao.GetAll()
	if err != nil {
		return dto.SubscriptionList{}, err
	}
	return dto.SubscriptionList{Count: len(subs), Subscriptions: subs}, nil
}

func (s pushService) PublicKey() string {
	return s.dispatcher.PublicKey()
}

func (s pushService) NotifyTest(payload push.Payload) ([]push.Result, error) {
	return s.dispatcher.BroadcastTest(payload)
}

func (s pushService) SendToUser(userId string, payload push.Payload) ([]push.Result, error) {
	if util.IsBlank(userId) {
		return nil, NewInvalidPayloadError("userId required")
	}
	return s.dispatcher.SendToUser(userId, payload)
}

func (s pushService) LogDiag(payload map[string]interface{}) error {
	return s.subDao.AppendDiag(payload)
}
