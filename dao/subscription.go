package dao

import (
	"encoding/json"
	"time"

	"consegne/model"
)

type SubscriptionDao interface {
	//Register upserts a subscription keyed by endpoint. An incoming userId
	//differing from the stored one wins; a blank incoming userId keeps the stored one.
	Register(endpoint string, keys model.SubscriptionKeys, userId string) (model.Subscription, error)
	//Associate attaches a userId to an already registered endpoint
	Associate(endpoint, userId string) error
	//GetOneByEndpoint returns the subscription stored for the endpoint
	GetOneByEndpoint(endpoint string) (model.Subscription, error)
	//GetAllByUser returns all subscriptions associated with the user
	GetAllByUser(userId string) ([]model.Subscription, error)
	//GetAll returns all stored subscriptions
	GetAll() ([]model.Subscription, error)
	//Remove drops a subscription whose endpoint is permanently gone
	Remove(endpoint string) error
	//AppendDiag stores a client-reported subscription diagnostic
	AppendDiag(payload interface{}) error
}

func NewSubscriptionDao(db Db) SubscriptionDao {
	return &subscriptionDao{db: db}
}

type subscriptionDao struct {
	db Db
}

func (d subscriptionDao) Register(endpoint string, keys model.SubscriptionKeys, userId string) (model.Subscription, error) {
	var existing model.Subscription
	err := d.db.One("Endpoint", endpoint, &existing)
	if err == nil {
		existing.Keys = keys
		if userId != "" && existing.UserId != userId {
			existing.UserId = userId
		}
		return existing, d.db.Save(&existing)
	}

	sub := model.Subscription{
		Endpoint:  endpoint,
		Keys:      keys,
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	return sub, d.db.Save(&sub)
}

func (d subscriptionDao) Associate(endpoint, userId string) error {
	var sub model.Subscription
	err := d.db.One("Endpoint", endpoint, &sub)
	if err != nil {
		return err
	}
	sub.UserId = userId
	return d.db.Save(&sub)
}

func (d subscriptionDao) GetOneByEndpoint(endpoint string) (sub model.Subscription, err error) {
	err = d.db.One("Endpoint", endpoint, &sub)
	return
}

func (d subscriptionDao) GetAllByUser(userId string) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := d.db.Find("UserId", userId, &subs)
	if err != nil {
		if err.Error() == "not found" {
			return []model.Subscription{}, nil
		}
		return nil, err
	}
	return subs, nil
}

func (d subscriptionDao) GetAll() (subs []model.Subscription, err error) {
	err = d.db.All(&subs)
	if err == nil && subs == nil {
		subs = []model.Subscription{}
	}
	return
}

func (d subscriptionDao) Remove(endpoint string) error {
	sub, err := d.GetOneByEndpoint(endpoint)
	if err != nil {
		return err
	}
	return d.db.DeleteStruct(&sub)
}

func (d subscriptionDao) AppendDiag(payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.db.Save(&model.SubscribeDiag{Payload: string(b), CreatedAt: time.Now()})
}
