package dao

import (
	"crypto/rand"
	"sort"
	"time"

	"consegne/model"

	"github.com/oklog/ulid/v2"
)

// monotonic entropy keeps same-millisecond ids in creation order
var ulidEntropy = &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)}

type MessageDao interface {
	//Create creates a message record with a server-assigned id and timestamp
	Create(sender model.UserRef, text, replyTo, shipmentId string) (model.Message, error)
	//GetOneById returns message by id
	GetOneById(id string) (model.Message, error)
	//GetAll returns all messages in creation order
	GetAll() ([]model.Message, error)
	//GetAllByShipmentId returns all messages linked to the given shipment
	GetAllByShipmentId(shipmentId string) ([]model.Message, error)
}

func NewMessageDao(db Db) MessageDao {
	return &messageDao{db: db}
}

type messageDao struct {
	db Db
}

func (d messageDao) Create(sender model.UserRef, text, replyTo, shipmentId string) (model.Message, error) {
	now := time.Now()
	msg := model.Message{
		//ULID ids keep the bucket sorted by creation time
		Id:         ulid.MustNew(ulid.Timestamp(now), ulidEntropy).String(),
		Sender:     sender,
		Text:       text,
		Timestamp:  now,
		ReplyTo:    replyTo,
		ShipmentId: shipmentId,
	}
	err := d.db.Save(&msg)
	return msg, err
}

func (d messageDao) GetOneById(id string) (msg model.Message, err error) {
	err = d.db.One("Id", id, &msg)
	return
}

func (d messageDao) GetAll() (messages []model.Message, err error) {
	err = d.db.All(&messages)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].Id < messages[j].Id })
	return
}

func (d messageDao) GetAllByShipmentId(shipmentId string) (messages []model.Message, err error) {
	err = d.db.Find("ShipmentId", shipmentId, &messages)
	if err != nil && err.Error() == "not found" {
		return []model.Message{}, nil
	}
	return
}
