package service

import (
	"strconv"

	"consegne/dao"
	"consegne/model"
	"consegne/service/dto"
	"consegne/util"
)

type MessageService interface {
	//Post appends a chat message; messages are never mutated afterwards
	Post(sender model.UserRef, req dto.MessagePost) (model.Message, error)
	//GetAll returns all messages in creation order
	GetAll() ([]model.Message, error)
	//GetAllByShipment returns messages linked to the given shipment
	GetAllByShipment(shipmentId string) ([]model.Message, error)
}

func NewMessageService(messageDao dao.MessageDao, maxLen int) MessageService {
	return &messageService{messageDao: messageDao, maxLen: maxLen}
}

type messageService struct {
	messageDao dao.MessageDao
	maxLen     int
}

func (s messageService) Post(sender model.UserRef, req dto.MessagePost) (model.Message, error) {
	if util.IsBlank(req.Text) {
		return model.Message{}, NewInvalidPayloadError("message text required")
	}
	if len([]rune(req.Text)) > s.maxLen {
		return model.Message{}, NewInvalidPayloadError("message too long, must be <= " + strconv.Itoa(s.maxLen) + " symbols")
	}
	return s.messageDao.Create(sender, req.Text, req.ReplyTo, req.ShipmentId)
}

func (s messageService) GetAll() ([]model.Message, error) {
	return s.messageDao.GetAll()
}

func (s messageService) GetAllByShipment(shipmentId string) ([]model.Message, error) {
	return s.messageDao.GetAllByShipmentId(shipmentId)
}
