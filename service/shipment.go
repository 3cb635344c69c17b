package service

import (
	"fmt"
	"time"

	"consegne/dao"
	"consegne/log"
	"consegne/model"
	"consegne/push"
	"consegne/service/dto"
	"consegne/util"
)

type ShipmentService interface {
	//Create registers a new shipment request: status pending, needs planning
	Create(req dto.ShipmentCreate, requester model.UserRef) (dto.Id, error)
	//GetOne returns shipment by id
	GetOne(id string) (model.Shipment, error)
	//GetAll returns all shipments
	GetAll() ([]model.Shipment, error)
	//Update edits the planner-managed fields; status and driver are untouched
	Update(id string, req dto.ShipmentUpdate, actor model.User) (model.Shipment, error)
	//Transition applies one status change through the state machine
	Transition(id, newStatus string, actor model.User) (model.Shipment, error)
	//AssignDriver sets or replaces the assigned driver and the planned date
	AssignDriver(id string, req dto.AssignDriver, actor model.User) (model.Shipment, error)
	//Delete removes a shipment; administrative action only
	Delete(id string, actor model.User) error
}

func NewShipmentService(shipmentDao dao.ShipmentDao, messageDao dao.MessageDao, userDao dao.UserDao, dispatcher push.Dispatcher) ShipmentService {
	return &shipmentService{
		shipmentDao: shipmentDao,
		messageDao:  messageDao,
		userDao:     userDao,
		dispatcher:  dispatcher,
	}
}

type shipmentService struct {
	shipmentDao dao.ShipmentDao
	messageDao  dao.MessageDao
	userDao     dao.UserDao
	dispatcher  push.Dispatcher
}

func (s shipmentService) Create(req dto.ShipmentCreate, requester model.UserRef) (dto.Id, error) {
	if util.IsBlank(req.Company) && util.IsBlank(req.Address) {
		return dto.Id{}, NewInvalidPayloadError("destination company or address required")
	}
	shipmentType := req.Type
	if shipmentType == "" {
		shipmentType = model.TypeDelivery
	}
	if shipmentType != model.TypeDelivery && shipmentType != model.TypePickup && shipmentType != model.TypeBoth {
		return dto.Id{}, NewInvalidPayloadError("invalid shipment type " + req.Type)
	}
	requestedAt := req.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now()
	}

	shipment := model.Shipment{
		Company:       req.Company,
		Address:       req.Address,
		RequestedAt:   requestedAt,
		Type:          shipmentType,
		Status:        model.StatusPending,
		NeedsPlanning: true,
		Requester:     requester,
		Notes:         req.Notes,
	}
	id, err := s.shipmentDao.Create(&shipment)
	if err != nil {
		return dto.Id{}, err
	}
	return dto.Id{Id: id}, nil
}

func (s shipmentService) GetOne(id string) (model.Shipment, error) {
	return s.shipmentDao.GetOneById(id)
}

func (s shipmentService) GetAll() ([]model.Shipment, error) {
	return s.shipmentDao.GetAll()
}

func (s shipmentService) Update(id string, req dto.ShipmentUpdate, actor model.User) (model.Shipment, error) {
	shipment, err := s.shipmentDao.GetOneById(id)
	if err != nil {
		return model.Shipment{}, err
	}
	if !actor.IsAdmin() && actor.Role != model.RolePlanner && actor.Id != shipment.Requester.Id {
		return model.Shipment{}, NewNotAuthorizedError("not allowed to edit this shipment")
	}
	if req.Type != "" && req.Type != model.TypeDelivery && req.Type != model.TypePickup && req.Type != model.TypeBoth {
		return model.Shipment{}, NewInvalidPayloadError("invalid shipment type " + req.Type)
	}

	if !util.IsBlank(req.Company) {
		shipment.Company = req.Company
	}
	if !util.IsBlank(req.Address) {
		shipment.Address = req.Address
	}
	if !req.RequestedAt.IsZero() {
		shipment.RequestedAt = req.RequestedAt
	}
	if !req.PlannedAt.IsZero() {
		shipment.PlannedAt = req.PlannedAt
		shipment.NeedsPlanning = shipment.Driver == nil
	}
	if req.Type != "" {
		shipment.Type = req.Type
	}
	if !util.IsBlank(req.Notes) {
		shipment.Notes = req.Notes
	}
	if !util.IsBlank(req.PhotoRef) {
		shipment.PhotoRef = req.PhotoRef
	}

	err = s.shipmentDao.Update(shipment)
	return shipment, err
}

func (s shipmentService) Transition(id, newStatus string, actor model.User) (model.Shipment, error) {
	shipment, err := s.shipmentDao.GetOneById(id)
	if err != nil {
		return model.Shipment{}, err
	}

	if !actor.IsAdmin() && (shipment.Driver == nil || shipment.Driver.Id != actor.Id) {
		return model.Shipment{}, NewNotAuthorizedError("only the assigned driver or an admin can change status")
	}
	if !model.IsValidStatus(newStatus) || !model.CanTransition(shipment.Status, newStatus) {
		return model.Shipment{}, &InvalidTransitionErr{From: shipment.Status, To: newStatus}
	}

	shipment.Status = newStatus
	if err := s.shipmentDao.Update(shipment); err != nil {
		return model.Shipment{}, err
	}

	if newStatus == model.StatusDelivered {
		//best effort: the status change stands even if the summary fails
		_, msgErr := s.messageDao.Create(model.SystemSender, deliverySummary(shipment), "", shipment.Id)
		log.WarnIfErr("creating delivery summary message", msgErr)
	}

	s.notifyAsync(shipment.Requester.Id, push.Payload{
		Title: "Shipment status updated",
		Body:  shipment.Company + " - " + newStatus,
		Url:   "/shipments/" + shipment.Id,
		Tag:   "status",
	})

	return shipment, nil
}

func (s shipmentService) AssignDriver(id string, req dto.AssignDriver, actor model.User) (model.Shipment, error) {
	if !actor.IsAdmin() && actor.Role != model.RolePlanner {
		return model.Shipment{}, NewNotAuthorizedError("only a planner or an admin can assign drivers")
	}

	shipment, err := s.shipmentDao.GetOneById(id)
	if err != nil {
		return model.Shipment{}, err
	}
	driver, err := s.userDao.GetOneById(req.DriverId)
	if err != nil {
		return model.Shipment{}, err
	}
	if driver.Role != model.RoleDriver {
		return model.Shipment{}, NewInvalidPayloadError("user " + driver.Id + " is not a driver")
	}

	prevDriverId := ""
	if shipment.Driver != nil {
		prevDriverId = shipment.Driver.Id
	}
	wasUnplanned := shipment.NeedsPlanning

	ref := driver.Ref()
	shipment.Driver = &ref
	if !req.PlannedAt.IsZero() {
		shipment.PlannedAt = req.PlannedAt
	}
	shipment.NeedsPlanning = shipment.PlannedAt.IsZero()

	if err := s.shipmentDao.Update(shipment); err != nil {
		return model.Shipment{}, err
	}

	if wasUnplanned && !shipment.NeedsPlanning {
		_, msgErr := s.messageDao.Create(model.SystemSender, planningSummary(shipment), "", shipment.Id)
		log.WarnIfErr("creating planning summary message", msgErr)
	}

	//notify the new driver only when the assignment actually changed hands
	if driver.Id != prevDriverId {
		s.notifyAsync(driver.Id, push.Payload{
			Title: "New shipment assigned!",
			Body:  shipment.Company + " - " + shipment.Address,
			Url:   "/shipments/" + shipment.Id,
			Tag:   "delivery-assignment",
		})
	}

	return shipment, nil
}

func (s shipmentService) Delete(id string, actor model.User) error {
	if !actor.IsAdmin() {
		return NewNotAuthorizedError("only an admin can delete shipments")
	}
	return s.shipmentDao.Delete(id)
}

// notifyAsync fires a push in the background. Dispatch is fire-and-forget:
// a failed or unconfigured push never fails the triggering operation.
func (s shipmentService) notifyAsync(userId string, payload push.Payload) {
	if userId == "" {
		return
	}
	go func() {
		results, err := s.dispatcher.SendToUser(userId, payload)
		if err != nil {
			log.Warn.Println("push notify skipped:", err)
			return
		}
		for _, r := range results {
			if !r.Success {
				log.Warn.Println("push delivery failed", r.Endpoint, r.Error)
			}
		}
	}()
}

func deliverySummary(s model.Shipment) string {
	return fmt.Sprintf("Delivered shipment #%s\nDestination: %s\nAddress: %s", s.Id, orDash(s.Company), orDash(s.Address))
}

func planningSummary(s model.Shipment) string {
	driver := "-"
	if s.Driver != nil {
		driver = s.Driver.Name
	}
	return fmt.Sprintf("Shipment planned:\nDestination: %s\nAddress: %s\nDate: %s\nDriver: %s\nType: %s\nRequester: %s",
		orDash(s.Company), orDash(s.Address), s.PlannedAt.Format("Mon, 02 Jan 2006 15:04"), driver, s.Type, orDash(s.Requester.Name))
}

func orDash(s string) string {
	if util.IsBlank(s) {
		return "-"
	}
	return s
}
