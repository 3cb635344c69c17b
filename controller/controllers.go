package controller

import (
	"net/http"

	"consegne/service"
	"consegne/service/dto"

	"github.com/labstack/echo/v4"
)

// Login godoc
// @Summary Log in
// @Description Verifies a credential and issues a bearer token
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 403 "error description"
// @Router /api/login [post]
func GetLoginFunc(auth service.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.LoginRequest)
		if err := c.Bind(req); err != nil {
			return err
		}
		resp, err := auth.Login(req.Mail, req.Password)
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// CreateShipment godoc
// @Summary Request a shipment
// @Description Registers a new shipment: status pending, needs planning
// @Accept json
// @Produce json
// @Param shipment body dto.ShipmentCreate true "Shipment"
// @Success 200 {object} dto.Id
// @Failure 400 "error description"
// @Router /api/shipments [post]
func GetCreateShipmentFunc(srv service.ShipmentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.ShipmentCreate)
		if err := c.Bind(req); err != nil {
			return err
		}
		id, err := srv.Create(*req, currentUser(c).Ref())
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, id)
	}
}

// ListShipments godoc
// @Summary List shipments
// @Produce json
// @Success 200 {array} model.Shipment
// @Router /api/shipments [get]
func GetListShipmentsFunc(srv service.ShipmentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		shipments, err := srv.GetAll()
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, shipments)
	}
}

func GetShipmentFunc(srv service.ShipmentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		shipment, err := srv.GetOne(c.Param("id"))
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, shipment)
	}
}

// UpdateShipment godoc
// @Summary Edit a shipment
// @Description Edits planner-managed fields; status changes are rejected here
// @Accept json
// @Produce json
// @Param id path string true "Shipment id"
// @Param shipment body dto.ShipmentUpdate true "Fields"
// @Success 200 {object} model.Shipment
// @Router /api/shipments/{id} [put]
func GetUpdateShipmentFunc(srv service.ShipmentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.ShipmentUpdate)
		if err := c.Bind(req); err != nil {
			return err
		}
		shipment, err := srv.Update(c.Param("id"), *req, currentUser(c))
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, shipment)
	}
}

// ChangeStatus godoc
// @Summary Change shipment status
// @Description Applies one transition of the status state machine
// @Accept json
// @Produce json
// @Param id path string true "Shipment id"
// @Param status body dto.StatusChange true "New status"
// @Success 200 {object} model.Shipment
// @Failure 400 "invalid transition"
// @Failure 403 "not the assigned driver"
// @Router /api/shipments/{id}/status [post]
func GetChangeStatusFunc(srv service.ShipmentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.StatusChange)
		if err := c.Bind(req); err != nil {
			return err
		}
		shipment, err := srv.Transition(c.Param("id"), req.Status, currentUser(c))
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, shipment)
	}
}

// AssignDriver godoc
// @Summary Assign a driver
// @Description Sets or replaces the assigned driver and the planned date
// @Accept json
// @Produce json
// @Param id path string true "Shipment id"
// @Param assignment body dto.AssignDriver true "Assignment"
// @Success 200 {object} model.Shipment
// @Router /api/shipments/{id}/driver [post]
func GetAssignDriverFunc(srv service.ShipmentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.AssignDriver)
		if err := c.Bind(req); err != nil {
			return err
		}
		shipment, err := srv.AssignDriver(c.Param("id"), *req, currentUser(c))
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, shipment)
	}
}

func GetDeleteShipmentFunc(srv service.ShipmentService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := srv.Delete(c.Param("id"), currentUser(c)); err != nil {
			return writeErr(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// PostMessage godoc
// @Summary Post a chat message
// @Accept json
// @Produce json
// @Param message body dto.MessagePost true "Message"
// @Success 200 {object} model.Message
// @Router /api/messages [post]
func GetPostMessageFunc(srv service.MessageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.MessagePost)
		if err := c.Bind(req); err != nil {
			return err
		}
		msg, err := srv.Post(currentUser(c).Ref(), *req)
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, msg)
	}
}

// ListMessages godoc
// @Summary List chat messages
// @Description Returns messages in creation order, optionally for one shipment
// @Produce json
// @Param shipmentId query string false "Shipment id"
// @Success 200 {array} model.Message
// @Router /api/messages [get]
func GetListMessagesFunc(srv service.MessageService) echo.HandlerFunc {
	return func(c echo.Context) error {
		shipmentId := c.QueryParam("shipmentId")
		var err error
		var msgs interface{}
		if shipmentId == "" {
			msgs, err = srv.GetAll()
		} else {
			msgs, err = srv.GetAllByShipment(shipmentId)
		}
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, msgs)
	}
}
