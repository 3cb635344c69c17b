package controller

import (
	"errors"
	"net/http"

	"consegne/log"
	"consegne/push"
	"consegne/service"
	"consegne/service/dto"

	"github.com/labstack/echo/v4"
)

// Subscribe godoc
// @Summary Register a push subscription
// @Description Idempotent per endpoint; a later userId wins over the stored one
// @Accept json
// @Produce json
// @Param subscription body dto.SubscribeRequest true "Subscription"
// @Success 201 {object} model.Subscription
// @Failure 400 "error description"
// @Router /api/push/subscribe [post]
func GetSubscribeFunc(srv service.PushService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.SubscribeRequest)
		if err := c.Bind(req); err != nil {
			return err
		}
		sub, err := srv.Subscribe(*req)
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusCreated, sub)
	}
}

// Associate godoc
// @Summary Associate a subscription with a user
// @Description Re-association path after login when the browser already holds a subscription
// @Accept json
// @Produce json
// @Param association body dto.AssociateRequest true "Association"
// @Success 200 "ok"
// @Failure 404 "subscription not found"
// @Router /api/push/associate [post]
func GetAssociateFunc(srv service.PushService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.AssociateRequest)
		if err := c.Bind(req); err != nil {
			return err
		}
		if err := srv.Associate(*req); err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}
}

func GetListSubscriptionsFunc(srv service.PushService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !currentUser(c).IsAdmin() {
			return c.String(http.StatusForbidden, "admin only")
		}
		list, err := srv.List()
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func GetPublicKeyFunc(srv service.PushService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.PublicKey{PublicKey: srv.PublicKey()})
	}
}

// NotifyTest godoc
// @Summary Send a test notification to every subscription
// @Description Diagnostics only
// @Accept json
// @Produce json
// @Param payload body push.Payload true "Payload"
// @Success 200 {object} dto.PushResults
// @Failure 503 "push not configured"
// @Router /api/push/notify-test [post]
func GetNotifyTestFunc(srv service.PushService) echo.HandlerFunc {
	return func(c echo.Context) error {
		payload := push.Payload{Title: "Test Push", Body: "This is a push notification from the backend!", Url: "/"}
		if err := c.Bind(&payload); err != nil {
			return err
		}
		results, err := srv.NotifyTest(payload)
		if err != nil {
			if errors.Is(err, push.ErrNotConfigured) {
				return c.String(http.StatusServiceUnavailable, err.Error())
			}
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, dto.PushResults{Results: results})
	}
}

// SendToUser godoc
// @Summary Send a notification to one user's subscriptions
// @Accept json
// @Produce json
// @Param request body dto.SendToUserRequest true "Request"
// @Success 200 {object} dto.PushResults
// @Failure 503 "push not configured"
// @Router /api/push/send-to-user [post]
func GetSendToUserFunc(srv service.PushService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.SendToUserRequest)
		if err := c.Bind(req); err != nil {
			return err
		}
		results, err := srv.SendToUser(req.UserId, req.Payload)
		if err != nil {
			if errors.Is(err, push.ErrNotConfigured) {
				return c.String(http.StatusServiceUnavailable, err.Error())
			}
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, dto.PushResults{Results: results})
	}
}

// LogSubscribe stores client-reported subscription diagnostics for later
// inspection (mobile browsers fail in creative ways).
func GetLogSubscribeFunc(srv service.PushService) echo.HandlerFunc {
	return func(c echo.Context) error {
		payload := map[string]interface{}{}
		if err := c.Bind(&payload); err != nil {
			return err
		}
		log.WarnIfErr("storing subscribe diagnostic", srv.LogDiag(payload))
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}
}
