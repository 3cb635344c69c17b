package controller

import (
	"net/http"
	"strconv"
	"strings"

	"consegne/log"
	"consegne/model"
	"consegne/observability"
	"consegne/service"

	"github.com/labstack/echo/v4"
)

const userKey = "user"

// AuthMiddleware resolves the bearer token to a user and stores it in the
// request context. Missing or unknown tokens end with 401.
func AuthMiddleware(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return c.String(http.StatusUnauthorized, "missing bearer token")
			}
			user, err := auth.Authenticate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.String(http.StatusUnauthorized, "invalid token")
			}
			c.Set(userKey, user)
			return next(c)
		}
	}
}

func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			observability.APIRequests.WithLabelValues(c.Path(), strconv.Itoa(status)).Inc()
			return err
		}
	}
}

func currentUser(c echo.Context) model.User {
	user, _ := c.Get(userKey).(model.User)
	return user
}

// writeErr maps service errors to HTTP responses
func writeErr(c echo.Context, err error) error {
	switch err.(type) {
	case *service.InvalidPayloadErr:
		return c.String(http.StatusBadRequest, err.Error())
	case *service.InvalidTransitionErr:
		return c.String(http.StatusBadRequest, err.Error())
	case *service.NotAuthorizedErr:
		return c.String(http.StatusForbidden, err.Error())
	}
	if err.Error() == "not found" {
		return c.String(http.StatusNotFound, "not found")
	}
	log.Error.Println(err)
	return c.String(http.StatusInternalServerError, "System malfunction. Please, try later")
}
