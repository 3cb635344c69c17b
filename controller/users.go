package controller

import (
	"net/http"

	"consegne/service"
	"consegne/service/dto"

	"github.com/labstack/echo/v4"
)

func GetListUsersFunc(auth service.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := auth.GetAllUsers()
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, users)
	}
}

func GetCreateUserFunc(auth service.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.UserUpsert)
		if err := c.Bind(req); err != nil {
			return err
		}
		id, err := auth.CreateUser(*req, currentUser(c))
		if err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, id)
	}
}

func GetUpdateUserFunc(auth service.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(dto.UserUpsert)
		if err := c.Bind(req); err != nil {
			return err
		}
		if err := auth.UpdateUser(c.Param("id"), *req, currentUser(c)); err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}

func GetDeleteUserFunc(auth service.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := auth.DeleteUser(c.Param("id"), currentUser(c)); err != nil {
			return writeErr(c, err)
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}

func GetLogoutFunc(auth service.AuthService) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.Request().Header.Get(echo.HeaderAuthorization)
		if len(token) > 7 {
			_ = auth.Logout(token[7:])
		}
		return c.NoContent(http.StatusNoContent)
	}
}
