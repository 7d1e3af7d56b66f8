package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/core/ports"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

func (s *Server) sendContactMessage(c echo.Context) error {
	var msg ports.ContactMessage
	if err := c.Bind(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return helpers.RespondMutation(c, http.StatusAccepted, s.contactService.Send(c.Request().Context(), &msg))
}
