package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/core/domain/user"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

// getOwnProfile returns the caller's profile.
func (s *Server) getOwnProfile(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	return helpers.RespondQuery(c, s.userService.GetProfile(c.Request().Context(), userID))
}

func (s *Server) getProfile(c echo.Context) error {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	return helpers.RespondQuery(c, s.userService.GetProfile(c.Request().Context(), userID))
}

// getUsersByIDs reads a comma-separated ids query parameter.
func (s *Server) getUsersByIDs(c echo.Context) error {
	var ids []string
	for _, id := range strings.Split(c.QueryParam("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return helpers.RespondQuery(c, s.userService.GetUsersByIDs(c.Request().Context(), ids))
}

func (s *Server) updateOwnProfile(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req user.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return helpers.RespondMutation(c, http.StatusOK, s.userService.UpdateProfile(c.Request().Context(), userID, &req))
}

func (s *Server) uploadAvatar(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	upload, closer, err := readUpload(c)
	if err != nil {
		return err
	}
	defer closer.Close()
	return helpers.RespondMutation(c, http.StatusOK, s.userService.UploadAvatar(c.Request().Context(), userID, upload))
}
