package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/step-challenge/internal/core/domain/team"
	"github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listTeams(c echo.Context) error {
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.teamService.GetTeams(c.Request().Context(), cid))
}

func (s *Server) getTeam(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.teamService.GetTeamByID(c.Request().Context(), cid, id))
}

func (s *Server) getOwnTeam(c echo.Context) error {
	userID, err := helpers.GetTargetUserID(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.teamService.GetTeamByUserID(c.Request().Context(), cid, userID))
}

func (s *Server) getTopTeams(c echo.Context) error {
	limit, err := helpers.ParseLimit(c)
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.teamService.GetTopTeams(c.Request().Context(), cid, limit))
}

func (s *Server) getTeamMembers(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondQuery(c, s.teamService.GetTeamMembers(c.Request().Context(), cid, id))
}

func (s *Server) createTeam(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	var req team.CreateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cid := helpers.GetCompetitionIDFromContext(c)
	return helpers.RespondMutation(c, http.StatusCreated, s.teamService.CreateTeam(c.Request().Context(), cid, userID, &req))
}

func (s *Server) updateTeam(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req team.UpdateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return helpers.RespondMutation(c, http.StatusOK, s.teamService.UpdateTeam(c.Request().Context(), userID, id, &req))
}

func (s *Server) deleteTeam(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	return helpers.RespondMutation(c, http.StatusOK, s.teamService.DeleteTeam(c.Request().Context(), userID, id))
}

func (s *Server) joinTeam(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	return helpers.RespondMutation(c, http.StatusOK, s.teamService.JoinTeam(c.Request().Context(), userID, id))
}

func (s *Server) leaveTeam(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	return helpers.RespondMutation(c, http.StatusOK, s.teamService.LeaveTeam(c.Request().Context(), userID, id))
}

func (s *Server) uploadTeamImage(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	upload, closer, err := readUpload(c)
	if err != nil {
		return err
	}
	defer closer.Close()
	return helpers.RespondMutation(c, http.StatusOK, s.teamService.UploadTeamImage(c.Request().Context(), userID, id, upload))
}
