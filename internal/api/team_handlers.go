package api

import (
	"net/http"
	"time"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleListTeams(c echo.Context) error {
	projectID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Teams.FetchTeams(c.Request().Context(), projectID); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ws.Teams.Teams())
}

type createTeamReq struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
}

func (s *Server) handleCreateTeam(c echo.Context) error {
	projectID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	var req createTeamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	team, err := ws.Teams.CreateTeam(c.Request().Context(), &model.Team{
		Name:        req.Name,
		Description: req.Description,
		ProjectID:   projectID,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, team)
}

type teamResp struct {
	Team    *model.Team         `json:"team"`
	Members []*model.TeamMember `json:"members"`
}

// handleGetTeam выбирает команду и сразу возвращает её участников.
func (s *Server) handleGetTeam(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Teams.SelectTeam(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, teamResp{
		Team:    ws.Teams.Current(),
		Members: ws.Teams.Members(),
	})
}

func (s *Server) handleUpdateTeam(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}

	var patch model.TeamPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Teams.UpdateTeam(c.Request().Context(), id, patch); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteTeam(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Teams.DeleteTeam(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListMembers(c echo.Context) error {
	teamID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Teams.FetchMembers(c.Request().Context(), teamID); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ws.Teams.Members())
}

type addMemberReq struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

func (s *Server) handleAddMember(c echo.Context) error {
	teamID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid team id"})
	}

	var req addMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	member, err := ws.Teams.AddMember(c.Request().Context(), &model.TeamMember{
		TeamID: teamID,
		UserID: req.UserID,
		Role:   req.Role,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (s *Server) handleRemoveMember(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid member id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Teams.RemoveMember(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
