package api

import (
	"net/http"
	"time"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// handleListProjects - проекты, видимые текущему пользователю:
// владелец ∪ участник команды, без дубликатов.
func (s *Server) handleListProjects(c echo.Context) error {
	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Projects.FetchForUser(c.Request().Context(), ws.Session.User().ID); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ws.Projects.Projects())
}

// handleListAllProjects - полный листинг для администраторов.
func (s *Server) handleListAllProjects(c echo.Context) error {
	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Projects.FetchAll(c.Request().Context()); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ws.Projects.Projects())
}

type createProjectReq struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      model.ProjectStatus `json:"status"`
	Deadline    time.Time           `json:"deadline"`
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req createProjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	project, err := ws.Projects.Create(c.Request().Context(), &model.Project{
		Title:       req.Title,
		Description: req.Description,
		AdminID:     ws.Session.User().ID,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, project)
}

func (s *Server) handleGetProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Projects.Select(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ws.Projects.Current())
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	var patch model.ProjectPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Projects.Update(c.Request().Context(), id, patch); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDeleteProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Projects.Delete(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
