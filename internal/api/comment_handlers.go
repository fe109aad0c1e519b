package api

import (
	"net/http"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleListComments(c echo.Context) error {
	projectID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Comments.Fetch(c.Request().Context(), projectID); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ws.Comments.Comments())
}

type addCommentReq struct {
	Content string `json:"content"`
}

func (s *Server) handleAddComment(c echo.Context) error {
	projectID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid project id"})
	}

	var req addCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	comment, err := ws.Comments.Add(c.Request().Context(), &model.Comment{
		ProjectID: projectID,
		UserID:    ws.Session.User().ID,
		Content:   req.Content,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (s *Server) handleDeleteComment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Comments.Delete(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
