package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleListStudents - каталог студентов. Непустой параметр q включает
// регистронезависимый substring-поиск по имени и email. Debounce ввода -
// забота клиента, устаревшие результаты отбрасывает сам store.
func (s *Server) handleListStudents(c echo.Context) error {
	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	if err := ws.Students.Search(c.Request().Context(), c.QueryParam("q")); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ws.Students.Students())
}
