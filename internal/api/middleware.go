package api

import (
	"net/http"
	"strings"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/labstack/echo/v4"
)

const (
	ctxToken     = "session_token"
	ctxWorkspace = "workspace"
)

// bearerToken достаёт токен из заголовка Authorization.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authenticated резолвит workspace по bearer-токену и кладёт его в
// контекст запроса.
func (s *Server) Authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
		}

		ws, err := s.registry.Resume(c.Request().Context(), token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
		}

		c.Set(ctxToken, token)
		c.Set(ctxWorkspace, ws)
		return next(c)
	}
}

// RequireAdmin пропускает только администраторов.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws := workspace(c)
		user := ws.Session.User()
		if user == nil || user.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
		}
		return next(c)
	}
}

func workspace(c echo.Context) *Workspace {
	ws, _ := c.Get(ctxWorkspace).(*Workspace)
	return ws
}

func sessionToken(c echo.Context) string {
	token, _ := c.Get(ctxToken).(string)
	return token
}
