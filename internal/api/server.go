package api

import (
	"errors"
	"net/http"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Server собирает обработчики и реестр workspace.
type Server struct {
	registry *Registry
	logger   *zap.Logger
}

func NewServer(gw *gateway.Gateway, logger *zap.Logger) *Server {
	return &Server{
		registry: NewRegistry(gw, logger),
		logger:   logger,
	}
}

// Register вешает все маршруты на echo.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	auth := e.Group("/v1/auth")
	auth.POST("/register", s.handleRegister)
	auth.POST("/login", s.handleLogin)

	v1 := e.Group("/v1", s.Authenticated)
	v1.POST("/auth/logout", s.handleLogout)
	v1.GET("/me", s.handleMe)
	v1.PUT("/me/profile", s.handleCompleteProfile)

	v1.GET("/projects", s.handleListProjects)
	v1.GET("/projects/all", s.handleListAllProjects, RequireAdmin)
	v1.POST("/projects", s.handleCreateProject, RequireAdmin)
	v1.GET("/projects/:id", s.handleGetProject)
	v1.PATCH("/projects/:id", s.handleUpdateProject, RequireAdmin)
	v1.DELETE("/projects/:id", s.handleDeleteProject, RequireAdmin)

	v1.GET("/projects/:id/teams", s.handleListTeams)
	v1.POST("/projects/:id/teams", s.handleCreateTeam, RequireAdmin)
	v1.GET("/teams/:id", s.handleGetTeam)
	v1.PATCH("/teams/:id", s.handleUpdateTeam, RequireAdmin)
	v1.DELETE("/teams/:id", s.handleDeleteTeam, RequireAdmin)
	v1.GET("/teams/:id/members", s.handleListMembers)
	v1.POST("/teams/:id/members", s.handleAddMember, RequireAdmin)
	v1.DELETE("/members/:id", s.handleRemoveMember, RequireAdmin)

	v1.GET("/projects/:id/comments", s.handleListComments)
	v1.POST("/projects/:id/comments", s.handleAddComment)
	v1.DELETE("/comments/:id", s.handleDeleteComment)

	v1.GET("/students", s.handleListStudents, RequireAdmin)
}

// writeError переводит таксономию ошибок gateway в HTTP-статусы.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gateway.ErrInvalidCredentials),
		errors.Is(err, gateway.ErrNoSession),
		errors.Is(err, gateway.ErrIdentityNotFound):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, gateway.ErrEmailTaken),
		errors.Is(err, gateway.ErrConstraint):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, gateway.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		s.logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
