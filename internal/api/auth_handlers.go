package api

import (
	"net/http"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/campusboard/campusboard/internal/store"
	"github.com/labstack/echo/v4"
)

type registerReq struct {
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Name        string     `json:"name"`
	Role        model.Role `json:"role"`
	CollegeName string     `json:"college_name"`
	Semester    int        `json:"semester"`
	Section     string     `json:"section"`
	USN         string     `json:"usn"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResp struct {
	Token          string                `json:"token"`
	User           *model.User           `json:"user"`
	StudentProfile *model.StudentProfile `json:"student_profile,omitempty"`
	ProfilePending bool                  `json:"profile_pending,omitempty"`
}

func sessionResponse(ws *Workspace) sessionResp {
	resp := sessionResp{
		User:           ws.Session.User(),
		StudentProfile: ws.Session.Profile(),
		ProfilePending: ws.Session.ProfilePending(),
	}
	if sess := ws.Session.Session(); sess != nil {
		resp.Token = sess.Token
	}
	return resp
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and name are required"})
	}

	ws := s.registry.NewWorkspace()
	err := ws.Session.Register(c.Request().Context(), req.Email, req.Password, store.Registration{
		Name:        req.Name,
		Role:        req.Role,
		CollegeName: req.CollegeName,
		Semester:    req.Semester,
		Section:     req.Section,
		USN:         req.USN,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	if sess := ws.Session.Session(); sess != nil {
		s.registry.Attach(sess.Token, ws)
	}
	return c.JSON(http.StatusCreated, sessionResponse(ws))
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ws := s.registry.NewWorkspace()
	if err := ws.Session.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return s.writeError(c, err)
	}

	sess := ws.Session.Session()
	s.registry.Attach(sess.Token, ws)
	return c.JSON(http.StatusOK, sessionResponse(ws))
}

func (s *Server) handleLogout(c echo.Context) error {
	ws := workspace(c)
	token := sessionToken(c)

	ws.Lock()
	ws.Session.Logout(c.Request().Context())
	ws.Unlock()

	s.registry.Drop(token)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleMe(c echo.Context) error {
	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()
	return c.JSON(http.StatusOK, sessionResponse(ws))
}

type profileReq struct {
	CollegeName string `json:"college_name"`
	Semester    int    `json:"semester"`
	Section     string `json:"section"`
	USN         string `json:"usn"`
}

// handleCompleteProfile дозаполняет студенческий профиль, если при
// регистрации его создать не удалось.
func (s *Server) handleCompleteProfile(c echo.Context) error {
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CollegeName == "" || req.Semester < 1 || req.Semester > 8 || req.Section == "" || req.USN == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all profile fields are required, semester must be 1..8"})
	}

	ws := workspace(c)
	ws.Lock()
	defer ws.Unlock()

	err := ws.Session.CompleteProfile(c.Request().Context(), model.StudentProfile{
		CollegeName: req.CollegeName,
		Semester:    req.Semester,
		Section:     req.Section,
		USN:         req.USN,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, sessionResponse(ws))
}
