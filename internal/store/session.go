// Package store реализует клиентский слой синхронизации состояния:
// жизненный цикл сессии, разрешение профиля, согласованные локальные
// представления проектов, команд, комментариев и каталога студентов.
//
// Каждый store - явно сконструированный экземпляр с внедрённым Gateway,
// без package-level состояния. Store не сериализует свои мутации: два
// вызова в программном порядке могут завершиться в другом порядке,
// зависимые операции вызывающий обязан дожидаться сам.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"go.uber.org/zap"
)

// SessionState - состояние машины жизненного цикла сессии.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateChecking      SessionState = "checking"
	StateAnonymous     SessionState = "ready-anonymous"
	StateAuthenticated SessionState = "ready-authenticated"
)

// Registration - данные регистрации. Поля профиля обязательны только
// если создаётся студент и профиль нужно завести сразу.
type Registration struct {
	Name        string
	Role        model.Role
	CollegeName string
	Semester    int
	Section     string
	USN         string
}

// complete сообщает, заполнены ли все четыре поля студенческого профиля.
func (r Registration) complete() bool {
	return r.CollegeName != "" && r.Semester != 0 && r.Section != "" && r.USN != ""
}

// SessionManager владеет значением сессии и её жизненным циклом и
// единственный, кто запускает разрешение профиля.
type SessionManager struct {
	gw     *gateway.Gateway
	logger *zap.Logger

	state       SessionState
	initialized bool
	session     *model.Session
	user        *model.User
	profile     *model.StudentProfile

	// profilePending - регистрация студента прошла, но запись профиля не
	// создалась; профиль можно дозаполнить через CompleteProfile.
	profilePending bool

	lastErr error
}

func NewSessionManager(gw *gateway.Gateway, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		gw:     gw,
		logger: logger,
		state:  StateUninitialized,
	}
}

func (s *SessionManager) State() SessionState            { return s.state }
func (s *SessionManager) Session() *model.Session        { return s.session }
func (s *SessionManager) User() *model.User              { return s.user }
func (s *SessionManager) Profile() *model.StudentProfile { return s.profile }
func (s *SessionManager) ProfilePending() bool           { return s.profilePending }
func (s *SessionManager) Err() error                     { return s.lastErr }

// Resume восстанавливает сессию по сохранённому токену при старте.
// Повторный вызов после инициализации - no-op. Из состояния checking
// выход гарантирован: любая ошибка приводит в ready-anonymous.
func (s *SessionManager) Resume(ctx context.Context, token string) error {
	if s.initialized {
		return nil
	}
	s.state = StateChecking
	s.lastErr = nil

	sess, err := s.gw.Auth.GetSession(ctx, token)
	if err != nil {
		s.logger.Error("Failed to resume session", zap.Error(err))
		s.clearLocal()
		s.lastErr = err
		s.finish(StateAnonymous)
		return fmt.Errorf("resume session: %w", err)
	}

	if sess == nil {
		s.clearLocal()
		s.finish(StateAnonymous)
		return nil
	}

	s.session = sess
	if err := s.resolveProfile(ctx); err != nil {
		s.lastErr = err
		// Без записи пользователя аутентифицированного состояния не
		// бывает: и исчезнувшая идентичность, и отказ хранилища на
		// чтении User приводят в ready-anonymous. Ошибка загрузки
		// профиля студента восстановление не обрывает.
		if s.user == nil {
			s.clearLocal()
			s.finish(StateAnonymous)
			return nil
		}
	}
	s.finish(StateAuthenticated)
	return nil
}

// Login сохраняет сессию и разрешает профиль до возврата управления,
// чтобы ролевые решения сразу после входа видели заполненный профиль.
func (s *SessionManager) Login(ctx context.Context, email, password string) error {
	s.lastErr = nil

	sess, err := s.gw.Auth.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", zap.String("email", email), zap.Error(err))
		s.lastErr = err
		return fmt.Errorf("login: %w", err)
	}

	s.session = sess
	if err := s.resolveProfile(ctx); err != nil {
		s.lastErr = err
		if s.user == nil {
			s.clearLocal()
			s.initialized = true
			s.state = StateAnonymous
			return fmt.Errorf("resolve profile: %w", err)
		}
	}

	s.initialized = true
	s.state = StateAuthenticated

	s.logger.Info("User logged in",
		zap.String("identity_id", sess.IdentityID.String()),
		zap.String("email", email),
	)
	return nil
}

// Register создаёт идентичность, затем запись User, затем (для студента
// с полными данными) StudentProfile. Ошибка создания User - ошибка
// регистрации; ошибка создания профиля логируется и глотается,
// регистрацию она не проваливает.
func (s *SessionManager) Register(ctx context.Context, email, password string, reg Registration) error {
	s.lastErr = nil

	role := reg.Role
	if !role.Valid() {
		role = model.RoleStudent
	}

	identity, sess, err := s.gw.Auth.SignUp(ctx, email, password, model.IdentityMetadata{
		Name: reg.Name,
		Role: role,
	})
	if err != nil {
		s.lastErr = err
		return fmt.Errorf("sign up: %w", err)
	}

	user := &model.User{
		ID:    identity.ID,
		Email: email,
		Name:  reg.Name,
		Role:  role,
	}
	if err := s.gw.Users.Insert(ctx, user); err != nil {
		s.lastErr = err
		return fmt.Errorf("create user record: %w", err)
	}

	if role == model.RoleStudent && reg.complete() {
		profile := &model.StudentProfile{
			UserID:      identity.ID,
			CollegeName: reg.CollegeName,
			Semester:    reg.Semester,
			Section:     reg.Section,
			USN:         reg.USN,
		}
		if err := s.gw.StudentProfiles.Insert(ctx, profile); err != nil {
			// Студент сможет дозаполнить профиль позже.
			s.logger.Error("Profile creation failed during registration",
				zap.String("user_id", identity.ID.String()),
				zap.Error(err),
			)
			s.profilePending = true
		}
	} else if role == model.RoleStudent {
		s.profilePending = true
	}

	if sess != nil {
		s.session = sess
		if err := s.resolveProfile(ctx); err != nil {
			s.lastErr = err
		}
		if s.user == nil {
			// Запись User только что создана, перечитывать её необязательно.
			s.user = user
		}
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
	s.initialized = true

	s.logger.Info("User registered",
		zap.String("identity_id", identity.ID.String()),
		zap.String("role", string(role)),
	)
	return nil
}

// Logout инвалидирует сессию на сервере best effort и безусловно чистит
// локальное состояние: локальная сессия не переживает выход независимо
// от исхода сетевого вызова.
func (s *SessionManager) Logout(ctx context.Context) {
	if s.session != nil {
		if err := s.gw.Auth.SignOut(ctx, s.session.Token); err != nil {
			s.logger.Warn("Remote sign out failed", zap.Error(err))
			s.lastErr = err
		}
	}
	s.clearLocal()
	s.initialized = true
	s.state = StateAnonymous
}

// CompleteProfile дозаполняет студенческий профиль после регистрации,
// в которой его создание не удалось или данных не хватило.
func (s *SessionManager) CompleteProfile(ctx context.Context, profile model.StudentProfile) error {
	if s.user == nil {
		return fmt.Errorf("complete profile: %w", gateway.ErrNoSession)
	}
	if s.user.Role != model.RoleStudent {
		return fmt.Errorf("complete profile: user %s is not a student", s.user.ID)
	}

	profile.UserID = s.user.ID
	if err := s.gw.StudentProfiles.Upsert(ctx, &profile); err != nil {
		s.lastErr = err
		return fmt.Errorf("upsert student profile: %w", err)
	}

	s.profile = &profile
	s.profilePending = false
	return nil
}

// resolveProfile - разрешение профиля поверх активной сессии:
//  1. идентичность ещё существует на сервере, иначе чистим состояние;
//  2. запись User по id идентичности, при нуле строк - идемпотентное
//     автосоздание из метаданных;
//  3. для студента - необязательный StudentProfile (nil - не ошибка).
func (s *SessionManager) resolveProfile(ctx context.Context) error {
	if s.session == nil {
		s.user = nil
		s.profile = nil
		return nil
	}

	identity, err := s.gw.Auth.GetIdentity(ctx, s.session.Token)
	if err != nil {
		if errors.Is(err, gateway.ErrIdentityNotFound) {
			s.logger.Error("Identity vanished server-side, clearing local state",
				zap.String("identity_id", s.session.IdentityID.String()),
			)
			s.clearLocal()
			s.lastErr = err
			return fmt.Errorf("verify identity: %w", err)
		}
		return fmt.Errorf("verify identity: %w", err)
	}

	user, err := s.gw.Users.GetByID(ctx, identity.ID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		user, err = s.provisionUser(ctx, identity)
		if err != nil {
			return fmt.Errorf("provision user: %w", err)
		}
	}
	s.user = user

	if user.Role == model.RoleStudent {
		profile, err := s.gw.StudentProfiles.GetByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("get student profile: %w", err)
		}
		// Отсутствие профиля - валидное состояние.
		s.profile = profile
	} else {
		s.profile = nil
	}

	return nil
}

// provisionUser автосоздаёт запись User из метаданных идентичности.
// Идемпотентность держится на том, что первичный ключ - id идентичности:
// конфликт вставки означает, что запись уже появилась, и мы её перечитываем.
func (s *SessionManager) provisionUser(ctx context.Context, identity *model.Identity) (*model.User, error) {
	role := identity.Metadata.Role
	if !role.Valid() {
		role = model.RoleStudent
	}
	name := identity.Metadata.Name
	if name == "" {
		name = localPart(identity.Email)
	}

	user := &model.User{
		ID:    identity.ID,
		Email: identity.Email,
		Name:  name,
		Role:  role,
	}

	s.logger.Info("No user record found, provisioning one",
		zap.String("identity_id", identity.ID.String()),
		zap.String("role", string(role)),
	)

	if err := s.gw.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, gateway.ErrConstraint) {
			return s.gw.Users.GetByID(ctx, identity.ID)
		}
		return nil, err
	}
	return user, nil
}

func (s *SessionManager) clearLocal() {
	s.session = nil
	s.user = nil
	s.profile = nil
	s.profilePending = false
}

func (s *SessionManager) finish(state SessionState) {
	s.initialized = true
	s.state = state
}

// localPart возвращает локальную часть email, fallback для имени.
func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	if email != "" {
		return email
	}
	return "User"
}
