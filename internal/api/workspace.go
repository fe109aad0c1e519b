// Package api - тонкий HTTP-слой над клиентскими store. Каждой активной
// сессии принадлежит свой Workspace с набором store; HTTP-обработчики,
// в отличие от однопоточного UI-цикла, выполняются параллельно, поэтому
// доступ к workspace сериализуется здесь, а не внутри store.
package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/store"
	"go.uber.org/zap"
)

// Workspace - набор store одной сессии.
type Workspace struct {
	mu sync.Mutex

	Session  *store.SessionManager
	Projects *store.ProjectStore
	Teams    *store.TeamStore
	Comments *store.CommentLog
	Students *store.StudentDirectory
}

func newWorkspace(gw *gateway.Gateway, logger *zap.Logger) *Workspace {
	return &Workspace{
		Session:  store.NewSessionManager(gw, logger),
		Projects: store.NewProjectStore(gw, logger),
		Teams:    store.NewTeamStore(gw, logger),
		Comments: store.NewCommentLog(gw, logger),
		Students: store.NewStudentDirectory(gw, logger),
	}
}

// Lock сериализует операции над workspace: store внутри однописательные.
func (w *Workspace) Lock()   { w.mu.Lock() }
func (w *Workspace) Unlock() { w.mu.Unlock() }

// Registry хранит workspace по токену сессии и владеет их жизненным
// циклом: создание при входе или возобновлении, удаление при выходе.
type Registry struct {
	gw     *gateway.Gateway
	logger *zap.Logger

	mu      sync.RWMutex
	byToken map[string]*Workspace
}

func NewRegistry(gw *gateway.Gateway, logger *zap.Logger) *Registry {
	return &Registry{
		gw:      gw,
		logger:  logger,
		byToken: make(map[string]*Workspace),
	}
}

// NewWorkspace создаёт несвязанный workspace для login/register.
func (r *Registry) NewWorkspace() *Workspace {
	return newWorkspace(r.gw, r.logger)
}

// Attach связывает workspace с токеном после успешного входа.
func (r *Registry) Attach(token string, ws *Workspace) {
	r.mu.Lock()
	r.byToken[token] = ws
	r.mu.Unlock()
}

// Resume возвращает workspace токена, при необходимости восстанавливая
// сессию. Невосстановимый токен - ошибка gateway.ErrNoSession.
func (r *Registry) Resume(ctx context.Context, token string) (*Workspace, error) {
	r.mu.RLock()
	ws, ok := r.byToken[token]
	r.mu.RUnlock()
	if ok {
		return ws, nil
	}

	ws = newWorkspace(r.gw, r.logger)
	if err := ws.Session.Resume(ctx, token); err != nil {
		return nil, fmt.Errorf("resume workspace: %w", err)
	}
	if ws.Session.State() != store.StateAuthenticated || ws.Session.User() == nil {
		return nil, gateway.ErrNoSession
	}

	r.mu.Lock()
	// Параллельный запрос мог успеть первым, его workspace главнее.
	if existing, ok := r.byToken[token]; ok {
		ws = existing
	} else {
		r.byToken[token] = ws
	}
	r.mu.Unlock()

	return ws, nil
}

// Drop удаляет workspace токена.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	delete(r.byToken, token)
	r.mu.Unlock()
}
