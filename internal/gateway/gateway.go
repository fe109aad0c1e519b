// Package gateway описывает контракт удалённого хранилища: auth-API и
// типизированные репозитории по таблицам. Клиентский слой синхронизации
// (internal/store) работает только через этот контракт, конкретная
// реализация живёт в gateway/postgres.
package gateway

import (
	"context"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
)

// Auth - сессионный API хранилища.
type Auth interface {
	// SignIn возвращает ErrInvalidCredentials при неверной паре email/пароль.
	SignIn(ctx context.Context, email, password string) (*model.Session, error)

	// SignUp создаёт идентичность с метаданными. Сессия может отсутствовать
	// (nil), если провайдер требует подтверждения email.
	SignUp(ctx context.Context, email, password string, meta model.IdentityMetadata) (*model.Identity, *model.Session, error)

	// SignOut инвалидирует сессию на сервере.
	SignOut(ctx context.Context, token string) error

	// GetSession возвращает nil, nil, если токен пуст или сессии нет.
	GetSession(ctx context.Context, token string) (*model.Session, error)

	// GetIdentity возвращает ErrIdentityNotFound, если идентичность удалена.
	GetIdentity(ctx context.Context, token string) (*model.Identity, error)
}

// Users - таблица users. Методы чтения возвращают nil, nil при нуле строк.
type Users interface {
	Insert(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// ListStudents - все пользователи role=student с профилем, по имени.
	ListStudents(ctx context.Context) ([]*model.Student, error)

	// SearchStudents - регистронезависимый substring-поиск по имени и email.
	SearchStudents(ctx context.Context, query string) ([]*model.Student, error)
}

// StudentProfiles - таблица student_profiles.
type StudentProfiles interface {
	Insert(ctx context.Context, p *model.StudentProfile) error

	// Upsert вставляет или обновляет профиль по user_id. Нужен для
	// дозаполнения профиля после регистрации.
	Upsert(ctx context.Context, p *model.StudentProfile) error

	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.StudentProfile, error)
}

// Projects - таблица projects. Списки идут с join-проекцией владельца
// (имя, email), новые первыми.
type Projects interface {
	ListAll(ctx context.Context) ([]*model.Project, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*model.Project, error)

	// ListByMember - проекты, достижимые по цепочке
	// team_members(user_id) -> teams -> projects.
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*model.Project, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Insert(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, id uuid.UUID, patch model.ProjectPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Teams - таблица teams.
type Teams interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error)
	Insert(ctx context.Context, t *model.Team) error
	Update(ctx context.Context, id uuid.UUID, patch model.TeamPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeamMembers - таблица team_members с join-проекцией user + необязательный
// student_profile.
type TeamMembers interface {
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.TeamMember, error)

	// Insert возвращает вставленную строку уже с join-проекцией.
	// Повторное добавление пользователя в команду - *ConstraintError.
	Insert(ctx context.Context, m *model.TeamMember) (*model.TeamMember, error)

	// Delete удаляет по id membership-строки, не по user_id.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Comments - таблица comments с join-проекцией автора (имя, email).
type Comments interface {
	// ListByProject - по возрастанию created_at.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Comment, error)

	Insert(ctx context.Context, c *model.Comment) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Gateway собирает контракт целиком и внедряется в каждый store.
type Gateway struct {
	Auth            Auth
	Users           Users
	StudentProfiles StudentProfiles
	Projects        Projects
	Teams           Teams
	TeamMembers     TeamMembers
	Comments        Comments
}
