// Package postgres - реализация контракта gateway поверх PostgreSQL.
// Играет роль удалённого хранилища с встроенной аутентификацией.
package postgres

import (
	"errors"
	"time"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AuthConfig - параметры выпуска и проверки сессионных токенов.
type AuthConfig struct {
	JWTSecret  string
	BcryptCost int
	SessionTTL time.Duration
}

// New собирает Gateway из конкретных репозиториев.
func New(pool *pgxpool.Pool, cfg AuthConfig, logger *zap.Logger) *gateway.Gateway {
	return &gateway.Gateway{
		Auth:            NewAuthService(pool, cfg, logger),
		Users:           NewUserRepository(pool),
		StudentProfiles: NewStudentProfileRepository(pool),
		Projects:        NewProjectRepository(pool),
		Teams:           NewTeamRepository(pool),
		TeamMembers:     NewTeamMemberRepository(pool),
		Comments:        NewCommentRepository(pool),
	}
}

// Коды ошибок PostgreSQL для нарушений ограничений.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// translateError переводит ошибки драйвера в таксономию gateway.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeForeignKeyViolation, codeCheckViolation:
			return &gateway.ConstraintError{
				Table:      pgErr.TableName,
				Constraint: pgErr.ConstraintName,
			}
		}
	}
	return err
}
