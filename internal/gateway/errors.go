package gateway

import (
	"errors"
	"fmt"
)

// Таксономия ошибок удалённого хранилища. Репозитории возвращают либо
// эти sentinel-ошибки (обёрнутые через %w), либо *ConstraintError.
var (
	// ErrInvalidCredentials - неверная пара email/пароль. Не ретраится.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession - токен отсутствует, просрочен или отозван.
	ErrNoSession = errors.New("no active session")

	// ErrIdentityNotFound - идентичность удалена на сервере. Фатально для
	// текущей сессии: локальное состояние должно быть очищено.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrEmailTaken - идентичность с таким email уже зарегистрирована.
	ErrEmailTaken = errors.New("email already registered")

	// ErrConstraint - нарушение уникальности или внешнего ключа при записи.
	ErrConstraint = errors.New("constraint violation")

	// ErrNotFound - ноль строк там, где ожидалась одна. Для необязательных
	// связей (StudentProfile) репозитории возвращают nil, nil вместо этого.
	ErrNotFound = errors.New("not found")
)

// ConstraintError уточняет, какое ограничение нарушено.
// errors.Is(err, ErrConstraint) возвращает true.
type ConstraintError struct {
	Table      string
	Constraint string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %q violated on table %q", e.Constraint, e.Table)
}

func (e *ConstraintError) Unwrap() error { return ErrConstraint }

// IsAuthError сообщает, относится ли ошибка к auth-категории.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrNoSession) ||
		errors.Is(err, ErrIdentityNotFound) ||
		errors.Is(err, ErrEmailTaken)
}
