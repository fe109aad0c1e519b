package model

import (
	"time"

	"github.com/google/uuid"
)

// Role определяет уровень доступа пользователя в системе.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User - запись приложения поверх auth-идентичности. ID совпадает с ID идентичности.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentProfile - расширенный профиль студента. Ноль или одна запись на пользователя,
// отсутствие профиля - валидное состояние, а не ошибка.
type StudentProfile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CollegeName string    `json:"college_name"`
	Semester    int       `json:"semester"` // 1..8
	Section     string    `json:"section"`
	USN         string    `json:"usn"`
	CreatedAt   time.Time `json:"created_at"`
}

// Student - проекция пользователя-студента вместе с его необязательным профилем.
type Student struct {
	User
	Profile *StudentProfile `json:"student_profile,omitempty"`
}
