package model

import (
	"time"

	"github.com/google/uuid"
)

// Session - непрозрачный токен, выданный auth-сервисом. Живёт от входа
// (или возобновления при старте) до выхода или инвалидации.
type Session struct {
	Token      string    `json:"token"`
	IdentityID uuid.UUID `json:"identity_id"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IdentityMetadata - произвольные данные, сохранённые при регистрации
// идентичности. Используется для автосоздания записи User (self-heal).
type IdentityMetadata struct {
	Name string `json:"name,omitempty"`
	Role Role   `json:"role,omitempty"`
}

// Identity - сырая запись auth-сервиса, не путать с User (запись приложения).
type Identity struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Metadata  IdentityMetadata `json:"metadata"`
	CreatedAt time.Time        `json:"created_at"`
}
