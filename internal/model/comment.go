package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment - запись обсуждения проекта. Лог комментариев append-only,
// отображается по возрастанию created_at. User заполняется join-проекцией
// (только имя и email).
type Comment struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
}
