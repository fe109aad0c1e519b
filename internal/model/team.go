package model

import (
	"time"

	"github.com/google/uuid"
)

// Роли участника команды.
const (
	MemberRoleLeader = "leader"
	MemberRoleMember = "member"
)

// Team принадлежит ровно одному проекту. Удаление команды каскадно
// удаляет её membership-записи (это гарантирует хранилище).
type Team struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProjectID   uuid.UUID `json:"project_id"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
}

// TeamPatch - частичное обновление команды.
type TeamPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

func (p TeamPatch) Apply(dst *Team) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Deadline != nil {
		dst.Deadline = *p.Deadline
	}
}

func (p TeamPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Deadline == nil
}

// TeamMember - связка команды и пользователя. Единственное место, где
// записано "какие студенты в какой команде". User и Profile заполняются
// join-проекцией при чтении.
type TeamMember struct {
	ID        uuid.UUID       `json:"id"`
	TeamID    uuid.UUID       `json:"team_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Role      string          `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	User      *User           `json:"user,omitempty"`
	Profile   *StudentProfile `json:"student_profile,omitempty"`
}
