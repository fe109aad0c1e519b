package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus - статус проекта. Переходы между статусами не валидируются,
// статус меняется только явным обновлением.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Project принадлежит ровно одному администратору (AdminID).
// Admin заполняется join-проекцией (только имя и email).
type Project struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	AdminID     uuid.UUID     `json:"admin_id"`
	Status      ProjectStatus `json:"status"`
	Deadline    time.Time     `json:"deadline"`
	CreatedAt   time.Time     `json:"created_at"`
	Admin       *User         `json:"admin,omitempty"`
}

// ProjectPatch - частичное обновление проекта. Nil-поля не трогаются.
type ProjectPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
}

// Apply накладывает патч на закэшированную запись без refetch.
func (p ProjectPatch) Apply(dst *Project) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
	if p.Deadline != nil {
		dst.Deadline = *p.Deadline
	}
}

// Empty сообщает, меняет ли патч хоть одно поле.
func (p ProjectPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Deadline == nil
}
