package store

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProjectStore держит коллекцию проектов и указатель на текущий проект.
// Мутации применяются к локальному представлению только после
// подтверждения записи хранилищем, откатов нет.
type ProjectStore struct {
	gw     *gateway.Gateway
	logger *zap.Logger

	projects []*model.Project
	current  *model.Project
}

func NewProjectStore(gw *gateway.Gateway, logger *zap.Logger) *ProjectStore {
	return &ProjectStore{gw: gw, logger: logger}
}

func (s *ProjectStore) Projects() []*model.Project { return s.projects }
func (s *ProjectStore) Current() *model.Project    { return s.current }

// FetchAll загружает все проекты, новые первыми. Админский листинг.
func (s *ProjectStore) FetchAll(ctx context.Context) error {
	projects, err := s.gw.Projects.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch projects: %w", err)
	}
	s.projects = projects
	return nil
}

// FetchForUser собирает проекты, видимые пользователю: два параллельных
// запроса (владелец + участник через team_members -> teams -> projects),
// затем объединение с дедупликацией. Видимость вычисляется только здесь,
// не в хранилище.
func (s *ProjectStore) FetchForUser(ctx context.Context, userID uuid.UUID) error {
	var owned, member []*model.Project

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = s.gw.Projects.ListByAdmin(ctx, userID)
		if err != nil {
			return fmt.Errorf("list owned projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		member, err = s.gw.Projects.ListByMember(ctx, userID)
		if err != nil {
			return fmt.Errorf("list member projects: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch user projects: %w", err)
	}

	s.projects = MergeVisibleProjects(owned, member)
	return nil
}

// MergeVisibleProjects объединяет два уже загруженных списка в один без
// дубликатов, сохраняя порядок первого вхождения. Проект, которым
// пользователь владеет и в котором состоит через команду, попадает в
// результат ровно один раз.
func MergeVisibleProjects(owned, member []*model.Project) []*model.Project {
	merged := make([]*model.Project, 0, len(owned)+len(member))
	seen := make(map[uuid.UUID]int, len(owned)+len(member))

	for _, p := range owned {
		if idx, ok := seen[p.ID]; ok {
			// Обе ветки обозначают одну и ту же строку, последняя побеждает.
			merged[idx] = p
			continue
		}
		seen[p.ID] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range member {
		if idx, ok := seen[p.ID]; ok {
			merged[idx] = p
			continue
		}
		seen[p.ID] = len(merged)
		merged = append(merged, p)
	}

	return merged
}

// Select загружает один проект в указатель текущего.
func (s *ProjectStore) Select(ctx context.Context, id uuid.UUID) error {
	project, err := s.gw.Projects.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return fmt.Errorf("get project %s: %w", id, gateway.ErrNotFound)
	}
	s.current = project
	return nil
}

// Create вставляет проект и после подтверждения добавляет его в начало
// локального списка.
func (s *ProjectStore) Create(ctx context.Context, project *model.Project) (*model.Project, error) {
	if !project.Status.Valid() {
		project.Status = model.StatusPending
	}
	if err := s.gw.Projects.Insert(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.projects = append([]*model.Project{project}, s.projects...)

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("title", project.Title),
	)
	return project, nil
}

// Update накладывает частичный патч на закэшированную запись вместо
// refetch - и в списке, и в указателе текущего, если id совпадает.
func (s *ProjectStore) Update(ctx context.Context, id uuid.UUID, patch model.ProjectPatch) error {
	if err := s.gw.Projects.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	for _, p := range s.projects {
		if p.ID == id {
			patch.Apply(p)
		}
	}
	if s.current != nil && s.current.ID == id {
		patch.Apply(s.current)
	}
	return nil
}

// Delete убирает проект из локального списка после подтверждения и
// сбрасывает указатель текущего, если он указывал на удалённый.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.gw.Projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept

	if s.current != nil && s.current.ID == id {
		s.current = nil
	}

	s.logger.Info("Project deleted", zap.String("project_id", id.String()))
	return nil
}
