package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectSelect = `
	SELECT p.id, p.title, p.description, p.admin_id, p.status, p.deadline, p.created_at,
	       u.name, u.email
	FROM projects p
	JOIN users u ON u.id = p.admin_id
`

// ListAll получает все проекты с владельцем, новые первыми.
func (r *ProjectRepository) ListAll(ctx context.Context) ([]*model.Project, error) {
	rows, err := r.pool.Query(ctx, projectSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// ListByAdmin получает проекты, которыми пользователь владеет.
func (r *ProjectRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]*model.Project, error) {
	rows, err := r.pool.Query(ctx,
		projectSelect+` WHERE p.admin_id = $1 ORDER BY p.created_at DESC`,
		adminID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects by admin: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// ListByMember получает проекты, достижимые по цепочке
// team_members -> teams -> projects. По строке на membership, дедупликация
// остаётся за клиентским слоем.
func (r *ProjectRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*model.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, p.description, p.admin_id, p.status, p.deadline, p.created_at,
		       u.name, u.email
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		JOIN projects p ON p.id = t.project_id
		JOIN users u ON u.id = p.admin_id
		WHERE tm.user_id = $1
		ORDER BY p.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects by member: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// GetByID получает проект с владельцем. Ноль строк - nil, nil.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	row := r.pool.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id)

	project, err := scanProject(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	return project, nil
}

// Insert создаёт проект.
func (r *ProjectRepository) Insert(ctx context.Context, project *model.Project) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO projects (id, title, description, admin_id, status, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		newID(&project.ID), project.Title, project.Description, project.AdminID, string(project.Status), project.Deadline,
	).Scan(&project.CreatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", translateError(err))
	}
	return nil
}

// Update применяет частичный патч. Пустой патч - no-op.
func (r *ProjectRepository) Update(ctx context.Context, id uuid.UUID, patch model.ProjectPatch) error {
	if patch.Empty() {
		return nil
	}

	set := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	add := func(col string, val interface{}) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Deadline != nil {
		add("deadline", *patch.Deadline)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update project: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update project %s: %w", id, gateway.ErrNotFound)
	}
	return nil
}

// Delete удаляет проект. Каскад по командам и комментариям - в схеме.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func scanProjects(rows pgx.Rows) ([]*model.Project, error) {
	var projects []*model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

func scanProject(row pgx.Row) (*model.Project, error) {
	var (
		project model.Project
		status  string
		admin   model.User
	)
	err := row.Scan(
		&project.ID, &project.Title, &project.Description, &project.AdminID,
		&status, &project.Deadline, &project.CreatedAt,
		&admin.Name, &admin.Email,
	)
	if err != nil {
		return nil, err
	}
	project.Status = model.ProjectStatus(status)
	admin.ID = project.AdminID
	admin.Role = model.RoleAdmin
	project.Admin = &admin

	return &project, nil
}
