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

type TeamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

// ListByProject получает команды проекта, новые первыми.
func (r *TeamRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, project_id, deadline, created_at
		 FROM teams WHERE project_id = $1
		 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []*model.Team
	for rows.Next() {
		var team model.Team
		err := rows.Scan(&team.ID, &team.Name, &team.Description, &team.ProjectID, &team.Deadline, &team.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}

	return teams, nil
}

// GetByID получает команду по ID. Ноль строк - nil, nil.
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, project_id, deadline, created_at
		 FROM teams WHERE id = $1`,
		id,
	).Scan(&team.ID, &team.Name, &team.Description, &team.ProjectID, &team.Deadline, &team.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get team by id: %w", err)
	}

	return &team, nil
}

// Insert создаёт команду.
func (r *TeamRepository) Insert(ctx context.Context, team *model.Team) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teams (id, name, description, project_id, deadline)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		newID(&team.ID), team.Name, team.Description, team.ProjectID, team.Deadline,
	).Scan(&team.CreatedAt)
	if err != nil {
		return fmt.Errorf("create team: %w", translateError(err))
	}
	return nil
}

// Update применяет частичный патч. Пустой патч - no-op.
func (r *TeamRepository) Update(ctx context.Context, id uuid.UUID, patch model.TeamPatch) error {
	if patch.Empty() {
		return nil
	}

	set := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	add := func(col string, val interface{}) {
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Deadline != nil {
		add("deadline", *patch.Deadline)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE teams SET %s WHERE id = $%d`, strings.Join(set, ", "), len(args))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team: %w", translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update team %s: %w", id, gateway.ErrNotFound)
	}
	return nil
}

// Delete удаляет команду, membership-записи уходят каскадом в схеме.
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}
