package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeamMemberRepository struct {
	pool *pgxpool.Pool
}

func NewTeamMemberRepository(pool *pgxpool.Pool) *TeamMemberRepository {
	return &TeamMemberRepository{pool: pool}
}

const memberSelect = `
	SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.created_at,
	       u.email, u.name, u.role, u.created_at,
	       p.id, p.college_name, p.semester, p.section, p.usn, p.created_at
	FROM team_members tm
	JOIN users u ON u.id = tm.user_id
	LEFT JOIN student_profiles p ON p.user_id = tm.user_id
`

// ListByTeam получает membership-строки команды с пользователем и
// необязательным студенческим профилем.
func (r *TeamMemberRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.TeamMember, error) {
	rows, err := r.pool.Query(ctx, memberSelect+` WHERE tm.team_id = $1 ORDER BY tm.created_at`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var members []*model.TeamMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}

	return members, nil
}

// Insert добавляет участника и возвращает строку уже с join-проекцией.
// Повторное добавление пользователя в команду нарушает уникальность
// (team_id, user_id).
func (r *TeamMemberRepository) Insert(ctx context.Context, member *model.TeamMember) (*model.TeamMember, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO team_members (id, team_id, user_id, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		newID(&member.ID), member.TeamID, member.UserID, member.Role,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create team member: %w", translateError(err))
	}

	row := r.pool.QueryRow(ctx, memberSelect+` WHERE tm.id = $1`, id)
	inserted, err := scanMember(row)
	if err != nil {
		return nil, fmt.Errorf("read inserted team member: %w", err)
	}
	return inserted, nil
}

// Delete удаляет по id membership-строки.
func (r *TeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	return nil
}

func scanMember(row pgx.Row) (*model.TeamMember, error) {
	var (
		member    model.TeamMember
		user      model.User
		userRole  string
		profileID *uuid.UUID
		college   *string
		semester  *int
		section   *string
		usn       *string
		createdAt *time.Time
	)
	err := row.Scan(
		&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.CreatedAt,
		&user.Email, &user.Name, &userRole, &user.CreatedAt,
		&profileID, &college, &semester, &section, &usn, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	user.ID = member.UserID
	user.Role = model.Role(userRole)
	member.User = &user

	if profileID != nil {
		member.Profile = &model.StudentProfile{
			ID:          *profileID,
			UserID:      member.UserID,
			CollegeName: *college,
			Semester:    *semester,
			Section:     *section,
			USN:         *usn,
			CreatedAt:   *createdAt,
		}
	}

	return &member, nil
}
