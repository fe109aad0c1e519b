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

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Insert создаёт запись пользователя. ID задаёт вызывающий - он совпадает
// с id идентичности.
func (r *UserRepository) Insert(ctx context.Context, user *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		user.ID, user.Email, user.Name, string(user.Role),
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", translateError(err))
	}
	return nil
}

// GetByID получает пользователя по ID. Ноль строк - nil, nil.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, role, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.Name, &role, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	user.Role = model.Role(role)

	return &user, nil
}

const studentSelect = `
	SELECT u.id, u.email, u.name, u.role, u.created_at,
	       p.id, p.college_name, p.semester, p.section, p.usn, p.created_at
	FROM users u
	LEFT JOIN student_profiles p ON p.user_id = u.id
	WHERE u.role = 'student'
`

// ListStudents получает всех студентов с необязательным профилем, по имени.
func (r *UserRepository) ListStudents(ctx context.Context) ([]*model.Student, error) {
	rows, err := r.pool.Query(ctx, studentSelect+` ORDER BY u.name`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// SearchStudents - регистронезависимый substring-поиск по имени и email.
func (r *UserRepository) SearchStudents(ctx context.Context, query string) ([]*model.Student, error) {
	rows, err := r.pool.Query(ctx,
		studentSelect+` AND (u.name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%') ORDER BY u.name`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func scanStudents(rows pgx.Rows) ([]*model.Student, error) {
	var students []*model.Student
	for rows.Next() {
		var (
			student   model.Student
			role      string
			profileID *uuid.UUID
			college   *string
			semester  *int
			section   *string
			usn       *string
			createdAt *time.Time
		)
		err := rows.Scan(
			&student.ID, &student.Email, &student.Name, &role, &student.CreatedAt,
			&profileID, &college, &semester, &section, &usn, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		student.Role = model.Role(role)

		if profileID != nil {
			student.Profile = &model.StudentProfile{
				ID:          *profileID,
				UserID:      student.ID,
				CollegeName: *college,
				Semester:    *semester,
				Section:     *section,
				USN:         *usn,
				CreatedAt:   *createdAt,
			}
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	return students, nil
}
