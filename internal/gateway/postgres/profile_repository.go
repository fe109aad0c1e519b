package postgres

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StudentProfileRepository struct {
	pool *pgxpool.Pool
}

func NewStudentProfileRepository(pool *pgxpool.Pool) *StudentProfileRepository {
	return &StudentProfileRepository{pool: pool}
}

// Insert создаёт студенческий профиль.
func (r *StudentProfileRepository) Insert(ctx context.Context, profile *model.StudentProfile) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO student_profiles (id, user_id, college_name, semester, section, usn)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		newID(&profile.ID), profile.UserID, profile.CollegeName, profile.Semester, profile.Section, profile.USN,
	).Scan(&profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("create student profile: %w", translateError(err))
	}
	return nil
}

// Upsert вставляет или обновляет профиль по user_id. Используется при
// дозаполнении профиля после регистрации.
func (r *StudentProfileRepository) Upsert(ctx context.Context, profile *model.StudentProfile) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO student_profiles (id, user_id, college_name, semester, section, usn)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE
		 SET college_name = EXCLUDED.college_name,
		     semester     = EXCLUDED.semester,
		     section      = EXCLUDED.section,
		     usn          = EXCLUDED.usn
		 RETURNING id, created_at`,
		newID(&profile.ID), profile.UserID, profile.CollegeName, profile.Semester, profile.Section, profile.USN,
	).Scan(&profile.ID, &profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert student profile: %w", translateError(err))
	}
	return nil
}

// GetByUserID получает профиль по id пользователя. Ноль строк - nil, nil:
// отсутствие профиля - валидное состояние.
func (r *StudentProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, college_name, semester, section, usn, created_at
		 FROM student_profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.ID, &profile.UserID, &profile.CollegeName, &profile.Semester, &profile.Section, &profile.USN, &profile.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student profile: %w", err)
	}

	return &profile, nil
}

// newID заполняет нулевой uuid новым значением и возвращает его.
func newID(id *uuid.UUID) uuid.UUID {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	return *id
}
