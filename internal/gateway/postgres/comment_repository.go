package postgres

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

const commentSelect = `
	SELECT c.id, c.project_id, c.user_id, c.content, c.created_at,
	       u.name, u.email
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

// ListByProject получает комментарии проекта по возрастанию created_at.
func (r *CommentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Comment, error) {
	rows, err := r.pool.Query(ctx, commentSelect+` WHERE c.project_id = $1 ORDER BY c.created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// Insert создаёт комментарий и возвращает его с join-проекцией автора.
func (r *CommentRepository) Insert(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`INSERT INTO comments (id, project_id, user_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		newID(&comment.ID), comment.ProjectID, comment.UserID, comment.Content,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", translateError(err))
	}

	row := r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id)
	inserted, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("read inserted comment: %w", err)
	}
	return inserted, nil
}

// Delete удаляет комментарий по ID.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var (
		comment model.Comment
		user    model.User
	)
	err := row.Scan(
		&comment.ID, &comment.ProjectID, &comment.UserID, &comment.Content, &comment.CreatedAt,
		&user.Name, &user.Email,
	)
	if err != nil {
		return nil, err
	}
	user.ID = comment.UserID
	comment.User = &user

	return &comment, nil
}
