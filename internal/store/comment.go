package store

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/internal/gateway"
	"github.com/campusboard/campusboard/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommentLog - append-ordered лог обсуждения проекта. Add дописывает
// подтверждённую строку в хвост, существующие записи никогда не
// изменяются и не переупорядочиваются.
type CommentLog struct {
	gw     *gateway.Gateway
	logger *zap.Logger

	comments []*model.Comment
}

func NewCommentLog(gw *gateway.Gateway, logger *zap.Logger) *CommentLog {
	return &CommentLog{gw: gw, logger: logger}
}

func (s *CommentLog) Comments() []*model.Comment { return s.comments }

// Fetch загружает комментарии проекта по возрастанию created_at.
func (s *CommentLog) Fetch(ctx context.Context, projectID uuid.UUID) error {
	comments, err := s.gw.Comments.ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("fetch comments: %w", err)
	}
	s.comments = comments
	return nil
}

// Add дописывает подтверждённый комментарий в хвост лога.
func (s *CommentLog) Add(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	inserted, err := s.gw.Comments.Insert(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	s.comments = append(s.comments, inserted)
	return inserted, nil
}

// Delete убирает комментарий из локального лога после подтверждения.
func (s *CommentLog) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.gw.Comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.comments = kept
	return nil
}
