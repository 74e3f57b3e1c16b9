package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/repository/dao"
)

var (
	ErrCommentNotFound = dao.ErrCommentNotFound
)

type CommentDAO interface {
	Insert(ctx context.Context, comment dao.Comment) (dao.Comment, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.CommentRow, error)
	Delete(ctx context.Context, id uint) error
}

type CommentRepository struct {
	dao CommentDAO
}

func NewCommentRepository(dao CommentDAO) *CommentRepository {
	return &CommentRepository{
		dao: dao,
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	created, err := r.dao.Insert(ctx, dao.Comment{
		EventID: comment.EventID,
		UserID:  comment.UserID,
		Content: comment.Content,
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	comment.ID = created.ID
	comment.CreatedAt = created.CreatedAt
	return comment, nil
}

func (r *CommentRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Comment, error) {
	rows, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	comments := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, domain.Comment{
			ID:        row.ID,
			EventID:   row.EventID,
			UserID:    row.UserID,
			Content:   row.Content,
			Author:    row.Author,
			Email:     row.Email,
			CreatedAt: row.CreatedAt,
		})
	}

	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
