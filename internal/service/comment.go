package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vietanh2810/volunteer-api/internal/authz"
	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/repository"
)

var (
	ErrCommentNotFound = repository.ErrCommentNotFound
)

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type CommentService struct {
	repo       CommentRepository
	events     EventFinder
	authorizer *authz.Authorizer
}

func NewCommentService(repo CommentRepository, events EventFinder, authorizer *authz.Authorizer) *CommentService {
	return &CommentService{
		repo:       repo,
		events:     events,
		authorizer: authorizer,
	}
}

func (s *CommentService) List(ctx context.Context, actor domain.Actor, eventID uint) ([]domain.Comment, error) {
	if err := s.authorizer.Authorize(actor, authz.ViewComments, nil).Err(); err != nil {
		return nil, err
	}
	if err := s.findVisible(ctx, actor, eventID); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return comments, nil
}

func (s *CommentService) Post(ctx context.Context, actor domain.Actor, eventID uint, content string) (domain.Comment, error) {
	if err := s.authorizer.Authorize(actor, authz.PostComment, nil).Err(); err != nil {
		return domain.Comment{}, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	if err := s.findVisible(ctx, actor, eventID); err != nil {
		return domain.Comment{}, err
	}

	created, err := s.repo.Create(ctx, domain.Comment{
		EventID: eventID,
		UserID:  actor.ID,
		Content: content,
		Email:   actor.Email,
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CommentService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	if err := s.authorizer.Authorize(actor, authz.DeleteComment, nil).Err(); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *CommentService) findVisible(ctx context.Context, actor domain.Actor, eventID uint) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.events.FindByID -> %w", err)
	}
	if !visible(s.authorizer, actor, event) {
		return ErrEventNotFound
	}

	return nil
}
