package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/idx"
)

var ErrEmptyComment = errors.New("comment body is empty")

type CommentService struct {
	Store  store.Store
	Fanout *FanoutService
}

// Create persists a comment on a task and fans out mention
// notifications. The comment is committed before fanout starts, so a
// fanout failure never loses the comment itself; the error is still
// returned so the caller can retry delivery.
func (s *CommentService) Create(
	ctx context.Context,
	taskID, authorID, body string,
) (domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return domain.Comment{}, ErrEmptyComment
	}

	// taskID is optional; when present it must exist.
	if taskID != "" {
		if _, err := s.Store.Tasks().GetTaskByID(ctx, taskID); err != nil {
			return domain.Comment{}, err
		}
	}

	comment := domain.Comment{
		ID:        idx.New().String(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.Comments().CreateComment(ctx, comment); err != nil {
		return domain.Comment{}, err
	}

	if err := s.Fanout.FanOutMentions(ctx, comment); err != nil {
		return comment, err
	}

	return comment, nil
}

// ListForTask returns a task's comments, oldest first.
func (s *CommentService) ListForTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	return s.Store.Comments().ListForTask(ctx, taskID)
}
