package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/mention"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/mailx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

// FanoutService turns a persisted comment into COMMENT_MENTION
// notifications for every user matched by the comment's @-mentions.
type FanoutService struct {
	Store         store.Store
	Notifications *NotificationService
	Mailer        mailx.Mailer

	// BaseURL prefixes deep links in mention emails, e.g.
	// "https://taskdeck.example.com".
	BaseURL string
}

// FanOutMentions parses the comment body once, resolves each mention
// token to candidate users, and delivers at most one in-app
// notification and at most one email per distinct recipient. The
// comment author never notifies themselves. Store failures surface to
// the caller; email failures are logged and absorbed so a flaky SMTP
// relay cannot fail the request.
func (s *FanoutService) FanOutMentions(ctx context.Context, comment domain.Comment) error {
	log := slogx.FromContext(ctx)

	tokens := mention.Parse(comment.Body)
	if len(tokens) == 0 {
		return nil
	}

	actor, err := s.Store.Users().GetUserByID(ctx, comment.AuthorID)
	if err != nil {
		return err
	}

	var taskTitle string
	if comment.TaskID != "" {
		task, err := s.Store.Tasks().GetTaskByID(ctx, comment.TaskID)
		if err != nil {
			return err
		}
		taskTitle = task.Title
	}

	// Union of candidates across all tokens, deduplicated by user ID so
	// a user matched by several tokens still receives a single
	// notification.
	seen := make(map[string]struct{})
	var recipients []domain.User

	for _, token := range tokens {
		candidates, err := s.resolveMention(ctx, token)
		if err != nil {
			return err
		}
		for _, u := range candidates {
			if u.ID == comment.AuthorID {
				continue
			}
			if _, ok := seen[u.ID]; ok {
				continue
			}
			seen[u.ID] = struct{}{}
			recipients = append(recipients, u)
		}
	}

	for _, recipient := range recipients {
		inApp, email, err := s.Notifications.ChannelsFor(ctx, recipient.ID, domain.KindCommentMention)
		if err != nil {
			return err
		}

		if inApp {
			_, err := s.Notifications.Notify(ctx, domain.Notification{
				UserID:    recipient.ID,
				Kind:      domain.KindCommentMention,
				Title:     actor.Name + " mentioned you",
				Message:   comment.Body,
				TaskID:    comment.TaskID,
				CommentID: comment.ID,
				ActorID:   comment.AuthorID,
			})
			if err != nil {
				return err
			}
		}

		if email {
			msg := mailx.MentionEmail{
				ActorName:   actor.Name,
				CommentBody: comment.Body,
				TaskTitle:   taskTitle,
				Link:        s.taskLink(comment.TaskID),
			}
			if err := s.Mailer.SendMentionEmail(ctx, recipient.Email, msg); err != nil {
				log.Warn("mention email delivery failed",
					slog.String("user_id", recipient.ID),
					slog.String("comment_id", comment.ID),
					slog.Any("error", err),
				)
			}
		}
	}

	log.Debug("mention fanout completed",
		slog.String("comment_id", comment.ID),
		slog.Int("tokens", len(tokens)),
		slog.Int("recipients", len(recipients)),
	)

	return nil
}

// resolveMention maps one token to candidate users. Email-shaped terms
// resolve by exact address plus a contains match so a partial address
// still finds its user; plain terms match against name or email
// substrings. All candidates are notified rather than attempting to
// pick a single winner.
func (s *FanoutService) resolveMention(ctx context.Context, token string) ([]domain.User, error) {
	term := mention.Term(token)
	if term == "" {
		return nil, nil
	}

	if mention.EmailShaped(term) {
		var out []domain.User
		ids := make(map[string]struct{})

		exact, err := s.Store.Users().GetUserByEmail(ctx, term)
		if err == nil {
			ids[exact.ID] = struct{}{}
			out = append(out, exact)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		partial, err := s.Store.Users().SearchByEmailContains(ctx, term)
		if err != nil {
			return nil, err
		}
		for _, u := range partial {
			if _, ok := ids[u.ID]; ok {
				continue
			}
			out = append(out, u)
		}
		return out, nil
	}

	return s.Store.Users().SearchByNameOrEmail(ctx, term)
}

func (s *FanoutService) taskLink(taskID string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	return base + "/tasks/" + taskID
}
