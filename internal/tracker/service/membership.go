package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

var ErrSelfRemoval = errors.New("cannot remove your own access")

// ViewInvalidator receives the set of jobs whose board views must be
// refreshed after a membership cascade. Implementations must tolerate
// job IDs the user was only attached to via task assignments.
type ViewInvalidator interface {
	InvalidateJobs(ctx context.Context, jobIDs []string)
}

// NopInvalidator discards invalidation hints.
type NopInvalidator struct{}

func (NopInvalidator) InvalidateJobs(context.Context, []string) {}

// LogInvalidator records the affected jobs without refreshing anything.
// Stands in until a real board-view cache exists.
type LogInvalidator struct{}

func (LogInvalidator) InvalidateJobs(ctx context.Context, jobIDs []string) {
	slogx.FromContext(ctx).Info("job views invalidated", slog.Int("jobs", len(jobIDs)))
}

// CascadeResult reports what a membership cascade removed.
type CascadeResult struct {
	TaskAssignments  int64    `json:"task_assignments"`
	JobCollaborators int64    `json:"job_collaborators"`
	AffectedJobIDs   []string `json:"affected_job_ids"`
}

type MembershipService struct {
	Store       store.Store
	Invalidator ViewInvalidator
}

// AddJobCollaborator attaches a user to a job. Re-adding is a no-op.
func (s *MembershipService) AddJobCollaborator(ctx context.Context, jobID, userID string) error {
	return s.Store.Memberships().AddJobCollaborator(ctx, jobID, userID)
}

// AddTaskAssignee attaches a user to a task. Re-adding is a no-op.
func (s *MembershipService) AddTaskAssignee(ctx context.Context, taskID, userID string) error {
	return s.Store.Memberships().AddTaskAssignee(ctx, taskID, userID)
}

// RemoveUserFromAllAccess strips every task assignment and job
// collaboration the user holds, in one transaction. The affected job
// IDs are captured before deletion, since they are unrecoverable
// afterwards, and handed to the invalidator only once the transaction
// has committed. An actor removing themselves is rejected.
func (s *MembershipService) RemoveUserFromAllAccess(
	ctx context.Context,
	actorID, userID string,
) (CascadeResult, error) {
	log := slogx.FromContext(ctx)

	if actorID == userID {
		return CascadeResult{}, ErrSelfRemoval
	}

	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return CascadeResult{}, err
	}

	var result CascadeResult

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		directJobs, err := tx.Memberships().ListJobIDsForUser(ctx, userID)
		if err != nil {
			return err
		}
		taskJobs, err := tx.Memberships().ListJobIDsForUserTasks(ctx, userID)
		if err != nil {
			return err
		}
		result.AffectedJobIDs = unionStrings(directJobs, taskJobs)

		result.TaskAssignments, err = tx.Memberships().DeleteTaskAssigneesForUser(ctx, userID)
		if err != nil {
			return err
		}
		result.JobCollaborators, err = tx.Memberships().DeleteJobCollaboratorsForUser(ctx, userID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Error("membership cascade failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return CascadeResult{}, err
	}

	if s.Invalidator != nil && len(result.AffectedJobIDs) > 0 {
		s.Invalidator.InvalidateJobs(ctx, result.AffectedJobIDs)
	}

	log.Info("membership cascade completed",
		slog.String("user_id", userID),
		slog.Int64("task_assignments", result.TaskAssignments),
		slog.Int64("job_collaborators", result.JobCollaborators),
		slog.Int("affected_jobs", len(result.AffectedJobIDs)),
	)

	return result, nil
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range b {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
