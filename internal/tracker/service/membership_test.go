package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	calls [][]string
}

func (r *recordingInvalidator) InvalidateJobs(_ context.Context, jobIDs []string) {
	r.calls = append(r.calls, jobIDs)
}

func TestRemoveUserFromAllAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("removes every assignment and collaboration", func(t *testing.T) {
		st := newTestStore(t)
		inv := &recordingInvalidator{}
		svc := &MembershipService{Store: st, Invalidator: inv}

		admin := seedUser(t, st, "Admin", "admin@example.com")
		victim := seedUser(t, st, "Chris", "chris@example.com")

		jobA, taskA := seedJobAndTask(t, st, "Acme refit", "Wire kitchen")
		jobB, taskB := seedJobAndTask(t, st, "Beta build", "Pour slab")

		// Direct collaborator on job A, task assignee on both jobs' tasks.
		require.NoError(t, svc.AddJobCollaborator(ctx, jobA.ID, victim.ID))
		require.NoError(t, svc.AddTaskAssignee(ctx, taskA.ID, victim.ID))
		require.NoError(t, svc.AddTaskAssignee(ctx, taskB.ID, victim.ID))

		result, err := svc.RemoveUserFromAllAccess(ctx, admin.ID, victim.ID)
		require.NoError(t, err)
		require.EqualValues(t, 2, result.TaskAssignments)
		require.EqualValues(t, 1, result.JobCollaborators)

		// Job B is affected via the task assignment alone.
		require.ElementsMatch(t, []string{jobA.ID, jobB.ID}, result.AffectedJobIDs)
		require.Len(t, inv.calls, 1)
		require.ElementsMatch(t, []string{jobA.ID, jobB.ID}, inv.calls[0])

		jobs, err := st.Memberships().ListJobIDsForUser(ctx, victim.ID)
		require.NoError(t, err)
		require.Empty(t, jobs)

		tasks, err := st.Memberships().ListTaskIDsForUser(ctx, victim.ID)
		require.NoError(t, err)
		require.Empty(t, tasks)
	})

	t.Run("second run removes nothing", func(t *testing.T) {
		st := newTestStore(t)
		svc := &MembershipService{Store: st, Invalidator: NopInvalidator{}}

		admin := seedUser(t, st, "Admin", "admin@example.com")
		victim := seedUser(t, st, "Chris", "chris@example.com")
		jobA, taskA := seedJobAndTask(t, st, "Acme refit", "Wire kitchen")

		require.NoError(t, svc.AddJobCollaborator(ctx, jobA.ID, victim.ID))
		require.NoError(t, svc.AddTaskAssignee(ctx, taskA.ID, victim.ID))

		_, err := svc.RemoveUserFromAllAccess(ctx, admin.ID, victim.ID)
		require.NoError(t, err)

		result, err := svc.RemoveUserFromAllAccess(ctx, admin.ID, victim.ID)
		require.NoError(t, err)
		require.Zero(t, result.TaskAssignments)
		require.Zero(t, result.JobCollaborators)
		require.Empty(t, result.AffectedJobIDs)
	})

	t.Run("actor cannot remove themselves", func(t *testing.T) {
		st := newTestStore(t)
		svc := &MembershipService{Store: st}

		admin := seedUser(t, st, "Admin", "admin@example.com")

		_, err := svc.RemoveUserFromAllAccess(ctx, admin.ID, admin.ID)
		require.ErrorIs(t, err, ErrSelfRemoval)
	})

	t.Run("unknown user is an error", func(t *testing.T) {
		st := newTestStore(t)
		svc := &MembershipService{Store: st}

		admin := seedUser(t, st, "Admin", "admin@example.com")

		_, err := svc.RemoveUserFromAllAccess(ctx, admin.ID, "no-such-user")
		require.Error(t, err)
	})

	t.Run("re-adding a membership is a no-op", func(t *testing.T) {
		st := newTestStore(t)
		svc := &MembershipService{Store: st}

		victim := seedUser(t, st, "Chris", "chris@example.com")
		jobA, _ := seedJobAndTask(t, st, "Acme refit", "Wire kitchen")

		require.NoError(t, svc.AddJobCollaborator(ctx, jobA.ID, victim.ID))
		require.NoError(t, svc.AddJobCollaborator(ctx, jobA.ID, victim.ID))

		jobs, err := st.Memberships().ListJobIDsForUser(ctx, victim.ID)
		require.NoError(t, err)
		require.Equal(t, []string{jobA.ID}, jobs)
	})
}
