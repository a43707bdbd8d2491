package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/internal/tracker/store/drivers/sqlite"
	"github.com/harborcrew/taskdeck/pkg/idx"
	"github.com/harborcrew/taskdeck/pkg/mailx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, name, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Name:      name,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedJobAndTask(t *testing.T, st store.Store, jobName, taskTitle string) (domain.Job, domain.Task) {
	t.Helper()
	ctx := context.Background()

	job := domain.Job{ID: idx.New().String(), Name: jobName, CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Jobs().CreateJob(ctx, job))

	task := domain.Task{ID: idx.New().String(), JobID: job.ID, Title: taskTitle, CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Tasks().CreateTask(ctx, task))

	return job, task
}

func boolPtr(b bool) *bool { return &b }

var errTestSMTP = errors.New("smtp: relay unavailable")

// recordingMailer captures outgoing mention emails instead of sending them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail

	// failWith, when set, is returned from every send.
	failWith error
}

type sentEmail struct {
	To      string
	Message mailx.MentionEmail
}

func (m *recordingMailer) SendMentionEmail(_ context.Context, to string, msg mailx.MentionEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentEmail{To: to, Message: msg})
	return nil
}

func (m *recordingMailer) emailsTo(addr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.sent {
		if e.To == addr {
			n++
		}
	}
	return n
}
