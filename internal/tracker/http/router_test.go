package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/service"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/internal/tracker/store/drivers/sqlite"
	"github.com/harborcrew/taskdeck/pkg/httpx"
	"github.com/harborcrew/taskdeck/pkg/idx"
	"github.com/harborcrew/taskdeck/pkg/mailx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var testAuthSecret = []byte("router-test-secret")

const testMaintenanceSecret = "maintenance-secret"

func newTestRouter(t *testing.T) (*Router, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slogx.New(slogx.Config{Level: "error", Format: "text"})

	notifications := &service.NotificationService{Store: st}
	fanout := &service.FanoutService{
		Store:         st,
		Notifications: notifications,
		Mailer:        mailx.NopMailer{},
		BaseURL:       "https://taskdeck.test",
	}

	r := NewRouter(testAuthSecret, testMaintenanceSecret, "test", st, logger)
	r.CommentService = &service.CommentService{Store: st, Fanout: fanout}
	r.NotificationService = notifications
	r.MembershipService = &service.MembershipService{Store: st, Invalidator: service.NopInvalidator{}}
	r.InvitationService = &service.InvitationService{Store: st}
	r.ApplyRoutes()

	return r, st
}

func seedRouterUser(t *testing.T, st store.Store, name, email string, role domain.Role) domain.User {
	t.Helper()

	u := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func authHeader(t *testing.T, u domain.User) string {
	t.Helper()

	token, err := httpx.SignAccessToken(testAuthSecret, u.ID, string(u.Role), time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r *Router, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCommentEndpoints(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()

	author := seedRouterUser(t, st, "Alice", "alice@example.com", domain.RoleUser)
	mentioned := seedRouterUser(t, st, "Chris", "chris@example.com", domain.RoleUser)

	job := domain.Job{ID: idx.New().String(), Name: "Acme refit", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Jobs().CreateJob(ctx, job))
	task := domain.Task{ID: idx.New().String(), JobID: job.ID, Title: "Wire kitchen", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Tasks().CreateTask(ctx, task))

	t.Run("requires authentication", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/comments", "", map[string]string{
			"task_id": task.ID, "body": "hello",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create fans out mentions", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/comments", authHeader(t, author), map[string]string{
			"task_id": task.ID, "body": "@chris have a look",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			ID       string `json:"id"`
			AuthorID string `json:"author_id"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, author.ID, resp.AuthorID)

		inbox, err := st.Notifications().ListForUser(ctx, mentioned.ID, false)
		require.NoError(t, err)
		require.Len(t, inbox, 1)
	})

	t.Run("unknown task is 404", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/comments", authHeader(t, author), map[string]string{
			"task_id": "missing", "body": "hello",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list returns the task's comments", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/v1/tasks/"+task.ID+"/comments", authHeader(t, author), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var comments []commentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&comments))
		require.Len(t, comments, 1)
	})
}

func TestNotificationEndpoints(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()

	owner := seedRouterUser(t, st, "Chris", "chris@example.com", domain.RoleUser)
	other := seedRouterUser(t, st, "Dana", "dana@example.com", domain.RoleUser)

	n, err := r.NotificationService.Notify(ctx, domain.Notification{
		UserID:  owner.ID,
		Kind:    domain.KindCommentMention,
		Title:   "Alice mentioned you",
		Message: "@chris hello",
	})
	require.NoError(t, err)

	t.Run("list includes unread count", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/v1/notifications", authHeader(t, owner), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp notificationListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Notifications, 1)
		require.Equal(t, 1, resp.UnreadCount)
	})

	t.Run("other users cannot mark it read", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/notifications/"+n.ID+"/read", authHeader(t, other), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("owner marks it read", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/notifications/"+n.ID+"/read", authHeader(t, owner), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		count, err := r.NotificationService.CountUnread(ctx, owner.ID)
		require.NoError(t, err)
		require.Zero(t, count)
	})
}

func TestMemberAccessEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	ctx := context.Background()

	admin := seedRouterUser(t, st, "Admin", "admin@example.com", domain.RoleAdmin)
	regular := seedRouterUser(t, st, "Bob", "bob@example.com", domain.RoleUser)
	victim := seedRouterUser(t, st, "Chris", "chris@example.com", domain.RoleUser)

	job := domain.Job{ID: idx.New().String(), Name: "Acme refit", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.Jobs().CreateJob(ctx, job))
	require.NoError(t, st.Memberships().AddJobCollaborator(ctx, job.ID, victim.ID))

	t.Run("regular users are forbidden", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, "/v1/members/"+victim.ID+"/access", authHeader(t, regular), nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("self removal is rejected", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, "/v1/members/"+admin.ID+"/access", authHeader(t, admin), nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin cascade removes access", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, "/v1/members/"+victim.ID+"/access", authHeader(t, admin), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result service.CascadeResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		require.EqualValues(t, 1, result.JobCollaborators)
		require.Equal(t, []string{job.ID}, result.AffectedJobIDs)
	})
}

func TestInvitationEndpoints(t *testing.T) {
	r, st := newTestRouter(t)

	admin := seedRouterUser(t, st, "Admin", "admin@example.com", domain.RoleAdmin)
	regular := seedRouterUser(t, st, "Bob", "bob@example.com", domain.RoleUser)

	t.Run("minting requires an admin role", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/invitations", authHeader(t, regular), map[string]string{
			"email": "new@example.com",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	var token string

	t.Run("admin mints an invitation", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/invitations", authHeader(t, admin), map[string]string{
			"email": "new@example.com",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp mintInvitationResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotEmpty(t, resp.Token)
		require.Equal(t, string(domain.RoleUser), resp.Role)
		token = resp.Token
	})

	t.Run("accept is public and creates the account", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/invitations/accept", "", map[string]string{
			"token": token, "name": "New Hire", "password": "long-enough",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp acceptInvitationResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, "new@example.com", resp.Email)
	})

	t.Run("second accept conflicts", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/invitations/accept", "", map[string]string{
			"token": token, "name": "Late", "password": "long-enough",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("cancel of a missing invitation is 404", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodDelete, "/v1/invitations/"+idx.New().String(), authHeader(t, admin), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMaintenanceEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("rejects a missing secret", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/maintenance/retention-sweep", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("runs the sweep with the shared secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/maintenance/retention-sweep", nil)
		req.Header.Set("Authorization", "Bearer "+testMaintenanceSecret)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp retentionSweepResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Zero(t, resp.Deleted)
	})
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/livez", "/readyz"} {
		rec := doJSON(t, r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp healthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, "ok", resp.Status)
	}
}
