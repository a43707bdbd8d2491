package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/harborcrew/taskdeck/internal/tracker/domain"
	"github.com/harborcrew/taskdeck/internal/tracker/service"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/pkg/httpx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	authSecret        []byte
	maintenanceSecret string
	buildVersion      string
	startTime         time.Time
	logger            *slog.Logger

	store               store.Store
	CommentService      *service.CommentService
	NotificationService *service.NotificationService
	MembershipService   *service.MembershipService
	InvitationService   *service.InvitationService
}

func NewRouter(
	authSecret []byte,
	maintenanceSecret, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:               http.NewServeMux(),
		authSecret:        authSecret,
		maintenanceSecret: maintenanceSecret,
		buildVersion:      buildVersion,
		startTime:         time.Now(),
		store:             st,
		logger:            logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerComments()
	r.registerNotifications()
	r.registerMembers()
	r.registerInvitations()
	r.registerMaintenance()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerComments() {
	h := &CommentsHandler{CommentService: r.CommentService}

	r.Mux.Handle("POST /v1/comments",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.authSecret),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/tasks/{id}/comments",
		httpx.Chain(http.HandlerFunc(h.HandleListForTask),
			httpx.AuthnMiddleware(r.authSecret),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerNotifications() {
	h := &NotificationsHandler{NotificationService: r.NotificationService}

	r.Mux.Handle("GET /v1/notifications",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.authSecret),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /v1/notifications/{id}/read",
		httpx.Chain(http.HandlerFunc(h.HandleMarkRead),
			httpx.AuthnMiddleware(r.authSecret),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerMembers() {
	h := &MembersHandler{MembershipService: r.MembershipService}

	// Admin-only: cascading access removal is destructive.
	r.Mux.Handle("DELETE /v1/members/{id}/access",
		httpx.Chain(http.HandlerFunc(h.HandleRemoveAccess),
			httpx.AuthnMiddleware(r.authSecret),
			httpx.RequireAnyRole(string(domain.RoleOwner), string(domain.RoleAdmin)),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(http.HandlerFunc(h.HandleMint),
			httpx.AuthnMiddleware(r.authSecret),
			httpx.RequireAnyRole(string(domain.RoleOwner), string(domain.RoleAdmin)),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("DELETE /v1/invitations/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleCancel),
			httpx.AuthnMiddleware(r.authSecret),
			httpx.RequireAnyRole(string(domain.RoleOwner), string(domain.RoleAdmin)),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Public signup endpoint - strict rate limit by IP.
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerMaintenance() {
	h := &MaintenanceHandler{NotificationService: r.NotificationService}

	r.Mux.Handle("POST /v1/maintenance/retention-sweep",
		httpx.Chain(http.HandlerFunc(h.HandleRetentionSweep),
			httpx.RequireSharedSecret(r.maintenanceSecret),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
