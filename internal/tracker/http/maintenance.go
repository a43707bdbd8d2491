package http

import (
	"net/http"

	"github.com/harborcrew/taskdeck/internal/tracker/service"
	"github.com/harborcrew/taskdeck/pkg/httpx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

type MaintenanceHandler struct {
	NotificationService *service.NotificationService
}

type retentionSweepResponse struct {
	Deleted int64 `json:"deleted"`
}

// HandleRetentionSweep triggers the read-notification sweep on demand.
// Guarded by the shared maintenance secret; the periodic housekeeping
// worker runs the same sweep on its own schedule.
func (h *MaintenanceHandler) HandleRetentionSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	deleted, err := h.NotificationService.SweepRead(ctx)
	if err != nil {
		log.Error("retention sweep failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Retention sweep failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, retentionSweepResponse{Deleted: deleted})
}
