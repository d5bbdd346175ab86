package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/service/location"
)

type syncCoordinator interface {
	Sync(ctx context.Context, placeID string, opts domain.SyncOptions) (domain.SyncResult, error)
	Status() domain.SyncStatus
}

type selectionSource interface {
	Current() location.Selection
}

// SyncHandler triggers syncs and reports sync status.
type SyncHandler struct {
	coord     syncCoordinator
	selection selectionSource
	log       *slog.Logger
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(coord syncCoordinator, selection selectionSource, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{coord: coord, selection: selection, log: logger.With("handler", "sync")}
}

type syncRequest struct {
	PlaceID string `json:"place_id"`
	domain.SyncOptions
}

// Sync handles POST /api/sync. The body is optional; without a place_id the
// selected place is synced.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSON(r, &req, true); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	placeID := req.PlaceID
	if placeID == "" {
		sel := h.selection.Current()
		if sel.Place == nil {
			handleError(h.log, w, r, location.ErrNoSelection)
			return
		}
		placeID = sel.Place.PlaceID
	}

	res, err := h.coord.Sync(r.Context(), placeID, req.SyncOptions)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		SyncResult:   res,
		PlaceID:      placeID,
		Deduplicated: res.IsZero(),
	})
}

// Status handles GET /api/sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coord.Status())
}
