package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
	"github.com/ecoscan/wastecal/internal/service/location"
)

type locationService interface {
	Current() location.Selection
	Select(ctx context.Context, c provider.PlaceCandidate) (*domain.Place, *location.Task, error)
	Clear(ctx context.Context) error
	Suggest(ctx context.Context, query string) []domain.Place
}

type placeLister interface {
	List(ctx context.Context, limit, offset int) ([]domain.Place, error)
}

// LocationHandler serves the selected place, suggestions and the place cache.
type LocationHandler struct {
	svc    locationService
	places placeLister
	log    *slog.Logger
}

// NewLocationHandler creates a LocationHandler.
func NewLocationHandler(svc locationService, places placeLister, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{svc: svc, places: places, log: logger.With("handler", "location")}
}

type selectionResponse struct {
	State string         `json:"state"`
	Place *placeResponse `json:"place"`
}

type selectResponse struct {
	Place         *placeResponse     `json:"place"`
	SyncTriggered bool               `json:"sync_triggered"`
	Sync          *domain.SyncResult `json:"sync,omitempty"`
	SyncError     string             `json:"sync_error,omitempty"`
}

// Get handles GET /api/location.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	sel := h.svc.Current()
	writeJSON(w, http.StatusOK, selectionResponse{
		State: sel.State.String(),
		Place: toPlaceResponse(sel.Place),
	})
}

// Put handles PUT /api/location. With ?wait=true the response also carries
// the outcome of the sync the selection started.
func (h *LocationHandler) Put(w http.ResponseWriter, r *http.Request) {
	var c provider.PlaceCandidate
	if err := decodeJSON(r, &c, false); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	p, task, err := h.svc.Select(r.Context(), c)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := selectResponse{Place: toPlaceResponse(p), SyncTriggered: task.Triggered()}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait && task.Triggered() {
		res, err := task.Wait(r.Context())
		if err != nil {
			resp.SyncError = err.Error()
		} else {
			resp.Sync = &res
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /api/location.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Suggestions handles GET /api/location/suggestions?q=.
func (h *LocationHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	places := h.svc.Suggest(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, toPlaceList(places))
}

// Places handles GET /api/places?limit=&offset=.
func (h *LocationHandler) Places(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50, 200)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	places, err := h.places.List(r.Context(), limit, offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlaceList(places))
}

// selectedPlaceID returns the place_id query parameter, or the selected
// place when it is absent.
func selectedPlaceID(r *http.Request, svc interface{ Current() location.Selection }) (string, error) {
	if id := r.URL.Query().Get("place_id"); id != "" {
		return id, nil
	}
	sel := svc.Current()
	if sel.Place == nil {
		return "", location.ErrNoSelection
	}
	return sel.Place.PlaceID, nil
}
