package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/service/reminder"
)

type reminderService interface {
	Set(ctx context.Context, input reminder.SetReminderInput) (*domain.Reminder, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, eventID int64, placeID string) (*domain.Reminder, error)
	List(ctx context.Context, input reminder.ListInput) ([]domain.Reminder, error)
}

// ReminderHandler serves reminder endpoints.
type ReminderHandler struct {
	svc reminderService
	log *slog.Logger
}

// NewReminderHandler creates a ReminderHandler.
func NewReminderHandler(svc reminderService, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{svc: svc, log: logger.With("handler", "reminders")}
}

type setReminderRequest struct {
	EventID    int64        `json:"event_id"`
	PlaceID    string       `json:"place_id"`
	RemindDate *domain.Date `json:"remind_date"`
	Note       *string      `json:"note"`
}

// List handles GET /api/reminders?place_id=&after=&before=.
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	after, err := queryDate(r, "after")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	before, err := queryDate(r, "before")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rems, err := h.svc.List(r.Context(), reminder.ListInput{
		PlaceID: r.URL.Query().Get("place_id"),
		After:   after,
		Before:  before,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderList(rems))
}

// Put handles PUT /api/reminders.
func (h *ReminderHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req setReminderRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if req.RemindDate != nil && req.RemindDate.IsZero() {
		req.RemindDate = nil
	}

	rem, err := h.svc.Set(r.Context(), reminder.SetReminderInput{
		EventID:    req.EventID,
		PlaceID:    req.PlaceID,
		RemindDate: req.RemindDate,
		Note:       req.Note,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderResponse(rem))
}

// Delete handles DELETE /api/reminders/{id}.
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ForEvent handles GET /api/events/{id}/reminder?place_id=.
func (h *ReminderHandler) ForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	placeID := r.URL.Query().Get("place_id")
	if placeID == "" {
		handleError(h.log, w, r, domain.NewValidationError("place_id", "required"))
		return
	}

	rem, err := h.svc.Get(r.Context(), eventID, placeID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if rem == nil {
		writeError(w, r, http.StatusNotFound, "reminder not found")
		return
	}
	writeJSON(w, http.StatusOK, toReminderResponse(rem))
}
