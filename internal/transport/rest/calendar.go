package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/service/calendar"
)

type calendarService interface {
	DefaultWindow() domain.Window
	MarkedDates(ctx context.Context, placeID string, w domain.Window) (map[string]calendar.DayMark, error)
	AgendaSections(ctx context.Context, placeID string, w domain.Window) ([]calendar.AgendaSection, error)
	Export(ctx context.Context, placeID string, w domain.Window) (string, error)
}

// CalendarHandler serves calendar projections of the stored schedule.
type CalendarHandler struct {
	svc       calendarService
	selection selectionSource
	log       *slog.Logger
}

// NewCalendarHandler creates a CalendarHandler.
func NewCalendarHandler(svc calendarService, selection selectionSource, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{svc: svc, selection: selection, log: logger.With("handler", "calendar")}
}

// Marked handles GET /api/calendar/marked.
func (h *CalendarHandler) Marked(w http.ResponseWriter, r *http.Request) {
	placeID, win, ok := h.params(w, r)
	if !ok {
		return
	}
	marks, err := h.svc.MarkedDates(r.Context(), placeID, win)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, marks)
}

// Agenda handles GET /api/calendar/agenda.
func (h *CalendarHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	placeID, win, ok := h.params(w, r)
	if !ok {
		return
	}
	sections, err := h.svc.AgendaSections(r.Context(), placeID, win)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

// Export handles GET /api/calendar/export.ics.
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	placeID, win, ok := h.params(w, r)
	if !ok {
		return
	}
	body, err := h.svc.Export(r.Context(), placeID, win)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="wastecal.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// params resolves the place and window of a calendar request. Missing
// bounds fall back to the default window.
func (h *CalendarHandler) params(w http.ResponseWriter, r *http.Request) (string, domain.Window, bool) {
	placeID, err := selectedPlaceID(r, h.selection)
	if err != nil {
		handleError(h.log, w, r, err)
		return "", domain.Window{}, false
	}

	win := h.svc.DefaultWindow()
	after, err := queryDate(r, "after")
	if err != nil {
		handleError(h.log, w, r, err)
		return "", domain.Window{}, false
	}
	before, err := queryDate(r, "before")
	if err != nil {
		handleError(h.log, w, r, err)
		return "", domain.Window{}, false
	}
	if after != nil {
		win.After = *after
	}
	if before != nil {
		win.Before = *before
	}

	return placeID, win, true
}
