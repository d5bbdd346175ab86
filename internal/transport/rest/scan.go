package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

type classifier interface {
	Enabled() bool
	Classify(ctx context.Context, image []byte) (*provider.ClassificationResult, error)
}

// ScanHandler forwards uploaded images to the classification service.
type ScanHandler struct {
	client   classifier
	maxBytes int64
	log      *slog.Logger
}

// NewScanHandler creates a ScanHandler accepting images up to maxBytes.
func NewScanHandler(client classifier, maxBytes int64, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{client: client, maxBytes: maxBytes, log: logger.With("handler", "scan")}
}

// Scan handles POST /api/scan with the raw image as the body.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if !h.client.Enabled() {
		writeError(w, r, http.StatusServiceUnavailable, "classification is not configured")
		return
	}

	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "could not read body")
		return
	}
	if len(image) == 0 {
		handleError(h.log, w, r, domain.NewValidationError("image", "required"))
		return
	}

	res, err := h.client.Classify(r.Context(), image)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
