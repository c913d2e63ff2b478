package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/expointel/internal/application"
)

type exportService interface {
	ExportCollection(ctx context.Context, principal application.Principal, collection, expoID string) (application.Export, error)
}

// ExportHandler renders owner-scoped collections as downloadable CSV.
type ExportHandler struct {
	service   exportService
	responder responder
	logger    *slog.Logger
}

func NewExportHandler(service exportService, logger *slog.Logger) *ExportHandler {
	base := defaultLogger(logger)
	return &ExportHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	collection, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(collection) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "ExportHandler", "Export", "principal_id", principal.UserID, "collection", collection)

	export, err := h.service.ExportCollection(r.Context(), principal, collection, r.URL.Query().Get("expo_id"))
	if err != nil {
		logger.ErrorContext(r.Context(), "export failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "collection exported")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, exportResponse{
		CSVData:  export.CSVData,
		Filename: export.Filename,
	})
}

type exportResponse struct {
	CSVData  string `json:"csv_data"`
	Filename string `json:"filename"`
}
