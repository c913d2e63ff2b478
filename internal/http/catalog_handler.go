package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
	"github.com/example/expointel/internal/planner"
)

type catalogService interface {
	ListExpos(ctx context.Context) ([]persistence.Expo, error)
	GetExpo(ctx context.Context, id string) (persistence.Expo, error)
	CreateExpo(ctx context.Context, params planner.CreateExpoParams) (persistence.Expo, error)
	ListExhibitors(ctx context.Context, filter persistence.ExhibitorFilter) ([]persistence.Exhibitor, error)
	GetExhibitor(ctx context.Context, id string) (persistence.Exhibitor, error)
	ExhibitorFilterOptions(ctx context.Context) (persistence.ExhibitorOptions, error)
}

// CatalogHandler serves the planner's expo and exhibitor directory.
type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	return &CatalogHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CatalogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CatalogHandler", operation, attrs...)
}

func (h *CatalogHandler) ListExpos(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	expos, err := h.service.ListExpos(r.Context())
	if err != nil {
		h.log(r.Context(), "ListExpos").ErrorContext(r.Context(), "expo list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]expoDTO, 0, len(expos))
	for _, expo := range expos {
		out = append(out, toExpoDTO(expo))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *CatalogHandler) GetExpo(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	expo, err := h.service.GetExpo(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "GetExpo", "expo_id", id).ErrorContext(r.Context(), "expo lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toExpoDTO(expo))
}

func (h *CatalogHandler) CreateExpo(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req plannerExpoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateExpo", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode expo request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateExpo", "name", req.Name)

	expo, err := h.service.CreateExpo(r.Context(), planner.CreateExpoParams{
		Name:     strings.TrimSpace(req.Name),
		Date:     req.Date,
		Location: req.Location,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "expo creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("expo_id", expo.ID).InfoContext(r.Context(), "expo created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toExpoDTO(expo))
}

func (h *CatalogHandler) ListExhibitors(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	filter := persistence.ExhibitorFilter{
		ExpoID:   query.Get("expo_id"),
		Industry: query.Get("industry"),
		HQ:       query.Get("hq"),
		Name:     query.Get("search"),
	}

	exhibitors, err := h.service.ListExhibitors(r.Context(), filter)
	if err != nil {
		h.log(r.Context(), "ListExhibitors").ErrorContext(r.Context(), "exhibitor list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]exhibitorDTO, 0, len(exhibitors))
	for _, exhibitor := range exhibitors {
		out = append(out, toExhibitorDTO(exhibitor))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *CatalogHandler) GetExhibitor(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	exhibitor, err := h.service.GetExhibitor(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "GetExhibitor", "exhibitor_id", id).ErrorContext(r.Context(), "exhibitor lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toExhibitorDTO(exhibitor))
}

func (h *CatalogHandler) ExhibitorFilterOptions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	options, err := h.service.ExhibitorFilterOptions(r.Context())
	if err != nil {
		h.log(r.Context(), "ExhibitorFilterOptions").ErrorContext(r.Context(), "exhibitor options failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, exhibitorOptionsResponse{
		HQs:        emptyIfNil(options.HQs),
		Industries: emptyIfNil(options.Industries),
		Solutions:  emptyIfNil(options.Solutions),
	})
}

type plannerExpoRequest struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

type exhibitorOptionsResponse struct {
	HQs        []string `json:"hqs"`
	Industries []string `json:"industries"`
	Solutions  []string `json:"solutions"`
}
