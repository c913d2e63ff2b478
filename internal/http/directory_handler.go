package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
)

type directoryService interface {
	ListExpos(ctx context.Context, filter persistence.ExpoFilter) ([]application.ExpoView, error)
	GetExpo(ctx context.Context, id string) (application.ExpoView, error)
	CreateExpo(ctx context.Context, params application.CreateExpoParams) (application.ExpoView, error)
	ExpoFilters(ctx context.Context) (persistence.ExpoFieldValues, error)
	ListCompanies(ctx context.Context, filter persistence.CompanyFilter) ([]persistence.Company, error)
	GetCompany(ctx context.Context, id string) (persistence.Company, error)
	UpdateStage(ctx context.Context, id, stage string) error
	CompanyFilterOptions(ctx context.Context, expoID string) (persistence.CompanyOptions, error)
}

// DirectoryHandler serves the expo and company catalog.
type DirectoryHandler struct {
	service   directoryService
	responder responder
	logger    *slog.Logger
}

func NewDirectoryHandler(service directoryService, logger *slog.Logger) *DirectoryHandler {
	base := defaultLogger(logger)
	return &DirectoryHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DirectoryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DirectoryHandler", operation, attrs...)
}

func (h *DirectoryHandler) ListExpos(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter := persistence.ExpoFilter{
		Region:   r.URL.Query().Get("region"),
		Industry: r.URL.Query().Get("industry"),
	}
	logger := h.log(r.Context(), "ListExpos")

	expos, err := h.service.ListExpos(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "expo list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]expoDTO, 0, len(expos))
	for _, expo := range expos {
		out = append(out, toExpoViewDTO(expo))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *DirectoryHandler) GetExpo(w http.ResponseWriter, r *http.Request) {
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

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toExpoViewDTO(expo))
}

func (h *DirectoryHandler) CreateExpo(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req expoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateExpo", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode expo request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateExpo", "name", req.Name)

	expo, err := h.service.CreateExpo(r.Context(), application.CreateExpoParams{
		Name:     strings.TrimSpace(req.Name),
		Region:   req.Region,
		Industry: req.Industry,
		Date:     req.Date,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "expo creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("expo_id", expo.ID).InfoContext(r.Context(), "expo created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toExpoViewDTO(expo))
}

func (h *DirectoryHandler) ExpoFilters(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values, err := h.service.ExpoFilters(r.Context())
	if err != nil {
		h.log(r.Context(), "ExpoFilters").ErrorContext(r.Context(), "expo filters failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, expoFiltersResponse{
		Regions:    emptyIfNil(values.Regions),
		Industries: emptyIfNil(values.Industries),
	})
}

func (h *DirectoryHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	filter := persistence.CompanyFilter{
		ExpoID:   query.Get("expo_id"),
		Industry: query.Get("industry"),
		HQ:       query.Get("hq"),
		Name:     query.Get("search"),
	}
	if raw := query.Get("min_revenue"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinRevenue = &v
		}
	}
	if raw := query.Get("max_revenue"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxRevenue = &v
		}
	}

	companies, err := h.service.ListCompanies(r.Context(), filter)
	if err != nil {
		h.log(r.Context(), "ListCompanies").ErrorContext(r.Context(), "company list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]companyDTO, 0, len(companies))
	for _, company := range companies {
		out = append(out, toCompanyDTO(company))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *DirectoryHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	company, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		h.log(r.Context(), "GetCompany", "company_id", id).ErrorContext(r.Context(), "company lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCompanyDTO(company))
}

// UpdateStage replaces the shortlist stage label. Form field "stage".
func (h *DirectoryHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	stage := r.FormValue("stage")
	logger := h.log(r.Context(), "UpdateStage", "company_id", id, "stage", stage)

	if err := h.service.UpdateStage(r.Context(), id, stage); err != nil {
		logger.ErrorContext(r.Context(), "stage update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "stage updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "updated", Stage: stage})
}

func (h *DirectoryHandler) CompanyFilterOptions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	options, err := h.service.CompanyFilterOptions(r.Context(), r.URL.Query().Get("expo_id"))
	if err != nil {
		h.log(r.Context(), "CompanyFilterOptions").ErrorContext(r.Context(), "company options failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, companyOptionsResponse{
		Industries: emptyIfNil(options.Industries),
		HQs:        emptyIfNil(options.HQs),
		MinRevenue: options.MinRevenue,
		MaxRevenue: options.MaxRevenue,
	})
}

type expoRequest struct {
	Name     string `json:"name"`
	Region   string `json:"region"`
	Industry string `json:"industry"`
	Date     string `json:"date"`
}

type expoFiltersResponse struct {
	Regions    []string `json:"regions"`
	Industries []string `json:"industries"`
}

type companyOptionsResponse struct {
	Industries []string `json:"industries"`
	HQs        []string `json:"hqs"`
	MinRevenue float64  `json:"min_revenue"`
	MaxRevenue float64  `json:"max_revenue"`
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
