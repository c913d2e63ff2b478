package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
)

type engagementService interface {
	CreateShortlist(ctx context.Context, principal application.Principal, params application.CreateShortlistParams) (application.ShortlistResult, error)
	ListShortlists(ctx context.Context, principal application.Principal, expoID, stage string) ([]application.ShortlistView, error)
	UpdateShortlistNotes(ctx context.Context, principal application.Principal, id, notes string) error
	DeleteShortlist(ctx context.Context, principal application.Principal, id string) error
	CreateNetwork(ctx context.Context, principal application.Principal, params application.CreateNetworkParams) (persistence.Network, error)
	ListNetworks(ctx context.Context, principal application.Principal, expoID, status string) ([]application.NetworkView, error)
	UpdateNetwork(ctx context.Context, principal application.Principal, id string, patch persistence.NetworkPatch) error
	DeleteNetwork(ctx context.Context, principal application.Principal, id string) error
	CreateExpoDay(ctx context.Context, principal application.Principal, params application.CreateExpoDayParams) (persistence.ExpoDay, error)
	ListExpoDays(ctx context.Context, principal application.Principal, expoID string) ([]application.ExpoDayView, error)
	UpdateExpoDay(ctx context.Context, principal application.Principal, id string, patch persistence.ExpoDayPatch) error
	DeleteExpoDay(ctx context.Context, principal application.Principal, id string) error
}

// EngagementHandler serves the per-user shortlist, network and expo day
// routes. All routes run behind RequireToken.
type EngagementHandler struct {
	service   engagementService
	responder responder
	logger    *slog.Logger
}

func NewEngagementHandler(service engagementService, logger *slog.Logger) *EngagementHandler {
	base := defaultLogger(logger)
	return &EngagementHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EngagementHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EngagementHandler", operation, attrs...)
}

func (h *EngagementHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *EngagementHandler) ListShortlists(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	query := r.URL.Query()

	views, err := h.service.ListShortlists(r.Context(), principal, query.Get("expo_id"), query.Get("stage"))
	if err != nil {
		h.log(r.Context(), "ListShortlists", "principal_id", principal.UserID).ErrorContext(r.Context(), "shortlist list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]shortlistDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toShortlistViewDTO(view))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *EngagementHandler) CreateShortlist(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req shortlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateShortlist", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode shortlist request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateShortlist", "principal_id", principal.UserID, "company_id", req.CompanyID)

	result, err := h.service.CreateShortlist(r.Context(), principal, application.CreateShortlistParams{
		CompanyID: req.CompanyID,
		ExpoID:    req.ExpoID,
		Notes:     req.Notes,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "shortlist creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if result.AlreadyExists {
		logger.InfoContext(r.Context(), "shortlist already exists", "shortlist_id", result.ID)
		h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "already_exists", ID: result.ID})
		return
	}

	logger.With("shortlist_id", result.ID).InfoContext(r.Context(), "shortlist created")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toShortlistDTO(result.Shortlist))
}

// UpdateShortlist replaces the notes on an owned record. Form field "notes".
// A non-owned id is a silent no-op.
func (h *EngagementHandler) UpdateShortlist(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := h.service.UpdateShortlistNotes(r.Context(), principal, id, r.FormValue("notes")); err != nil {
		h.log(r.Context(), "UpdateShortlist", "shortlist_id", id).ErrorContext(r.Context(), "shortlist update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *EngagementHandler) DeleteShortlist(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := h.service.DeleteShortlist(r.Context(), principal, id); err != nil {
		h.log(r.Context(), "DeleteShortlist", "shortlist_id", id).ErrorContext(r.Context(), "shortlist delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "deleted"})
}

func (h *EngagementHandler) ListNetworks(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	query := r.URL.Query()

	views, err := h.service.ListNetworks(r.Context(), principal, query.Get("expo_id"), query.Get("status"))
	if err != nil {
		h.log(r.Context(), "ListNetworks", "principal_id", principal.UserID).ErrorContext(r.Context(), "network list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]networkDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toNetworkViewDTO(view))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *EngagementHandler) CreateNetwork(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req networkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateNetwork", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode network request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateNetwork", "principal_id", principal.UserID, "company_id", req.CompanyID)

	network, err := h.service.CreateNetwork(r.Context(), principal, application.CreateNetworkParams{
		CompanyID:     req.CompanyID,
		ExpoID:        req.ExpoID,
		ContactName:   req.ContactName,
		ContactRole:   req.ContactRole,
		Status:        req.Status,
		MeetingType:   req.MeetingType,
		ScheduledTime: req.ScheduledTime,
		Notes:         req.Notes,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "network creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("network_id", network.ID).InfoContext(r.Context(), "network created")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toNetworkDTO(network))
}

// UpdateNetwork applies a partial form update; only submitted fields change.
func (h *EngagementHandler) UpdateNetwork(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	patch := persistence.NetworkPatch{
		Status:        formField(r, "status"),
		MeetingType:   formField(r, "meeting_type"),
		ScheduledTime: formField(r, "scheduled_time"),
		Notes:         formField(r, "notes"),
		ContactName:   formField(r, "contact_name"),
		ContactRole:   formField(r, "contact_role"),
	}

	if err := h.service.UpdateNetwork(r.Context(), principal, id, patch); err != nil {
		h.log(r.Context(), "UpdateNetwork", "network_id", id).ErrorContext(r.Context(), "network update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *EngagementHandler) DeleteNetwork(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := h.service.DeleteNetwork(r.Context(), principal, id); err != nil {
		h.log(r.Context(), "DeleteNetwork", "network_id", id).ErrorContext(r.Context(), "network delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "deleted"})
}

func (h *EngagementHandler) ListExpoDays(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	views, err := h.service.ListExpoDays(r.Context(), principal, r.URL.Query().Get("expo_id"))
	if err != nil {
		h.log(r.Context(), "ListExpoDays", "principal_id", principal.UserID).ErrorContext(r.Context(), "expo day list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]expoDayDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toExpoDayViewDTO(view))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *EngagementHandler) CreateExpoDay(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req expoDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateExpoDay", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode expo day request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateExpoDay", "principal_id", principal.UserID, "expo_id", req.ExpoID)

	day, err := h.service.CreateExpoDay(r.Context(), principal, application.CreateExpoDayParams{
		ExpoID:      req.ExpoID,
		CompanyID:   req.CompanyID,
		TimeSlot:    req.TimeSlot,
		MeetingType: req.MeetingType,
		Booth:       req.Booth,
		Notes:       req.Notes,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "expo day creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("expo_day_id", day.ID).InfoContext(r.Context(), "expo day created")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toExpoDayDTO(day))
}

func (h *EngagementHandler) UpdateExpoDay(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	patch := persistence.ExpoDayPatch{
		Status: formField(r, "status"),
		Notes:  formField(r, "notes"),
	}

	if err := h.service.UpdateExpoDay(r.Context(), principal, id, patch); err != nil {
		h.log(r.Context(), "UpdateExpoDay", "expo_day_id", id).ErrorContext(r.Context(), "expo day update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "updated"})
}

func (h *EngagementHandler) DeleteExpoDay(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := h.service.DeleteExpoDay(r.Context(), principal, id); err != nil {
		h.log(r.Context(), "DeleteExpoDay", "expo_day_id", id).ErrorContext(r.Context(), "expo day delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "deleted"})
}

type shortlistRequest struct {
	CompanyID string `json:"company_id"`
	ExpoID    string `json:"expo_id"`
	Notes     string `json:"notes"`
}

type networkRequest struct {
	CompanyID     string `json:"company_id"`
	ExpoID        string `json:"expo_id"`
	ContactName   string `json:"contact_name"`
	ContactRole   string `json:"contact_role"`
	Status        string `json:"status"`
	MeetingType   string `json:"meeting_type"`
	ScheduledTime string `json:"scheduled_time"`
	Notes         string `json:"notes"`
}

type expoDayRequest struct {
	ExpoID      string `json:"expo_id"`
	CompanyID   string `json:"company_id"`
	TimeSlot    string `json:"time_slot"`
	MeetingType string `json:"meeting_type"`
	Booth       string `json:"booth"`
	Notes       string `json:"notes"`
}

// formField returns a pointer to the submitted value, or nil when the field
// was not part of the form at all.
func formField(r *http.Request, name string) *string {
	values, ok := r.PostForm[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
