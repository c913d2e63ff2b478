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

type listService interface {
	CreateList(ctx context.Context, principal application.Principal, params planner.CreateListParams) (persistence.ExhibitorList, error)
	ListLists(ctx context.Context, principal application.Principal, expoID string) ([]persistence.ExhibitorList, error)
	AddExhibitor(ctx context.Context, principal application.Principal, listID, exhibitorID string) error
	RemoveExhibitor(ctx context.Context, principal application.Principal, listID, exhibitorID string) error
	Reorder(ctx context.Context, principal application.Principal, listID string, exhibitorIDs []string) error
	DeleteList(ctx context.Context, principal application.Principal, listID string) error
}

// ListHandler serves the planner's named shortlist collections. All routes
// run behind RequireToken.
type ListHandler struct {
	service   listService
	responder responder
	logger    *slog.Logger
}

func NewListHandler(service listService, logger *slog.Logger) *ListHandler {
	base := defaultLogger(logger)
	return &ListHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ListHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ListHandler", operation, attrs...)
}

func (h *ListHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	lists, err := h.service.ListLists(r.Context(), principal, r.URL.Query().Get("expo_id"))
	if err != nil {
		h.log(r.Context(), "List", "principal_id", principal.UserID).ErrorContext(r.Context(), "list listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]exhibitorListDTO, 0, len(lists))
	for _, list := range lists {
		out = append(out, toExhibitorListDTO(list))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode list request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "expo_id", req.ExpoID)

	list, err := h.service.CreateList(r.Context(), principal, planner.CreateListParams{
		ExpoID: req.ExpoID,
		Name:   strings.TrimSpace(req.Name),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "list creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("list_id", list.ID).InfoContext(r.Context(), "list created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toExhibitorListDTO(list))
}

func (h *ListHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, "Add", "added", h.serviceAdd)
}

func (h *ListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, "Remove", "removed", h.serviceRemove)
}

func (h *ListHandler) serviceAdd(ctx context.Context, principal application.Principal, listID, exhibitorID string) error {
	return h.service.AddExhibitor(ctx, principal, listID, exhibitorID)
}

func (h *ListHandler) serviceRemove(ctx context.Context, principal application.Principal, listID, exhibitorID string) error {
	return h.service.RemoveExhibitor(ctx, principal, listID, exhibitorID)
}

func (h *ListHandler) membership(w http.ResponseWriter, r *http.Request, operation, status string, apply func(context.Context, application.Principal, string, string) error) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	var req membershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode membership request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := apply(r.Context(), principal, id, req.ExhibitorID); err != nil {
		h.log(r.Context(), operation, "list_id", id).ErrorContext(r.Context(), "membership change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: status})
}

func (h *ListHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Reorder", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reorder request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.Reorder(r.Context(), principal, id, req.ExhibitorIDs); err != nil {
		h.log(r.Context(), "Reorder", "list_id", id).ErrorContext(r.Context(), "reorder failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "reordered"})
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := h.service.DeleteList(r.Context(), principal, id); err != nil {
		h.log(r.Context(), "Delete", "list_id", id).ErrorContext(r.Context(), "list delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "deleted"})
}

type listRequest struct {
	ExpoID string `json:"expo_id"`
	Name   string `json:"name"`
}

type membershipRequest struct {
	ExhibitorID string `json:"exhibitor_id"`
}

type reorderRequest struct {
	ExhibitorIDs []string `json:"exhibitor_ids"`
}
