package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/expointel/internal/application"
)

type adminService interface {
	ListUsers(ctx context.Context, principal application.Principal) ([]application.User, error)
	UpdateUserRole(ctx context.Context, principal application.Principal, userID, role string) error
}

type importService interface {
	ImportCompanies(ctx context.Context, principal application.Principal, expoID, fileContent string) (application.ImportResult, error)
}

// AdminHandler serves the administrator-only routes. The router mounts it
// behind RequireToken + RequireAdmin; the services enforce the role again.
type AdminHandler struct {
	users     adminService
	importer  importService
	responder responder
	logger    *slog.Logger
}

func NewAdminHandler(users adminService, importer importService, logger *slog.Logger) *AdminHandler {
	base := defaultLogger(logger)
	return &AdminHandler{users: users, importer: importer, responder: newResponder(base), logger: base}
}

func (h *AdminHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AdminHandler", operation, attrs...)
}

// UploadCSV ingests a company CSV. Form fields "file_content" and "expo_id".
func (h *AdminHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.importer == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	expoID := r.FormValue("expo_id")
	fileContent := r.FormValue("file_content")

	logger := h.log(r.Context(), "UploadCSV", "principal_id", principal.UserID, "expo_id", expoID)

	result, err := h.importer.ImportCompanies(r.Context(), principal, expoID, fileContent)
	if err != nil {
		logger.ErrorContext(r.Context(), "csv import failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	preview := make([]companyDTO, 0, len(result.Preview))
	for _, company := range result.Preview {
		preview = append(preview, toCompanyDTO(company))
	}

	logger.With("imported", result.Count).InfoContext(r.Context(), "csv imported")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, uploadResponse{
		Status:  "uploaded",
		Count:   result.Count,
		Preview: preview,
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.users == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	users, err := h.users.ListUsers(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListUsers", "principal_id", principal.UserID).ErrorContext(r.Context(), "user list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]userDTO, 0, len(users))
	for _, user := range users {
		out = append(out, toUserDTO(user))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

// UpdateUserRole changes an account's role. Form field "role".
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.users == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	role := r.FormValue("role")
	logger := h.log(r.Context(), "UpdateUserRole", "principal_id", principal.UserID, "user_id", id, "role", role)

	if err := h.users.UpdateUserRole(r.Context(), principal, id, role); err != nil {
		logger.ErrorContext(r.Context(), "role update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "role updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "updated"})
}

type uploadResponse struct {
	Status  string       `json:"status"`
	Count   int          `json:"count"`
	Preview []companyDTO `json:"preview"`
}
