package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/expointel/internal/application"
)

// SeedOutcome is the variant-neutral result of the idempotent seed call.
// Zero counts are omitted from the response.
type SeedOutcome struct {
	AlreadySeeded bool
	Expos         int
	Companies     int
	Exhibitors    int
}

// SeedFunc adapts a variant's seed service to the shared system handler.
type SeedFunc func(ctx context.Context) (SeedOutcome, error)

// SystemHandler serves the health probe and the demo data seed.
type SystemHandler struct {
	seed      SeedFunc
	responder responder
	logger    *slog.Logger
}

func NewSystemHandler(seed SeedFunc, logger *slog.Logger) *SystemHandler {
	base := defaultLogger(logger)
	return &SystemHandler{seed: seed, responder: newResponder(base), logger: base}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *SystemHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.seed == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "SystemHandler", "Seed")

	outcome, err := h.seed(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "seed failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if outcome.AlreadySeeded {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, seedResponse{Status: "already_seeded"})
		return
	}

	logger.InfoContext(r.Context(), "demo data seeded", "expos", outcome.Expos)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, seedResponse{
		Status:     "seeded",
		Expos:      outcome.Expos,
		Companies:  outcome.Companies,
		Exhibitors: outcome.Exhibitors,
	})
}

type seedResponse struct {
	Status     string `json:"status"`
	Expos      int    `json:"expos,omitempty"`
	Companies  int    `json:"companies,omitempty"`
	Exhibitors int    `json:"exhibitors,omitempty"`
}
