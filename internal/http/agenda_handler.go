package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
	"github.com/example/expointel/internal/planner"
)

const maxUploadBytes = 32 << 20

type agendaService interface {
	CreateAgenda(ctx context.Context, principal application.Principal, expoID string) (persistence.Agenda, error)
	ListAgendas(ctx context.Context, principal application.Principal, expoID string) ([]persistence.Agenda, error)
	DeleteAgenda(ctx context.Context, principal application.Principal, agendaID string) error
	AddMeeting(ctx context.Context, principal application.Principal, agendaID string, params planner.CreateMeetingParams) (persistence.Meeting, error)
	UpdateMeeting(ctx context.Context, principal application.Principal, agendaID, meetingID string, params planner.UpdateMeetingParams) (persistence.Meeting, error)
	CheckIn(ctx context.Context, principal application.Principal, agendaID, meetingID string) (persistence.Meeting, error)
	AttachVisitingCard(ctx context.Context, principal application.Principal, agendaID, meetingID string, image []byte) (persistence.Meeting, error)
	AttachVoiceNote(ctx context.Context, principal application.Principal, agendaID, meetingID string, audio []byte) (persistence.Meeting, error)
}

// AgendaHandler serves the planner's expo day agendas with their embedded
// meetings. All routes run behind RequireToken.
type AgendaHandler struct {
	service   agendaService
	responder responder
	logger    *slog.Logger
}

func NewAgendaHandler(service agendaService, logger *slog.Logger) *AgendaHandler {
	base := defaultLogger(logger)
	return &AgendaHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AgendaHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AgendaHandler", operation, attrs...)
}

func (h *AgendaHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *AgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	agendas, err := h.service.ListAgendas(r.Context(), principal, r.URL.Query().Get("expo_id"))
	if err != nil {
		h.log(r.Context(), "List", "principal_id", principal.UserID).ErrorContext(r.Context(), "agenda list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]agendaDTO, 0, len(agendas))
	for _, agenda := range agendas {
		out = append(out, toAgendaDTO(agenda))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *AgendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req agendaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode agenda request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "expo_id", req.ExpoID)

	agenda, err := h.service.CreateAgenda(r.Context(), principal, req.ExpoID)
	if err != nil {
		logger.ErrorContext(r.Context(), "agenda creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("agenda_id", agenda.ID).InfoContext(r.Context(), "agenda created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toAgendaDTO(agenda))
}

func (h *AgendaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	id, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := h.service.DeleteAgenda(r.Context(), principal, id); err != nil {
		h.log(r.Context(), "Delete", "agenda_id", id).ErrorContext(r.Context(), "agenda delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "deleted"})
}

func (h *AgendaHandler) AddMeeting(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	agendaID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(agendaID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "AddMeeting", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode meeting request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "AddMeeting", "principal_id", principal.UserID, "agenda_id", agendaID)

	meeting, err := h.service.AddMeeting(r.Context(), principal, agendaID, planner.CreateMeetingParams{
		ExhibitorID: req.ExhibitorID,
		Time:        req.Time,
		Agenda:      req.Agenda,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "meeting creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("meeting_id", meeting.ID).InfoContext(r.Context(), "meeting added")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toMeetingDTO(meeting))
}

func (h *AgendaHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	agendaID, meetingID, ok := meetingIDs(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	var req meetingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateMeeting", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode meeting update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	meeting, err := h.service.UpdateMeeting(r.Context(), principal, agendaID, meetingID, planner.UpdateMeetingParams{
		Time:   req.Time,
		Agenda: req.Agenda,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		h.log(r.Context(), "UpdateMeeting", "agenda_id", agendaID, "meeting_id", meetingID).ErrorContext(r.Context(), "meeting update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toMeetingDTO(meeting))
}

func (h *AgendaHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	agendaID, meetingID, ok := meetingIDs(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	logger := h.log(r.Context(), "CheckIn", "agenda_id", agendaID, "meeting_id", meetingID)

	if _, err := h.service.CheckIn(r.Context(), principal, agendaID, meetingID); err != nil {
		logger.ErrorContext(r.Context(), "check-in failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "meeting checked in")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, statusResponse{Status: "checked_in"})
}

// AttachVisitingCard stores an uploaded card scan. Multipart field "file".
func (h *AgendaHandler) AttachVisitingCard(w http.ResponseWriter, r *http.Request) {
	h.attach(w, r, "AttachVisitingCard", h.service.AttachVisitingCard)
}

// AttachVoiceNote stores uploaded audio and triggers transcription.
// Multipart field "file".
func (h *AgendaHandler) AttachVoiceNote(w http.ResponseWriter, r *http.Request) {
	h.attach(w, r, "AttachVoiceNote", h.service.AttachVoiceNote)
}

func (h *AgendaHandler) attach(w http.ResponseWriter, r *http.Request, operation string, apply func(context.Context, application.Principal, string, string, []byte) (persistence.Meeting, error)) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	agendaID, meetingID, ok := meetingIDs(r)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	content, err := readUpload(r)
	if err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to read upload", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), operation, "agenda_id", agendaID, "meeting_id", meetingID, "bytes", len(content))

	meeting, err := apply(r.Context(), principal, agendaID, meetingID, content)
	if err != nil {
		logger.ErrorContext(r.Context(), "attachment failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "attachment stored")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toMeetingDTO(meeting))
}

type agendaRequest struct {
	ExpoID string `json:"expo_id"`
}

type meetingRequest struct {
	ExhibitorID string `json:"exhibitor_id"`
	Time        string `json:"time"`
	Agenda      string `json:"agenda"`
}

type meetingUpdateRequest struct {
	Time   *string `json:"time"`
	Agenda *string `json:"agenda"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func meetingIDs(r *http.Request) (agendaID, meetingID string, ok bool) {
	agendaID, okAgenda := ResourceIDFromContext(r.Context())
	meetingID, okMeeting := MeetingIDFromContext(r.Context())
	if !okAgenda || !okMeeting || strings.TrimSpace(agendaID) == "" || strings.TrimSpace(meetingID) == "" {
		return "", "", false
	}
	return agendaID, meetingID, true
}

// readUpload extracts the uploaded bytes from the multipart "file" field.
func readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
