package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
)

const agendaListLimit = 500

// AgendaService manages expo day agendas with their embedded meetings.
type AgendaService struct {
	agendas     persistence.AgendaRepository
	transcriber Transcriber
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAgendaService constructs an AgendaService with the provided dependencies.
// A nil transcriber falls back to NopTranscriber.
func NewAgendaService(agendas persistence.AgendaRepository, transcriber Transcriber, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AgendaService {
	if transcriber == nil {
		transcriber = NopTranscriber{}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AgendaService{
		agendas:     agendas,
		transcriber: transcriber,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateAgenda stores a new empty agenda for an expo day.
func (s *AgendaService) CreateAgenda(ctx context.Context, principal application.Principal, expoID string) (persistence.Agenda, error) {
	if expoID == "" {
		return persistence.Agenda{}, &application.ValidationError{FieldErrors: map[string]string{"expo_id": "expo_id is required"}}
	}

	agenda := persistence.Agenda{
		ID:        s.idGenerator(),
		UserID:    principal.UserID,
		ExpoID:    expoID,
		Meetings:  []persistence.Meeting{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.agendas.CreateAgenda(ctx, agenda); err != nil {
		return persistence.Agenda{}, fmt.Errorf("failed to create agenda: %w", err)
	}

	s.logger.InfoContext(ctx, "agenda created", "service", "AgendaService", "agenda_id", agenda.ID)
	return agenda, nil
}

// ListAgendas returns the caller's agendas with embedded meetings.
func (s *AgendaService) ListAgendas(ctx context.Context, principal application.Principal, expoID string) ([]persistence.Agenda, error) {
	agendas, err := s.agendas.ListAgendas(ctx, principal.UserID, expoID, agendaListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list agendas: %w", err)
	}
	return agendas, nil
}

// DeleteAgenda removes an owned agenda with its meetings.
func (s *AgendaService) DeleteAgenda(ctx context.Context, principal application.Principal, agendaID string) error {
	if err := s.agendas.DeleteAgenda(ctx, agendaID, principal.UserID); err != nil {
		return fmt.Errorf("failed to delete agenda: %w", err)
	}
	return nil
}

// AddMeeting schedules a meeting on an owned agenda. New meetings start in
// status scheduled.
func (s *AgendaService) AddMeeting(ctx context.Context, principal application.Principal, agendaID string, params CreateMeetingParams) (persistence.Meeting, error) {
	if params.ExhibitorID == "" {
		return persistence.Meeting{}, &application.ValidationError{FieldErrors: map[string]string{"exhibitor_id": "exhibitor_id is required"}}
	}

	meeting := persistence.Meeting{
		ID:          s.idGenerator(),
		ExhibitorID: params.ExhibitorID,
		Time:        params.Time,
		Agenda:      params.Agenda,
		Status:      "scheduled",
		CreatedAt:   s.now().UTC(),
	}
	if err := s.agendas.AddMeeting(ctx, agendaID, principal.UserID, meeting); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Meeting{}, application.ErrNotFound
		}
		return persistence.Meeting{}, fmt.Errorf("failed to add meeting: %w", err)
	}

	return meeting, nil
}

// UpdateMeeting applies a partial update to a meeting. The status label is
// freely re-settable.
func (s *AgendaService) UpdateMeeting(ctx context.Context, principal application.Principal, agendaID, meetingID string, params UpdateMeetingParams) (persistence.Meeting, error) {
	patch := persistence.MeetingPatch{
		Time:   params.Time,
		Agenda: params.Agenda,
		Status: params.Status,
		Notes:  params.Notes,
	}
	return s.applyPatch(ctx, principal, agendaID, meetingID, patch)
}

// CheckIn marks a meeting as visited: status checked_in and the checked_in
// flag are set together in one write.
func (s *AgendaService) CheckIn(ctx context.Context, principal application.Principal, agendaID, meetingID string) (persistence.Meeting, error) {
	status := "checked_in"
	checkedIn := true
	return s.applyPatch(ctx, principal, agendaID, meetingID, persistence.MeetingPatch{
		Status:    &status,
		CheckedIn: &checkedIn,
	})
}

// AttachVisitingCard stores scanned card image bytes on a meeting.
func (s *AgendaService) AttachVisitingCard(ctx context.Context, principal application.Principal, agendaID, meetingID string, image []byte) (persistence.Meeting, error) {
	if len(image) == 0 {
		return persistence.Meeting{}, &application.ValidationError{FieldErrors: map[string]string{"file": "file content is required"}}
	}
	return s.applyPatch(ctx, principal, agendaID, meetingID, persistence.MeetingPatch{VisitingCard: image})
}

// AttachVoiceNote stores recorded audio on a meeting and attempts synchronous
// transcription. Transcription failure is tolerated: the audio is kept, the
// transcript fields stay null and the call still succeeds.
func (s *AgendaService) AttachVoiceNote(ctx context.Context, principal application.Principal, agendaID, meetingID string, audio []byte) (persistence.Meeting, error) {
	if len(audio) == 0 {
		return persistence.Meeting{}, &application.ValidationError{FieldErrors: map[string]string{"file": "file content is required"}}
	}

	patch := persistence.MeetingPatch{VoiceNote: audio}

	transcription, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		s.logger.WarnContext(ctx, "transcription failed",
			"service", "AgendaService", "agenda_id", agendaID, "meeting_id", meetingID, "error", err)
	} else {
		patch.Transcript = &transcription.Transcript
		patch.ActionItems = &transcription.ActionItems
	}

	return s.applyPatch(ctx, principal, agendaID, meetingID, patch)
}

func (s *AgendaService) applyPatch(ctx context.Context, principal application.Principal, agendaID, meetingID string, patch persistence.MeetingPatch) (persistence.Meeting, error) {
	meeting, err := s.agendas.UpdateMeeting(ctx, agendaID, principal.UserID, meetingID, patch)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Meeting{}, application.ErrNotFound
		}
		return persistence.Meeting{}, fmt.Errorf("failed to update meeting: %w", err)
	}
	return meeting, nil
}
