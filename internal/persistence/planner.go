package persistence

import (
	"context"
	"time"
)

// Exhibitor represents an exhibiting company in the expoplanner context. The
// schema deliberately differs from Company: the planner rebuild never carried
// a shortlist stage and names the company field "company".
type Exhibitor struct {
	ID        string
	ExpoID    string
	Company   string
	HQ        string
	Revenue   float64
	Booth     string
	Industry  string
	Solutions []string
	CreatedAt time.Time
}

// ExhibitorList is a named, ordered shortlist collection owned by one user.
type ExhibitorList struct {
	ID           string
	UserID       string
	ExpoID       string
	Name         string
	ExhibitorIDs []string
	CreatedAt    time.Time
}

// Agenda is a per-user expo day holding embedded meetings.
type Agenda struct {
	ID        string
	UserID    string
	ExpoID    string
	Meetings  []Meeting
	CreatedAt time.Time
}

// Meeting is an embedded agenda entry referencing an exhibitor.
type Meeting struct {
	ID           string
	ExhibitorID  string
	Time         string
	Agenda       string
	Status       string
	Notes        string
	VisitingCard []byte
	VoiceNote    []byte
	Transcript   *string
	ActionItems  *string
	CheckedIn    bool
	CreatedAt    time.Time
}

// MeetingPatch carries partial updates for an embedded meeting. Nil fields are
// left untouched.
type MeetingPatch struct {
	Time         *string
	Agenda       *string
	Status       *string
	Notes        *string
	VisitingCard []byte
	VoiceNote    []byte
	Transcript   *string
	ActionItems  *string
	CheckedIn    *bool
}

// ExhibitorFilter narrows exhibitor listings. Text fields are matched as
// case-insensitive substrings; empty means unconstrained.
type ExhibitorFilter struct {
	ExpoID   string
	Industry string
	HQ       string
	Name     string
}

// ExhibitorOptions aggregates the distinct filterable values observed across
// the exhibitor collection.
type ExhibitorOptions struct {
	HQs        []string
	Industries []string
	Solutions  []string
}

// ExhibitorRepository exposes catalog operations for exhibitors.
type ExhibitorRepository interface {
	CreateExhibitor(ctx context.Context, exhibitor Exhibitor) error
	CreateExhibitors(ctx context.Context, exhibitors []Exhibitor) error
	GetExhibitor(ctx context.Context, id string) (Exhibitor, error)
	ListExhibitors(ctx context.Context, filter ExhibitorFilter, limit int) ([]Exhibitor, error)
	CountExhibitors(ctx context.Context) (int64, error)
	ExhibitorOptions(ctx context.Context) (ExhibitorOptions, error)
}

// ExhibitorListRepository stores named shortlist collections. All reads and
// writes are scoped by the owning user.
type ExhibitorListRepository interface {
	CreateList(ctx context.Context, list ExhibitorList) error
	GetList(ctx context.Context, id, userID string) (ExhibitorList, error)
	ListLists(ctx context.Context, userID, expoID string, limit int) ([]ExhibitorList, error)
	UpdateListMembers(ctx context.Context, id, userID string, exhibitorIDs []string) error
	DeleteList(ctx context.Context, id, userID string) error
}

// AgendaRepository stores expo day agendas and their embedded meetings. All
// operations are scoped by the owning user; UpdateMeeting applies the whole
// patch in a single statement.
type AgendaRepository interface {
	CreateAgenda(ctx context.Context, agenda Agenda) error
	GetAgenda(ctx context.Context, id, userID string) (Agenda, error)
	ListAgendas(ctx context.Context, userID, expoID string, limit int) ([]Agenda, error)
	DeleteAgenda(ctx context.Context, id, userID string) error
	AddMeeting(ctx context.Context, agendaID, userID string, meeting Meeting) error
	UpdateMeeting(ctx context.Context, agendaID, userID, meetingID string, patch MeetingPatch) (Meeting, error)
}
