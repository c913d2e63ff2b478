package persistence

import "time"

// User represents an account in the expo intelligence domain.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Expo represents a trade show catalog entry. Region/Industry are populated by
// the expointel context, Location by the expoplanner context; both share the
// same stored shape.
type Expo struct {
	ID        string
	Name      string
	Region    string
	Industry  string
	Location  string
	Date      string
	CreatedAt time.Time
}

// Contact is an embedded name/role pair on a company document.
type Contact struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Company represents an exhibiting company in the expointel context.
type Company struct {
	ID             string
	ExpoID         string
	Name           string
	HQ             string
	Revenue        float64
	Booth          string
	Industry       string
	ShortlistStage string
	Contacts       []Contact
	CreatedAt      time.Time
}

// Shortlist is a per-user interest record referencing a company at an expo.
// At most one record exists per (user, company, expo) triple.
type Shortlist struct {
	ID        string
	UserID    string
	CompanyID string
	ExpoID    string
	Notes     string
	CreatedAt time.Time
}

// Network is a per-user outreach record toward a company contact.
type Network struct {
	ID            string
	UserID        string
	CompanyID     string
	ExpoID        string
	ContactName   string
	ContactRole   string
	Status        string
	MeetingType   string
	ScheduledTime string
	Notes         string
	CreatedAt     time.Time
}

// ExpoDay is a per-user on-site visit slot in the expointel context.
type ExpoDay struct {
	ID          string
	UserID      string
	ExpoID      string
	CompanyID   string
	TimeSlot    string
	Status      string
	MeetingType string
	Booth       string
	Notes       string
	CreatedAt   time.Time
}
