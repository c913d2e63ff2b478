package application

import (
	"time"

	"github.com/example/expointel/internal/persistence"
)

// Principal identifies the authenticated caller of an operation.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// User is the public account view; it never carries the password hash.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
}

func publicUser(user persistence.User) User {
	return User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// RegisterParams carries the inputs for account creation.
type RegisterParams struct {
	Email    string
	Password string
	Name     string
}

// LoginParams carries the inputs for credential checks.
type LoginParams struct {
	Email    string
	Password string
}

// AuthResult bundles the issued token with its account view.
type AuthResult struct {
	Token string
	User  User
}

// ExpoView decorates an expo with its derived company count. The count is
// computed at read time and never stored.
type ExpoView struct {
	persistence.Expo
	CompanyCount int64
}

// CreateExpoParams carries the inputs for expo creation. Variant A populates
// Region/Industry, variant B populates Location.
type CreateExpoParams struct {
	Name     string
	Region   string
	Industry string
	Location string
	Date     string
}

// ShortlistView joins a shortlist record with its company and expo. The
// pointers are nil when the referenced document has been removed.
type ShortlistView struct {
	persistence.Shortlist
	Company *persistence.Company
	Expo    *persistence.Expo
}

// CreateShortlistParams carries the inputs for shortlist creation.
type CreateShortlistParams struct {
	CompanyID string
	ExpoID    string
	Notes     string
}

// ShortlistResult reports the outcome of an idempotent shortlist creation.
// Shortlist carries the stored record on a fresh create only.
type ShortlistResult struct {
	ID            string
	AlreadyExists bool
	Shortlist     persistence.Shortlist
}

// NetworkView joins an outreach record with its company and expo.
type NetworkView struct {
	persistence.Network
	Company *persistence.Company
	Expo    *persistence.Expo
}

// CreateNetworkParams carries the inputs for outreach creation.
type CreateNetworkParams struct {
	CompanyID     string
	ExpoID        string
	ContactName   string
	ContactRole   string
	Status        string
	MeetingType   string
	ScheduledTime string
	Notes         string
}

// ExpoDayView joins a visit slot with its company and expo.
type ExpoDayView struct {
	persistence.ExpoDay
	Company *persistence.Company
	Expo    *persistence.Expo
}

// CreateExpoDayParams carries the inputs for visit slot creation.
type CreateExpoDayParams struct {
	ExpoID      string
	CompanyID   string
	TimeSlot    string
	MeetingType string
	Booth       string
	Notes       string
}

// ImportResult reports an accepted CSV import.
type ImportResult struct {
	Count   int
	Preview []persistence.Company
}

// Export bundles rendered CSV content with its download filename.
type Export struct {
	CSVData  string
	Filename string
}

// SeedResult reports the outcome of the idempotent seed operation.
type SeedResult struct {
	AlreadySeeded bool
	Expos         int
	Companies     int
}
