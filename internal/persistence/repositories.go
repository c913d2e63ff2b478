package persistence

import "context"

// UserRepository exposes account storage operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, limit int) ([]User, error)
	UpdateUserRole(ctx context.Context, id, role string) error
}

// ExpoFilter narrows expo listings. Text fields are matched as
// case-insensitive substrings; empty means unconstrained.
type ExpoFilter struct {
	Region   string
	Industry string
}

// ExpoFieldValues aggregates the distinct non-empty values of the expo
// filterable fields.
type ExpoFieldValues struct {
	Regions    []string
	Industries []string
}

// ExpoRepository exposes catalog operations for expos.
type ExpoRepository interface {
	CreateExpo(ctx context.Context, expo Expo) error
	GetExpo(ctx context.Context, id string) (Expo, error)
	ListExpos(ctx context.Context, filter ExpoFilter, limit int) ([]Expo, error)
	CountExpos(ctx context.Context) (int64, error)
	ExpoFieldValues(ctx context.Context) (ExpoFieldValues, error)
}

// CompanyFilter narrows company listings. ExpoID matches exactly, text fields
// as case-insensitive substrings, revenue bounds as an inclusive range.
type CompanyFilter struct {
	ExpoID     string
	Industry   string
	HQ         string
	Name       string
	MinRevenue *float64
	MaxRevenue *float64
}

// CompanyOptions aggregates distinct filterable values and observed revenue
// bounds over a (possibly expo-scoped) company set. Matched reports whether
// any document contributed to the aggregation.
type CompanyOptions struct {
	Industries []string
	HQs        []string
	MinRevenue float64
	MaxRevenue float64
	Matched    bool
}

// CompanyRepository exposes catalog operations for companies.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company Company) error
	CreateCompanies(ctx context.Context, companies []Company) error
	GetCompany(ctx context.Context, id string) (Company, error)
	ListCompanies(ctx context.Context, filter CompanyFilter, limit int) ([]Company, error)
	CountByExpo(ctx context.Context, expoID string) (int64, error)
	UpdateStage(ctx context.Context, id, stage string) error
	// AdvanceStageFromNone promotes a company to "prospecting" only when its
	// stage is still unset/none. No-op otherwise.
	AdvanceStageFromNone(ctx context.Context, id string) error
	CompanyOptions(ctx context.Context, expoID string) (CompanyOptions, error)
}

// ShortlistRepository stores interest records, scoped by owner for every
// mutation and list.
type ShortlistRepository interface {
	CreateShortlist(ctx context.Context, shortlist Shortlist) error
	// FindShortlist locates the record for a (user, company, expo) triple.
	FindShortlist(ctx context.Context, userID, companyID, expoID string) (Shortlist, error)
	ListShortlists(ctx context.Context, userID, expoID string, limit int) ([]Shortlist, error)
	UpdateShortlistNotes(ctx context.Context, id, userID, notes string) error
	DeleteShortlist(ctx context.Context, id, userID string) error
}

// NetworkPatch carries partial updates for a network record. Nil fields are
// left untouched.
type NetworkPatch struct {
	Status        *string
	MeetingType   *string
	ScheduledTime *string
	Notes         *string
	ContactName   *string
	ContactRole   *string
}

// NetworkRepository stores outreach records, scoped by owner.
type NetworkRepository interface {
	CreateNetwork(ctx context.Context, network Network) error
	ListNetworks(ctx context.Context, userID, expoID, status string, limit int) ([]Network, error)
	UpdateNetwork(ctx context.Context, id, userID string, patch NetworkPatch) error
	DeleteNetwork(ctx context.Context, id, userID string) error
}

// ExpoDayPatch carries partial updates for an expo day slot.
type ExpoDayPatch struct {
	Status *string
	Notes  *string
}

// ExpoDayRepository stores visit slots, scoped by owner. Listings are ordered
// by time slot ascending.
type ExpoDayRepository interface {
	CreateExpoDay(ctx context.Context, day ExpoDay) error
	ListExpoDays(ctx context.Context, userID, expoID string, limit int) ([]ExpoDay, error)
	UpdateExpoDay(ctx context.Context, id, userID string, patch ExpoDayPatch) error
	DeleteExpoDay(ctx context.Context, id, userID string) error
}
