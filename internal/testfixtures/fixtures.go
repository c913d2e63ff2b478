package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/expointel/internal/persistence"
)

var (
	userCounter      uint64
	expoCounter      uint64
	companyCounter   uint64
	shortlistCounter uint64
	exhibitorCounter uint64
)

var referenceTime = time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// WithEmail overrides the fixture email.
func WithEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithRole overrides the fixture role.
func WithRole(role string) UserOption {
	return func(u *persistence.User) { u.Role = role }
}

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	user := persistence.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		Name:         fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Role:         "user",
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// ExpoOption configures a generated expo fixture.
type ExpoOption func(*persistence.Expo)

// WithRegion overrides the fixture region.
func WithRegion(region string) ExpoOption {
	return func(e *persistence.Expo) { e.Region = region }
}

// WithExpoIndustry overrides the fixture industry.
func WithExpoIndustry(industry string) ExpoOption {
	return func(e *persistence.Expo) { e.Industry = industry }
}

// NewExpo returns a deterministic expo record with optional overrides.
func NewExpo(opts ...ExpoOption) persistence.Expo {
	idx := atomic.AddUint64(&expoCounter, 1)
	expo := persistence.Expo{
		ID:        fmt.Sprintf("expo-%03d", idx),
		Name:      fmt.Sprintf("Expo %03d", idx),
		Region:    "Europe",
		Industry:  "Technology",
		Date:      "2026-06-01",
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&expo)
	}
	return expo
}

// CompanyOption configures a generated company fixture.
type CompanyOption func(*persistence.Company)

// WithExpoID attaches the company to a specific expo.
func WithExpoID(expoID string) CompanyOption {
	return func(c *persistence.Company) { c.ExpoID = expoID }
}

// WithStage overrides the fixture shortlist stage.
func WithStage(stage string) CompanyOption {
	return func(c *persistence.Company) { c.ShortlistStage = stage }
}

// WithRevenue overrides the fixture revenue.
func WithRevenue(revenue float64) CompanyOption {
	return func(c *persistence.Company) { c.Revenue = revenue }
}

// NewCompany returns a deterministic company record with optional overrides.
func NewCompany(opts ...CompanyOption) persistence.Company {
	idx := atomic.AddUint64(&companyCounter, 1)
	company := persistence.Company{
		ID:             fmt.Sprintf("company-%03d", idx),
		ExpoID:         "expo-001",
		Name:           fmt.Sprintf("Company %03d", idx),
		HQ:             "Berlin, Germany",
		Revenue:        float64(idx) * 1000,
		Booth:          fmt.Sprintf("Hall 1 A-%03d", idx),
		Industry:       "Technology",
		ShortlistStage: "none",
		Contacts:       []persistence.Contact{},
		CreatedAt:      referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&company)
	}
	return company
}

// NewShortlist returns a deterministic shortlist record linking the given
// user, company and expo.
func NewShortlist(userID, companyID, expoID string) persistence.Shortlist {
	idx := atomic.AddUint64(&shortlistCounter, 1)
	return persistence.Shortlist{
		ID:        fmt.Sprintf("shortlist-%03d", idx),
		UserID:    userID,
		CompanyID: companyID,
		ExpoID:    expoID,
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
}

// ExhibitorOption configures a generated exhibitor fixture.
type ExhibitorOption func(*persistence.Exhibitor)

// WithSolutions overrides the fixture solution tags.
func WithSolutions(solutions ...string) ExhibitorOption {
	return func(e *persistence.Exhibitor) { e.Solutions = solutions }
}

// NewExhibitor returns a deterministic exhibitor record with optional
// overrides.
func NewExhibitor(opts ...ExhibitorOption) persistence.Exhibitor {
	idx := atomic.AddUint64(&exhibitorCounter, 1)
	exhibitor := persistence.Exhibitor{
		ID:        fmt.Sprintf("exhibitor-%03d", idx),
		ExpoID:    "expo-001",
		Company:   fmt.Sprintf("Exhibitor %03d", idx),
		HQ:        "Berlin, Germany",
		Revenue:   float64(idx) * 1000,
		Booth:     fmt.Sprintf("Hall 2 B-%03d", idx),
		Industry:  "Technology",
		Solutions: []string{},
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&exhibitor)
	}
	return exhibitor
}
