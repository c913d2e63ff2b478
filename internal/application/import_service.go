package application

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/expointel/internal/persistence"
)

const importPreviewSize = 3

// ImportService loads company rows from uploaded CSV content.
type ImportService struct {
	companies   persistence.CompanyRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewImportService constructs an ImportService with the provided dependencies.
func NewImportService(companies persistence.CompanyRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ImportService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ImportService{
		companies:   companies,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// ImportCompanies parses CSV content (header + data rows) and stores each row
// as a company attached to the given expo. Parsing is best effort per field:
// unknown columns are ignored, missing values default to empty or zero, bad
// contact JSON degrades to no contacts. Imports with zero data rows are
// rejected. Admin only.
func (s *ImportService) ImportCompanies(ctx context.Context, principal Principal, expoID, fileContent string) (ImportResult, error) {
	logger := serviceLogger(ctx, s.logger, "ImportService", "ImportCompanies", "expo_id", expoID)

	if !principal.IsAdmin() {
		return ImportResult{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if expoID == "" {
		vErr.add("expo_id", "expo_id is required")
	}
	if strings.TrimSpace(fileContent) == "" {
		vErr.add("file_content", "file_content is required")
	}
	if vErr.HasErrors() {
		return ImportResult{}, vErr
	}

	reader := csv.NewReader(strings.NewReader(fileContent))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		vErr.add("file_content", "file content is not valid CSV")
		return ImportResult{}, vErr
	}
	if len(records) < 2 {
		vErr.add("file_content", "CSV must contain a header and at least one data row")
		return ImportResult{}, vErr
	}

	// Column lookup is case-insensitive on the header names.
	columns := make(map[string]int)
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		index, ok := columns[name]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}

	companies := make([]persistence.Company, 0, len(records)-1)
	for _, row := range records[1:] {
		company := persistence.Company{
			ID:             s.idGenerator(),
			ExpoID:         expoID,
			Name:           field(row, "name"),
			HQ:             field(row, "hq"),
			Revenue:        ParseMoney(field(row, "revenue")),
			Booth:          field(row, "booth"),
			Industry:       field(row, "industry"),
			ShortlistStage: "none",
			Contacts:       parseContacts(field(row, "contacts")),
			CreatedAt:      s.now().UTC(),
		}
		companies = append(companies, company)
	}

	if err := s.companies.CreateCompanies(ctx, companies); err != nil {
		logger.Error("failed to store imported companies", "error", err)
		return ImportResult{}, fmt.Errorf("failed to import companies: %w", err)
	}

	preview := companies
	if len(preview) > importPreviewSize {
		preview = preview[:importPreviewSize]
	}

	logger.Info("companies imported", "count", len(companies))
	return ImportResult{Count: len(companies), Preview: preview}, nil
}

// parseContacts decodes the contacts column as a JSON [{name,role}] array.
// Anything that fails to decode yields an empty contact list.
func parseContacts(raw string) []persistence.Contact {
	if raw == "" {
		return []persistence.Contact{}
	}
	var contacts []persistence.Contact
	if err := json.Unmarshal([]byte(raw), &contacts); err != nil || contacts == nil {
		return []persistence.Contact{}
	}
	return contacts
}
