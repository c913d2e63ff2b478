package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/expointel/internal/persistence"
)

// ExportService renders the caller's engagement records as downloadable CSV.
type ExportService struct {
	engagements *EngagementService
	logger      *slog.Logger
}

// NewExportService constructs an ExportService over the engagement views.
func NewExportService(engagements *EngagementService, logger *slog.Logger) *ExportService {
	return &ExportService{
		engagements: engagements,
		logger:      defaultLogger(logger),
	}
}

// ExportCollection renders one of the engagement collections. Unknown
// collection names are rejected; zero matching rows yield empty csv_data with
// the filename intact.
func (s *ExportService) ExportCollection(ctx context.Context, principal Principal, collection, expoID string) (Export, error) {
	logger := serviceLogger(ctx, s.logger, "ExportService", "ExportCollection", "collection", collection)

	var (
		header []string
		rows   [][]string
	)

	switch collection {
	case "shortlists":
		views, err := s.engagements.ListShortlists(ctx, principal, expoID, "")
		if err != nil {
			return Export{}, err
		}
		header = []string{"company_name", "expo_name", "stage", "notes", "created_at"}
		for _, view := range views {
			name, stage := "", ""
			if view.Company != nil {
				name = view.Company.Name
				stage = view.Company.ShortlistStage
			}
			rows = append(rows, []string{name, expoName(view.Expo), stage, view.Notes, formatExportTime(view.CreatedAt)})
		}
	case "networks":
		views, err := s.engagements.ListNetworks(ctx, principal, expoID, "")
		if err != nil {
			return Export{}, err
		}
		header = []string{"company_name", "expo_name", "contact_name", "contact_role", "status", "meeting_type", "scheduled_time", "notes", "created_at"}
		for _, view := range views {
			rows = append(rows, []string{
				companyName(view.Company), expoName(view.Expo),
				view.ContactName, view.ContactRole, view.Status, view.MeetingType,
				view.ScheduledTime, view.Notes, formatExportTime(view.CreatedAt),
			})
		}
	case "expo-days":
		views, err := s.engagements.ListExpoDays(ctx, principal, expoID)
		if err != nil {
			return Export{}, err
		}
		header = []string{"company_name", "expo_name", "time_slot", "status", "meeting_type", "booth", "notes", "created_at"}
		for _, view := range views {
			rows = append(rows, []string{
				companyName(view.Company), expoName(view.Expo),
				view.TimeSlot, view.Status, view.MeetingType, view.Booth,
				view.Notes, formatExportTime(view.CreatedAt),
			})
		}
	default:
		vErr := &ValidationError{}
		vErr.add("collection", "collection must be one of shortlists, networks, expo-days")
		return Export{}, vErr
	}

	export := Export{Filename: collection + "_export.csv"}
	if len(rows) == 0 {
		logger.Info("export rendered", "rows", 0)
		return export, nil
	}

	var builder strings.Builder
	writer := csv.NewWriter(&builder)
	if err := writer.Write(header); err != nil {
		return Export{}, fmt.Errorf("failed to render csv: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return Export{}, fmt.Errorf("failed to render csv: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return Export{}, fmt.Errorf("failed to render csv: %w", err)
	}

	export.CSVData = builder.String()
	logger.Info("export rendered", "rows", len(rows))
	return export, nil
}

func companyName(company *persistence.Company) string {
	if company == nil {
		return ""
	}
	return company.Name
}

func expoName(expo *persistence.Expo) string {
	if expo == nil {
		return ""
	}
	return expo.Name
}

func formatExportTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
