package http

import (
	"time"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
)

// Response DTOs mirror the stored documents field for field in snake_case.
// List endpoints return top-level JSON arrays.

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserDTO(user application.User) userDTO {
	return userDTO{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}

type expoDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Region       string `json:"region,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Location     string `json:"location,omitempty"`
	Date         string `json:"date"`
	CompanyCount *int64 `json:"company_count,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toExpoDTO(expo persistence.Expo) expoDTO {
	return expoDTO{
		ID:        expo.ID,
		Name:      expo.Name,
		Region:    expo.Region,
		Industry:  expo.Industry,
		Location:  expo.Location,
		Date:      expo.Date,
		CreatedAt: formatTimestamp(expo.CreatedAt),
	}
}

func toExpoViewDTO(view application.ExpoView) expoDTO {
	dto := toExpoDTO(view.Expo)
	count := view.CompanyCount
	dto.CompanyCount = &count
	return dto
}

type companyDTO struct {
	ID             string                `json:"id"`
	ExpoID         string                `json:"expo_id"`
	Name           string                `json:"name"`
	HQ             string                `json:"hq"`
	Revenue        float64               `json:"revenue"`
	Booth          string                `json:"booth"`
	Industry       string                `json:"industry"`
	ShortlistStage string                `json:"shortlist_stage"`
	Contacts       []persistence.Contact `json:"contacts"`
	CreatedAt      string                `json:"created_at"`
}

func toCompanyDTO(company persistence.Company) companyDTO {
	contacts := company.Contacts
	if contacts == nil {
		contacts = []persistence.Contact{}
	}
	return companyDTO{
		ID:             company.ID,
		ExpoID:         company.ExpoID,
		Name:           company.Name,
		HQ:             company.HQ,
		Revenue:        company.Revenue,
		Booth:          company.Booth,
		Industry:       company.Industry,
		ShortlistStage: company.ShortlistStage,
		Contacts:       contacts,
		CreatedAt:      formatTimestamp(company.CreatedAt),
	}
}

type shortlistDTO struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	CompanyID string      `json:"company_id"`
	ExpoID    string      `json:"expo_id"`
	Notes     string      `json:"notes"`
	CreatedAt string      `json:"created_at"`
	Company   *companyDTO `json:"company,omitempty"`
	Expo      *expoDTO    `json:"expo,omitempty"`
}

func toShortlistDTO(record persistence.Shortlist) shortlistDTO {
	return shortlistDTO{
		ID:        record.ID,
		UserID:    record.UserID,
		CompanyID: record.CompanyID,
		ExpoID:    record.ExpoID,
		Notes:     record.Notes,
		CreatedAt: formatTimestamp(record.CreatedAt),
	}
}

func toShortlistViewDTO(view application.ShortlistView) shortlistDTO {
	dto := toShortlistDTO(view.Shortlist)
	if view.Company != nil {
		company := toCompanyDTO(*view.Company)
		dto.Company = &company
	}
	if view.Expo != nil {
		expo := toExpoDTO(*view.Expo)
		dto.Expo = &expo
	}
	return dto
}

type networkDTO struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	CompanyID     string      `json:"company_id"`
	ExpoID        string      `json:"expo_id"`
	ContactName   string      `json:"contact_name"`
	ContactRole   string      `json:"contact_role"`
	Status        string      `json:"status"`
	MeetingType   string      `json:"meeting_type"`
	ScheduledTime string      `json:"scheduled_time"`
	Notes         string      `json:"notes"`
	CreatedAt     string      `json:"created_at"`
	Company       *companyDTO `json:"company,omitempty"`
	Expo          *expoDTO    `json:"expo,omitempty"`
}

func toNetworkDTO(record persistence.Network) networkDTO {
	return networkDTO{
		ID:            record.ID,
		UserID:        record.UserID,
		CompanyID:     record.CompanyID,
		ExpoID:        record.ExpoID,
		ContactName:   record.ContactName,
		ContactRole:   record.ContactRole,
		Status:        record.Status,
		MeetingType:   record.MeetingType,
		ScheduledTime: record.ScheduledTime,
		Notes:         record.Notes,
		CreatedAt:     formatTimestamp(record.CreatedAt),
	}
}

func toNetworkViewDTO(view application.NetworkView) networkDTO {
	dto := toNetworkDTO(view.Network)
	if view.Company != nil {
		company := toCompanyDTO(*view.Company)
		dto.Company = &company
	}
	if view.Expo != nil {
		expo := toExpoDTO(*view.Expo)
		dto.Expo = &expo
	}
	return dto
}

type expoDayDTO struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	ExpoID      string      `json:"expo_id"`
	CompanyID   string      `json:"company_id"`
	TimeSlot    string      `json:"time_slot"`
	Status      string      `json:"status"`
	MeetingType string      `json:"meeting_type"`
	Booth       string      `json:"booth"`
	Notes       string      `json:"notes"`
	CreatedAt   string      `json:"created_at"`
	Company     *companyDTO `json:"company,omitempty"`
	Expo        *expoDTO    `json:"expo,omitempty"`
}

func toExpoDayDTO(record persistence.ExpoDay) expoDayDTO {
	return expoDayDTO{
		ID:          record.ID,
		UserID:      record.UserID,
		ExpoID:      record.ExpoID,
		CompanyID:   record.CompanyID,
		TimeSlot:    record.TimeSlot,
		Status:      record.Status,
		MeetingType: record.MeetingType,
		Booth:       record.Booth,
		Notes:       record.Notes,
		CreatedAt:   formatTimestamp(record.CreatedAt),
	}
}

func toExpoDayViewDTO(view application.ExpoDayView) expoDayDTO {
	dto := toExpoDayDTO(view.ExpoDay)
	if view.Company != nil {
		company := toCompanyDTO(*view.Company)
		dto.Company = &company
	}
	if view.Expo != nil {
		expo := toExpoDTO(*view.Expo)
		dto.Expo = &expo
	}
	return dto
}

type exhibitorDTO struct {
	ID        string   `json:"id"`
	ExpoID    string   `json:"expo_id"`
	Company   string   `json:"company"`
	HQ        string   `json:"hq"`
	Revenue   float64  `json:"revenue"`
	Booth     string   `json:"booth"`
	Industry  string   `json:"industry"`
	Solutions []string `json:"solutions"`
	CreatedAt string   `json:"created_at"`
}

func toExhibitorDTO(exhibitor persistence.Exhibitor) exhibitorDTO {
	solutions := exhibitor.Solutions
	if solutions == nil {
		solutions = []string{}
	}
	return exhibitorDTO{
		ID:        exhibitor.ID,
		ExpoID:    exhibitor.ExpoID,
		Company:   exhibitor.Company,
		HQ:        exhibitor.HQ,
		Revenue:   exhibitor.Revenue,
		Booth:     exhibitor.Booth,
		Industry:  exhibitor.Industry,
		Solutions: solutions,
		CreatedAt: formatTimestamp(exhibitor.CreatedAt),
	}
}

type exhibitorListDTO struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	ExpoID       string   `json:"expo_id"`
	Name         string   `json:"name"`
	ExhibitorIDs []string `json:"exhibitor_ids"`
	CreatedAt    string   `json:"created_at"`
}

func toExhibitorListDTO(list persistence.ExhibitorList) exhibitorListDTO {
	ids := list.ExhibitorIDs
	if ids == nil {
		ids = []string{}
	}
	return exhibitorListDTO{
		ID:           list.ID,
		UserID:       list.UserID,
		ExpoID:       list.ExpoID,
		Name:         list.Name,
		ExhibitorIDs: ids,
		CreatedAt:    formatTimestamp(list.CreatedAt),
	}
}

// meetingDTO keeps attachment blobs out of the JSON payload and surfaces
// their presence as booleans instead.
type meetingDTO struct {
	ID              string  `json:"id"`
	ExhibitorID     string  `json:"exhibitor_id"`
	Time            string  `json:"time"`
	Agenda          string  `json:"agenda"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes"`
	Transcript      *string `json:"transcript"`
	ActionItems     *string `json:"action_items"`
	CheckedIn       bool    `json:"checked_in"`
	HasVisitingCard bool    `json:"has_visiting_card"`
	HasVoiceNote    bool    `json:"has_voice_note"`
	CreatedAt       string  `json:"created_at"`
}

func toMeetingDTO(meeting persistence.Meeting) meetingDTO {
	return meetingDTO{
		ID:              meeting.ID,
		ExhibitorID:     meeting.ExhibitorID,
		Time:            meeting.Time,
		Agenda:          meeting.Agenda,
		Status:          meeting.Status,
		Notes:           meeting.Notes,
		Transcript:      meeting.Transcript,
		ActionItems:     meeting.ActionItems,
		CheckedIn:       meeting.CheckedIn,
		HasVisitingCard: len(meeting.VisitingCard) > 0,
		HasVoiceNote:    len(meeting.VoiceNote) > 0,
		CreatedAt:       formatTimestamp(meeting.CreatedAt),
	}
}

type agendaDTO struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	ExpoID    string       `json:"expo_id"`
	Meetings  []meetingDTO `json:"meetings"`
	CreatedAt string       `json:"created_at"`
}

func toAgendaDTO(agenda persistence.Agenda) agendaDTO {
	meetings := make([]meetingDTO, 0, len(agenda.Meetings))
	for _, meeting := range agenda.Meetings {
		meetings = append(meetings, toMeetingDTO(meeting))
	}
	return agendaDTO{
		ID:        agenda.ID,
		UserID:    agenda.UserID,
		ExpoID:    agenda.ExpoID,
		Meetings:  meetings,
		CreatedAt: formatTimestamp(agenda.CreatedAt),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
