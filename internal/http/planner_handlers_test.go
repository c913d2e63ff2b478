package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
	"github.com/example/expointel/internal/planner"
)

type stubCatalogService struct {
	expos      []persistence.Expo
	exhibitors []persistence.Exhibitor
	options    persistence.ExhibitorOptions
}

func (s *stubCatalogService) ListExpos(context.Context) ([]persistence.Expo, error) {
	return s.expos, nil
}

func (s *stubCatalogService) GetExpo(context.Context, string) (persistence.Expo, error) {
	if len(s.expos) == 0 {
		return persistence.Expo{}, application.ErrNotFound
	}
	return s.expos[0], nil
}

func (s *stubCatalogService) CreateExpo(_ context.Context, params planner.CreateExpoParams) (persistence.Expo, error) {
	return persistence.Expo{ID: "expo-new", Name: params.Name, Location: params.Location}, nil
}

func (s *stubCatalogService) ListExhibitors(context.Context, persistence.ExhibitorFilter) ([]persistence.Exhibitor, error) {
	return s.exhibitors, nil
}

func (s *stubCatalogService) GetExhibitor(context.Context, string) (persistence.Exhibitor, error) {
	if len(s.exhibitors) == 0 {
		return persistence.Exhibitor{}, application.ErrNotFound
	}
	return s.exhibitors[0], nil
}

func (s *stubCatalogService) ExhibitorFilterOptions(context.Context) (persistence.ExhibitorOptions, error) {
	return s.options, nil
}

type stubListService struct {
	reorderErr error
	reordered  [][]string
}

func (s *stubListService) CreateList(_ context.Context, principal application.Principal, params planner.CreateListParams) (persistence.ExhibitorList, error) {
	return persistence.ExhibitorList{
		ID:           "list-1",
		UserID:       principal.UserID,
		ExpoID:       params.ExpoID,
		Name:         params.Name,
		ExhibitorIDs: []string{},
	}, nil
}

func (s *stubListService) ListLists(context.Context, application.Principal, string) ([]persistence.ExhibitorList, error) {
	return nil, nil
}

func (s *stubListService) AddExhibitor(context.Context, application.Principal, string, string) error {
	return nil
}

func (s *stubListService) RemoveExhibitor(context.Context, application.Principal, string, string) error {
	return nil
}

func (s *stubListService) Reorder(_ context.Context, _ application.Principal, _ string, exhibitorIDs []string) error {
	if s.reorderErr != nil {
		return s.reorderErr
	}
	s.reordered = append(s.reordered, exhibitorIDs)
	return nil
}

func (s *stubListService) DeleteList(context.Context, application.Principal, string) error {
	return nil
}

type stubAgendaService struct {
	meeting    persistence.Meeting
	audio      []byte
	cardImages [][]byte
}

func (s *stubAgendaService) CreateAgenda(_ context.Context, principal application.Principal, expoID string) (persistence.Agenda, error) {
	return persistence.Agenda{ID: "agenda-1", UserID: principal.UserID, ExpoID: expoID, Meetings: []persistence.Meeting{}}, nil
}

func (s *stubAgendaService) ListAgendas(context.Context, application.Principal, string) ([]persistence.Agenda, error) {
	return nil, nil
}

func (s *stubAgendaService) DeleteAgenda(context.Context, application.Principal, string) error {
	return nil
}

func (s *stubAgendaService) AddMeeting(_ context.Context, _ application.Principal, _ string, params planner.CreateMeetingParams) (persistence.Meeting, error) {
	return persistence.Meeting{ID: "meeting-1", ExhibitorID: params.ExhibitorID, Time: params.Time, Status: "scheduled"}, nil
}

func (s *stubAgendaService) UpdateMeeting(context.Context, application.Principal, string, string, planner.UpdateMeetingParams) (persistence.Meeting, error) {
	return s.meeting, nil
}

func (s *stubAgendaService) CheckIn(context.Context, application.Principal, string, string) (persistence.Meeting, error) {
	checked := s.meeting
	checked.Status = "checked_in"
	checked.CheckedIn = true
	return checked, nil
}

func (s *stubAgendaService) AttachVisitingCard(_ context.Context, _ application.Principal, _, _ string, image []byte) (persistence.Meeting, error) {
	s.cardImages = append(s.cardImages, image)
	withCard := s.meeting
	withCard.VisitingCard = image
	return withCard, nil
}

func (s *stubAgendaService) AttachVoiceNote(_ context.Context, _ application.Principal, _, _ string, audio []byte) (persistence.Meeting, error) {
	s.audio = audio
	withNote := s.meeting
	withNote.VoiceNote = audio
	return withNote, nil
}

type plannerFixture struct {
	auth    *stubAuthService
	catalog *stubCatalogService
	lists   *stubListService
	agendas *stubAgendaService
	handler http.Handler
}

func newPlannerFixture() *plannerFixture {
	auth := &stubAuthService{resolveUser: application.User{ID: "user-1", Role: "user"}}
	catalog := &stubCatalogService{}
	lists := &stubListService{}
	agendas := &stubAgendaService{meeting: persistence.Meeting{ID: "meeting-1", ExhibitorID: "ex-1", Status: "scheduled"}}

	handler := NewPlannerRouter(PlannerRouterConfig{
		System: NewSystemHandler(func(context.Context) (SeedOutcome, error) {
			return SeedOutcome{Expos: 2, Exhibitors: 8}, nil
		}, nil),
		Auth:         NewAuthHandler(auth, nil),
		Catalog:      NewCatalogHandler(catalog, nil),
		Lists:        NewListHandler(lists, nil),
		Agendas:      NewAgendaHandler(agendas, nil),
		Admin:        NewAdminHandler(&stubAdminService{}, stubImportService{}, nil),
		RequireAuth:  RequireToken(auth, nil),
		RequireAdmin: RequireAdmin(nil),
	})

	return &plannerFixture{auth: auth, catalog: catalog, lists: lists, agendas: agendas, handler: handler}
}

func authorizedRequest(method, target string, body *strings.Reader) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	req.Header.Set("Authorization", "Bearer token")
	return req
}

func TestCatalogRoutes(t *testing.T) {
	t.Parallel()

	t.Run("seed reports counts", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/seed", nil))

		body := decodeBody(t, recorder)
		if body["status"] != "seeded" || body["exhibitors"] != float64(8) {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("exhibitor filter options", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()
		fixture.catalog.options = persistence.ExhibitorOptions{
			HQs:        []string{"Berlin", "Stockholm"},
			Industries: []string{"Cloud"},
			Solutions:  []string{"Analytics", "Payments"},
		}

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/exhibitors/filters/options", nil))

		body := decodeBody(t, recorder)
		solutions, _ := body["solutions"].([]any)
		if len(solutions) != 2 || solutions[0] != "Analytics" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("exhibitors never serialize nil solutions", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()
		fixture.catalog.exhibitors = []persistence.Exhibitor{{ID: "ex-1", Company: "CloudNova GmbH"}}

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/exhibitors", nil))

		if strings.Contains(recorder.Body.String(), `"solutions":null`) {
			t.Fatalf("solutions should serialize as an empty array: %s", recorder.Body.String())
		}
	})
}

func TestListRoutes(t *testing.T) {
	t.Parallel()

	t.Run("create requires a token", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/shortlists", strings.NewReader(`{"expo_id":"e1"}`))
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("membership endpoints return status envelopes", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()

		for _, tc := range []struct {
			path   string
			status string
		}{
			{path: "/api/shortlists/list-1/add", status: "added"},
			{path: "/api/shortlists/list-1/remove", status: "removed"},
		} {
			recorder := httptest.NewRecorder()
			req := authorizedRequest(http.MethodPost, tc.path, strings.NewReader(`{"exhibitor_id":"ex-1"}`))
			fixture.handler.ServeHTTP(recorder, req)

			if recorder.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d", tc.path, recorder.Code)
			}
			if body := decodeBody(t, recorder); body["status"] != tc.status {
				t.Fatalf("%s: unexpected body: %v", tc.path, body)
			}
		}
	})

	t.Run("reorder forwards the submitted order", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()

		recorder := httptest.NewRecorder()
		req := authorizedRequest(http.MethodPost, "/api/shortlists/list-1/reorder", strings.NewReader(`{"exhibitor_ids":["ex-2","ex-1"]}`))
		fixture.handler.ServeHTTP(recorder, req)

		if body := decodeBody(t, recorder); body["status"] != "reordered" {
			t.Fatalf("unexpected body: %v", body)
		}
		if len(fixture.lists.reordered) != 1 || fixture.lists.reordered[0][0] != "ex-2" {
			t.Fatalf("order not forwarded: %v", fixture.lists.reordered)
		}
	})

	t.Run("invalid reorder maps to 400", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()
		fixture.lists.reorderErr = &application.ValidationError{FieldErrors: map[string]string{
			"exhibitor_ids": "must contain the same exhibitors as the list",
		}}

		recorder := httptest.NewRecorder()
		req := authorizedRequest(http.MethodPost, "/api/shortlists/list-1/reorder", strings.NewReader(`{"exhibitor_ids":["ex-9"]}`))
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})
}

func TestAgendaRoutes(t *testing.T) {
	t.Parallel()

	t.Run("meeting creation returns scheduled", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()

		recorder := httptest.NewRecorder()
		req := authorizedRequest(http.MethodPost, "/api/expodays/agenda-1/meetings", strings.NewReader(`{"exhibitor_id":"ex-1","time":"09:30"}`))
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}
		body := decodeBody(t, recorder)
		if body["status"] != "scheduled" || body["exhibitor_id"] != "ex-1" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("checkin returns status envelope", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()

		recorder := httptest.NewRecorder()
		req := authorizedRequest(http.MethodPost, "/api/expodays/agenda-1/meetings/meeting-1/checkin", nil)
		fixture.handler.ServeHTTP(recorder, req)

		if body := decodeBody(t, recorder); body["status"] != "checked_in" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("voice note upload keeps blobs out of the response", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", "note.webm")
		if err != nil {
			t.Fatalf("failed to build upload: %v", err)
		}
		if _, err := part.Write([]byte("audio-bytes")); err != nil {
			t.Fatalf("failed to build upload: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("failed to build upload: %v", err)
		}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/expodays/agenda-1/meetings/meeting-1/voice-note", &buf)
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", writer.FormDataContentType())
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if string(fixture.agendas.audio) != "audio-bytes" {
			t.Fatalf("audio not forwarded: %q", fixture.agendas.audio)
		}
		body := decodeBody(t, recorder)
		if body["has_voice_note"] != true {
			t.Fatalf("unexpected body: %v", body)
		}
		if _, present := body["voice_note"]; present {
			t.Fatalf("raw audio leaked into the response: %v", body)
		}
		if transcript, ok := body["transcript"]; !ok || transcript != nil {
			t.Fatalf("expected null transcript, got %v", body)
		}
	})

	t.Run("visiting card upload reports presence", func(t *testing.T) {
		t.Parallel()
		fixture := newPlannerFixture()

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", "card.jpg")
		if err != nil {
			t.Fatalf("failed to build upload: %v", err)
		}
		if _, err := part.Write([]byte{0xff, 0xd8}); err != nil {
			t.Fatalf("failed to build upload: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("failed to build upload: %v", err)
		}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/expodays/agenda-1/meetings/meeting-1/visiting-card", &buf)
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", writer.FormDataContentType())
		fixture.handler.ServeHTTP(recorder, req)

		body := decodeBody(t, recorder)
		if body["has_visiting_card"] != true {
			t.Fatalf("unexpected body: %v", body)
		}
		if len(fixture.agendas.cardImages) != 1 || len(fixture.agendas.cardImages[0]) != 2 {
			t.Fatalf("image not forwarded: %v", fixture.agendas.cardImages)
		}
	})
}
