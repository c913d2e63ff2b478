package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
	"github.com/example/expointel/internal/testfixtures"
)

type stubAuthService struct {
	registerResult application.AuthResult
	registerErr    error
	loginResult    application.AuthResult
	loginErr       error
	resolveUser    application.User
	resolveErr     error
}

func (s *stubAuthService) Register(context.Context, application.RegisterParams) (application.AuthResult, error) {
	return s.registerResult, s.registerErr
}

func (s *stubAuthService) Login(context.Context, application.LoginParams) (application.AuthResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) ResolveToken(context.Context, string) (application.User, error) {
	return s.resolveUser, s.resolveErr
}

type stubDirectoryService struct {
	expos         []application.ExpoView
	companies     []persistence.Company
	options       persistence.CompanyOptions
	stageErr      error
	updatedStages []string
}

func (s *stubDirectoryService) ListExpos(context.Context, persistence.ExpoFilter) ([]application.ExpoView, error) {
	return s.expos, nil
}

func (s *stubDirectoryService) GetExpo(context.Context, string) (application.ExpoView, error) {
	if len(s.expos) == 0 {
		return application.ExpoView{}, application.ErrNotFound
	}
	return s.expos[0], nil
}

func (s *stubDirectoryService) CreateExpo(_ context.Context, params application.CreateExpoParams) (application.ExpoView, error) {
	return application.ExpoView{Expo: persistence.Expo{ID: "expo-new", Name: params.Name}}, nil
}

func (s *stubDirectoryService) ExpoFilters(context.Context) (persistence.ExpoFieldValues, error) {
	return persistence.ExpoFieldValues{}, nil
}

func (s *stubDirectoryService) ListCompanies(context.Context, persistence.CompanyFilter) ([]persistence.Company, error) {
	return s.companies, nil
}

func (s *stubDirectoryService) GetCompany(context.Context, string) (persistence.Company, error) {
	if len(s.companies) == 0 {
		return persistence.Company{}, application.ErrNotFound
	}
	return s.companies[0], nil
}

func (s *stubDirectoryService) UpdateStage(_ context.Context, _, stage string) error {
	if s.stageErr != nil {
		return s.stageErr
	}
	s.updatedStages = append(s.updatedStages, stage)
	return nil
}

func (s *stubDirectoryService) CompanyFilterOptions(context.Context, string) (persistence.CompanyOptions, error) {
	return s.options, nil
}

type stubEngagementService struct {
	shortlistResult application.ShortlistResult
	networkPatches  []persistence.NetworkPatch
}

func (s *stubEngagementService) CreateShortlist(context.Context, application.Principal, application.CreateShortlistParams) (application.ShortlistResult, error) {
	return s.shortlistResult, nil
}

func (s *stubEngagementService) ListShortlists(context.Context, application.Principal, string, string) ([]application.ShortlistView, error) {
	return nil, nil
}

func (s *stubEngagementService) UpdateShortlistNotes(context.Context, application.Principal, string, string) error {
	return nil
}

func (s *stubEngagementService) DeleteShortlist(context.Context, application.Principal, string) error {
	return nil
}

func (s *stubEngagementService) CreateNetwork(context.Context, application.Principal, application.CreateNetworkParams) (persistence.Network, error) {
	return persistence.Network{ID: "network-1"}, nil
}

func (s *stubEngagementService) ListNetworks(context.Context, application.Principal, string, string) ([]application.NetworkView, error) {
	return nil, nil
}

func (s *stubEngagementService) UpdateNetwork(_ context.Context, _ application.Principal, _ string, patch persistence.NetworkPatch) error {
	s.networkPatches = append(s.networkPatches, patch)
	return nil
}

func (s *stubEngagementService) DeleteNetwork(context.Context, application.Principal, string) error {
	return nil
}

func (s *stubEngagementService) CreateExpoDay(context.Context, application.Principal, application.CreateExpoDayParams) (persistence.ExpoDay, error) {
	return persistence.ExpoDay{ID: "day-1"}, nil
}

func (s *stubEngagementService) ListExpoDays(context.Context, application.Principal, string) ([]application.ExpoDayView, error) {
	return nil, nil
}

func (s *stubEngagementService) UpdateExpoDay(context.Context, application.Principal, string, persistence.ExpoDayPatch) error {
	return nil
}

func (s *stubEngagementService) DeleteExpoDay(context.Context, application.Principal, string) error {
	return nil
}

type stubExportService struct{}

func (stubExportService) ExportCollection(_ context.Context, _ application.Principal, collection, _ string) (application.Export, error) {
	switch collection {
	case "shortlists", "networks", "expo-days":
		return application.Export{CSVData: "company_name,expo_name\n", Filename: collection + "_export.csv"}, nil
	default:
		return application.Export{}, &application.ValidationError{FieldErrors: map[string]string{
			"collection": "collection must be one of shortlists, networks, expo-days",
		}}
	}
}

type stubAdminService struct {
	users []application.User
}

func (s *stubAdminService) ListUsers(context.Context, application.Principal) ([]application.User, error) {
	return s.users, nil
}

func (s *stubAdminService) UpdateUserRole(context.Context, application.Principal, string, string) error {
	return nil
}

type stubImportService struct{}

func (stubImportService) ImportCompanies(context.Context, application.Principal, string, string) (application.ImportResult, error) {
	return application.ImportResult{Count: 2, Preview: []persistence.Company{{ID: "company-1"}}}, nil
}

type routerFixture struct {
	auth       *stubAuthService
	directory  *stubDirectoryService
	engagement *stubEngagementService
	handler    http.Handler
}

func newRouterFixture() *routerFixture {
	auth := &stubAuthService{}
	directory := &stubDirectoryService{}
	engagement := &stubEngagementService{}

	handler := NewRouter(RouterConfig{
		System: NewSystemHandler(func(context.Context) (SeedOutcome, error) {
			return SeedOutcome{AlreadySeeded: true}, nil
		}, nil),
		Auth:         NewAuthHandler(auth, nil),
		Directory:    NewDirectoryHandler(directory, nil),
		Engagement:   NewEngagementHandler(engagement, nil),
		Admin:        NewAdminHandler(&stubAdminService{}, stubImportService{}, nil),
		Export:       NewExportHandler(stubExportService{}, nil),
		RequireAuth:  RequireToken(auth, nil),
		RequireAdmin: RequireAdmin(nil),
	})

	return &routerFixture{auth: auth, directory: directory, engagement: engagement, handler: handler}
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", recorder.Body.String(), err)
	}
	return body
}

func TestSystemRoutes(t *testing.T) {
	t.Parallel()
	fixture := newRouterFixture()

	t.Run("health", func(t *testing.T) {
		t.Parallel()
		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if body := decodeBody(t, recorder); body["status"] != "ok" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("seed already seeded", func(t *testing.T) {
		t.Parallel()
		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/seed", nil))
		if body := decodeBody(t, recorder); body["status"] != "already_seeded" {
			t.Fatalf("unexpected body: %v", body)
		}
	})
}

func TestAuthRoutes(t *testing.T) {
	t.Parallel()

	t.Run("register conflict maps to 409", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.registerErr = application.ErrEmailTaken

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":"a@b.com","password":"pw"}`))
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", recorder.Code)
		}
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.loginErr = application.ErrInvalidCredentials

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.com","password":"bad"}`))
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
		if body := decodeBody(t, recorder); body["error_code"] != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("login returns token and user", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.loginResult = application.AuthResult{
			Token: "jwt-token",
			User:  application.User{ID: "user-1", Email: "a@b.com", Name: "Ada", Role: "user"},
		}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.com","password":"pw"}`))
		fixture.handler.ServeHTTP(recorder, req)

		body := decodeBody(t, recorder)
		if body["token"] != "jwt-token" {
			t.Fatalf("unexpected body: %v", body)
		}
		user, _ := body["user"].(map[string]any)
		if user["email"] != "a@b.com" || user["role"] != "user" {
			t.Fatalf("unexpected user payload: %v", user)
		}
	})
}

func TestDirectoryRoutes(t *testing.T) {
	t.Parallel()

	t.Run("expo list is public and carries company_count", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.directory.expos = []application.ExpoView{{
			Expo:         testfixtures.NewExpo(),
			CompanyCount: 4,
		}}

		recorder := httptest.NewRecorder()
		fixture.handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/expos", nil))

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		var body []map[string]any
		if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
			t.Fatalf("expected a top-level array: %v", err)
		}
		if len(body) != 1 || body[0]["company_count"] != float64(4) {
			t.Fatalf("unexpected payload: %v", body)
		}
	})

	t.Run("expo creation requires a token", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/expos", strings.NewReader(`{"name":"CES"}`))
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("invalid stage maps to 400", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "user-1", Role: "user"}
		fixture.directory.stageErr = &application.ValidationError{FieldErrors: map[string]string{"stage": "unknown stage"}}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/companies/company-1/stage", strings.NewReader("stage=negotiating"))
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("stage update echoes the stage", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "user-1", Role: "user"}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/companies/company-1/stage", strings.NewReader("stage=engaging"))
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		fixture.handler.ServeHTTP(recorder, req)

		body := decodeBody(t, recorder)
		if body["status"] != "updated" || body["stage"] != "engaging" {
			t.Fatalf("unexpected body: %v", body)
		}
	})
}

func TestEngagementRoutes(t *testing.T) {
	t.Parallel()

	t.Run("duplicate shortlist returns already_exists", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "user-1", Role: "user"}
		fixture.engagement.shortlistResult = application.ShortlistResult{ID: "sl-1", AlreadyExists: true}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/shortlists", strings.NewReader(`{"company_id":"c1","expo_id":"e1"}`))
		req.Header.Set("Authorization", "Bearer token")
		fixture.handler.ServeHTTP(recorder, req)

		body := decodeBody(t, recorder)
		if body["status"] != "already_exists" || body["id"] != "sl-1" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("fresh shortlist returns the record", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "user-1", Role: "user"}
		fixture.engagement.shortlistResult = application.ShortlistResult{
			ID:        "sl-2",
			Shortlist: persistence.Shortlist{ID: "sl-2", UserID: "user-1", CompanyID: "c1", ExpoID: "e1"},
		}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/shortlists", strings.NewReader(`{"company_id":"c1","expo_id":"e1"}`))
		req.Header.Set("Authorization", "Bearer token")
		fixture.handler.ServeHTTP(recorder, req)

		body := decodeBody(t, recorder)
		if body["id"] != "sl-2" || body["company_id"] != "c1" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("network patch carries only submitted fields", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "user-1", Role: "user"}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/networks/n1", strings.NewReader("status=meeting_done"))
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if len(fixture.engagement.networkPatches) != 1 {
			t.Fatalf("expected one patch, got %d", len(fixture.engagement.networkPatches))
		}
		patch := fixture.engagement.networkPatches[0]
		if patch.Status == nil || *patch.Status != "meeting_done" {
			t.Fatalf("status not patched: %+v", patch)
		}
		if patch.Notes != nil || patch.MeetingType != nil {
			t.Fatalf("unexpected fields patched: %+v", patch)
		}
	})
}

func TestAdminAndExportRoutes(t *testing.T) {
	t.Parallel()

	t.Run("admin routes reject regular users", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "user-1", Role: "user"}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer token")
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})

	t.Run("csv upload responds with count and preview", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "admin-1", Role: "admin"}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/upload-csv", strings.NewReader("expo_id=e1&file_content=name%0AAcme"))
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		fixture.handler.ServeHTTP(recorder, req)

		body := decodeBody(t, recorder)
		if body["status"] != "uploaded" || body["count"] != float64(2) {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("unknown export collection maps to 400", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "user-1", Role: "user"}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/export/favourites", nil)
		req.Header.Set("Authorization", "Bearer token")
		fixture.handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("export returns csv payload", func(t *testing.T) {
		t.Parallel()
		fixture := newRouterFixture()
		fixture.auth.resolveUser = application.User{ID: "user-1", Role: "user"}

		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/export/shortlists", nil)
		req.Header.Set("Authorization", "Bearer token")
		fixture.handler.ServeHTTP(recorder, req)

		body := decodeBody(t, recorder)
		if body["filename"] != "shortlists_export.csv" {
			t.Fatalf("unexpected body: %v", body)
		}
	})
}
