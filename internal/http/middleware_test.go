package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/expointel/internal/application"
)

type stubTokenResolver struct {
	user application.User
	err  error
}

func (r stubTokenResolver) ResolveToken(context.Context, string) (application.User, error) {
	return r.user, r.err
}

func TestRequireToken(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects requests without a bearer token", func(t *testing.T) {
		t.Parallel()

		handler := RequireToken(stubTokenResolver{}, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next handler should not run without credentials")
		}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/shortlists", nil))

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("maps token failures to 401", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			err  error
		}{
			{name: "expired", err: application.ErrTokenExpired},
			{name: "invalid", err: application.ErrTokenInvalid},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				handler := RequireToken(stubTokenResolver{err: tc.err}, nil)(okHandler)

				req := httptest.NewRequest(http.MethodGet, "/api/shortlists", nil)
				req.Header.Set("Authorization", "Bearer stale")
				recorder := httptest.NewRecorder()
				handler.ServeHTTP(recorder, req)

				if recorder.Code != http.StatusUnauthorized {
					t.Fatalf("expected 401, got %d", recorder.Code)
				}
			})
		}
	})

	t.Run("attaches the principal to the request context", func(t *testing.T) {
		t.Parallel()

		resolver := stubTokenResolver{user: application.User{ID: "user-1", Role: "admin"}}
		captured := make(chan application.Principal, 1)

		handler := RequireToken(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				t.Error("expected principal in request context")
			}
			captured <- principal
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/shortlists", nil)
		req.Header.Set("Authorization", "Bearer valid")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		principal := <-captured
		if principal.UserID != "user-1" || !principal.IsAdmin() {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects non-admin principals", func(t *testing.T) {
		t.Parallel()

		handler := RequireAdmin(nil)(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req = req.WithContext(ContextWithPrincipal(req.Context(), application.Principal{UserID: "user-1", Role: "user"}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})

	t.Run("passes admin principals through", func(t *testing.T) {
		t.Parallel()

		handler := RequireAdmin(nil)(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req = req.WithContext(ContextWithPrincipal(req.Context(), application.Principal{UserID: "admin-1", Role: "admin"}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
	})
}
