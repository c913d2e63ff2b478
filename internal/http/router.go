package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires the expointel handlers into the /api route tree.
// RequireAuth guards the per-user routes; RequireAdmin additionally guards
// the /api/admin subtree. Middleware wraps the whole tree outermost-first.
type RouterConfig struct {
	System       *SystemHandler
	Auth         *AuthHandler
	Directory    *DirectoryHandler
	Engagement   *EngagementHandler
	Admin        *AdminHandler
	Export       *ExportHandler
	RequireAuth  func(http.Handler) http.Handler
	RequireAdmin func(http.Handler) http.Handler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.RequireAuth == nil {
			return h
		}
		wrapped := cfg.RequireAuth(h)
		return wrapped.ServeHTTP
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.RequireAdmin == nil {
			return protected(h)
		}
		return protected(cfg.RequireAdmin(h).ServeHTTP)
	}

	if cfg.System != nil {
		mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.System.Health(w, r)
		})
		mux.HandleFunc("/api/seed", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.System.Seed(w, r)
		})
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Register(w, r)
		})
		mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Auth.CurrentUser(w, r)
		})
	}

	if cfg.Directory != nil {
		mux.HandleFunc("/api/expos", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Directory.ListExpos(w, r)
			case http.MethodPost:
				protected(cfg.Directory.CreateExpo)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/expos/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/expos/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			if rest == "meta/filters" {
				cfg.Directory.ExpoFilters(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), rest))
			cfg.Directory.GetExpo(w, r)
		})
		mux.HandleFunc("/api/companies", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Directory.ListCompanies(w, r)
		})
		mux.HandleFunc("/api/companies/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/companies/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			if rest == "filters/options" {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Directory.CompanyFilterOptions(w, r)
				return
			}
			if id, okSuffix := strings.CutSuffix(rest, "/stage"); okSuffix {
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				r = r.WithContext(ContextWithResourceID(r.Context(), id))
				protected(cfg.Directory.UpdateStage)(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), rest))
			cfg.Directory.GetCompany(w, r)
		})
	}

	if cfg.Engagement != nil {
		mountOwnedCollection(mux, "/api/shortlists", protected, ownedCollection{
			List:   cfg.Engagement.ListShortlists,
			Create: cfg.Engagement.CreateShortlist,
			Update: cfg.Engagement.UpdateShortlist,
			Delete: cfg.Engagement.DeleteShortlist,
		})
		mountOwnedCollection(mux, "/api/networks", protected, ownedCollection{
			List:   cfg.Engagement.ListNetworks,
			Create: cfg.Engagement.CreateNetwork,
			Update: cfg.Engagement.UpdateNetwork,
			Delete: cfg.Engagement.DeleteNetwork,
		})
		mountOwnedCollection(mux, "/api/expo-days", protected, ownedCollection{
			List:   cfg.Engagement.ListExpoDays,
			Create: cfg.Engagement.CreateExpoDay,
			Update: cfg.Engagement.UpdateExpoDay,
			Delete: cfg.Engagement.DeleteExpoDay,
		})
	}

	if cfg.Admin != nil {
		mux.HandleFunc("/api/admin/upload-csv", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			admin(cfg.Admin.UploadCSV)(w, r)
		})
		mux.HandleFunc("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			admin(cfg.Admin.ListUsers)(w, r)
		})
		mux.HandleFunc("/api/admin/users/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/admin/users/")
			id, okSuffix := strings.CutSuffix(rest, "/role")
			if !okSuffix || id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			admin(cfg.Admin.UpdateUserRole)(w, r)
		})
	}

	if cfg.Export != nil {
		mux.HandleFunc("/api/export/", func(w http.ResponseWriter, r *http.Request) {
			collection := strings.TrimPrefix(r.URL.Path, "/api/export/")
			if collection == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), collection))
			protected(cfg.Export.Export)(w, r)
		})
	}

	return wrapMiddleware(mux, cfg.Middleware)
}

// ownedCollection groups the four handlers of a per-user CRUD collection.
type ownedCollection struct {
	List   http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

func mountOwnedCollection(mux *http.ServeMux, prefix string, protect func(http.HandlerFunc) http.HandlerFunc, c ownedCollection) {
	mux.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			protect(c.List)(w, r)
		case http.MethodPost:
			protect(c.Create)(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})
	mux.HandleFunc(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, prefix+"/")
		if id == "" {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithResourceID(r.Context(), id))
		switch r.Method {
		case http.MethodPut:
			protect(c.Update)(w, r)
		case http.MethodDelete:
			protect(c.Delete)(w, r)
		default:
			methodNotAllowed(w, http.MethodPut, http.MethodDelete)
		}
	})
}

func wrapMiddleware(handler http.Handler, middleware []func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		if middleware[i] != nil {
			handler = middleware[i](handler)
		}
	}
	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
