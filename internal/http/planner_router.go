package http

import (
	"net/http"
	"strings"
)

// PlannerRouterConfig wires the expoplanner handlers into the /api route
// tree. The planner's /api/shortlists are named collections and its
// /api/expodays are agendas with embedded meetings.
type PlannerRouterConfig struct {
	System       *SystemHandler
	Auth         *AuthHandler
	Catalog      *CatalogHandler
	Lists        *ListHandler
	Agendas      *AgendaHandler
	Admin        *AdminHandler
	RequireAuth  func(http.Handler) http.Handler
	RequireAdmin func(http.Handler) http.Handler
	Middleware   []func(http.Handler) http.Handler
}

func NewPlannerRouter(cfg PlannerRouterConfig) http.Handler {
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

	if cfg.Catalog != nil {
		mux.HandleFunc("/api/expos", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Catalog.ListExpos(w, r)
			case http.MethodPost:
				protected(cfg.Catalog.CreateExpo)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/expos/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/api/expos/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			cfg.Catalog.GetExpo(w, r)
		})
		mux.HandleFunc("/api/exhibitors", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Catalog.ListExhibitors(w, r)
		})
		mux.HandleFunc("/api/exhibitors/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/exhibitors/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			if rest == "filters/options" {
				cfg.Catalog.ExhibitorFilterOptions(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), rest))
			cfg.Catalog.GetExhibitor(w, r)
		})
	}

	if cfg.Lists != nil {
		mux.HandleFunc("/api/shortlists", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				protected(cfg.Lists.List)(w, r)
			case http.MethodPost:
				protected(cfg.Lists.Create)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/shortlists/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/shortlists/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			if id, okSuffix := strings.CutSuffix(rest, "/add"); okSuffix {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				r = r.WithContext(ContextWithResourceID(r.Context(), id))
				protected(cfg.Lists.Add)(w, r)
				return
			}
			if id, okSuffix := strings.CutSuffix(rest, "/remove"); okSuffix {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				r = r.WithContext(ContextWithResourceID(r.Context(), id))
				protected(cfg.Lists.Remove)(w, r)
				return
			}
			if id, okSuffix := strings.CutSuffix(rest, "/reorder"); okSuffix {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				r = r.WithContext(ContextWithResourceID(r.Context(), id))
				protected(cfg.Lists.Reorder)(w, r)
				return
			}

			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), rest))
			protected(cfg.Lists.Delete)(w, r)
		})
	}

	if cfg.Agendas != nil {
		mux.HandleFunc("/api/expodays", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				protected(cfg.Agendas.List)(w, r)
			case http.MethodPost:
				protected(cfg.Agendas.Create)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/expodays/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/api/expodays/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			segments := strings.Split(rest, "/")
			switch {
			case len(segments) == 1:
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				r = r.WithContext(ContextWithResourceID(r.Context(), segments[0]))
				protected(cfg.Agendas.Delete)(w, r)
			case len(segments) == 2 && segments[1] == "meetings":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				r = r.WithContext(ContextWithResourceID(r.Context(), segments[0]))
				protected(cfg.Agendas.AddMeeting)(w, r)
			case len(segments) == 3 && segments[1] == "meetings":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				ctx := ContextWithResourceID(r.Context(), segments[0])
				r = r.WithContext(ContextWithMeetingID(ctx, segments[2]))
				protected(cfg.Agendas.UpdateMeeting)(w, r)
			case len(segments) == 4 && segments[1] == "meetings":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				ctx := ContextWithResourceID(r.Context(), segments[0])
				r = r.WithContext(ContextWithMeetingID(ctx, segments[2]))
				switch segments[3] {
				case "checkin":
					protected(cfg.Agendas.CheckIn)(w, r)
				case "voice-note":
					protected(cfg.Agendas.AttachVoiceNote)(w, r)
				case "visiting-card":
					protected(cfg.Agendas.AttachVisitingCard)(w, r)
				default:
					http.NotFound(w, r)
				}
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Admin != nil {
		mux.HandleFunc("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			admin(cfg.Admin.ListUsers)(w, r)
		})
	}

	return wrapMiddleware(mux, cfg.Middleware)
}
