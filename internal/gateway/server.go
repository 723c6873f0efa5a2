// Package gateway exposes a small read-only HTTP API over the leave
// database for dashboards and scripts.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/myslide/leavebot/internal/config"
	"github.com/myslide/leavebot/internal/store"
	"github.com/myslide/leavebot/internal/version"
)

type Server struct {
	cfg        config.GatewayConfig
	store      *store.Store
	httpServer *http.Server
}

func New(cfg config.GatewayConfig, s *store.Store) *Server {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Port
	if port <= 0 {
		port = 18890
	}

	cfg.Host = host
	cfg.Port = port
	return &Server{cfg: cfg, store: s}
}

func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           NewHandler(s.cfg.Token, s.store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("gateway listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// NewHandler builds the route tree. A blank token leaves the API open;
// otherwise /api requires the bearer token.
func NewHandler(token string, s *store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"request_id": middleware.GetReqID(req.Context()),
		})
	})
	r.Get("/version", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"version":    version.Version,
			"request_id": middleware.GetReqID(req.Context()),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(requireBearer(token))
		r.Get("/requests", listRequests(s))
		r.Get("/suggestions", listSuggestions(s))
		r.Get("/users", listUsers(s))
	})
	return r
}

func requireBearer(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(token) != "" && !isAuthorized(r, token) {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "missing or invalid bearer token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type requestItem struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	EmployeeName    string `json:"employee_name"`
	EmployeeID      string `json:"employee_id"`
	Reason          string `json:"reason"`
	Dates           string `json:"dates"`
	Time            string `json:"time,omitempty"`
	Subtype         string `json:"subtype,omitempty"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	DecidedBy       string `json:"decided_by,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func listRequests(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := r.URL.Query().Get("kind")
		status := store.Status(r.URL.Query().Get("status"))
		switch status {
		case "", store.StatusPending, store.StatusApproved, store.StatusRejected:
		default:
			writeError(w, r, http.StatusBadRequest, "bad_request", "unknown status")
			return
		}

		items := []requestItem{}
		if kind == "" || kind == string(store.KindFullDay) {
			leaves, err := s.ListFullDay(r.Context(), status)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, "internal_error", "listing requests failed")
				return
			}
			for _, l := range leaves {
				items = append(items, requestItem{
					ID: l.ID, Kind: string(store.KindFullDay),
					EmployeeName: l.EmployeeName, EmployeeID: l.EmployeeID,
					Reason: l.Reason, Dates: l.DateDescriptor,
					Status: string(l.Status), RejectionReason: l.RejectionReason,
					DecidedBy: l.DecidedBy, CreatedAt: l.CreatedAt.Format(time.RFC3339),
				})
			}
		}
		if kind == "" || kind == string(store.KindHourly) {
			leaves, err := s.ListHourly(r.Context(), status)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, "internal_error", "listing requests failed")
				return
			}
			for _, l := range leaves {
				items = append(items, requestItem{
					ID: l.ID, Kind: string(store.KindHourly),
					EmployeeName: l.EmployeeName, EmployeeID: l.EmployeeID,
					Reason: l.Reason, Dates: l.Date.Format("02/01/2006"),
					Time: l.TimeDescriptor, Subtype: string(l.Subtype),
					Status: string(l.Status), RejectionReason: l.RejectionReason,
					DecidedBy: l.DecidedBy, CreatedAt: l.CreatedAt.Format(time.RFC3339),
				})
			}
		}
		if kind != "" && kind != string(store.KindFullDay) && kind != string(store.KindHourly) {
			writeError(w, r, http.StatusBadRequest, "bad_request", "unknown kind")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"requests":   items,
			"request_id": middleware.GetReqID(r.Context()),
		})
	}
}

func listSuggestions(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suggestions, err := s.ListSuggestions(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "internal_error", "listing suggestions failed")
			return
		}
		type item struct {
			ID          string `json:"id"`
			Message     string `json:"message"`
			Sender      string `json:"sender"`
			SubmittedAt string `json:"submitted_at"`
		}
		items := make([]item, len(suggestions))
		for i, sg := range suggestions {
			items[i] = item{
				ID: sg.ID, Message: sg.Message, Sender: sg.Sender,
				SubmittedAt: sg.SubmittedAt.Format(time.RFC3339),
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"suggestions": items,
			"request_id":  middleware.GetReqID(r.Context()),
		})
	}
}

func listUsers(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.ListUsers(r.Context(), store.Role(r.URL.Query().Get("role")))
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "internal_error", "listing users failed")
			return
		}
		type item struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		}
		items := make([]item, len(users))
		for i, u := range users {
			items[i] = item{ID: u.ID, Name: u.Name, Role: string(u.Role)}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"users":      items,
			"request_id": middleware.GetReqID(r.Context()),
		})
	}
}

func isAuthorized(r *http.Request, expected string) bool {
	got := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(got, prefix) {
		return false
	}
	return strings.TrimSpace(strings.TrimPrefix(got, prefix)) == expected
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"code":       code,
		"message":    message,
		"request_id": middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
