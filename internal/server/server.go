// Package server содержит общую HTTP-обвязку обоих приложений:
// маршрутизатор, цепочку middleware, шаблоны страниц и маршруты /auth/.
package server

import (
	"context"
	"fmt"
	"net/http"

	"ya_projects/internal/auth"
	"ya_projects/internal/config"
	"ya_projects/internal/logger"
	"ya_projects/internal/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger проверяет доступность хранилища для /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server хранит зависимости HTTP-обработчиков.
type Server struct {
	cfg      *config.Config
	mux      *http.ServeMux
	pages    *renderer
	sessions *auth.Sessions
	auth     *auth.Service
	users    storage.UserStore
	db       Pinger
	limiter  *ipLimiter
}

// New создаёт сервер и регистрирует общие маршруты. db может быть nil.
func New(cfg *config.Config, users storage.UserStore, db Pinger) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		pages:    pages,
		sessions: auth.NewSessions(cfg.Auth.SecretKey, cfg.Auth.SessionTTL, cfg.Auth.CookieName),
		auth:     auth.NewService(users),
		users:    users,
		db:       db,
		limiter:  newIPLimiter(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /auth/login/{$}", s.loginPage)
	s.mux.HandleFunc("POST /auth/login/{$}", s.login)
	s.mux.HandleFunc("GET /auth/logout/{$}", s.logout)
	s.mux.HandleFunc("POST /auth/logout/{$}", s.logout)
	s.mux.HandleFunc("GET /auth/signup/{$}", s.signupPage)
	s.mux.HandleFunc("POST /auth/signup/{$}", s.signup)
	s.mux.HandleFunc("GET /health", s.HealthCheck)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("/", s.NotFound)
}

func (s *Server) Config() *config.Config { return s.cfg }

func (s *Server) Sessions() *auth.Sessions { return s.sessions }

// Handle регистрирует обработчик приложения.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
}

func (s *Server) HandleFunc(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, h)
}

// LoginRequired отправляет анонимов на страницу входа.
func (s *Server) LoginRequired(h http.HandlerFunc) http.Handler {
	return auth.RequireLogin(s.cfg.Auth.LoginURL)(h)
}

// Handler возвращает маршрутизатор, обёрнутый в цепочку middleware.
func (s *Server) Handler() http.Handler {
	var h http.Handler = Recover(s, s.mux)
	h = Metrics(h)
	h = auth.Middleware(s.sessions, s.users)(h)
	h = Logging(h)
	return RequestID(h)
}

// HealthCheck отвечает 200 OK, если база доступна, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			logger.FromContext(r.Context()).Errorf("Health check failed: %v", err)
			http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Write([]byte("OK"))
}
