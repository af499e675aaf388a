package server

import (
	"errors"
	"net/http"

	"ya_projects/internal/auth"
	"ya_projects/internal/forms"
	"ya_projects/internal/logger"
	"ya_projects/internal/metrics"
	"ya_projects/internal/storage"
)

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	form := &forms.LoginForm{Next: r.URL.Query().Get("next"), Errors: forms.Errors{}}
	s.Render(w, r, http.StatusOK, "users/login.html", Data{"Form": form})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if !s.limiter.Allow(clientIP(r)) {
		metrics.LoginFailuresTotal.WithLabelValues("rate_limited").Inc()
		log.Warnf("Login rate limit exceeded for %s", clientIP(r))
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := forms.NewLoginForm(r.PostForm)
	if !form.Validate() {
		s.Render(w, r, http.StatusOK, "users/login.html", Data{"Form": form})
		return
	}

	u, err := s.auth.Authenticate(r.Context(), form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		metrics.LoginFailuresTotal.WithLabelValues("invalid").Inc()
		form.Errors.Add(forms.NonField, forms.MsgInvalidLogin)
		s.Render(w, r, http.StatusOK, "users/login.html", Data{"Form": form})
		return
	}
	if err != nil {
		s.ServerError(w, r, err)
		return
	}

	if err := s.sessions.Login(w, u); err != nil {
		s.ServerError(w, r, err)
		return
	}
	log.WithField("user_id", u.ID).Info("User logged in")
	http.Redirect(w, r, auth.SafeRedirect(form.Next, s.cfg.Auth.LoginRedirect), http.StatusFound)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	s.Render(w, r, http.StatusOK, "users/logout.html", Data{"User": nil})
}

func (s *Server) signupPage(w http.ResponseWriter, r *http.Request) {
	s.Render(w, r, http.StatusOK, "users/signup.html", Data{"Form": &forms.SignupForm{Errors: forms.Errors{}}})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := forms.NewSignupForm(r.PostForm)
	if !form.Validate() {
		s.Render(w, r, http.StatusOK, "users/signup.html", Data{"Form": form})
		return
	}

	u, err := s.auth.Register(r.Context(), form.Username, form.Password1)
	if errors.Is(err, storage.ErrConflict) {
		form.Errors.Add("username", forms.MsgUsernameTaken)
		s.Render(w, r, http.StatusOK, "users/signup.html", Data{"Form": form})
		return
	}
	if err != nil {
		s.ServerError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).WithField("user_id", u.ID).Info("User registered")
	http.Redirect(w, r, s.cfg.Auth.LoginURL, http.StatusFound)
}
