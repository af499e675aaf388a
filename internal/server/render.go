package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"ya_projects/internal/auth"
	"ya_projects/internal/logger"
)

//go:embed templates
var templateFS embed.FS

const baseTemplate = "templates/base.html"

// Data - контекст шаблона. Render добавляет App, LoginURL и User, если он не задан.
type Data map[string]any

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02.01.2006") },
	"datetime": func(t time.Time) string {
		return t.Format("02.01.2006 15:04")
	},
	"iso": func(t time.Time) string { return t.Format(time.RFC3339Nano) },
}

// renderer хранит по набору шаблонов на страницу: base.html + страница.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	pages := make(map[string]*template.Template)
	err := fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == baseTemplate || !strings.HasSuffix(path, ".html") {
			return nil
		}
		name := strings.TrimPrefix(path, "templates/")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, baseTemplate, path)
		if err != nil {
			return err
		}
		pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &renderer{pages: pages}, nil
}

// Render отрисовывает страницу page (например, "news/detail.html") со статусом status.
func (s *Server) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Data) {
	t, ok := s.pages.pages[page]
	if !ok {
		logger.FromContext(r.Context()).Errorf("Unknown template %q", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = Data{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = auth.UserFromContext(r.Context())
	}
	data["App"] = s.cfg.App
	data["LoginURL"] = s.cfg.Auth.LoginURL

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logger.FromContext(r.Context()).Errorf("Failed to render %s: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// NotFound отвечает страницей 404.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.Render(w, r, http.StatusNotFound, "404.html", nil)
}

// ServerError логирует err и отвечает страницей 500.
func (s *Server) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	s.Render(w, r, http.StatusInternalServerError, "500.html", nil)
}
