// Package notes реализует страницы ya_note. Заметка видна и изменяема
// только её автором; для остальных её не существует.
package notes

import (
	"errors"
	"net/http"

	"ya_projects/internal/auth"
	"ya_projects/internal/forms"
	"ya_projects/internal/logger"
	"ya_projects/internal/metrics"
	"ya_projects/internal/models"
	"ya_projects/internal/server"
	"ya_projects/internal/storage"
)

const successURL = "/done/"

type Handler struct {
	srv   *server.Server
	notes storage.NoteStore
}

func NewHandler(srv *server.Server, notes storage.NoteStore) *Handler {
	return &Handler{srv: srv, notes: notes}
}

// Register добавляет маршруты ya_note в сервер.
func (h *Handler) Register() {
	h.srv.HandleFunc("GET /{$}", h.home)
	h.srv.Handle("GET /notes/{$}", h.srv.LoginRequired(h.list))
	h.srv.Handle("GET /add/{$}", h.srv.LoginRequired(h.addPage))
	h.srv.Handle("POST /add/{$}", h.srv.LoginRequired(h.add))
	h.srv.Handle("GET /done/{$}", h.srv.LoginRequired(h.success))
	h.srv.Handle("GET /note/{slug}/{$}", h.srv.LoginRequired(h.detail))
	h.srv.Handle("GET /edit/{slug}/{$}", h.srv.LoginRequired(h.editPage))
	h.srv.Handle("POST /edit/{slug}/{$}", h.srv.LoginRequired(h.edit))
	h.srv.Handle("GET /delete/{slug}/{$}", h.srv.LoginRequired(h.deletePage))
	h.srv.Handle("POST /delete/{slug}/{$}", h.srv.LoginRequired(h.delete))
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.srv.Render(w, r, http.StatusOK, "notes/home.html", nil)
}

func (h *Handler) success(w http.ResponseWriter, r *http.Request) {
	h.srv.Render(w, r, http.StatusOK, "notes/success.html", nil)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	notes, err := h.notes.NotesByAuthor(r.Context(), user.ID)
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	h.srv.Render(w, r, http.StatusOK, "notes/list.html", server.Data{"Notes": notes})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, action string, note *models.Note, form *forms.NoteForm) {
	h.srv.Render(w, r, http.StatusOK, "notes/form.html", server.Data{
		"Action": action,
		"Note":   note,
		"Form":   form,
	})
}

func (h *Handler) addPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "/add/", nil, &forms.NoteForm{Errors: forms.Errors{}})
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	user := auth.UserFromContext(r.Context())

	form := forms.NewNoteForm(r.PostForm)
	valid, err := form.Validate(r.Context(), h.notes, user.ID, 0)
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	if !valid {
		h.countSlugConflict(form)
		h.renderForm(w, r, "/add/", nil, form)
		return
	}

	note := &models.Note{AuthorID: user.ID}
	form.Apply(note)
	if err := h.notes.CreateNote(r.Context(), note); err != nil {
		if h.slugConflict(err, form) {
			h.renderForm(w, r, "/add/", nil, form)
			return
		}
		h.srv.ServerError(w, r, err)
		return
	}

	metrics.NotesCreatedTotal.Inc()
	logger.FromContext(r.Context()).WithField("slug", note.Slug).Info("Note created")
	http.Redirect(w, r, successURL, http.StatusFound)
}

// ownNote ищет заметку по slug среди заметок текущего пользователя.
// Чужая и несуществующая заметки дают 404; в этом случае ответ уже записан.
func (h *Handler) ownNote(w http.ResponseWriter, r *http.Request) (*models.Note, bool) {
	user := auth.UserFromContext(r.Context())
	note, err := h.notes.NoteBySlug(r.Context(), user.ID, r.PathValue("slug"))
	if errors.Is(err, storage.ErrNotFound) {
		h.srv.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.srv.ServerError(w, r, err)
		return nil, false
	}
	return note, true
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownNote(w, r)
	if !ok {
		return
	}
	h.srv.Render(w, r, http.StatusOK, "notes/detail.html", server.Data{"Note": note})
}

func editURL(n *models.Note) string {
	return "/edit/" + n.Slug + "/"
}

func (h *Handler) editPage(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownNote(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, editURL(note), note, forms.NoteFormFrom(note))
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownNote(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := forms.NewNoteForm(r.PostForm)
	valid, err := form.Validate(r.Context(), h.notes, note.AuthorID, note.ID)
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	if !valid {
		h.countSlugConflict(form)
		h.renderForm(w, r, editURL(note), note, form)
		return
	}

	action := editURL(note)
	form.Apply(note)
	if err := h.notes.UpdateNote(r.Context(), note); err != nil {
		if h.slugConflict(err, form) {
			h.renderForm(w, r, action, note, form)
			return
		}
		h.srv.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, successURL, http.StatusFound)
}

func (h *Handler) deletePage(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownNote(w, r)
	if !ok {
		return
	}
	h.srv.Render(w, r, http.StatusOK, "notes/delete.html", server.Data{"Note": note})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	note, ok := h.ownNote(w, r)
	if !ok {
		return
	}
	if err := h.notes.DeleteNote(r.Context(), note.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.srv.ServerError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).WithField("slug", note.Slug).Info("Note deleted")
	http.Redirect(w, r, successURL, http.StatusFound)
}

func (h *Handler) countSlugConflict(form *forms.NoteForm) {
	if form.SlugTaken {
		metrics.SlugConflictsTotal.Inc()
	}
}

// slugConflict переводит нарушение уникальности при записи в ошибку формы:
// slug мог заняться между проверкой и сохранением.
func (h *Handler) slugConflict(err error, form *forms.NoteForm) bool {
	if !errors.Is(err, storage.ErrConflict) {
		return false
	}
	form.RejectSlug()
	metrics.SlugConflictsTotal.Inc()
	return true
}
