// Package news реализует страницы ya_news: ленту новостей, новость с
// комментариями и управление комментариями их авторами.
package news

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ya_projects/internal/auth"
	"ya_projects/internal/censor"
	"ya_projects/internal/forms"
	"ya_projects/internal/logger"
	"ya_projects/internal/metrics"
	"ya_projects/internal/models"
	"ya_projects/internal/server"
	"ya_projects/internal/storage"
)

// Handler хранит зависимости обработчиков ya_news.
type Handler struct {
	srv      *server.Server
	news     storage.NewsStore
	comments storage.CommentStore
	filter   *censor.Filter
	pageSize int
}

func NewHandler(srv *server.Server, news storage.NewsStore, comments storage.CommentStore, filter *censor.Filter) *Handler {
	return &Handler{
		srv:      srv,
		news:     news,
		comments: comments,
		filter:   filter,
		pageSize: srv.Config().News.CountOnHomePage,
	}
}

// Register добавляет маршруты ya_news в сервер.
func (h *Handler) Register() {
	h.srv.HandleFunc("GET /{$}", h.home)
	h.srv.HandleFunc("GET /news/{id}/{$}", h.detail)
	h.srv.Handle("POST /news/{id}/{$}", h.srv.LoginRequired(h.createComment))
	h.srv.Handle("GET /edit_comment/{id}/{$}", h.srv.LoginRequired(h.editCommentPage))
	h.srv.Handle("POST /edit_comment/{id}/{$}", h.srv.LoginRequired(h.editComment))
	h.srv.Handle("GET /delete_comment/{id}/{$}", h.srv.LoginRequired(h.deleteCommentPage))
	h.srv.Handle("POST /delete_comment/{id}/{$}", h.srv.LoginRequired(h.deleteComment))
	h.srv.Handle("DELETE /delete_comment/{id}/{$}", h.srv.LoginRequired(h.deleteComment))
}

func detailURL(newsID int64) string {
	return fmt.Sprintf("/news/%d/#comments", newsID)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// home отдаёт страницу ленты, свежие новости первыми.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.news.CountNews(ctx)
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	number, _ := strconv.Atoi(r.URL.Query().Get("page"))
	page := models.NewPage(number, h.pageSize, total)

	list, err := h.news.ListNews(ctx, page.Size, page.Offset())
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	h.srv.Render(w, r, http.StatusOK, "news/home.html", server.Data{
		"NewsList": list,
		"Page":     page,
	})
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, http.StatusOK, &forms.CommentForm{Errors: forms.Errors{}})
}

// renderDetail отдаёт новость с комментариями, старые первыми.
func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request, status int, form *forms.CommentForm) {
	id, ok := pathID(r)
	if !ok {
		h.srv.NotFound(w, r)
		return
	}
	item, err := h.news.NewsByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		h.srv.NotFound(w, r)
		return
	}
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	comments, err := h.comments.CommentsByNews(r.Context(), id)
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	h.srv.Render(w, r, status, "news/detail.html", server.Data{
		"News":     item,
		"Comments": comments,
		"Form":     form,
	})
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.srv.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := forms.NewCommentForm(r.PostForm)
	if !form.Validate(h.filter) {
		if form.Censored {
			metrics.CommentsRejectedTotal.Inc()
		}
		h.renderDetail(w, r, http.StatusOK, form)
		return
	}

	user := auth.UserFromContext(r.Context())
	comment := &models.Comment{NewsID: id, AuthorID: user.ID, Text: form.Text}
	err := h.comments.CreateComment(r.Context(), comment)
	if errors.Is(err, storage.ErrNotFound) {
		h.srv.NotFound(w, r)
		return
	}
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}

	metrics.CommentsCreatedTotal.Inc()
	logger.FromContext(r.Context()).WithField("comment_id", comment.ID).Info("Comment created")
	http.Redirect(w, r, detailURL(id), http.StatusFound)
}

// ownComment загружает комментарий текущего пользователя. Чужой или
// несуществующий комментарий даёт 404; в этом случае ответ уже записан.
func (h *Handler) ownComment(w http.ResponseWriter, r *http.Request) (*models.Comment, bool) {
	id, ok := pathID(r)
	if !ok {
		h.srv.NotFound(w, r)
		return nil, false
	}
	comment, err := h.comments.CommentByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		h.srv.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.srv.ServerError(w, r, err)
		return nil, false
	}
	if user := auth.UserFromContext(r.Context()); user == nil || comment.AuthorID != user.ID {
		h.srv.NotFound(w, r)
		return nil, false
	}
	return comment, true
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, comment *models.Comment, form *forms.CommentForm) {
	item, err := h.news.NewsByID(r.Context(), comment.NewsID)
	if err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	h.srv.Render(w, r, http.StatusOK, "news/edit.html", server.Data{
		"News":    item,
		"Comment": comment,
		"Form":    form,
	})
}

func (h *Handler) editCommentPage(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.ownComment(w, r)
	if !ok {
		return
	}
	h.renderEdit(w, r, comment, &forms.CommentForm{Text: comment.Text, Errors: forms.Errors{}})
}

func (h *Handler) editComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.ownComment(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := forms.NewCommentForm(r.PostForm)
	if !form.Validate(h.filter) {
		if form.Censored {
			metrics.CommentsRejectedTotal.Inc()
		}
		h.renderEdit(w, r, comment, form)
		return
	}

	comment.Text = form.Text
	if err := h.comments.UpdateComment(r.Context(), comment); err != nil {
		h.srv.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, detailURL(comment.NewsID), http.StatusFound)
}

func (h *Handler) deleteCommentPage(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.ownComment(w, r)
	if !ok {
		return
	}
	h.srv.Render(w, r, http.StatusOK, "news/delete.html", server.Data{"Comment": comment})
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.ownComment(w, r)
	if !ok {
		return
	}
	if err := h.comments.DeleteComment(r.Context(), comment.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.srv.ServerError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).WithField("comment_id", comment.ID).Info("Comment deleted")
	http.Redirect(w, r, detailURL(comment.NewsID), http.StatusFound)
}
