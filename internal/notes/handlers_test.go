package notes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ya_projects/internal/config"
	"ya_projects/internal/forms"
	"ya_projects/internal/models"
	"ya_projects/internal/notes"
	"ya_projects/internal/server"
	"ya_projects/internal/metrics"
	"ya_projects/internal/slugify"
	"ya_projects/internal/storage"
	"ya_projects/internal/storage/memory"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	h      http.Handler
	store  *memory.Store
	author *models.User
	// cookies
	authorSession *http.Cookie
	userSession   *http.Cookie
	note          *models.Note
	formData      url.Values
}

func setup(t *testing.T) *fixture {
	t.Helper()
	return setupWithNotes(t, func(s *memory.Store) storage.NoteStore { return s })
}

// setupWithNotes передаёт обработчику заметок обёртку над хранилищем.
func setupWithNotes(t *testing.T, notesStore func(*memory.Store) storage.NoteStore) *fixture {
	t.Helper()
	ctx := context.Background()

	cfg := config.Default()
	cfg.App = config.AppNotes
	cfg.Database.Driver = config.DriverMemory
	cfg.Auth.SecretKey = "0123456789abcdef"

	store := memory.New()
	srv, err := server.New(cfg, store, store)
	require.NoError(t, err)
	notes.NewHandler(srv, notesStore(store)).Register()

	user := &models.User{Username: "Пользователь"}
	require.NoError(t, store.CreateUser(ctx, user))
	author := &models.User{Username: "Автор"}
	require.NoError(t, store.CreateUser(ctx, author))

	note := &models.Note{Title: "Заметка", Text: "Текст", Slug: "test-slug", AuthorID: author.ID}
	require.NoError(t, store.CreateNote(ctx, note))

	authorSession, err := srv.Sessions().Cookie(author)
	require.NoError(t, err)
	userSession, err := srv.Sessions().Cookie(user)
	require.NoError(t, err)

	return &fixture{
		h:             srv.Handler(),
		store:         store,
		author:        author,
		authorSession: authorSession,
		userSession:   userSession,
		note:          note,
		formData: url.Values{
			"title": {"Новый заголовок"},
			"text":  {"Новый текст"},
			"slug":  {"new-slug"},
		},
	}
}

func (f *fixture) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.h.ServeHTTP(w, req)
	return w
}

func (f *fixture) authorNotes(t *testing.T) []models.Note {
	t.Helper()
	list, err := f.store.NotesByAuthor(context.Background(), f.author.ID)
	require.NoError(t, err)
	return list
}

func document(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

/* ─────────────────────────── routes ─────────────────────────── */

func TestPagesAvailableForAuthUser(t *testing.T) {
	f := setup(t)
	for _, path := range []string{"/add/", "/notes/", "/done/"} {
		t.Run(path, func(t *testing.T) {
			require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, path, nil, f.userSession).Code)
		})
	}
}

func TestPagesAvailableForAnonymous(t *testing.T) {
	f := setup(t)
	for _, path := range []string{"/", "/auth/login/", "/auth/logout/", "/auth/signup/"} {
		t.Run(path, func(t *testing.T) {
			require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, path, nil, nil).Code)
		})
	}
}

func TestNotePagesOnlyForAuthor(t *testing.T) {
	f := setup(t)
	testCases := []struct {
		name   string
		cookie *http.Cookie
		status int
	}{
		{name: "other user", cookie: f.userSession, status: http.StatusNotFound},
		{name: "author", cookie: f.authorSession, status: http.StatusOK},
	}
	for _, tc := range testCases {
		for _, path := range []string{"/note/test-slug/", "/edit/test-slug/", "/delete/test-slug/"} {
			t.Run(tc.name+" "+path, func(t *testing.T) {
				require.Equal(t, tc.status, f.do(t, http.MethodGet, path, nil, tc.cookie).Code)
			})
		}
	}
}

func TestMissingSlug(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/note/no-such-note/", nil, f.authorSession).Code)
}

func TestRedirectForAnonymous(t *testing.T) {
	f := setup(t)
	for _, path := range []string{
		"/add/",
		"/notes/",
		"/done/",
		"/note/test-slug/",
		"/edit/test-slug/",
		"/delete/test-slug/",
	} {
		t.Run(path, func(t *testing.T) {
			w := f.do(t, http.MethodGet, path, nil, nil)
			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, "/auth/login/?next="+path, w.Header().Get("Location"))
		})
	}
}

/* ─────────────────────────── content ─────────────────────────── */

func TestNoteList(t *testing.T) {
	f := setup(t)
	testCases := []struct {
		name     string
		cookie   *http.Cookie
		wantNote bool
	}{
		{name: "author", cookie: f.authorSession, wantNote: true},
		{name: "other user", cookie: f.userSession, wantNote: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := document(t, f.do(t, http.MethodGet, "/notes/", nil, tc.cookie))
			found := doc.Find(`li.note[data-slug="test-slug"]`).Length() == 1
			require.Equal(t, tc.wantNote, found)
		})
	}
}

func TestAuthorizedClientHasForm(t *testing.T) {
	f := setup(t)
	for _, path := range []string{"/add/", "/edit/test-slug/"} {
		t.Run(path, func(t *testing.T) {
			doc := document(t, f.do(t, http.MethodGet, path, nil, f.authorSession))
			form := doc.Find("form#note-form")
			require.Equal(t, 1, form.Length())
			require.Equal(t, path, form.AttrOr("action", ""))
		})
	}

	// форма редактирования заполнена данными заметки
	doc := document(t, f.do(t, http.MethodGet, "/edit/test-slug/", nil, f.authorSession))
	require.Equal(t, "Заметка", doc.Find(`input[name="title"]`).AttrOr("value", ""))
	require.Equal(t, "test-slug", doc.Find(`input[name="slug"]`).AttrOr("value", ""))
}

/* ─────────────────────────── logic ─────────────────────────── */

func TestUserCanCreateNote(t *testing.T) {
	f := setup(t)
	before := testutil.ToFloat64(metrics.NotesCreatedTotal)

	w := f.do(t, http.MethodPost, "/add/", f.formData, f.authorSession)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/done/", w.Header().Get("Location"))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.NotesCreatedTotal))

	list := f.authorNotes(t)
	require.Len(t, list, 2)
	created := list[len(list)-1]
	require.Equal(t, "Новый заголовок", created.Title)
	require.Equal(t, "Новый текст", created.Text)
	require.Equal(t, "new-slug", created.Slug)
	require.Equal(t, f.author.ID, created.AuthorID)
}

func TestAnonymousCantCreateNote(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodPost, "/add/", f.formData, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Len(t, f.authorNotes(t), 1)
}

func TestAuthorCanEditNote(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/edit/test-slug/", f.formData, f.authorSession)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/done/", w.Header().Get("Location"))

	list := f.authorNotes(t)
	require.Len(t, list, 1)
	require.Equal(t, "Новый заголовок", list[0].Title)
	require.Equal(t, "Новый текст", list[0].Text)
	require.Equal(t, "new-slug", list[0].Slug)
}

func TestAuthorCanKeepSlugOnEdit(t *testing.T) {
	f := setup(t)
	form := url.Values{"title": {"Заметка"}, "text": {"Другой текст"}, "slug": {"test-slug"}}

	w := f.do(t, http.MethodPost, "/edit/test-slug/", form, f.authorSession)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "Другой текст", f.authorNotes(t)[0].Text)
}

func TestAuthorCanDeleteNote(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/delete/test-slug/", nil, f.authorSession)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/done/", w.Header().Get("Location"))
	require.Empty(t, f.authorNotes(t))
}

func TestUserCantEditNoteOfAnotherUser(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/edit/test-slug/", f.formData, f.userSession)
	require.Equal(t, http.StatusNotFound, w.Code)

	list := f.authorNotes(t)
	require.Len(t, list, 1)
	require.Equal(t, *f.note, list[0])
}

func TestUserCantDeleteNoteOfAnotherUser(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/delete/test-slug/", nil, f.userSession)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Len(t, f.authorNotes(t), 1)
}

func TestGeneratedSlug(t *testing.T) {
	f := setup(t)
	f.formData.Del("slug")

	w := f.do(t, http.MethodPost, "/add/", f.formData, f.authorSession)
	require.Equal(t, http.StatusFound, w.Code)

	list := f.authorNotes(t)
	require.Len(t, list, 2)
	require.Equal(t, slugify.Slugify("Новый заголовок"), list[1].Slug)
	require.Equal(t, "novyij-zagolovok", list[1].Slug)
}

func TestNotUniqueSlug(t *testing.T) {
	f := setup(t)
	f.formData.Set("slug", f.note.Slug)
	conflicts := testutil.ToFloat64(metrics.SlugConflictsTotal)
	created := testutil.ToFloat64(metrics.NotesCreatedTotal)

	w := f.do(t, http.MethodPost, "/add/", f.formData, f.authorSession)
	require.Equal(t, http.StatusOK, w.Code)

	doc := document(t, w)
	require.Equal(t, f.note.Slug+forms.SlugWarning, doc.Find(`.errorlist[data-field="slug"] li`).Text())
	require.Len(t, f.authorNotes(t), 1)
	require.Equal(t, conflicts+1, testutil.ToFloat64(metrics.SlugConflictsTotal))
	require.Equal(t, created, testutil.ToFloat64(metrics.NotesCreatedTotal))
}

func TestNotUniqueSlugOnEdit(t *testing.T) {
	f := setup(t)
	other := &models.Note{Title: "Другая", Text: "Текст", Slug: "other-slug", AuthorID: f.author.ID}
	require.NoError(t, f.store.CreateNote(context.Background(), other))
	f.formData.Set("slug", other.Slug)
	before := testutil.ToFloat64(metrics.SlugConflictsTotal)

	w := f.do(t, http.MethodPost, "/edit/test-slug/", f.formData, f.authorSession)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, other.Slug+forms.SlugWarning, document(t, w).Find(`.errorlist[data-field="slug"] li`).Text())
	require.Equal(t, before+1, testutil.ToFloat64(metrics.SlugConflictsTotal))
}

func TestInvalidNoteNotCountedAsSlugConflict(t *testing.T) {
	f := setup(t)
	f.formData.Set("slug", "плохой slug")
	before := testutil.ToFloat64(metrics.SlugConflictsTotal)

	w := f.do(t, http.MethodPost, "/add/", f.formData, f.authorSession)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, before, testutil.ToFloat64(metrics.SlugConflictsTotal))
}

// staleSlugs не видит занятых slug, как будто заметку создали между
// проверкой формы и записью.
type staleSlugs struct {
	*memory.Store
}

func (staleSlugs) SlugTaken(context.Context, int64, string, int64) (bool, error) {
	return false, nil
}

func TestSlugTakenOnSave(t *testing.T) {
	f := setupWithNotes(t, func(s *memory.Store) storage.NoteStore { return staleSlugs{s} })
	f.formData.Set("slug", f.note.Slug)
	before := testutil.ToFloat64(metrics.SlugConflictsTotal)

	w := f.do(t, http.MethodPost, "/add/", f.formData, f.authorSession)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, f.note.Slug+forms.SlugWarning, document(t, w).Find(`.errorlist[data-field="slug"] li`).Text())
	require.Len(t, f.authorNotes(t), 1)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.SlugConflictsTotal))
}

func TestSameSlugForDifferentAuthors(t *testing.T) {
	f := setup(t)
	f.formData.Set("slug", f.note.Slug)

	w := f.do(t, http.MethodPost, "/add/", f.formData, f.userSession)
	require.Equal(t, http.StatusFound, w.Code)

	// у автора заметка не изменилась, у пользователя своя
	require.Equal(t, "Заметка", f.authorNotes(t)[0].Title)
	w = f.do(t, http.MethodGet, "/note/test-slug/", nil, f.userSession)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Новый заголовок", document(t, w).Find("article.note h1").Text())
}
