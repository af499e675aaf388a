package forms

import (
	"context"
	"net/url"
	"regexp"

	"ya_projects/internal/models"
	"ya_projects/internal/slugify"
)

// SlugWarning is appended to a slug that is already taken.
const SlugWarning = " - такой slug уже существует, придумайте уникальное значение!"

const msgInvalidSlug = "Значение должно состоять только из латинских букв, цифр, знаков подчеркивания или дефиса."

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// SlugChecker reports whether an author already owns another note with the slug.
type SlugChecker interface {
	SlugTaken(ctx context.Context, authorID int64, slug string, excludeID int64) (bool, error)
}

// NoteForm is the note create/edit form of ya_note.
type NoteForm struct {
	Title  string
	Text   string
	Slug   string
	Errors Errors
	// SlugTaken is set when the slug failed only the uniqueness check.
	SlugTaken bool
}

func NewNoteForm(v url.Values) *NoteForm {
	return &NoteForm{
		Title:  value(v, "title"),
		Text:   value(v, "text"),
		Slug:   value(v, "slug"),
		Errors: Errors{},
	}
}

// NoteFormFrom prefills the form with an existing note.
func NoteFormFrom(n *models.Note) *NoteForm {
	return &NoteForm{Title: n.Title, Text: n.Text, Slug: n.Slug, Errors: Errors{}}
}

// Validate checks the fields, derives the slug from the title when it is
// empty and rejects slugs the author already uses in a note other than noteID.
func (f *NoteForm) Validate(ctx context.Context, slugs SlugChecker, authorID, noteID int64) (bool, error) {
	if required(f.Errors, "title", f.Title) {
		maxLength(f.Errors, "title", f.Title, models.TitleMaxLength)
	}
	required(f.Errors, "text", f.Text)

	if f.Slug != "" {
		if !maxLength(f.Errors, "slug", f.Slug, models.SlugMaxLength) {
			return false, nil
		}
		if !slugRe.MatchString(f.Slug) {
			f.Errors.Add("slug", msgInvalidSlug)
			return false, nil
		}
	} else if f.Title != "" {
		f.Slug = slugify.Truncate(slugify.Slugify(f.Title), models.SlugMaxLength)
		if f.Slug == "" {
			f.Errors.Add("slug", msgInvalidSlug)
		}
	}

	if f.Slug != "" {
		taken, err := slugs.SlugTaken(ctx, authorID, f.Slug, noteID)
		if err != nil {
			return false, err
		}
		if taken {
			f.RejectSlug()
		}
	}
	return f.Errors.Valid(), nil
}

// RejectSlug reports the slug as already taken.
func (f *NoteForm) RejectSlug() {
	f.Errors.Add("slug", f.Slug+SlugWarning)
	f.SlugTaken = true
}

// Apply copies the cleaned fields into n.
func (f *NoteForm) Apply(n *models.Note) {
	n.Title = f.Title
	n.Text = f.Text
	n.Slug = f.Slug
}
