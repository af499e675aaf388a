package forms

import (
	"net/url"

	"ya_projects/internal/censor"
)

// CommentForm is the comment create/edit form of ya_news.
type CommentForm struct {
	Text   string
	Errors Errors
	// Censored is set when the text contains a blocked word.
	Censored bool
}

func NewCommentForm(v url.Values) *CommentForm {
	return &CommentForm{Text: value(v, "text"), Errors: Errors{}}
}

// Validate reports whether the form is valid. A blocked word yields censor.Warning on "text".
func (f *CommentForm) Validate(filter *censor.Filter) bool {
	if required(f.Errors, "text", f.Text) {
		if _, ok := filter.Check(f.Text); !ok {
			f.Errors.Add("text", censor.Warning)
			f.Censored = true
		}
	}
	return f.Errors.Valid()
}
