// Package forms validates submitted HTML forms and collects per-field errors.
package forms

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	// NonField collects errors that belong to the form as a whole.
	NonField = "__all__"

	msgRequired = "Обязательное поле."
)

// Errors maps a field name to its validation messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Get returns the first message for field or "".
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

func value(v url.Values, field string) string {
	return strings.TrimSpace(v.Get(field))
}

func required(errs Errors, field, val string) bool {
	if val == "" {
		errs.Add(field, msgRequired)
		return false
	}
	return true
}

func maxLength(errs Errors, field, val string, limit int) bool {
	if n := utf8.RuneCountInString(val); n > limit {
		errs.Add(field, fmt.Sprintf("Убедитесь, что это значение содержит не более %d символов (сейчас %d).", limit, n))
		return false
	}
	return true
}
