// Package censor отклоняет тексты с запрещёнными словами.
package censor

import "strings"

// Warning - текст ошибки формы для отклонённого комментария.
const Warning = "Не ругайтесь!"

// DefaultBadWords - базовый список запрещённых слов.
var DefaultBadWords = []string{"редиска", "негодяй"}

// Filter проверяет текст на вхождение запрещённых слов (как подстрок, без учёта регистра).
type Filter struct {
	words []string
}

// New создаёт фильтр из DefaultBadWords и дополнительных слов extra.
func New(extra ...string) *Filter {
	words := make([]string, 0, len(DefaultBadWords)+len(extra))
	for _, w := range append(append([]string{}, DefaultBadWords...), extra...) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words = append(words, w)
		}
	}
	return &Filter{words: words}
}

// Check возвращает первое найденное запрещённое слово и false, либо "" и true.
func (f *Filter) Check(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, word := range f.words {
		if strings.Contains(lower, word) {
			return word, false
		}
	}
	return "", true
}

// Words возвращает копию списка запрещённых слов.
func (f *Filter) Words() []string {
	return append([]string(nil), f.words...)
}
