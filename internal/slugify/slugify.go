// Package slugify builds URL slugs from Russian and Latin titles.
// Output follows pytils' translit rules.
package slugify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ampRe    = regexp.MustCompile(`&amp;|&`)
	spacesRe = regexp.MustCompile(`[-\s\v\p{Z}]+`)
)

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "yi", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	// ukrainian
	'є': "ye", 'і': "i", 'ї': "yi", 'ґ': "g",
}

// Slugify lower-cases s, turns "&" into "and", joins words with hyphens,
// transliterates Cyrillic and drops everything else. Hyphens left around
// dropped characters are kept as is.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = ampRe.ReplaceAllString(s, " and ")
	s = spacesRe.ReplaceAllString(s, "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteString(translit[r])
		}
	}
	return strings.TrimSpace(b.String())
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
