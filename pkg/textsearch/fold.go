// Package textsearch normaliza texto para búsquedas libres insensibles a mayúsculas y tildes
// ("Panadería" coincide con "panaderia").
package textsearch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold quita marcas diacríticas y aplica case folding. Los transformers no son seguros entre
// goroutines, por eso se construyen en cada llamada.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}

// Matcher compara un término ya normalizado contra varios campos.
type Matcher struct {
	term string
}

// NewMatcher prepara el término de búsqueda. Un término vacío coincide con todo.
func NewMatcher(term string) Matcher {
	return Matcher{term: Fold(term)}
}

// Empty indica si no hay término de búsqueda.
func (m Matcher) Empty() bool { return m.term == "" }

// Match devuelve true si algún campo contiene el término.
func (m Matcher) Match(fields ...string) bool {
	if m.term == "" {
		return true
	}
	for _, f := range fields {
		if f != "" && strings.Contains(Fold(f), m.term) {
			return true
		}
	}
	return false
}
