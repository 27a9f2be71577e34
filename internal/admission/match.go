package admission

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// minContainedLength keeps fragments such as "L" or "Uni" from matching a
// full institution name.
const minContainedLength = 4

// normalizeName folds case and width, drops dots and apostrophes so that
// "L.U.C.T." reads as "luct", turns other punctuation into spaces and
// collapses runs of whitespace.
func normalizeName(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s) // a Caser is stateful, so never shared
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case r == '.' || r == '\'' || r == '\u2019':
			return -1
		default:
			return ' '
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// matchesAny reports whether name contains, or is contained in, any of the
// variations after normalisation. Blank input never matches and a name must
// be at least minContainedLength runes to match as a fragment.
func matchesAny(name string, variations []string) bool {
	n := normalizeName(name)
	if n == "" {
		return false
	}
	for _, v := range variations {
		nv := normalizeName(v)
		if nv == "" {
			continue
		}
		if strings.Contains(n, nv) {
			return true
		}
		if utf8.RuneCountInString(n) >= minContainedLength && strings.Contains(nv, n) {
			return true
		}
	}
	return false
}
