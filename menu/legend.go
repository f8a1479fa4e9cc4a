package menu

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// legendCodeRe anchors one footnote entry: a short alphanumeric code (digits,
// optionally one lowercase letter) followed by a capitalised name. The name
// itself runs until the next code token or end of line, which scanLegend
// resolves by slicing between consecutive matches.
var legendCodeRe = regexp.MustCompile(`(\d+[a-z]?)\s+([A-ZÄÖÜ])`)

// legendNoiseRe strips a parenthetical annotation or a trailing colon from a
// legend name before normalisation.
var legendNoiseRe = regexp.MustCompile(`\s*\([^)]*\)|:$`)

// Legend maps a normalised (lowercase, trimmed) allergen or additive name to
// its code. Multi-word names are additionally keyed by their first word so a
// partially typed filter term still resolves. Read-only after ParseLegend.
type Legend map[string]string

// ParseLegend scans the footnote text of the menu document and builds the
// name→code mapping. Entries whose cleaned name is shorter than three
// characters are discarded as noise. On duplicate names the last entry wins.
func ParseLegend(text string) Legend {
	legend := Legend{}
	matches := legendCodeRe.FindAllStringSubmatchIndex(text, -1)
	for i, m := range matches {
		code := text[m[2]:m[3]]

		// The name starts at the capitalised letter and runs to the next
		// code token (or end of text), but never past a newline or a digit.
		start := m[4]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		name := text[start:end]
		if idx := strings.IndexAny(name, "\n0123456789"); idx >= 0 {
			name = name[:idx]
		}

		name = legendNoiseRe.ReplaceAllString(strings.TrimSpace(name), "")
		name = strings.ToLower(strings.TrimSpace(name))
		if utf8.RuneCountInString(name) < 3 {
			continue
		}

		legend[name] = code
		if first := strings.Fields(name)[0]; first != name {
			legend[first] = code
		}
	}
	return legend
}

// Resolve looks up user-supplied allergen names (matched lowercase and
// trimmed) and returns the set of found codes plus the names that did not
// resolve. Misses are non-fatal; the caller decides how loudly to report them.
func (l Legend) Resolve(names []string) (codes map[string]bool, missing []string) {
	codes = map[string]bool{}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if code, ok := l[name]; ok {
			codes[code] = true
		} else {
			missing = append(missing, name)
		}
	}
	return codes, missing
}
