// Package vehicle detects license plates in user text and resolves them
// against the directory, caching the result in the session.
package vehicle

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Two plate grammars are recognized: four digits followed by three letters,
// and one-or-two letters, four digits, zero-to-two letters. Whitespace and
// hyphens between the groups are tolerated.
var platePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([0-9]{4})[\s\-]?([A-Z]{3})\b`),
	regexp.MustCompile(`\b([A-Z]{1,2})[\s\-]?([0-9]{4})[\s\-]?([A-Z]{0,2})\b`),
}

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// ExtractPlate finds the first plate-shaped token in text, normalized to
// uppercase with diacritics and internal whitespace removed.
func ExtractPlate(text string) (string, bool) {
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToUpper(folded)

	for _, pat := range platePatterns {
		m := pat.FindStringSubmatch(folded)
		if m == nil {
			continue
		}
		var b strings.Builder
		for _, group := range m[1:] {
			b.WriteString(group)
		}
		plate := b.String()
		if plate != "" {
			return plate, true
		}
	}
	return "", false
}
