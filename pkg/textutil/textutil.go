// Package textutil holds the string helpers used when rendering chat messages:
// Minecraft colour code stripping, start casing, truncation and date rendering.
package textutil

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ellipsis is appended to truncated strings.
const Ellipsis = "..."

// colourCodeExpr matches a Minecraft formatting code: an ampersand followed by a
// hex digit or one of K, L, M, N, O, R.
var colourCodeExpr = regexp.MustCompile(`(?i)&[0-9A-FK-OR]`)

// StripColourCodes removes every colour and formatting code from s.
func StripColourCodes(s string) string {
	return colourCodeExpr.ReplaceAllString(s, "")
}

// Words splits s into words on non alphanumeric characters, lower to upper case
// transitions, the end of an acronym ("XMLHttp" -> "XML", "Http") and letter/digit
// boundaries.
func Words(s string) []string {
	runes := []rune(s)
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if len(current) > 0 {
			prev := current[len(current)-1]
			switch {
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}

		current = append(current, r)
	}
	flush()

	return words
}

// StartCase converts s to start case: "allow_flight" -> "Allow Flight",
// "maxPlayers" -> "Max Players".
func StartCase(s string) string {
	// Casers are stateful, one per call.
	upperFirst := cases.Title(language.English, cases.NoLower)

	words := Words(s)
	for i, w := range words {
		words[i] = upperFirst.String(w)
	}
	return strings.Join(words, " ")
}

// Truncate shortens s to at most length runes. Longer strings keep their first
// length-3 runes followed by the ellipsis.
func Truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}

	end := length - len(Ellipsis)
	if end < 0 {
		return Ellipsis[:length]
	}
	return string(runes[:end]) + Ellipsis
}

// PrettyDate renders t as an absolute UTC date followed by how long ago it was
// relative to now.
func PrettyDate(t, now time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.UTC().Format("02 Jan 2006 15:04 UTC") + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}

// CodeBlock wraps s in a fenced code block.
func CodeBlock(s string) string {
	return "```" + s + "```"
}

// InlineCode wraps s in inline code formatting.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// Bullets renders one "• item" line per item.
func Bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = strings.TrimSpace("• " + item)
	}
	return strings.Join(lines, "\n")
}
