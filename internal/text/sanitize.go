package text

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// StripEcho removes prompt from the front of generated. Text-generation
// endpoints return the input followed by the continuation unless told otherwise.
func StripEcho(generated, prompt string) string {
	if prompt == "" {
		return generated
	}
	rest, ok := strings.CutPrefix(strings.TrimLeft(generated, " \t\r\n"), strings.TrimSpace(prompt))
	if !ok {
		return generated
	}
	return roleLabel.ReplaceAllString(rest, "")
}

// Clean normalizes line endings, unicode spacing and control characters,
// collapses runs of blank lines and trims the result. It returns "" when
// nothing printable is left.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = unicodeReplacer.Replace(s)
	s = controlChars.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = normalizeLineWhitespace(line)
	}

	s = multipleNewlines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}

// Limit cuts s to at most maxUnits UTF-16 code units, the unit the Bot API
// counts message length in, ending with an ellipsis when anything was dropped.
// Surrogate pairs are never split.
func Limit(s string, maxUnits int) string {
	if maxUnits <= 0 || UTF16Len(s) <= maxUnits {
		return s
	}

	budget := maxUnits - 1 // the ellipsis takes one unit
	used := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if used+n > budget {
			return strings.TrimRightFunc(s[:i], unicode.IsSpace) + "…"
		}
		used += n
	}
	return s
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

func normalizeLineWhitespace(line string) string {
	var b strings.Builder
	space := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteRune(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}
	return strings.TrimSpace(b.String())
}
