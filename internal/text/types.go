// Package text cleans generated replies before they are sent to Telegram.
package text

import (
	"regexp"
	"strings"
)

// MaxMessageLength is the Bot API limit on sendMessage text, in UTF-16 code units.
const MaxMessageLength = 4096

var (
	// controlChars matches ASCII control characters other than tab, LF and CR.
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	multipleNewlines = regexp.MustCompile(`\n{3,}`)

	// roleLabel matches a speaker label some models prepend to a continuation.
	roleLabel = regexp.MustCompile(`(?i)^\s*(?:answer|response|trainer|coach|assistant)\s*:\s*`)

	// unicodeReplacer drops invisible formatting runes and maps exotic spaces
	// and separators to their plain equivalents.
	unicodeReplacer = strings.NewReplacer(
		"\u2060", "",
		"\uFEFF", "",
		"\u00AD", "",
		"\u200E", "",
		"\u200F", "",
		"\u2061", "",
		"\u2062", "",
		"\u2063", "",
		"\u2064", "",

		"\u2028", "\n",
		"\u2029", "\n\n",

		"\u200B", " ",
		"\u200C", " ",
		"\u205F", " ",
		"\u2009", " ",
		"\u200A", " ",
		"\u202F", " ",
		"\u3000", " ",
		"\u00A0", " ",
	)
)
