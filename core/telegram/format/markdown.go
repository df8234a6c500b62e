package format

import (
	"regexp"
)

var mdV1Specials = regexp.MustCompile("([_*\\[`])")

// EscapeMarkdown escapes Telegram Markdown (legacy v1) special characters in
// user-supplied text so it can be embedded into formatted messages safely.
func EscapeMarkdown(text string) string {
	return mdV1Specials.ReplaceAllString(text, `\$1`)
}
