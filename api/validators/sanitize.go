package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims input, drops control characters and collapses runs of
// whitespace into one space. The result holds at most maxLen runes (no limit
// when maxLen <= 0) and never ends in a space.
func SanitizeString(input string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(input))

	count := 0
	pendingSpace := false
	for _, r := range input {
		if maxLen > 0 && count >= maxLen {
			break
		}
		if unicode.IsSpace(r) {
			pendingSpace = count > 0
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		if pendingSpace {
			if maxLen > 0 && count+2 > maxLen {
				break
			}
			b.WriteByte(' ')
			count++
			pendingSpace = false
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}
