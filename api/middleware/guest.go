package middleware

import (
	"net/http"
	"strings"
)

// GuestTokenHeader carries the token that keys temporary dog profiles.
const GuestTokenHeader = "X-Guest-Token"

// GuestToken returns the trimmed guest token of r, if any.
func GuestToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(GuestTokenHeader))
}
