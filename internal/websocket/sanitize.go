package websocket

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxUsernameLen = 64

var strictPolicy = bluemonday.StrictPolicy()

// sanitizeText strips every tag and returns plain text with entities decoded.
func sanitizeText(s string) string {
	if s == "" {
		return ""
	}
	clean := strictPolicy.Sanitize(html.UnescapeString(s))
	return strings.TrimSpace(html.UnescapeString(clean))
}

func sanitizeUsername(s string) string {
	name := sanitizeText(s)
	if r := []rune(name); len(r) > maxUsernameLen {
		name = string(r[:maxUsernameLen])
	}
	return name
}
