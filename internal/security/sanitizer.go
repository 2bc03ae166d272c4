package security

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy    = bluemonday.StrictPolicy()
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)
)

// SanitizeString trims, strips HTML and null bytes, and caps length.
// Applied to every free-form string crossing the catalog or registration
// boundary before it reaches storage or a notification.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	input = htmlPolicy.Sanitize(input)

	if len(input) > 1000 {
		input = input[:1000]
	}

	return input
}

// ValidateUsername checks the registration username format: 3-50 chars of
// letters, digits, underscore, dot or dash.
func ValidateUsername(username string) bool {
	return usernameRegex.MatchString(username)
}
