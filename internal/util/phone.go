package util

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D+`)

// NormalizePhone reduces user input to the digits-only form the WhatsApp
// Graph API expects. Bare 10-digit Indian mobile numbers (leading 6-9) get
// the 91 country code. Returns "" when the result is not a plausible
// 10 to 15 digit number.
func NormalizePhone(raw string) string {
	s := nonDigits.ReplaceAllString(strings.TrimSpace(raw), "")

	if len(s) == 10 && s[0] >= '6' && s[0] <= '9' {
		s = "91" + s
	}

	if len(s) < 10 || len(s) > 15 {
		return ""
	}

	return s
}
