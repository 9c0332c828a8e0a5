package services

import (
	"regexp"
	"strings"
)

// emailPattern is a structural local@domain.tld check, not full RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like a deliverable address. The same
// predicate runs at preview time and at dispatch time, so a recipient
// accepted in preview is guaranteed accepted at send time.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}
