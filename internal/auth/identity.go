package auth

import "strings"

// Identity represents a verified external authentication identity.
// It contains facts only, no decisions, and lives for one request.
type Identity struct {
	UID         string // provider-scoped stable user identifier
	Email       string // email asserted by the provider, may be empty
	DisplayName string // free-form display name, may be empty
}

// SplitDisplayName splits a display name into first and last name.
// The first whitespace token becomes the first name; the remaining
// tokens are joined with single spaces as the last name.
func SplitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
