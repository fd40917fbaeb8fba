package domain

import "strings"

// IsUndefined reports whether s is the DWD undefined sentinel: one or more
// '-' characters and nothing else.
func IsUndefined(s string) bool {
	return s != "" && strings.Trim(s, "-") == ""
}

// optionalString returns nil for blank or undefined tokens.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || IsUndefined(s) {
		return nil
	}
	return &s
}
