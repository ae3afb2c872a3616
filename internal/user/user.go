// Package user resolves the local account name used as a card assignee.
package user

import (
	"os"
	osuser "os/user"
	"strings"
)

// Unknown is returned when no account name can be resolved
const Unknown = "unknown"

// Name returns the login of the account running the process.
// PASOBOARD_ASSIGNEE wins over the OS lookup, then $USER is tried.
func Name() string {
	if name := strings.TrimSpace(os.Getenv("PASOBOARD_ASSIGNEE")); name != "" {
		return name
	}
	if u, err := osuser.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return Unknown
}
