package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewSessionToken returns the opaque shared token handed to every guest who
// joins the same table session. Fixed length (36 chars), unique by
// construction.
func NewSessionToken() string {
	return uuid.NewString()
}

// ValidIdentitySignal applies the loose identity check used when resolving a
// guest: the signal must look like a contact address ("user@host"). Returns
// a plain bool so callers decide how to surface the failure.
func ValidIdentitySignal(signal string) bool {
	signal = strings.TrimSpace(signal)
	at := strings.Index(signal, "@")
	if at <= 0 || at == len(signal)-1 {
		return false
	}
	// A second "@" means the signal is malformed, not a contact address.
	return strings.Count(signal, "@") == 1
}
