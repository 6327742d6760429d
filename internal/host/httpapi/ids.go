package httpapi

import "github.com/google/uuid"

// generateSessionID mints a fresh session identifier. Session IDs share
// the same uuid.New() mechanism request IDs use (D2), just scoped to a
// different namespace.
func generateSessionID() string {
	return uuid.New().String()
}
