package util

import (
	"strings"

	"github.com/google/uuid"
)

// RandomEmail generates a unique, mixed-case email suitable for testing
// Emails are case-insensitive, so tests can use this to catch lookups that aren't.
func RandomEmail() string {
	return "Player." + strings.ReplaceAll(uuid.New().String(), "-", "") + "@Example.com"
}
