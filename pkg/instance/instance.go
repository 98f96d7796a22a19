package instance

import (
	"os"
	"strings"
)

// GetID identifies the running replica in logs. It prefers
// MATERIALHUB_INSTANCE_ID, then the host name.
func GetID() string {
	if id := strings.TrimSpace(os.Getenv("MATERIALHUB_INSTANCE_ID")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
