// Package instance names the running process for logs.
package instance

import "os"

var sources = []string{"DYNO", "HOSTNAME"}

// GetID returns the platform dyno or host name, falling back to "local".
func GetID() string {
	for _, key := range sources {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	return "local"
}
