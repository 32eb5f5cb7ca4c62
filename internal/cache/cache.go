// Package cache holds the write-once analysis memoization backends. Every
// backend enforces conditional-on-absence writes at the storage layer, so
// "never evaluate the same job twice" survives process restarts and
// concurrent workers.
package cache

import "strings"

// Key returns the storage key for a job analysis. The persona version opens
// a new cache epoch when the persona is rebuilt; an empty version keys on
// the bare URL so caches written before versioning stay valid.
func Key(jobURL, personaVersion string) string {
	url := strings.TrimSpace(jobURL)
	if personaVersion == "" {
		return url
	}
	return personaVersion + "::" + url
}
