package env

import (
	"os"
	"strconv"
	"strings"
)

// Prefix namespaces every variable this service reads.
const Prefix = "WEBTHEME_"

// Get returns WEBTHEME_<key>, then the bare key, then fallback.
func Get(key, fallback string) string {
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}

// Bool reads Get(key) as a boolean; unparsable values yield fallback.
func Bool(key string, fallback bool) bool {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
