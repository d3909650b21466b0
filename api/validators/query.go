package validators

import "net/http"

const defaultQueryTextLen = 120

// QueryText reads a free-text query parameter, sanitized and capped at
// maxLen runes (120 when maxLen is not positive). Missing keys read as "".
func QueryText(r *http.Request, key string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = defaultQueryTextLen
	}
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}
