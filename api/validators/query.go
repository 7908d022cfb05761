package validators

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryInt reads an integer query parameter, tolerating absent or garbled
// values by returning the default. Listing endpoints never reject on paging
// input.
func QueryInt(r *http.Request, key string, defaultVal int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return value
}
