package handler

import (
	"net/http"
	"strconv"
)

const defaultListLimit = 50

// parseLimit reads the "limit" query parameter, falling back to the default
// for missing or unusable values.
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 200 {
		return defaultListLimit
	}

	return limit
}

// strPtr returns a pointer to s, or nil when s is empty.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
