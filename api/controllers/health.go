package controllers

import (
	"net/http"

	"github.com/prensprays-byte/library-inventory-system/api/responses"
)

// Health is the liveness probe.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
