package handlers

import "net/http"

// Health reports liveness; it never touches the lookup table or Overpass
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
