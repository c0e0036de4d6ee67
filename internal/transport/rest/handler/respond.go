package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
	"storyfusion/internal/transport/rest/middleware"
)

const maxUploadBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeFailure sends a *service.Error as is. Anything else is logged and
// answered with a 500 carrying fallback.
func writeFailure(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, fallback string) {
	if se, ok := service.AsError(err); ok {
		writeError(w, se.Status, se.Message)
		return
	}
	log.Error(fallback, "request_id", middleware.GetRequestID(r.Context()), "error", err)
	writeError(w, http.StatusInternalServerError, fallback)
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}

// requireInt reads a mandatory integer query parameter and writes the 400
// itself when it is missing or malformed
func requireInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, ok, err := queryInt(r, name)
	if !ok {
		writeError(w, http.StatusBadRequest, name+" is required")
		return 0, false
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be a number")
		return 0, false
	}
	return v, true
}
