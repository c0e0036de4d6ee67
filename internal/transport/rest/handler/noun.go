package handler

import (
	"net/http"

	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
)

// NounHandler serves one noun cache; the router mounts one per subject
type NounHandler struct {
	nounSvc *service.NounService
	log     *logger.Logger
}

// NewNounHandler creates a new noun handler
func NewNounHandler(nounSvc *service.NounService, log *logger.Logger) *NounHandler {
	return &NounHandler{nounSvc: nounSvc, log: log}
}

// Init handles PUT /nouns[/fiction]
func (h *NounHandler) Init(w http.ResponseWriter, r *http.Request) {
	if err := h.nounSvc.Init(r.Context()); err != nil {
		writeFailure(w, r, h.log, err, "failed to initialize noun cache")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Get handles GET /nouns[/fiction] with ?count=true, ?subject=key or nothing
func (h *NounHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("count") == "true" {
		n, err := h.nounSvc.Count(r.Context())
		if err != nil {
			writeFailure(w, r, h.log, err, "failed to count nouns")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"count": n})
		return
	}

	key, present, err := queryInt(r, "subject")
	if err != nil {
		writeError(w, http.StatusBadRequest, "subject must be a number")
		return
	}
	if present {
		entry, err := h.nounSvc.Get(r.Context(), key)
		if err != nil {
			writeFailure(w, r, h.log, err, "failed to fetch nouns")
			return
		}
		writeJSON(w, http.StatusOK, entry)
		return
	}

	entries, err := h.nounSvc.List(r.Context())
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to fetch nouns")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Import handles POST /nouns[/fiction] with multipart field "file"
func (h *NounHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	report, err := h.nounSvc.Import(r.Context(), file)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to import nouns")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Clear handles DELETE /nouns[/fiction]
func (h *NounHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.nounSvc.Clear(r.Context())
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to clear nouns")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": n})
}
