package handler

import (
	"net/http"

	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
)

// PredictionHandler handles practice prediction uploads
type PredictionHandler struct {
	predictionSvc *service.PredictionService
	log           *logger.Logger
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionSvc *service.PredictionService, log *logger.Logger) *PredictionHandler {
	return &PredictionHandler{predictionSvc: predictionSvc, log: log}
}

// Init handles PUT /predictions/practice
func (h *PredictionHandler) Init(w http.ResponseWriter, r *http.Request) {
	if err := h.predictionSvc.Init(r.Context()); err != nil {
		writeFailure(w, r, h.log, err, "failed to initialize predictions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// List handles GET /predictions/practice and GET /predictions/practice?questionIndex=
func (h *PredictionHandler) List(w http.ResponseWriter, r *http.Request) {
	index, present, err := queryInt(r, "questionIndex")
	if err != nil {
		writeError(w, http.StatusBadRequest, "questionIndex must be a number")
		return
	}
	if present {
		views, err := h.predictionSvc.ForQuestion(r.Context(), index)
		if err != nil {
			writeFailure(w, r, h.log, err, "failed to fetch predictions")
			return
		}
		writeJSON(w, http.StatusOK, views)
		return
	}

	uploads, err := h.predictionSvc.ListUploads(r.Context())
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to fetch uploads")
		return
	}
	writeJSON(w, http.StatusOK, uploads)
}

// Upload handles POST /predictions/practice with multipart fields "file" and "name"
func (h *PredictionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	name := service.UploadName(r.FormValue("name"), header.Filename)
	result, err := h.predictionSvc.Import(r.Context(), name, file)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to upload predictions")
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Delete handles DELETE /predictions/practice?uploadId=
func (h *PredictionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireInt(w, r, "uploadId")
	if !ok {
		return
	}
	if err := h.predictionSvc.Delete(r.Context(), int64(id)); err != nil {
		writeFailure(w, r, h.log, err, "failed to delete upload")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Leaderboard handles GET /predictions/practice/leaderboard?limit=
func (h *PredictionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a number")
		return
	}
	entries, err := h.predictionSvc.Leaderboard(r.Context(), limit)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to fetch leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
