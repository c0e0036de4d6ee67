package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"storyfusion/internal/model"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
)

// AnswerHandler handles answer endpoints
type AnswerHandler struct {
	answerSvc *service.AnswerService
	log       *logger.Logger
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerSvc *service.AnswerService, log *logger.Logger) *AnswerHandler {
	return &AnswerHandler{answerSvc: answerSvc, log: log}
}

func questionKind(w http.ResponseWriter, r *http.Request) (model.QuestionKind, bool) {
	kind, ok := model.ParseQuestionKind(mux.Vars(r)["kind"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown question kind")
	}
	return kind, ok
}

// List handles GET /answers/{kind}?key=
func (h *AnswerHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := questionKind(w, r)
	if !ok {
		return
	}
	key, ok := requireInt(w, r, "key")
	if !ok {
		return
	}

	answers, err := h.answerSvc.List(r.Context(), kind, key)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to fetch answers")
		return
	}
	writeJSON(w, http.StatusOK, answers)
}

// Latest handles GET /answers/{kind}/latest?key=
func (h *AnswerHandler) Latest(w http.ResponseWriter, r *http.Request) {
	kind, ok := questionKind(w, r)
	if !ok {
		return
	}
	key, ok := requireInt(w, r, "key")
	if !ok {
		return
	}

	latest, err := h.answerSvc.Latest(r.Context(), kind, key)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to fetch latest answer")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

// Submit handles POST /answers/{kind}
func (h *AnswerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	kind, ok := questionKind(w, r)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.answerSvc.Submit(r.Context(), kind, req)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to save answer")
		return
	}
	writeJSON(w, http.StatusCreated, answer)
}
