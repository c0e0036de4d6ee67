package handler

import (
	"encoding/json"
	"net/http"

	"storyfusion/internal/model"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
)

// CommentHandler handles work and question comment endpoints
type CommentHandler struct {
	commentSvc *service.CommentService
	log        *logger.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentSvc *service.CommentService, log *logger.Logger) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc, log: log}
}

// WorkCommentRequest is the body of POST and PUT /comments/work
type WorkCommentRequest struct {
	ID      int64  `json:"id"`
	WorkID  int    `json:"workId"`
	Comment string `json:"comment"`
}

// QuestionCommentRequest is the body of PUT /comments/question
type QuestionCommentRequest struct {
	QuestionKind string `json:"questionKind"`
	QuestionKey  *int    `json:"questionKey"`
	Comment      *string `json:"comment"`
}

// ListWork handles GET /comments/work?workId= and GET /comments/work?counts=true
func (h *CommentHandler) ListWork(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("counts") == "true" {
		counts, err := h.commentSvc.WorkCommentCounts(r.Context())
		if err != nil {
			writeFailure(w, r, h.log, err, "failed to fetch comment counts")
			return
		}
		writeJSON(w, http.StatusOK, counts)
		return
	}

	workID, ok := requireInt(w, r, "workId")
	if !ok {
		return
	}
	comments, err := h.commentSvc.ListWorkComments(r.Context(), workID)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to fetch comments")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// CreateWork handles POST /comments/work
func (h *CommentHandler) CreateWork(w http.ResponseWriter, r *http.Request) {
	var req WorkCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentSvc.CreateWorkComment(r.Context(), req.WorkID, req.Comment)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to create comment")
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// UpdateWork handles PUT /comments/work
func (h *CommentHandler) UpdateWork(w http.ResponseWriter, r *http.Request) {
	var req WorkCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentSvc.UpdateWorkComment(r.Context(), req.ID, req.Comment)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to update comment")
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// DeleteWork handles DELETE /comments/work?id=
func (h *CommentHandler) DeleteWork(w http.ResponseWriter, r *http.Request) {
	id, ok := requireInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.commentSvc.DeleteWorkComment(r.Context(), int64(id)); err != nil {
		writeFailure(w, r, h.log, err, "failed to delete comment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetQuestion handles GET /comments/question?kind=&key=
func (h *CommentHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseQuestionKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be practice or test")
		return
	}
	key, ok := requireInt(w, r, "key")
	if !ok {
		return
	}

	comment, err := h.commentSvc.GetQuestionComment(r.Context(), kind, key)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to fetch comment")
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// SaveQuestion handles PUT /comments/question
func (h *CommentHandler) SaveQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, ok := model.ParseQuestionKind(req.QuestionKind)
	if !ok {
		writeError(w, http.StatusBadRequest, "questionKind must be practice or test")
		return
	}
	if req.QuestionKey == nil {
		writeError(w, http.StatusBadRequest, "questionKey is required")
		return
	}
	if req.Comment == nil {
		writeError(w, http.StatusBadRequest, "comment is required")
		return
	}

	comment, err := h.commentSvc.SaveQuestionComment(r.Context(), kind, *req.QuestionKey, *req.Comment)
	if err != nil {
		writeFailure(w, r, h.log, err, "failed to save comment")
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
