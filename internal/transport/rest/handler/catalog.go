package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"storyfusion/internal/dataset"
	"storyfusion/internal/model"
)

// CatalogHandler serves the read-only reference data
type CatalogHandler struct {
	catalog *dataset.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *dataset.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be a number")
		return 0, false
	}
	return v, true
}

// withoutStory strips the narrative for list views
func withoutStory(qs []model.FusedQuestion) []model.FusedQuestion {
	out := make([]model.FusedQuestion, len(qs))
	for i, q := range qs {
		q.Story = ""
		out[i] = q
	}
	return out
}

// Works handles GET /works
func (h *CatalogHandler) Works(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Works())
}

// Work handles GET /works/{id}
func (h *CatalogHandler) Work(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	work, found := h.catalog.Work(id)
	if !found {
		writeError(w, http.StatusNotFound, "work not found")
		return
	}
	writeJSON(w, http.StatusOK, work)
}

// PracticeQuestions handles GET /questions/practice
func (h *CatalogHandler) PracticeQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, withoutStory(h.catalog.PracticeQuestions()))
}

// PracticeQuestion handles GET /questions/practice/{index}
func (h *CatalogHandler) PracticeQuestion(w http.ResponseWriter, r *http.Request) {
	index, ok := pathInt(w, r, "index")
	if !ok {
		return
	}
	q, found := h.catalog.PracticeQuestion(index)
	if !found {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// TestQuestions handles GET /questions/test
func (h *CatalogHandler) TestQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, withoutStory(h.catalog.TestQuestions()))
}

// TestQuestion handles GET /questions/test/{id}
func (h *CatalogHandler) TestQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}
	q, found := h.catalog.TestQuestion(id)
	if !found {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}
