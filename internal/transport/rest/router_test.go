package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyfusion/internal/config"
	"storyfusion/internal/dataset"
	"storyfusion/internal/model"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/repository"
	"storyfusion/internal/repository/sqlrepo"
	"storyfusion/internal/service"
	"storyfusion/internal/transport/rest/middleware"
)

type testServer struct {
	handler http.Handler
	store   *repository.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlrepo.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), true)
	require.NoError(t, err)
	store := sqlrepo.NewStore(db)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	catalog := dataset.New(
		[]model.Work{
			{ID: 10, Category: "novel", Title: "Ten", Story: "ten story"},
			{ID: 20, Category: "novel", Title: "Twenty", Story: "twenty story"},
		},
		[]model.FusedQuestion{{Kind: model.QuestionKindPractice, Key: 1, Story: "fused", IDA: 10, IDB: 20, TitleA: "Ten", TitleB: "Twenty"}},
		[]model.FusedQuestion{{Kind: model.QuestionKindTest, Key: 500, Story: "mystery"}},
	)
	log := logger.Nop()

	h := NewRouter(&Container{
		AnswerService:      service.NewAnswerService(store.Answers, catalog, log),
		CommentService:     service.NewCommentService(store.WorkComments, store.QuestionComments),
		PredictionService:  service.NewPredictionService(store.Predictions, catalog, log),
		WorkNounService:    service.NewNounService(store.WorkNouns, model.NounSubjectWork, log),
		FictionNounService: service.NewNounService(store.FictionNouns, model.NounSubjectFiction, log),
		AdminService:       service.NewAdminService(store, catalog),
		Catalog:            catalog,
		CORS:               config.DefaultConfig().CORS,
		Log:                log,
	})
	return &testServer{handler: h, store: store}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, target, fileName, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["error"]
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"status":"ok","missingData":[]}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodOptions, "/answers/practice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAnswers(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/answers/practice", map[string]int{"selectedA": 10, "selectedB": 20})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "questionKey is required", errorOf(t, rec))

	rec = s.do(t, http.MethodPost, "/answers/practice", map[string]int{"questionKey": 1, "selectedA": 20, "selectedB": 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	answer := decode[model.Answer](t, rec)
	require.NotNil(t, answer.IsCorrect)
	assert.True(t, *answer.IsCorrect)

	rec = s.do(t, http.MethodGet, "/answers/practice?key=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Answer](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/answers/practice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "key is required", errorOf(t, rec))

	rec = s.do(t, http.MethodGet, "/answers/practice/latest?key=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"selectedA":20,"selectedB":10,"submitted":true}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/answers/test/latest?key=500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodGet, "/answers/other?key=1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkComments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/comments/work", map[string]interface{}{"workId": 10, "comment": "nice"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.WorkComment](t, rec)

	rec = s.do(t, http.MethodPut, "/comments/work", map[string]interface{}{"id": created.ID, "comment": "nicer"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nicer", decode[model.WorkComment](t, rec).Comment)

	rec = s.do(t, http.MethodPut, "/comments/work", map[string]interface{}{"id": created.ID + 1, "comment": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/comments/work?counts=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"workId":10,"count":1}]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/comments/work", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/comments/work?id=%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/comments/work?workId=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.WorkComment](t, rec))
}

func TestQuestionComments(t *testing.T) {
	s := newTestServer(t)

	for _, text := range []string{"first", "second"} {
		rec := s.do(t, http.MethodPut, "/comments/question", map[string]interface{}{
			"questionKind": "test", "questionKey": 500, "comment": text,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/comments/question?kind=test&key=500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "second", decode[model.QuestionComment](t, rec).Comment)

	rec = s.do(t, http.MethodGet, "/comments/question?kind=bogus&key=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// a missing comment field leaves the stored text alone
	rec = s.do(t, http.MethodPut, "/comments/question", map[string]interface{}{
		"questionKind": "test", "questionKey": 500,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "comment is required", errorOf(t, rec))

	rec = s.do(t, http.MethodGet, "/comments/question?kind=test&key=500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "second", decode[model.QuestionComment](t, rec).Comment)

	// an explicit empty string clears it
	rec = s.do(t, http.MethodPut, "/comments/question", map[string]interface{}{
		"questionKind": "test", "questionKey": 500, "comment": "",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/comments/question?kind=test&key=500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", decode[model.QuestionComment](t, rec).Comment)
}

func TestPredictions(t *testing.T) {
	s := newTestServer(t)

	rec := s.upload(t, "/predictions/practice", "", "", map[string]string{"name": "empty"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is required", errorOf(t, rec))

	rec = s.upload(t, "/predictions/practice", "model-a.csv", "question_index,selected_a,selected_b\n1,20,10\nx,1,2\n9,1,2\n", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode[service.UploadResult](t, rec)
	assert.Equal(t, "model-a.csv", result.Name)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	rec = s.do(t, http.MethodGet, "/predictions/practice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	uploads := decode[[]model.UploadSummary](t, rec)
	require.Len(t, uploads, 1)
	assert.Equal(t, 1, uploads[0].PredictionCount)
	assert.Equal(t, 100, uploads[0].Accuracy)

	rec = s.do(t, http.MethodGet, "/predictions/practice?questionIndex=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	views := decode[[]model.PredictionView](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, "model-a.csv", views[0].UploadName)
	assert.True(t, views[0].IsCorrect)

	rec = s.do(t, http.MethodGet, "/predictions/practice/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accuracy":100`)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/predictions/practice?uploadId=%d", result.UploadID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/predictions/practice?uploadId=%d", result.UploadID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/predictions/practice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNouns(t *testing.T) {
	s := newTestServer(t)
	csv := "index,type,work_id,title,noun_count,nouns\n1,work,10,Ten,1,Ahab\n2,fiction,0,Fused,2,Pip|Stubb\n"

	rec := s.upload(t, "/nouns", "nouns.csv", csv, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode[map[string]interface{}](t, rec)["importedCount"])

	rec = s.upload(t, "/nouns/fiction", "nouns.csv", csv, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/nouns?count=true", nil)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/nouns/fiction?subject=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Pip", "Stubb"}, decode[model.NounEntry](t, rec).Nouns)

	rec = s.do(t, http.MethodGet, "/nouns?subject=99", nil)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodDelete, "/nouns", nil)
	assert.JSONEq(t, `{"deletedCount":1}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/nouns", nil)
	assert.Empty(t, decode[[]model.NounEntry](t, rec))

	rec = s.do(t, http.MethodGet, "/nouns/fiction", nil)
	assert.Len(t, decode[[]model.NounEntry](t, rec), 1)
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/works", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ten story")

	rec = s.do(t, http.MethodGet, "/works/10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ten story", decode[model.Work](t, rec).Story)

	rec = s.do(t, http.MethodGet, "/works/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/questions/practice/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode[model.FusedQuestion](t, rec)
	assert.Equal(t, 10, q.IDA)

	rec = s.do(t, http.MethodGet, "/questions/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mystery")

	rec = s.do(t, http.MethodGet, "/questions/test/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInitAndStorageFailure(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/init", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, s.store.Close(context.Background()))
	rec = s.do(t, http.MethodGet, "/answers/practice?key=1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to fetch answers", errorOf(t, rec))
}
