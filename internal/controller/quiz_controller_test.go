package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/khanhduong/wikiquiz/internal/apperr"
	"github.com/khanhduong/wikiquiz/internal/dto"
	"github.com/khanhduong/wikiquiz/internal/model"
	"github.com/stretchr/testify/require"
)

type stubQuizService struct {
	record  *model.QuizRecord
	records []model.QuizRecord
	err     error
}

func (s *stubQuizService) GenerateQuiz(ctx context.Context, rawURL string) (*model.QuizRecord, error) {
	return s.record, s.err
}

func (s *stubQuizService) GetQuizByID(id uint) (*model.QuizRecord, error) {
	return s.record, s.err
}

func (s *stubQuizService) ListQuizzes() ([]model.QuizRecord, error) {
	return s.records, s.err
}

func setupRouter(svc *stubQuizService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := NewQuizController(svc)
	api := r.Group("/api/quizzes")
	api.POST("/generate", ctrl.GenerateQuiz)
	api.GET("", ctrl.ListQuizzes)
	api.GET("/:quiz_id", ctrl.GetQuiz)
	return r
}

func storedRecord() *model.QuizRecord {
	return &model.QuizRecord{
		ID:            7,
		URL:           "https://en.wikipedia.org/wiki/Alan_Turing",
		Title:         "Alan Turing",
		Summary:       "An English mathematician.",
		KeyEntities:   []byte(`{"people":["Alan Turing"],"organizations":[],"locations":[]}`),
		Sections:      []byte(`["Early life"]`),
		Quiz:          []byte(`[{"question":"Who?","options":["a","b","c","d"],"answer":"a","explanation":"x","difficulty":"easy"}]`),
		RelatedTopics: []byte(`["Enigma machine"]`),
	}
}

func postGenerate(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/quizzes/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateQuizOK(t *testing.T) {
	r := setupRouter(&stubQuizService{record: storedRecord()})

	w := postGenerate(t, r, `{"url": "https://en.wikipedia.org/wiki/Alan_Turing"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.QuizResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.EqualValues(t, 7, resp.ID)
	require.Equal(t, "Alan Turing", resp.Title)
	require.Len(t, resp.Quiz, 1)
	require.Equal(t, []string{"a", "b", "c", "d"}, resp.Quiz[0].Options)
	require.Equal(t, []string{"Enigma machine"}, resp.RelatedTopics)
}

func TestGenerateQuizMissingBody(t *testing.T) {
	r := setupRouter(&stubQuizService{record: storedRecord()})

	w := postGenerate(t, r, `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateQuizErrorMapping(t *testing.T) {
	cases := []struct {
		kind   apperr.Kind
		status int
	}{
		{apperr.KindInvalidURL, http.StatusBadRequest},
		{apperr.KindFetch, http.StatusBadGateway},
		{apperr.KindExtraction, http.StatusBadGateway},
		{apperr.KindLLMTransport, http.StatusBadGateway},
		{apperr.KindLLMQuota, http.StatusServiceUnavailable},
		{apperr.KindMalformedResponse, http.StatusBadGateway},
		{apperr.KindSchemaValidation, http.StatusBadGateway},
		{apperr.KindAssemblyValidation, http.StatusBadGateway},
		{apperr.KindDuplicateURL, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			r := setupRouter(&stubQuizService{err: apperr.New(tc.kind, "boom")})
			w := postGenerate(t, r, `{"url": "https://en.wikipedia.org/wiki/X"}`)
			require.Equal(t, tc.status, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, string(tc.kind), resp.Error, "error kind string must reach the client")
		})
	}
}

func TestGetQuizOK(t *testing.T) {
	r := setupRouter(&stubQuizService{record: storedRecord()})

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes/7", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.QuizResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.EqualValues(t, 7, resp.ID)
}

func TestGetQuizNotFound(t *testing.T) {
	r := setupRouter(&stubQuizService{err: apperr.New(apperr.KindNotFound, "quiz 9 not found")})

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes/9", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetQuizBadID(t *testing.T) {
	r := setupRouter(&stubQuizService{})

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes/notanumber", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListQuizzesTruncatesSummaries(t *testing.T) {
	long := storedRecord()
	long.Summary = string(bytes.Repeat([]byte("s"), 400))
	r := setupRouter(&stubQuizService{records: []model.QuizRecord{*long}})

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []dto.QuizSummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Len(t, resp[0].Summary, 300)
	require.Equal(t, "https://en.wikipedia.org/wiki/Alan_Turing", resp[0].URL)
}

func TestListQuizzesEmpty(t *testing.T) {
	r := setupRouter(&stubQuizService{})

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}
