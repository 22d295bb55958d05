package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacelog/surface-log-api/internal/middleware"
	"github.com/surfacelog/surface-log-api/internal/models"
	"github.com/surfacelog/surface-log-api/internal/service"
)

type resolverStub struct {
	id string
}

func (r *resolverStub) Resolve(ctx context.Context, rawHandle, platform string) (string, error) {
	return r.id, nil
}

type searcherStub struct {
	handles []models.Handle
}

func (s *searcherStub) Search(ctx context.Context, query, canonicalKey string, limit int) ([]models.Handle, error) {
	return s.handles, nil
}

type logRepoStub struct {
	feed    []models.LogEntry
	history []models.LogEntry
	byIDs   []models.LogEntry
	created []*models.Log
}

func (r *logRepoStub) Create(ctx context.Context, log *models.Log) error {
	log.ID = "log-1"
	r.created = append(r.created, log)
	return nil
}

func (r *logRepoStub) Feed(ctx context.Context, limit int) ([]models.LogEntry, error) {
	return r.feed, nil
}

func (r *logRepoStub) ListByCanonicalKey(ctx context.Context, key string) ([]models.LogEntry, error) {
	return r.history, nil
}

func (r *logRepoStub) ListByHandleIDs(ctx context.Context, handleIDs []string, limit int) ([]models.LogEntry, error) {
	return r.byIDs, nil
}

type flagListerStub struct {
	flagged []string
}

func (f *flagListerStub) ListLogIDsByUser(ctx context.Context, userID string, logIDs []string) ([]string, error) {
	return f.flagged, nil
}

func newLogHandler(logs *logRepoStub) *LogHandler {
	cacheSvc := service.NewCacheService(nil, nil, 0, nil, false)
	svc := service.NewLogService(&resolverStub{id: "h1"}, &searcherStub{}, logs, &flagListerStub{}, cacheSvc, nil, nil, nil, service.LogServiceConfig{})
	return NewLogHandler(svc)
}

func TestLogHandlerFeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLogHandler(&logRepoStub{feed: []models.LogEntry{{ID: "l1", Handle: "Fox"}}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/feed", nil)

	handler.Feed(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fox")
}

func TestLogHandlerFeedBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLogHandler(&logRepoStub{})

	for _, limit := range []string{"abc", "-1", "0"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/feed?limit="+limit, nil)

		handler.Feed(c)
		require.Equal(t, http.StatusBadRequest, w.Code, "limit %q", limit)
	}
}

func TestLogHandlerSearchMissingQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLogHandler(&logRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/search", nil)

	handler.Search(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := &logRepoStub{}
	handler := newLogHandler(logs)

	payload, _ := json.Marshal(service.SubmitLogRequest{
		Handle:      "Fox",
		Sentiment:   "good",
		Severity:    "info",
		Encounter:   "extraction",
		Description: "escorted me to the gate",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/logs", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.AccessClaims{UserID: "u1"})

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, logs.created, 1)
	require.NotNil(t, logs.created[0].ReportedBy)
	assert.Equal(t, "u1", *logs.created[0].ReportedBy)
}

func TestLogHandlerSubmitMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLogHandler(&logRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/logs", bytes.NewBufferString(`{"handle":`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.AccessClaims{UserID: "u1"})

	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogHandlerSubmitInvalidSentiment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := &logRepoStub{}
	handler := newLogHandler(logs)

	payload, _ := json.Marshal(service.SubmitLogRequest{
		Handle:      "Fox",
		Sentiment:   "rat",
		Severity:    "info",
		Encounter:   "extraction",
		Description: "something",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/logs", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.AccessClaims{UserID: "u1"})

	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, logs.created)
}
