package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacelog/surface-log-api/internal/models"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
)

type resolverStub struct {
	id    string
	err   error
	calls int
}

func (r *resolverStub) Resolve(ctx context.Context, rawHandle, platform string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.id, nil
}

type searcherStub struct {
	handles   []models.Handle
	err       error
	gotQuery  string
	gotKey    string
	gotLimit  int
	callCount int
}

func (s *searcherStub) Search(ctx context.Context, query, canonicalKey string, limit int) ([]models.Handle, error) {
	s.callCount++
	s.gotQuery = query
	s.gotKey = canonicalKey
	s.gotLimit = limit
	return s.handles, s.err
}

type logRepoStub struct {
	created    []*models.Log
	createErr  error
	feed       []models.LogEntry
	feedErr    error
	feedLimit  int
	history    []models.LogEntry
	historyKey string
	byIDs      []models.LogEntry
	gotIDs     []string
}

func (r *logRepoStub) Create(ctx context.Context, log *models.Log) error {
	if r.createErr != nil {
		return r.createErr
	}
	log.ID = "log-1"
	log.CreatedAt = time.Now().UTC()
	r.created = append(r.created, log)
	return nil
}

func (r *logRepoStub) Feed(ctx context.Context, limit int) ([]models.LogEntry, error) {
	r.feedLimit = limit
	return r.feed, r.feedErr
}

func (r *logRepoStub) ListByCanonicalKey(ctx context.Context, key string) ([]models.LogEntry, error) {
	r.historyKey = key
	return r.history, nil
}

func (r *logRepoStub) ListByHandleIDs(ctx context.Context, handleIDs []string, limit int) ([]models.LogEntry, error) {
	r.gotIDs = handleIDs
	return r.byIDs, nil
}

type flagListerStub struct {
	flagged []string
	err     error
	gotUser string
	gotIDs  []string
}

func (f *flagListerStub) ListLogIDsByUser(ctx context.Context, userID string, logIDs []string) ([]string, error) {
	f.gotUser = userID
	f.gotIDs = logIDs
	return f.flagged, f.err
}

func newLogService(resolver *resolverStub, searcher *searcherStub, logs *logRepoStub, flags *flagListerStub) *LogService {
	cacheSvc := NewCacheService(nil, nil, 0, nil, false)
	return NewLogService(resolver, searcher, logs, flags, cacheSvc, nil, nil, nil, LogServiceConfig{})
}

func validSubmit() SubmitLogRequest {
	return SubmitLogRequest{
		Handle:      "Fox",
		Sentiment:   "good",
		Severity:    "info",
		Encounter:   "extraction",
		Description: "covered my exit without being asked",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	resolver := &resolverStub{id: "h-fox"}
	logs := &logRepoStub{}
	svc := newLogService(resolver, &searcherStub{}, logs, &flagListerStub{})

	entry, err := svc.Submit(context.Background(), "user-1", validSubmit())
	require.NoError(t, err)
	assert.Equal(t, "h-fox", entry.HandleID)
	assert.Equal(t, models.SentimentGood, entry.Sentiment)
	assert.Equal(t, "general", entry.Category, "blank category defaults")
	require.NotNil(t, entry.ReportedBy)
	assert.Equal(t, "user-1", *entry.ReportedBy)
	require.Len(t, logs.created, 1)
}

func TestSubmitValidatesBeforeStore(t *testing.T) {
	resolver := &resolverStub{id: "h-fox"}
	logs := &logRepoStub{}
	svc := newLogService(resolver, &searcherStub{}, logs, &flagListerStub{})

	bad := []SubmitLogRequest{
		func() SubmitLogRequest { r := validSubmit(); r.Description = ""; return r }(),
		func() SubmitLogRequest { r := validSubmit(); r.Description = "   "; return r }(),
		func() SubmitLogRequest { r := validSubmit(); r.Handle = ""; return r }(),
		func() SubmitLogRequest { r := validSubmit(); r.Sentiment = "rat"; return r }(),
		func() SubmitLogRequest { r := validSubmit(); r.Severity = "catastrophic"; return r }(),
		func() SubmitLogRequest { r := validSubmit(); r.Encounter = "dogfight"; return r }(),
	}
	for i, req := range bad {
		_, err := svc.Submit(context.Background(), "user-1", req)
		require.Error(t, err, "case %d", i)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code, "case %d", i)
	}
	assert.Zero(t, resolver.calls, "invalid payloads must not reach resolution")
	assert.Empty(t, logs.created, "invalid payloads must not reach the store")
}

func TestSubmitResolutionFailurePropagates(t *testing.T) {
	resolver := &resolverStub{err: appErrors.Clone(appErrors.ErrResolution, "failed to resolve handle")}
	logs := &logRepoStub{}
	svc := newLogService(resolver, &searcherStub{}, logs, &flagListerStub{})

	_, err := svc.Submit(context.Background(), "user-1", validSubmit())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrResolution.Code, appErrors.FromError(err).Code)
	assert.Empty(t, logs.created)
}

func TestSubmitStoreFailure(t *testing.T) {
	resolver := &resolverStub{id: "h-fox"}
	logs := &logRepoStub{createErr: errors.New("insert timed out")}
	svc := newLogService(resolver, &searcherStub{}, logs, &flagListerStub{})

	_, err := svc.Submit(context.Background(), "user-1", validSubmit())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStore.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "insert timed out")
}

func TestFeedClampsLimit(t *testing.T) {
	logs := &logRepoStub{}
	svc := newLogService(&resolverStub{}, &searcherStub{}, logs, &flagListerStub{})

	_, err := svc.Feed(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 25, logs.feedLimit)

	_, err = svc.Feed(context.Background(), "", 9999)
	require.NoError(t, err)
	assert.Equal(t, 100, logs.feedLimit)
}

func TestFeedFlagOverlay(t *testing.T) {
	logs := &logRepoStub{feed: []models.LogEntry{
		{ID: "l1", Handle: "Fox"},
		{ID: "l2", Handle: "Shark#4412"},
	}}
	flags := &flagListerStub{flagged: []string{"l2"}}
	svc := newLogService(&resolverStub{}, &searcherStub{}, logs, flags)

	result, err := svc.Feed(context.Background(), "user-1", 25)
	require.NoError(t, err)
	assert.Equal(t, []string{"l2"}, result.FlaggedByMe)
	assert.Equal(t, "user-1", flags.gotUser)
	assert.Equal(t, []string{"l1", "l2"}, flags.gotIDs)
}

func TestFeedAnonymousSkipsOverlay(t *testing.T) {
	logs := &logRepoStub{feed: []models.LogEntry{{ID: "l1"}}}
	flags := &flagListerStub{flagged: []string{"l1"}}
	svc := newLogService(&resolverStub{}, &searcherStub{}, logs, flags)

	result, err := svc.Feed(context.Background(), "", 25)
	require.NoError(t, err)
	assert.Empty(t, result.FlaggedByMe)
	assert.Empty(t, flags.gotUser)
}

func TestFeedOverlayFailureIsNotFatal(t *testing.T) {
	logs := &logRepoStub{feed: []models.LogEntry{{ID: "l1"}}}
	flags := &flagListerStub{err: errors.New("flag store down")}
	svc := newLogService(&resolverStub{}, &searcherStub{}, logs, flags)

	result, err := svc.Feed(context.Background(), "user-1", 25)
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Empty(t, result.FlaggedByMe)
}

func TestSearchPassesBothMatchForms(t *testing.T) {
	searcher := &searcherStub{handles: []models.Handle{{ID: "h1"}, {ID: "h1"}, {ID: "h2"}}}
	logs := &logRepoStub{byIDs: []models.LogEntry{{ID: "l1"}}}
	svc := newLogService(&resolverStub{}, searcher, logs, &flagListerStub{})

	entries, err := svc.Search(context.Background(), "  Dust Runner ")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Dust Runner", searcher.gotQuery, "display substring match uses the trimmed query")
	assert.Equal(t, "dustrunner", searcher.gotKey, "exact match uses the canonical key")
	assert.Equal(t, []string{"h1", "h2"}, logs.gotIDs, "duplicate handle ids collapse")
}

func TestSearchNoMatches(t *testing.T) {
	svc := newLogService(&resolverStub{}, &searcherStub{}, &logRepoStub{}, &flagListerStub{})

	entries, err := svc.Search(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := newLogService(&resolverStub{}, &searcherStub{}, &logRepoStub{}, &flagListerStub{})

	_, err := svc.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHistoryNormalizesHandle(t *testing.T) {
	logs := &logRepoStub{history: []models.LogEntry{{ID: "l1"}}}
	svc := newLogService(&resolverStub{}, &searcherStub{}, logs, &flagListerStub{})

	entries, err := svc.History(context.Background(), " F.o-x ")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fox", logs.historyKey)
}
