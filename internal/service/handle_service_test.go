package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacelog/surface-log-api/internal/models"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
)

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		"Fox":             "fox",
		"  Fox  ":         "fox",
		"fo.x":            "fox",
		"F_o-x":           "fox",
		"f o\tx":          "fox",
		"Shark#4412":      "shark#4412",
		"s.h-a_r k#4412":  "shark#4412",
		"":                "",
		"   ":             "",
		"._-":             "",
		"Night--__..Crow": "nightcrow",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeHandle(input), "input %q", input)
	}
}

func TestNormalizeHandleSeparatorEquivalence(t *testing.T) {
	variants := []string{"Dust Runner", "dust.runner", "DUST_RUNNER", "dust-runner", " dust runner "}
	want := NormalizeHandle(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, want, NormalizeHandle(v), "variant %q", v)
	}
}

func TestNormalizeHandleIdempotent(t *testing.T) {
	inputs := []string{"Fox", "  Sh ark#4412", "a.b_c-d", "", "ALL CAPS NAME"}
	for _, in := range inputs {
		once := NormalizeHandle(in)
		assert.Equal(t, once, NormalizeHandle(once), "input %q", in)
	}
}

type handleRepoStub struct {
	byKey      map[string]*models.Handle
	createErr  error
	findErr    error
	requeryErr error
	requeryRow *models.Handle
	created    []*models.Handle
}

func newHandleRepoStub() *handleRepoStub {
	return &handleRepoStub{byKey: map[string]*models.Handle{}}
}

func (r *handleRepoStub) FindByCanonicalKey(ctx context.Context, key string) (*models.Handle, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if h, ok := r.byKey[key]; ok {
		return h, nil
	}
	return nil, sql.ErrNoRows
}

func (r *handleRepoStub) FindByKeyOrDisplay(ctx context.Context, key, display string) (*models.Handle, error) {
	if r.requeryErr != nil {
		return nil, r.requeryErr
	}
	if r.requeryRow != nil {
		return r.requeryRow, nil
	}
	if h, ok := r.byKey[key]; ok {
		return h, nil
	}
	return nil, sql.ErrNoRows
}

func (r *handleRepoStub) Create(ctx context.Context, handle *models.Handle) error {
	if r.createErr != nil {
		return r.createErr
	}
	handle.ID = "created-id"
	r.byKey[handle.CanonicalKey] = handle
	r.created = append(r.created, handle)
	return nil
}

func TestResolveExistingHandle(t *testing.T) {
	repo := newHandleRepoStub()
	repo.byKey["fox"] = &models.Handle{ID: "h1", Handle: "Fox", CanonicalKey: "fox"}
	svc := NewHandleService(repo, nil, nil)

	id, err := svc.Resolve(context.Background(), "  F.o-x ", "")
	require.NoError(t, err)
	assert.Equal(t, "h1", id)
	assert.Empty(t, repo.created)
}

func TestResolveCreatesHandle(t *testing.T) {
	repo := newHandleRepoStub()
	svc := NewHandleService(repo, nil, nil)

	id, err := svc.Resolve(context.Background(), " Dust Runner ", " pc ")
	require.NoError(t, err)
	assert.Equal(t, "created-id", id)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Dust Runner", repo.created[0].Handle)
	assert.Equal(t, "dustrunner", repo.created[0].CanonicalKey)
	require.NotNil(t, repo.created[0].Platform)
	assert.Equal(t, "pc", *repo.created[0].Platform)
}

func TestResolveEmptyHandle(t *testing.T) {
	svc := NewHandleService(newHandleRepoStub(), nil, nil)

	for _, raw := range []string{"", "   ", " ._- "} {
		_, err := svc.Resolve(context.Background(), raw, "")
		require.Error(t, err, "raw %q", raw)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestResolveRecoversFromCreationRace(t *testing.T) {
	repo := newHandleRepoStub()
	repo.createErr = &pq.Error{Code: "23505"}
	repo.requeryRow = &models.Handle{ID: "winner", Handle: "Fox", CanonicalKey: "fox"}
	svc := NewHandleService(repo, nil, nil)

	id, err := svc.Resolve(context.Background(), "Fox", "")
	require.NoError(t, err)
	assert.Equal(t, "winner", id)
}

func TestResolveRaceRecoveryFindsNothing(t *testing.T) {
	repo := newHandleRepoStub()
	repo.createErr = &pq.Error{Code: "23505"}
	repo.requeryErr = sql.ErrNoRows
	svc := NewHandleService(repo, nil, nil)

	_, err := svc.Resolve(context.Background(), "Fox", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrResolution.Code, appErrors.FromError(err).Code)
}

func TestResolveCreateFailure(t *testing.T) {
	repo := newHandleRepoStub()
	repo.createErr = errors.New("connection refused")
	svc := NewHandleService(repo, nil, nil)

	_, err := svc.Resolve(context.Background(), "Fox", "")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrResolution.Code, appErr.Code)
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestResolveLookupFailure(t *testing.T) {
	repo := newHandleRepoStub()
	repo.findErr = errors.New("store unreachable")
	svc := NewHandleService(repo, nil, nil)

	_, err := svc.Resolve(context.Background(), "Fox", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrResolution.Code, appErrors.FromError(err).Code)
}
