package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/reveriehq/reverie/internal/client/api"
	"github.com/reveriehq/reverie/internal/client/models"
	"github.com/reveriehq/reverie/internal/client/repositories/dreams"
	"github.com/reveriehq/reverie/internal/client/repositories/ledgers"
	"github.com/reveriehq/reverie/internal/client/repositories/metadata"
	"github.com/reveriehq/reverie/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var dbSeq atomic.Int64

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:servicestest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
CREATE TABLE dreams (
  owner_key   TEXT NOT NULL,
  id          TEXT NOT NULL,
  title       TEXT NOT NULL,
  description TEXT NOT NULL,
  dreamed_at  TEXT NOT NULL,
  mood        TEXT NOT NULL,
  tags        TEXT NOT NULL,
  lucidity    INTEGER NOT NULL DEFAULT 0,
  analysis    TEXT NOT NULL,
  position    INTEGER NOT NULL,
  PRIMARY KEY (owner_key, id)
);
CREATE TABLE pending_edits (
  owner_key TEXT NOT NULL,
  dream_id  TEXT NOT NULL,
  snapshot  BLOB NOT NULL,
  PRIMARY KEY (owner_key, dream_id)
);
CREATE TABLE pending_deletes (
  owner_key TEXT NOT NULL,
  dream_id  TEXT NOT NULL,
  PRIMARY KEY (owner_key, dream_id)
);`)
	require.NoError(t, err)
	return db
}

func testLogger() logging.Logger {
	return logging.New(io.Discard, "debug")
}

// fakeClient stubs the backend. Unset function fields succeed with zero
// values; call counters track remote traffic.
type fakeClient struct {
	api.Client

	token string

	meFn          func(ctx context.Context) (api.UserMe, error)
	listDreamsFn  func(ctx context.Context) ([]api.DreamRecord, error)
	createDreamFn func(ctx context.Context, req api.CreateDreamRequest) (api.CreateDreamResponse, error)
	updateDreamFn func(ctx context.Context, id string, req api.UpdateDreamRequest) error
	deleteDreamFn func(ctx context.Context, id string) error
	updateProfFn  func(ctx context.Context, userID string, req api.ProfileUpdateRequest) error

	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeClient) SetToken(token string) { f.token = token }

func (f *fakeClient) Me(ctx context.Context) (api.UserMe, error) {
	if f.meFn != nil {
		return f.meFn(ctx)
	}
	return api.UserMe{}, api.ErrUnavailable
}

func (f *fakeClient) ListDreams(ctx context.Context) ([]api.DreamRecord, error) {
	if f.listDreamsFn != nil {
		return f.listDreamsFn(ctx)
	}
	return nil, nil
}

func (f *fakeClient) CreateDream(ctx context.Context, req api.CreateDreamRequest) (api.CreateDreamResponse, error) {
	f.createCalls++
	if f.createDreamFn != nil {
		return f.createDreamFn(ctx, req)
	}
	return api.CreateDreamResponse{}, nil
}

func (f *fakeClient) UpdateDream(ctx context.Context, id string, req api.UpdateDreamRequest) error {
	f.updateCalls++
	if f.updateDreamFn != nil {
		return f.updateDreamFn(ctx, id, req)
	}
	return nil
}

func (f *fakeClient) DeleteDream(ctx context.Context, id string) error {
	f.deleteCalls++
	if f.deleteDreamFn != nil {
		return f.deleteDreamFn(ctx, id)
	}
	return nil
}

func (f *fakeClient) UpdateProfile(ctx context.Context, userID string, req api.ProfileUpdateRequest) error {
	if f.updateProfFn != nil {
		return f.updateProfFn(ctx, userID, req)
	}
	return nil
}

// stubSession satisfies sessionState without dragging the real session store
// into journal tests.
type stubSession struct {
	session *models.Session
}

func (s *stubSession) Current() *models.Session { return s.session }

type journalFixture struct {
	svc     *JournalService
	client  *fakeClient
	dreams  dreams.Repository
	ledgers ledgers.Repository
	session *stubSession
}

func setupJournal(t *testing.T, session *models.Session) *journalFixture {
	t.Helper()
	db := setupDB(t)
	client := &fakeClient{}
	dreamRepo := dreams.NewSQLiteRepository(db)
	ledgerRepo := ledgers.NewSQLiteRepository(db)
	stub := &stubSession{session: session}

	return &journalFixture{
		svc:     NewJournalService(client, dreamRepo, ledgerRepo, stub, testLogger()),
		client:  client,
		dreams:  dreamRepo,
		ledgers: ledgerRepo,
		session: stub,
	}
}

func setupSession(t *testing.T) (*SessionService, *fakeClient, metadata.Repository) {
	t.Helper()
	db := setupDB(t)
	client := &fakeClient{}
	metadataRepo := metadata.NewSQLiteRepository(db)
	return NewSessionService(client, metadataRepo, testLogger()), client, metadataRepo
}
