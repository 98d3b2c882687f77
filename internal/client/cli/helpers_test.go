package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reveriehq/reverie/internal/client/api"
	"github.com/reveriehq/reverie/internal/client/config"
	"github.com/reveriehq/reverie/internal/client/services"
	"github.com/reveriehq/reverie/internal/client/storage"
	"github.com/reveriehq/reverie/internal/logging"

	_ "modernc.org/sqlite"
)

var cliDBSeq atomic.Int64

// fakeAPI implements the parts of api.Client the shell exercises; anything
// else panics via the embedded nil interface.
type fakeAPI struct {
	api.Client

	token string

	loginFn    func(ctx context.Context, email, password string) (api.LoginResponse, error)
	registerFn func(ctx context.Context, email, password, username string) error
	listFn     func(ctx context.Context) ([]api.DreamRecord, error)
	createFn   func(ctx context.Context, req api.CreateDreamRequest) (api.CreateDreamResponse, error)
	updateFn   func(ctx context.Context, id string, req api.UpdateDreamRequest) error
	deleteFn   func(ctx context.Context, id string) error
	statsFn    func(ctx context.Context, userID string) (api.UserStats, error)
}

func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) Me(ctx context.Context) (api.UserMe, error) {
	return api.UserMe{}, api.ErrUnavailable
}

func (f *fakeAPI) VerifyToken(ctx context.Context) (bool, error) {
	return f.token != "", nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (api.LoginResponse, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return api.LoginResponse{}, api.ErrUnavailable
}

func (f *fakeAPI) Register(ctx context.Context, email, password, username string) error {
	if f.registerFn != nil {
		return f.registerFn(ctx, email, password, username)
	}
	return nil
}

func (f *fakeAPI) ListDreams(ctx context.Context) ([]api.DreamRecord, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) CreateDream(ctx context.Context, req api.CreateDreamRequest) (api.CreateDreamResponse, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return api.CreateDreamResponse{}, api.ErrUnavailable
}

func (f *fakeAPI) UpdateDream(ctx context.Context, id string, req api.UpdateDreamRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return api.ErrUnavailable
}

func (f *fakeAPI) DeleteDream(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return api.ErrUnavailable
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, userID string, req api.ProfileUpdateRequest) error {
	return nil
}

func (f *fakeAPI) UserStats(ctx context.Context, userID string) (api.UserStats, error) {
	if f.statsFn != nil {
		return f.statsFn(ctx, userID)
	}
	return api.UserStats{}, api.ErrUnavailable
}

// newTestApp builds an App over an in-memory database and the fake client.
// The reader starts empty; tests swap it with withInput.
func newTestApp(t *testing.T) (*App, *fakeAPI) {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:cli%d?mode=memory&cache=shared", cliDBSeq.Add(1))
	repos, err := storage.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	log := logging.New(io.Discard, "error")
	client := &fakeAPI{}
	session := services.NewSessionService(client, repos.Metadata, log)
	journal := services.NewJournalService(client, repos.Dreams, repos.Ledgers, session, log)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	return &App{
		config:  cfg,
		log:     log,
		repos:   repos,
		session: session,
		journal: journal,
		client:  client,
		reader:  bufio.NewReader(strings.NewReader("")),
	}, client
}

func (a *App) withInput(s string) {
	a.reader = bufio.NewReader(strings.NewReader(s))
}

func stubAuthInputs(t *testing.T, text string, passwords ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return text, nil }

	var calls int
	getPassword = func(_ io.Writer) ([]byte, error) {
		pw := passwords[calls%len(passwords)]
		calls++
		return []byte(pw), nil
	}
}
