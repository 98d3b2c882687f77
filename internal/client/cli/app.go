package cli

import (
	"bufio"
	"context"
	"errors"
	"os"
	"time"

	"github.com/reveriehq/reverie/internal/client/api"
	"github.com/reveriehq/reverie/internal/client/config"
	"github.com/reveriehq/reverie/internal/client/services"
	"github.com/reveriehq/reverie/internal/client/storage"
	"github.com/reveriehq/reverie/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the stores, the REST client and the interactive shell together.
type App struct {
	config  *config.Config
	log     logging.Logger
	repos   *storage.Repositories
	session *services.SessionService
	journal *services.JournalService
	client  api.Client
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dbPath := cfg.DatabasePath
	if dbPath == "" {
		var err error
		dbPath, err = storage.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	repos, err := storage.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.ServerBaseURL)
	session := services.NewSessionService(apiClient, repos.Metadata, log)
	journal := services.NewJournalService(apiClient, repos.Dreams, repos.Ledgers, session, log)

	return &App{
		config:  cfg,
		log:     log,
		repos:   repos,
		session: session,
		journal: journal,
		client:  apiClient,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the persisted session, makes the local collection visible,
// kicks off the background reconciliation worker and enters the shell.
func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()

	a.session.Restore(ctx)
	a.journal.Load(ctx)
	if a.isLoggedIn() {
		go a.verifySession(ctx)
	}
	go a.journal.Sync(ctx)
	go a.StartSyncWorker(ctx, a.config.SyncInterval)

	a.Root(ctx)
}

// verifySession drops a restored session whose token the backend rejects.
// An unreachable backend keeps the session; the journal works offline.
func (a *App) verifySession(ctx context.Context) {
	valid, err := a.client.VerifyToken(ctx)
	if errors.Is(err, api.ErrUnauthorized) || (err == nil && !valid) {
		a.log.Info(ctx, "stored session is no longer valid, signing out")
		a.session.Logout(ctx)
		a.journal.Load(ctx)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// StartSyncWorker periodically reconciles with the backend and resubmits
// pending mutations, so a failed create/edit/delete does not wait for the
// next restart to be retried.
func (a *App) StartSyncWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, time.Minute)
			a.journal.Flush(tickCtx)
			a.journal.Sync(tickCtx)
			cancel()

		case <-ctx.Done():
			return
		}
	}
}
