package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/reveriehq/reverie/internal/client/api"
	"github.com/reveriehq/reverie/internal/client/models"
	"github.com/reveriehq/reverie/internal/client/repositories/dreams"
	"github.com/reveriehq/reverie/internal/client/repositories/ledgers"
	"github.com/reveriehq/reverie/internal/logging"
	"github.com/sethvargo/go-retry"
)

// sessionState is the slice of the session store the journal needs: who owns
// the collection and whether a credential is available for remote calls.
type sessionState interface {
	Current() *models.Session
}

// JournalService owns the current user's dream collection. Every mutation
// updates in-memory state and the local working copy synchronously, then
// tries the backend; a failed remote call leaves the mutation in a pending
// ledger instead of surfacing an error.
type JournalService struct {
	client  api.Client
	dreams  dreams.Repository
	ledgers ledgers.Repository
	session sessionState
	log     logging.Logger

	mu         sync.Mutex
	collection []models.Dream
	loaded     bool
}

func NewJournalService(client api.Client, dreamRepo dreams.Repository, ledgerRepo ledgers.Repository, session sessionState, log logging.Logger) *JournalService {
	return &JournalService{
		client:  client,
		dreams:  dreamRepo,
		ledgers: ledgerRepo,
		session: session,
		log:     log.With("component", "journal"),
	}
}

func (j *JournalService) ownerKey() string {
	return j.session.Current().OwnerKey()
}

func (j *JournalService) token() string {
	if s := j.session.Current(); s != nil {
		return s.Token
	}
	return ""
}

// Load makes the locally persisted collection visible immediately, so the
// caller never renders an empty list while the first reconciliation runs.
func (j *JournalService) Load(ctx context.Context) {
	collection, err := j.dreams.List(ctx, j.ownerKey())
	if err != nil {
		j.log.Warn(ctx, "failed to read local collection", "error", err)
		collection = nil
	}

	j.mu.Lock()
	j.collection = collection
	j.loaded = true
	j.mu.Unlock()
}

// Loaded reports whether the initial local read has happened.
func (j *JournalService) Loaded() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.loaded
}

// Dreams returns a copy of the in-memory collection, newest first.
func (j *JournalService) Dreams() []models.Dream {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]models.Dream, len(j.collection))
	copy(out, j.collection)
	return out
}

// Sync fetches the backend collection, reconciles it against the pending
// ledgers and installs the merged result as the new working copy. Any
// failure is logged and swallowed; the local cache stays authoritative.
func (j *JournalService) Sync(ctx context.Context) {
	if j.token() == "" {
		return
	}
	ownerKey := j.ownerKey()

	records, err := j.client.ListDreams(ctx)
	if err != nil {
		j.log.Warn(ctx, "failed to sync dreams from backend, using local cache", "error", err)
		return
	}

	remote := make([]models.Dream, 0, len(records))
	for _, r := range records {
		remote = append(remote, mapRecord(r))
	}

	edits, err := j.ledgers.PendingEdits(ctx, ownerKey)
	if err != nil {
		j.log.Warn(ctx, "failed to read pending edits", "error", err)
		return
	}
	deletes, err := j.ledgers.PendingDeletes(ctx, ownerKey)
	if err != nil {
		j.log.Warn(ctx, "failed to read pending deletes", "error", err)
		return
	}

	merged := MergeRemote(remote, edits, deletes)

	j.mu.Lock()
	j.collection = merged
	j.loaded = true
	j.mu.Unlock()

	j.persist(ctx, ownerKey, merged)
}

// Add prepends the record to the collection, persists it and tries the
// remote create. The record stays in the pending-edit ledger until the
// create confirms; a confirmed create renames the client-generated ID to the
// server-assigned one in place.
func (j *JournalService) Add(ctx context.Context, dream models.Dream) models.Dream {
	if dream.ID == "" {
		dream.ID = models.NewLocalID()
	}
	if dream.Date == "" {
		dream.Date = time.Now().UTC().Format(time.RFC3339)
	}
	if dream.Analysis == "" {
		dream.Analysis = dream.Description
	}
	ownerKey := j.ownerKey()

	j.mu.Lock()
	j.collection = append([]models.Dream{dream}, j.collection...)
	collection := j.snapshotLocked()
	j.mu.Unlock()

	j.persist(ctx, ownerKey, collection)
	if err := j.ledgers.SetPendingEdit(ctx, ownerKey, dream); err != nil {
		j.log.Warn(ctx, "failed to record pending create", "error", err)
	}

	if j.token() == "" {
		return dream
	}

	resp, err := j.client.CreateDream(ctx, api.CreateDreamRequest{
		DreamText: dream.Description,
		Title:     dream.Title,
		IsLucid:   dream.Lucidity,
		Tags:      dream.Tags,
		Mood:      dream.Mood,
	})
	if err != nil {
		j.log.Warn(ctx, "failed to persist new dream to backend", "id", dream.ID, "error", err)
		return dream
	}

	confirmed := j.confirmCreate(ctx, ownerKey, dream.ID, resp.DreamID)
	if confirmed != nil {
		return *confirmed
	}
	return dream
}

// confirmCreate renames a locally created record to its server ID, in place,
// and clears its ledger entry. Returns the renamed record when found.
func (j *JournalService) confirmCreate(ctx context.Context, ownerKey, localID, serverID string) *models.Dream {
	if err := j.ledgers.ClearPendingEdit(ctx, ownerKey, localID); err != nil {
		j.log.Warn(ctx, "failed to clear pending create", "error", err)
	}
	if serverID == "" || serverID == localID {
		return nil
	}

	j.mu.Lock()
	var renamed *models.Dream
	for i := range j.collection {
		if j.collection[i].ID == localID {
			j.collection[i].ID = serverID
			d := j.collection[i]
			renamed = &d
			break
		}
	}
	collection := j.snapshotLocked()
	j.mu.Unlock()

	if renamed != nil {
		j.persist(ctx, ownerKey, collection)
	}
	return renamed
}

// Update applies the partial update in memory, snapshots the whole record
// into the pending-edit ledger and tries the remote update.
func (j *JournalService) Update(ctx context.Context, id string, patch models.DreamPatch) {
	ownerKey := j.ownerKey()

	j.mu.Lock()
	var updated *models.Dream
	for i := range j.collection {
		if j.collection[i].ID == id {
			patch.Apply(&j.collection[i])
			d := j.collection[i]
			updated = &d
			break
		}
	}
	collection := j.snapshotLocked()
	j.mu.Unlock()

	if updated == nil {
		return
	}

	j.persist(ctx, ownerKey, collection)
	if err := j.ledgers.SetPendingEdit(ctx, ownerKey, *updated); err != nil {
		j.log.Warn(ctx, "failed to record pending edit", "error", err)
	}

	// A record the server has never heard of cannot be updated remotely;
	// its ledger entry rides along with the unconfirmed create.
	if j.token() == "" || models.IsLocalID(id) {
		return
	}

	if err := j.client.UpdateDream(ctx, id, fullUpdateRequest(*updated)); err != nil {
		j.log.Warn(ctx, "failed to update dream on backend", "id", id, "error", err)
		return
	}
	if err := j.ledgers.ClearPendingEdit(ctx, ownerKey, id); err != nil {
		j.log.Warn(ctx, "failed to clear pending edit", "error", err)
	}
}

// Delete removes the record immediately and tracks the delete as pending
// until the backend confirms. Deleting an unknown id is a no-op, so the
// operation is idempotent.
func (j *JournalService) Delete(ctx context.Context, id string) {
	ownerKey := j.ownerKey()

	j.mu.Lock()
	found := false
	filtered := j.collection[:0:0]
	for _, d := range j.collection {
		if d.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, d)
	}
	j.collection = filtered
	collection := j.snapshotLocked()
	j.mu.Unlock()

	if !found {
		return
	}

	j.persist(ctx, ownerKey, collection)

	// a delete supersedes any unconfirmed edit for the same record
	if err := j.ledgers.ClearPendingEdit(ctx, ownerKey, id); err != nil {
		j.log.Warn(ctx, "failed to drop pending edit for deleted dream", "error", err)
	}

	// a record that never reached the server needs no remote delete
	if models.IsLocalID(id) {
		return
	}

	if err := j.ledgers.AddPendingDelete(ctx, ownerKey, id); err != nil {
		j.log.Warn(ctx, "failed to record pending delete", "error", err)
	}

	if j.token() == "" {
		return
	}

	if err := j.client.DeleteDream(ctx, id); err != nil {
		j.log.Warn(ctx, "failed to delete dream on backend", "id", id, "error", err)
		return
	}
	if err := j.ledgers.ClearPendingDelete(ctx, ownerKey, id); err != nil {
		j.log.Warn(ctx, "failed to clear pending delete", "error", err)
	}
}

// Reset replaces the collection with the fixed seed set. No remote call is
// made; both ledgers are cleared so stale entries cannot resurrect records
// at the next merge.
func (j *JournalService) Reset(ctx context.Context) {
	ownerKey := j.ownerKey()
	seed := models.SeedDreams()

	j.mu.Lock()
	j.collection = seed
	collection := j.snapshotLocked()
	j.mu.Unlock()

	j.persist(ctx, ownerKey, collection)
	if err := j.ledgers.ClearAll(ctx, ownerKey); err != nil {
		j.log.Warn(ctx, "failed to clear pending ledgers", "error", err)
	}
}

// Flush resubmits every pending mutation with backoff, clearing each ledger
// entry on success. Unconfirmed creates (local IDs) are resubmitted as
// creates; everything else in the edit ledger as updates.
func (j *JournalService) Flush(ctx context.Context) {
	if j.token() == "" {
		return
	}
	ownerKey := j.ownerKey()

	deletes, err := j.ledgers.PendingDeletes(ctx, ownerKey)
	if err != nil {
		j.log.Warn(ctx, "failed to read pending deletes", "error", err)
		return
	}
	for id := range deletes {
		if models.IsLocalID(id) {
			_ = j.ledgers.ClearPendingDelete(ctx, ownerKey, id)
			continue
		}
		if err := j.withBackoff(ctx, func(ctx context.Context) error {
			err := j.client.DeleteDream(ctx, id)
			if isGone(err) {
				return nil
			}
			return err
		}); err != nil {
			j.log.Warn(ctx, "pending delete still unconfirmed", "id", id, "error", err)
			continue
		}
		if err := j.ledgers.ClearPendingDelete(ctx, ownerKey, id); err != nil {
			j.log.Warn(ctx, "failed to clear pending delete", "error", err)
		}
	}

	edits, err := j.ledgers.PendingEdits(ctx, ownerKey)
	if err != nil {
		j.log.Warn(ctx, "failed to read pending edits", "error", err)
		return
	}
	for id, dream := range edits {
		if models.IsLocalID(id) {
			j.flushCreate(ctx, ownerKey, dream)
			continue
		}

		req := fullUpdateRequest(dream)
		if err := j.withBackoff(ctx, func(ctx context.Context) error {
			return j.client.UpdateDream(ctx, id, req)
		}); err != nil {
			j.log.Warn(ctx, "pending edit still unconfirmed", "id", id, "error", err)
			continue
		}
		if err := j.ledgers.ClearPendingEdit(ctx, ownerKey, id); err != nil {
			j.log.Warn(ctx, "failed to clear pending edit", "error", err)
		}
	}
}

func (j *JournalService) flushCreate(ctx context.Context, ownerKey string, dream models.Dream) {
	var resp api.CreateDreamResponse
	err := j.withBackoff(ctx, func(ctx context.Context) error {
		var callErr error
		resp, callErr = j.client.CreateDream(ctx, api.CreateDreamRequest{
			DreamText: dream.Description,
			Title:     dream.Title,
			IsLucid:   dream.Lucidity,
			Tags:      dream.Tags,
			Mood:      dream.Mood,
		})
		return callErr
	})
	if err != nil {
		j.log.Warn(ctx, "pending create still unconfirmed", "id", dream.ID, "error", err)
		return
	}
	j.confirmCreate(ctx, ownerKey, dream.ID, resp.DreamID)
}

// withBackoff retries transient failures a few times. Auth failures and
// client-side 4xx responses are permanent: resubmitting the same payload
// cannot fix them.
func (j *JournalService) withBackoff(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, api.ErrUnauthorized) {
			return err
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return err
		}
		return retry.RetryableError(err)
	})
}

// snapshotLocked copies the collection; callers must hold j.mu.
func (j *JournalService) snapshotLocked() []models.Dream {
	out := make([]models.Dream, len(j.collection))
	copy(out, j.collection)
	return out
}

func (j *JournalService) persist(ctx context.Context, ownerKey string, collection []models.Dream) {
	if err := j.dreams.Replace(ctx, ownerKey, collection); err != nil {
		j.log.Warn(ctx, "failed to persist local collection", "error", err)
	}
}

// isGone treats a 404 on delete as confirmation: the record is already gone.
func isGone(err error) bool {
	var apiErr *api.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// mapRecord converts a backend dream record into the local shape. The
// description falls back to the summary and the analysis to the description,
// so neither is ever empty when the backend knows anything at all.
func mapRecord(r api.DreamRecord) models.Dream {
	description := r.DreamText
	if description == "" {
		description = r.Summary
	}
	analysis := r.Summary
	if analysis == "" {
		analysis = description
	}
	date := r.SubmittedAt
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}
	mood := r.Mood
	if mood == "" {
		mood = "neutral"
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.Dream{
		ID:          r.ID,
		Title:       r.Title,
		Description: description,
		Date:        date,
		Mood:        mood,
		Tags:        tags,
		Lucidity:    r.IsLucid,
		Analysis:    analysis,
	}
}

// fullUpdateRequest sends the whole snapshot: the pending-edit ledger stores
// full records, not diffs.
func fullUpdateRequest(d models.Dream) api.UpdateDreamRequest {
	title := d.Title
	text := d.Description
	lucid := d.Lucidity
	tags := d.Tags
	mood := d.Mood
	return api.UpdateDreamRequest{
		Title:     &title,
		DreamText: &text,
		IsLucid:   &lucid,
		Tags:      &tags,
		Mood:      &mood,
	}
}
