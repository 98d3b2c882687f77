package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/reveriehq/reverie/internal/client/api"
	"github.com/reveriehq/reverie/internal/client/models"
	"github.com/reveriehq/reverie/internal/client/repositories/metadata"
	"github.com/reveriehq/reverie/internal/logging"
)

// ErrInvalidCredentials is returned synchronously when the login input is
// missing its email or credential. It is the only session error surfaced to
// the user; storage trouble degrades to in-memory operation instead.
var ErrInvalidCredentials = errors.New("email and credential are required")

// LoginOptions tweaks how a login shapes the session.
type LoginOptions struct {
	// RequireProfileSetup forces the onboarding wizard even when a cached
	// profile exists (used right after registration).
	RequireProfileSetup bool
}

// persistedSession is the JSON record stored under metadata.SessionKey.
type persistedSession struct {
	ID         string `json:"id,omitempty"`
	Email      string `json:"email"`
	Token      string `json:"token"`
	HasProfile bool   `json:"hasProfile"`
}

type loginInput struct {
	Email string `validate:"required,email"`
	Token string `validate:"required"`
}

// SessionService owns the current identity and its credential, and caches a
// profile per email so a returning user does not re-onboard.
type SessionService struct {
	metadata metadata.Repository
	client   api.Client
	log      logging.Logger
	validate *validator.Validate

	mu      sync.RWMutex
	current *models.Session
}

func NewSessionService(client api.Client, metadataRepo metadata.Repository, log logging.Logger) *SessionService {
	return &SessionService{
		metadata: metadataRepo,
		client:   client,
		log:      log.With("component", "session"),
		validate: validator.New(),
	}
}

// Restore loads the persisted session, if any, and rebuilds the in-memory
// identity. A malformed record is discarded, not crashed on.
func (s *SessionService) Restore(ctx context.Context) {
	raw, err := s.metadata.Get(ctx, metadata.SessionKey)
	if err != nil {
		s.log.Warn(ctx, "failed to read persisted session", "error", err)
		return
	}
	if raw == nil {
		return
	}

	var stored persistedSession
	if err := json.Unmarshal(raw, &stored); err != nil || stored.Email == "" {
		s.log.Warn(ctx, "discarding malformed session record")
		_ = s.metadata.Delete(ctx, metadata.SessionKey)
		return
	}

	profile := s.CachedProfile(ctx, stored.Email)

	session := &models.Session{
		ID:         stored.ID,
		Email:      stored.Email,
		Token:      stored.Token,
		HasProfile: stored.HasProfile || profile != nil,
		Profile:    profile,
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()
	s.client.SetToken(stored.Token)
}

// Login installs an authenticated identity from the backend's login result.
// The snapshot, when present and complete, overwrites the local profile
// cache; zodiac data is always recomputed from the birthdate rather than
// trusted from any cache.
func (s *SessionService) Login(ctx context.Context, email, token string, opts LoginOptions, snapshot *api.UserSnapshot) error {
	if err := s.validate.Struct(loginInput{Email: email, Token: token}); err != nil {
		return ErrInvalidCredentials
	}

	profile := s.CachedProfile(ctx, email)

	var userID string
	if snapshot != nil {
		userID = snapshot.ID
		if snapshot.HasProfile && snapshot.Profile != nil {
			profile = profileFromSnapshot(email, profile, snapshot.Profile)
			s.writeProfileCache(ctx, email, profile)
		}
	}

	hasProfile := profile != nil
	if snapshot != nil {
		hasProfile = snapshot.HasProfile
	}
	if opts.RequireProfileSetup {
		hasProfile = false
	}

	s.client.SetToken(token)

	// Backend user ID is needed for stats and profile pushes; resolve it
	// best-effort when the login response carried no user payload.
	if userID == "" {
		if me, err := s.client.Me(ctx); err == nil {
			userID = me.ID
		} else {
			s.log.Debug(ctx, "could not resolve backend user id", "error", err)
		}
	}

	session := &models.Session{
		ID:         userID,
		Email:      email,
		Token:      token,
		HasProfile: hasProfile,
	}
	if hasProfile {
		session.Profile = profile
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	s.persistSession(ctx, session)
	return nil
}

// Logout clears the in-memory identity and the persisted session record.
// The profile cache and the email's journal data stay for the next login.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.client.SetToken("")

	if err := s.metadata.Delete(ctx, metadata.SessionKey); err != nil {
		s.log.Warn(ctx, "failed to remove persisted session", "error", err)
	}
}

// CompleteProfile attaches the profile to the current identity and caches it
// for the email. A missing identity makes this a no-op: profile completion
// can race with navigating away from the wizard. The partial schema is
// pushed to the backend best-effort when a user ID is known.
func (s *SessionService) CompleteProfile(ctx context.Context, profile models.Profile) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}

	profile.Zodiac = models.ZodiacForBirthdate(profile.Birthday)

	s.current.HasProfile = true
	s.current.Profile = &profile
	session := *s.current
	s.mu.Unlock()

	s.writeProfileCache(ctx, session.Email, &profile)
	s.persistSession(ctx, &session)

	if session.ID != "" && session.Token != "" {
		err := s.client.UpdateProfile(ctx, session.ID, api.ProfileUpdateRequest{
			Birthdate:       profile.Birthday,
			FavoriteElement: profile.FavoriteElement,
			DreamGoals:      profile.DreamGoals,
		})
		if err != nil {
			s.log.Warn(ctx, "failed to push profile to backend", "error", err)
		}
	}
}

// Current returns the signed-in identity, or nil when anonymous.
func (s *SessionService) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SessionService) IsAuthenticated() bool {
	return s.Current() != nil
}

// OwnerKey is the storage partition key for the current identity.
func (s *SessionService) OwnerKey() string {
	return s.Current().OwnerKey()
}

// CachedProfile reads the per-email profile cache; malformed entries are
// dropped. The zodiac classification is recomputed, never read back.
func (s *SessionService) CachedProfile(ctx context.Context, email string) *models.Profile {
	raw, err := s.metadata.Get(ctx, metadata.ProfileKeyPrefix+email)
	if err != nil {
		s.log.Warn(ctx, "failed to read profile cache", "email", email, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		s.log.Warn(ctx, "discarding malformed profile cache entry", "email", email)
		_ = s.metadata.Delete(ctx, metadata.ProfileKeyPrefix+email)
		return nil
	}
	if profile.Birthday != "" {
		profile.Zodiac = models.ZodiacForBirthdate(profile.Birthday)
	}
	return &profile
}

func (s *SessionService) writeProfileCache(ctx context.Context, email string, profile *models.Profile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		s.log.Warn(ctx, "failed to encode profile", "error", err)
		return
	}
	if err := s.metadata.Set(ctx, metadata.ProfileKeyPrefix+email, raw); err != nil {
		s.log.Warn(ctx, "failed to write profile cache", "email", email, "error", err)
	}
}

func (s *SessionService) persistSession(ctx context.Context, session *models.Session) {
	raw, err := json.Marshal(persistedSession{
		ID:         session.ID,
		Email:      session.Email,
		Token:      session.Token,
		HasProfile: session.HasProfile,
	})
	if err != nil {
		s.log.Warn(ctx, "failed to encode session", "error", err)
		return
	}
	if err := s.metadata.Set(ctx, metadata.SessionKey, raw); err != nil {
		s.log.Warn(ctx, "failed to persist session", "error", err)
	}
}

// profileFromSnapshot rebuilds a full Profile from the backend's partial
// schema. The display name is client-only: the cached one is kept when
// present, otherwise derived from the email's local part.
func profileFromSnapshot(email string, cached *models.Profile, data *api.UserProfileData) *models.Profile {
	name := ""
	if cached != nil {
		name = cached.Name
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	return &models.Profile{
		Name:            name,
		Birthday:        data.Birthdate,
		FavoriteElement: data.FavoriteElement,
		DreamGoals:      data.DreamGoals,
		Zodiac:          models.ZodiacForBirthdate(data.Birthdate),
	}
}
