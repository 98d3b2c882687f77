package api

import "context"

// Client is the surface of the Reverie backend consumed by the services.
// Implementations attach the bearer token to every authenticated call.
type Client interface {
	// SetToken installs the bearer credential used by authenticated calls.
	// An empty token reverts the client to anonymous.
	SetToken(token string)

	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Register(ctx context.Context, email, password, username string) error
	VerifyToken(ctx context.Context) (bool, error)
	Me(ctx context.Context) (UserMe, error)

	ListDreams(ctx context.Context) ([]DreamRecord, error)
	CreateDream(ctx context.Context, req CreateDreamRequest) (CreateDreamResponse, error)
	UpdateDream(ctx context.Context, id string, req UpdateDreamRequest) error
	DeleteDream(ctx context.Context, id string) error

	UpdateProfile(ctx context.Context, userID string, req ProfileUpdateRequest) error
	UserStats(ctx context.Context, userID string) (UserStats, error)

	TrendSummary(ctx context.Context) (TrendSummary, error)
	TrendTimeline(ctx context.Context) ([]TrendTimelineEntry, error)
	TrendStreaks(ctx context.Context) (TrendStreaks, error)
	TrendTags(ctx context.Context) (TrendTags, error)
	TrendMonthly(ctx context.Context) ([]TrendMonthlyEntry, error)
}
