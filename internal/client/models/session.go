package models

// GuestOwnerKey partitions local dream storage when nobody is signed in.
const GuestOwnerKey = "guest"

// Session is the signed-in identity held in memory and mirrored to the local
// metadata store. HasProfile is true exactly when a profile is attached.
type Session struct {
	// ID is the backend user identifier; empty until the backend reports it.
	ID string `json:"id,omitempty"`

	// Email is the unique key partitioning local storage.
	Email string `json:"email"`

	// Token is the opaque bearer credential for remote calls. It is persisted
	// with the session record and never inspected by the client.
	Token string `json:"token"`

	HasProfile bool `json:"hasProfile"`

	// Profile is nil until onboarding completes or a cached profile is found.
	Profile *Profile `json:"-"`
}

// OwnerKey returns the storage partition key for this session.
func (s *Session) OwnerKey() string {
	if s == nil || s.Email == "" {
		return GuestOwnerKey
	}
	return s.Email
}
