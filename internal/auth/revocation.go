package auth

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Revoker remembers logged-out token IDs until their natural expiry, after
// which the tokens reject themselves.
type Revoker struct {
	revoked *gocache.Cache
}

// NewRevoker constructs an empty revocation list.
func NewRevoker() *Revoker {
	return &Revoker{revoked: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

// Revoke marks the token ID revoked for the token's remaining lifetime.
func (r *Revoker) Revoke(tokenID string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	r.revoked.Set(tokenID, struct{}{}, ttl)
}

// Revoked reports whether the token ID has been revoked.
func (r *Revoker) Revoked(tokenID string) bool {
	_, found := r.revoked.Get(tokenID)
	return found
}
