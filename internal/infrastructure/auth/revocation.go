package auth

import (
	"sync"
	"time"
)

// RevocationList invalidates tokens before their natural expiry (e.g. on
// logout). Entries are keyed by JTI and dropped once the token would have
// expired anyway.
type RevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time // JTI -> expiration time
}

// NewRevocationList creates an empty revocation list
func NewRevocationList() *RevocationList {
	return &RevocationList{revoked: make(map[string]time.Time)}
}

// Revoke marks a token's JTI as revoked for the given TTL
func (r *RevocationList) Revoke(jti string, ttl time.Duration) {
	if jti == "" || ttl <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = time.Now().Add(ttl)
}

// IsRevoked reports whether a token's JTI has been revoked. Expired entries
// are pruned on lookup.
func (r *RevocationList) IsRevoked(jti string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiration, exists := r.revoked[jti]
	if !exists {
		return false
	}
	if time.Now().After(expiration) {
		delete(r.revoked, jti)
		return false
	}
	return true
}
