package model

import "time"

// BlacklistedToken models a row in the `token_blacklist` table. When a
// refresh token is revoked, only the SHA-256 hash of the token string is
// stored; the plain token never touches the database. ExpiresAt mirrors
// the token's own expiry so stale rows can be purged.
type BlacklistedToken struct {
	ID        uint64    // token_blacklist.id
	UserID    uint64    // token_blacklist.user_id
	TokenHash string    // token_blacklist.token_hash (hex SHA-256)
	ExpiresAt time.Time // token_blacklist.expires_at
	RevokedAt time.Time // token_blacklist.revoked_at
}
