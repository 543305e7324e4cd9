package cache

import (
	"context"
	"fmt"
	"time"
)

const revokedPrefix = keyPrefix + "revoked:"

// RevokedTokens remembers logged-out token IDs until they would have expired.
type RevokedTokens struct {
	client kv
	now    func() time.Time
}

// NewRevokedTokens builds the revocation list.
func NewRevokedTokens(client kv, now func() time.Time) *RevokedTokens {
	if now == nil {
		now = time.Now
	}
	return &RevokedTokens{client: client, now: now}
}

// Revoke marks tokenID revoked until expiresAt.
func (r *RevokedTokens) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("token revocation unavailable")
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (r *RevokedTokens) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
