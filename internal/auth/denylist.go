package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "denylist:access_token:"

// DenylistInterface defines the operations the session middleware needs.
type DenylistInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// Denylist tracks revoked access tokens in Redis until they expire on
// their own. It fails safe: when Redis is unavailable a token is treated
// as not revoked, since its signature and expiry were already verified.
type Denylist struct {
	client *redis.Client
}

// Ensure Denylist implements DenylistInterface
var _ DenylistInterface = (*Denylist)(nil)

// NewDenylist creates a Redis-backed denylist.
func NewDenylist(addr, password string, db int) *Denylist {
	return &Denylist{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Revoke marks an access token id as revoked for the remainder of its lifetime.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if d == nil || d.client == nil || ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		// fail safe: revocation is best effort, the token still expires
		return nil
	}
	return nil
}

// IsRevoked reports whether an access token id has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) bool {
	if d == nil || d.client == nil {
		return false
	}
	res, err := d.client.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		return false
	}
	return res > 0
}
