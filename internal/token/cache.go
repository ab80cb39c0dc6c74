package token

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedRepository decorates a Repository with read-aside caching of owner
// lookups in Redis. Owner → token-set lookups happen on every notification
// fan-out, so they are the hot path; everything else passes straight through.
//
// Cache errors are never surfaced: a cache miss or a Redis outage falls back
// to the real store, and population failures are logged and dropped.
type CachedRepository struct {
	store  Repository
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedRepository creates the caching decorator.
func NewCachedRepository(store Repository, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepository{
		store:  store,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetByToken passes through to the real store.
func (r *CachedRepository) GetByToken(ctx context.Context, tokenStr string) (*PushToken, error) {
	return r.store.GetByToken(ctx, tokenStr)
}

// FindByOwner tries the cache first and falls back to the real store,
// populating the cache on the way back.
func (r *CachedRepository) FindByOwner(ctx context.Context, ownerID string) ([]*PushToken, error) {
	key := r.ownerKey(ownerID)

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []*PushToken
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		r.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn().Err(err).Msg("token cache read failed, falling back to store")
	}

	tokens, err := r.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(tokens); err == nil {
		if err := r.client.Set(ctx, key, encoded, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Msg("token cache populate failed")
		}
	}

	return tokens, nil
}

// FindAll passes through; broadcast fan-outs are rare and must see fresh data.
func (r *CachedRepository) FindAll(ctx context.Context) ([]*PushToken, error) {
	return r.store.FindAll(ctx)
}

// Upsert writes through and invalidates the owner's cached token set.
func (r *CachedRepository) Upsert(ctx context.Context, t *PushToken) (bool, error) {
	created, err := r.store.Upsert(ctx, t)
	if err != nil {
		return created, err
	}

	if t.OwnerID != "" {
		r.invalidate(ctx, t.OwnerID)
	}
	return created, nil
}

// Delete writes through. The owner is looked up first so the cached set can
// be invalidated; a token removed for a dead device must stop receiving
// notifications immediately.
func (r *CachedRepository) Delete(ctx context.Context, tokenStr string) error {
	existing, err := r.store.GetByToken(ctx, tokenStr)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return err
	}

	if err := r.store.Delete(ctx, tokenStr); err != nil {
		return err
	}

	if existing != nil && existing.OwnerID != "" {
		r.invalidate(ctx, existing.OwnerID)
	}
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context, ownerID string) {
	if err := r.client.Del(ctx, r.ownerKey(ownerID)).Err(); err != nil {
		r.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("token cache invalidation failed")
	}
}

func (r *CachedRepository) ownerKey(ownerID string) string {
	return "tokens:owner:" + ownerID
}

// Ensure CachedRepository implements Repository interface.
var _ Repository = (*CachedRepository)(nil)
