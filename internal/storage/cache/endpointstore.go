// Package cache adds a Redis read-aside layer in front of an EndpointStore.
package cache

import (
	"context"
	"fmt"
	"time"

	urn "github.com/tinywideclouds/go-platform/pkg/net/v1"

	"github.com/tinywideclouds/go-sns-notifier/pkg/dispatch"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns an error when the key is missing.
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedEndpointStore decorates a dispatch.EndpointStore with read-aside
// caching and invalidate-on-write.
type CachedEndpointStore struct {
	realStore dispatch.EndpointStore
	cache     CacheClient
	ttl       time.Duration
}

func NewCachedEndpointStore(realStore dispatch.EndpointStore, cache CacheClient, ttl time.Duration) *CachedEndpointStore {
	return &CachedEndpointStore{
		realStore: realStore,
		cache:     cache,
		ttl:       ttl,
	}
}

func (s *CachedEndpointStore) Fetch(ctx context.Context, user urn.URN) ([]dispatch.Device, error) {
	key := s.cacheKey(user)

	var cached []dispatch.Device
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	fresh, err := s.realStore.Fetch(ctx, user)
	if err != nil {
		return nil, err
	}

	// Caching is best effort; if Redis is down we serve from the store.
	_ = s.cache.Set(ctx, key, fresh, s.ttl)
	return fresh, nil
}

func (s *CachedEndpointStore) Register(ctx context.Context, user urn.URN, device dispatch.Device) error {
	if err := s.realStore.Register(ctx, user, device); err != nil {
		return err
	}
	return s.invalidate(ctx, user)
}

// Unregister must clear the cache even though the store write succeeded,
// otherwise a dead endpoint keeps being published to until the TTL expires.
func (s *CachedEndpointStore) Unregister(ctx context.Context, user urn.URN, endpointArn string) error {
	if err := s.realStore.Unregister(ctx, user, endpointArn); err != nil {
		return err
	}
	return s.invalidate(ctx, user)
}

func (s *CachedEndpointStore) invalidate(ctx context.Context, user urn.URN) error {
	if err := s.cache.Del(ctx, s.cacheKey(user)); err != nil {
		return fmt.Errorf("failed to invalidate endpoint cache: %w", err)
	}
	return nil
}

func (s *CachedEndpointStore) cacheKey(user urn.URN) string {
	return fmt.Sprintf("snsnotify:endpoints:%s", user.String())
}
