package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Content caches public listing payloads in Redis behind a per-entity
// version counter. Invalidation bumps the counter so stale keys simply age
// out; concurrent cache misses for the same key collapse into one loader
// call.
type Content struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewContent instantiates the content cache helper.
func NewContent(client *redis.Client, ttl time.Duration) *Content {
	return &Content{client: client, ttl: ttl}
}

// Version returns the current cache version for the entity, initialising it
// when missing.
func (c *Content) Version(ctx context.Context, entity string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	key := versionKey(entity)
	ver, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, key, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalidates every cached payload of the entity by advancing its
// version.
func (c *Content) Bump(ctx context.Context, entity string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(entity)).Err()
}

// FetchJSON loads a cached value or populates it via the loader. Loader
// calls for the same key are collapsed across concurrent requests.
func (c *Content) FetchJSON(ctx context.Context, entity, suffix string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("platform/cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return reencode(value, dest)
	}

	ver, err := c.Version(ctx, entity)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("content:%s:%s:%d", entity, suffix, ver)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}

	raw, err, _ := c.group.Do(key, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), dest)
}

func versionKey(entity string) string {
	return "content:ver:" + entity
}

func reencode(value, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
