// Package cache provides a JSON value cache backed by Redis.
//
// When Redis is unreachable the cache degrades to a small in-process memory
// store instead of failing: catalog reads just get slower, and sessions keep
// working in development and tests without a running Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"gearshop/config"
)

var (
	RDB *redis.Client
	Ctx = context.Background()

	memMu  sync.RWMutex
	memory = map[string]memoryEntry{}
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Connect initialises the Redis client and verifies the connection with a
// ping. On failure the client is discarded and the in-memory fallback takes
// over; the returned error lets the caller log a warning.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss or error.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return memGet(key, dest)
	}

	val, err := RDB.Get(Ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if RDB == nil {
		memSet(key, data, ttl)
		return nil
	}

	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB == nil {
		memMu.Lock()
		for _, k := range keys {
			delete(memory, k)
		}
		memMu.Unlock()
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}

// Forget is an alias for Del.
func Forget(key string) error {
	return Del(key)
}

// ── In-memory fallback ───────────────────────────────────────────────────────

func memGet(key string, dest interface{}) bool {
	memMu.RLock()
	entry, ok := memory[key]
	memMu.RUnlock()

	if !ok {
		return false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		memMu.Lock()
		delete(memory, key)
		memMu.Unlock()
		return false
	}

	return json.Unmarshal(entry.data, dest) == nil
}

func memSet(key string, data []byte, ttl time.Duration) {
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	memMu.Lock()
	memory[key] = entry
	memMu.Unlock()
}
