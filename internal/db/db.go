package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	SetStore
	GeoIndex
	StreamStore
	Counter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HMGetMulti(ctx context.Context, keys []string, fields ...string) ([][]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SetStore provides unordered set operations used as secondary indexes.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SInter(ctx context.Context, keys ...string) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
	SInterCard(ctx context.Context, keys ...string) (int64, error)
	// SMIsMember reports membership of each member, in argument order.
	SMIsMember(ctx context.Context, key string, members ...string) ([]bool, error)
}

// GeoIndex provides a geohash-backed spatial index over named members.
type GeoIndex interface {
	GeoAdd(ctx context.Context, key string, members ...GeoMember) error
	GeoRemove(ctx context.Context, key string, members ...string) error
	GeoSearchRadius(ctx context.Context, q *GeoRadiusQuery) ([]string, error)
	GeoSearchBox(ctx context.Context, q *GeoBoxQuery) ([]string, error)
}

// StreamStore provides append-only log operations.
type StreamStore interface {
	XAdd(ctx context.Context, key string, fields map[string]string) (string, error)
	XRange(ctx context.Context, key string) ([]StreamEntry, error)
}

// Counter provides atomic counters.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
}
