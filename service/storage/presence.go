package storage

import (
	"context"
	"time"

	redisx "PMeet/service/storage/redis"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Presence is advisory bookkeeping about which node a connection lives on.
// The relay is authoritative about its own connections; this exists so an
// operator (or a future companion service) can ask "is this id online"
// without touching the relay. Implementations must be safe for concurrent
// use and must never block the signaling path on failure.
type Presence interface {
	Online(ctx context.Context, connID string) error
	Offline(ctx context.Context, connID string) error
}

// presence key: meet:presence:<connId>
// value: node id, TTL bounds staleness after a crash
func presenceKey(connID string) string { return "meet:presence:" + connID }

type RedisPresence struct {
	NodeID string
	TTL    time.Duration // default 2m
}

func NewRedisPresence(nodeID string) *RedisPresence {
	return &RedisPresence{NodeID: nodeID, TTL: 2 * time.Minute}
}

func (p *RedisPresence) Online(ctx context.Context, connID string) error {
	rdb := redisx.Client()
	if rdb == nil {
		return errors.New("redis not initialized")
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return rdb.Set(ctx, presenceKey(connID), p.NodeID, ttl).Err()
}

func (p *RedisPresence) Offline(ctx context.Context, connID string) error {
	rdb := redisx.Client()
	if rdb == nil {
		return errors.New("redis not initialized")
	}
	return rdb.Del(ctx, presenceKey(connID)).Err()
}

// Lookup reports whether the connection id is marked online and on which node.
func (p *RedisPresence) Lookup(ctx context.Context, connID string) (nodeID string, online bool, err error) {
	rdb := redisx.Client()
	if rdb == nil {
		return "", false, errors.New("redis not initialized")
	}
	val, err := rdb.Get(ctx, presenceKey(connID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// NopPresence is used when Redis is not configured and in core tests.
type NopPresence struct{}

func (NopPresence) Online(context.Context, string) error  { return nil }
func (NopPresence) Offline(context.Context, string) error { return nil }
