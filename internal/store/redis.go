package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ThaerHindawi/livekit/internal/metrics"
	"github.com/ThaerHindawi/livekit/internal/models"
)

const defaultKeyPrefix = "vc:"

// admitScript performs the membership check, capacity check and insert in
// one server-side step.
// Returns 0 when the room is full, 1 on a new admission, 2 on a readmission.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local member = ARGV[1]
local capacity = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

if redis.call('SISMEMBER', key, member) == 1 then
	if ttl > 0 then
		redis.call('PEXPIRE', key, ttl)
	end
	return 2
end

if redis.call('SCARD', key) >= capacity then
	return 0
end

redis.call('SADD', key, member)
if ttl > 0 then
	redis.call('PEXPIRE', key, ttl)
end
return 1
`)

// RedisOptions configures a RedisRegistry.
type RedisOptions struct {
	Capacity  int
	KeyPrefix string
	// SlotTTL bounds how long a room set lives after its last admission.
	// Zero keeps slots until they are removed explicitly.
	SlotTTL time.Duration
}

// RedisRegistry keeps room membership in Redis sets so that several gateway
// instances share one view of occupancy.
type RedisRegistry struct {
	client    *redis.Client
	capacity  int
	keyPrefix string
	slotTTL   time.Duration
}

// NewRedisRegistry connects to redisURL and returns a registry.
func NewRedisRegistry(ctx context.Context, redisURL string, opts RedisOptions) (*RedisRegistry, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(redisOpts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedisRegistryFromClient(client, opts), nil
}

// NewRedisRegistryFromClient wraps an existing client.
func NewRedisRegistryFromClient(client *redis.Client, opts RedisOptions) *RedisRegistry {
	if opts.Capacity <= 0 {
		opts.Capacity = models.RoomCapacity
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = defaultKeyPrefix
	}
	return &RedisRegistry{
		client:    client,
		capacity:  opts.Capacity,
		keyPrefix: opts.KeyPrefix,
		slotTTL:   opts.SlotTTL,
	}
}

// Client exposes the underlying client for rate limiting.
func (s *RedisRegistry) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *RedisRegistry) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisRegistry) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// participantsKey returns the key for a room's participant set.
func (s *RedisRegistry) participantsKey(room string) string {
	return fmt.Sprintf("%sroom:%s:participants", s.keyPrefix, room)
}

// TryAdmit reserves a slot for participant in room.
func (s *RedisRegistry) TryAdmit(ctx context.Context, room, participant string) (Admission, error) {
	defer observeRedis(time.Now())

	res, err := admitScript.Run(ctx, s.client,
		[]string{s.participantsKey(room)},
		participant, s.capacity, s.slotTTL.Milliseconds(),
	).Int()
	if err != nil {
		return Rejected, fmt.Errorf("redis: admit %q to room %q: %w", participant, room, err)
	}

	switch res {
	case 1:
		return Admitted, nil
	case 2:
		return Readmitted, nil
	default:
		return Rejected, nil
	}
}

// Remove frees participant's slot. Redis drops a set once its last member
// is removed, so empty rooms disappear on their own.
func (s *RedisRegistry) Remove(ctx context.Context, room, participant string) (bool, error) {
	defer observeRedis(time.Now())

	removed, err := s.client.SRem(ctx, s.participantsKey(room), participant).Result()
	if err != nil {
		return false, fmt.Errorf("redis: remove %q from room %q: %w", participant, room, err)
	}
	return removed > 0, nil
}

// Status returns the occupancy of room.
func (s *RedisRegistry) Status(ctx context.Context, room string) (models.RoomStatus, error) {
	defer observeRedis(time.Now())

	count, err := s.client.SCard(ctx, s.participantsKey(room)).Result()
	if err != nil {
		return models.RoomStatus{}, fmt.Errorf("redis: status of room %q: %w", room, err)
	}
	return statusOf(int(count), s.capacity), nil
}

func observeRedis(start time.Time) {
	metrics.RedisLatency.Observe(time.Since(start).Seconds())
}
