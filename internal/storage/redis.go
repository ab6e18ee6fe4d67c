package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Leaderboard is the ranked score list. Store and RedisStore both satisfy it.
type Leaderboard interface {
	Record(player string, score int) error
	All() ([]ScoreRecord, error)
	Top() (ScoreRecord, bool, error)
	TopScore() (int, error)
}

var (
	_ Leaderboard = (*Store)(nil)
	_ Leaderboard = (*RedisStore)(nil)
)

const (
	defaultRedisPrefix  = "bubblepop"
	defaultRedisTimeout = 3 * time.Second

	// seqCeiling bounds the insertion sequence so inverted values stay positive
	seqCeiling = int64(1) << 62
)

// RedisStore keeps the ranked list in a Redis sorted set so several hosts
// can share one leaderboard.
//
// Members are prefixed with an inverted insertion sequence. Redis orders
// equal scores lexicographically by member, so in descending order an
// older entry ranks above a newer one with the same score.
type RedisStore struct {
	client  *redis.Client
	key     string
	seqKey  string
	timeout time.Duration
}

// redisEntry is the JSON payload stored after the sequence prefix.
type redisEntry struct {
	ID        int64     `json:"id"`
	Player    string    `json:"player"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenRedis connects to the Redis server at url (redis://host:port/db)
// and verifies the connection.
func OpenRedis(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), defaultRedisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: cannot connect to redis: %w", err)
	}

	return NewRedisStore(client, defaultRedisPrefix), nil
}

// NewRedisStore wraps an existing client. Keys are namespaced by prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{
		client:  client,
		key:     prefix + ":scores",
		seqKey:  prefix + ":scores:seq",
		timeout: defaultRedisTimeout,
	}
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Record adds a score and trims the set to the top MaxEntries atomically.
func (s *RedisStore) Record(player string, score int) error {
	player = strings.TrimSpace(player)
	if player == "" || score < 0 {
		return fmt.Errorf("%w: player %q, score %d", ErrInvalidRecord, player, score)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	seq, err := s.client.Incr(ctx, s.seqKey).Result()
	if err != nil {
		return fmt.Errorf("storage: cannot allocate score id: %w", err)
	}

	member, err := encodeMember(redisEntry{ID: seq, Player: player, CreatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, s.key, redis.Z{Score: float64(score), Member: member})
		// Ascending rank 0 is the worst entry
		pipe.ZRemRangeByRank(ctx, s.key, 0, -int64(MaxEntries)-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}
	return nil
}

// All returns the ranked list, best first.
func (s *RedisStore) All() ([]ScoreRecord, error) {
	return s.rangeRecords(MaxEntries - 1)
}

// Top returns the best entry. ok is false when the list is empty.
func (s *RedisStore) Top() (ScoreRecord, bool, error) {
	records, err := s.rangeRecords(0)
	if err != nil || len(records) == 0 {
		return ScoreRecord{}, false, err
	}
	return records[0], true, nil
}

// TopScore returns the highest stored score, or 0 if none exist.
func (s *RedisStore) TopScore() (int, error) {
	top, _, err := s.Top()
	return top.Score, err
}

func (s *RedisStore) rangeRecords(stop int64) ([]ScoreRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	zs, err := s.client.ZRevRangeWithScores(ctx, s.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}

	records := make([]ScoreRecord, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entry, err := decodeMember(member)
		if err != nil {
			return nil, err
		}
		records = append(records, ScoreRecord{
			ID:         entry.ID,
			PlayerName: entry.Player,
			Score:      int(z.Score),
			CreatedAt:  entry.CreatedAt,
		})
	}
	return records, nil
}

// encodeMember renders "<inverted seq>|<json>". The prefix is zero padded
// so lexicographic order matches numeric order.
func encodeMember(e redisEntry) (string, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode score: %w", err)
	}
	return fmt.Sprintf("%019d|%s", seqCeiling-e.ID, payload), nil
}

func decodeMember(member string) (redisEntry, error) {
	_, payload, ok := strings.Cut(member, "|")
	if !ok {
		return redisEntry{}, fmt.Errorf("storage: malformed score member %q", member)
	}
	var e redisEntry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return redisEntry{}, fmt.Errorf("storage: cannot decode score: %w", err)
	}
	return e, nil
}
