package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface. Events
// are JSON values with a counter-assigned ID and a list index ordered newest
// first; balances are integer keys indexed by a pair set.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Balance operations

func (s *Storage) AddToBalance(ctx context.Context, nameA, nameB string, delta int64) error {
	pipe := s.client.Pipeline()
	pipe.IncrBy(ctx, balanceKey(nameA, nameB), delta)
	pipe.SAdd(ctx, balanceIndexKey, pairMember(nameA, nameB))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetBalance(ctx context.Context, nameA, nameB string) (int64, error) {
	debt, err := s.client.Get(ctx, balanceKey(nameA, nameB)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return debt, nil
}

func (s *Storage) ListBalances(ctx context.Context, name string) ([]model.BalanceEntry, error) {
	members, err := s.client.SMembers(ctx, balanceIndexKey).Result()
	if err != nil {
		return nil, err
	}

	var entries []model.BalanceEntry
	for _, member := range members {
		nameA, nameB, ok := strings.Cut(member, "|")
		if !ok {
			continue
		}
		if name != "" && nameA != name && nameB != name {
			continue
		}
		debt, err := s.GetBalance(ctx, nameA, nameB)
		if err != nil {
			return nil, err
		}
		entries = append(entries, model.BalanceEntry{NameA: nameA, NameB: nameB, Debt: debt})
	}
	return entries, nil
}

// Event log operations

func (s *Storage) AppendEvent(ctx context.Context, ev *model.Event) error {
	id, err := s.client.Incr(ctx, eventCounterKey).Result()
	if err != nil {
		return err
	}
	ev.ID = id

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, eventKey(id), data, 0)
	pipe.LPush(ctx, eventIndexKey, id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) getEvent(ctx context.Context, id int64) (*model.Event, error) {
	data, err := s.client.Get(ctx, eventKey(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var ev model.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Storage) LatestEvent(ctx context.Context) (*model.Event, error) {
	idStr, err := s.client.LIndex(ctx, eventIndexKey, 0).Result()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrNoEvents
	}
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, err
	}
	return s.getEvent(ctx, id)
}

func (s *Storage) DeleteEvent(ctx context.Context, id int64) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, eventKey(id))
	pipe.LRem(ctx, eventIndexKey, 0, id)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListEvents(ctx context.Context, limit int, names ...string) ([]model.Event, error) {
	ids, err := s.client.LRange(ctx, eventIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var events []model.Event
	for _, idStr := range ids {
		if len(events) >= limit {
			break
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		ev, err := s.getEvent(ctx, id)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		matched := true
		for _, name := range names {
			if !ev.Involves(name) {
				matched = false
				break
			}
		}
		if matched {
			events = append(events, *ev)
		}
	}
	return events, nil
}

// Baseball session operations

func (s *Storage) SaveSession(ctx context.Context, sess *model.BaseballSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sess.UserID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, userID string) (*model.BaseballSession, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoSession
		}
		return nil, err
	}

	var sess model.BaseballSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Storage) DeleteSession(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}
