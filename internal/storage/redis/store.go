// Package redis implements storage.GameStore on Redis, for servers that
// share saved games between instances.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/storage"
)

// Store is a Redis-backed saved game store.
type Store struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

var _ storage.GameStore = (*Store)(nil)

// record is the value stored under a save key. The summary fields are
// copied out of the state so listing never has to restore a board.
type record struct {
	GameID    string          `json:"game_id"`
	UpdatedAt time.Time       `json:"updated_at"`
	Mode      engine.Mode     `json:"mode"`
	Status    engine.Status   `json:"status"`
	Score     int             `json:"score"`
	MaxTile   int             `json:"max_tile"`
	Moves     int             `json:"moves"`
	State     json.RawMessage `json:"state"`
}

func (r *record) summary(id string) storage.SaveSummary {
	return storage.SaveSummary{
		ID:        id,
		GameID:    r.GameID,
		Mode:      r.Mode,
		Status:    r.Status,
		Score:     r.Score,
		MaxTile:   r.MaxTile,
		Moves:     r.Moves,
		UpdatedAt: r.UpdatedAt,
	}
}

// errBadRecord marks a value under a save key that is not a record.
var errBadRecord = errors.New("redis store: malformed record")

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis store: ping %s: %w", cfg.URL, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a store over an existing client (for testing).
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, cfg: cfg, now: time.Now}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// SaveGame writes the record and refreshes its TTL and index entry
// in one pipeline.
func (s *Store) SaveGame(ctx context.Context, id, gameID string, state *engine.GameState) error {
	data, err := storage.EncodeState(state)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	rec, err := json.Marshal(record{
		GameID:    gameID,
		UpdatedAt: now,
		Mode:      state.Mode,
		Status:    state.Status,
		Score:     state.Score,
		MaxTile:   state.MaxTile(),
		Moves:     state.MoveCount,
		State:     data,
	})
	if err != nil {
		return fmt.Errorf("redis store: encode record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, saveKey(id), rec, s.cfg.SaveTTL)
	pipe.ZAdd(ctx, savesIndexKey(), redis.Z{Score: float64(now.UnixMilli()), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: save %s: %w", id, err)
	}
	return nil
}

// LoadGame returns the saved game id, restored and ready to play.
func (s *Store) LoadGame(ctx context.Context, id string) (*storage.SavedGame, error) {
	rec, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := storage.DecodeState(rec.State)
	if err != nil {
		return nil, err
	}
	return &storage.SavedGame{ID: id, GameID: rec.GameID, State: state, UpdatedAt: rec.UpdatedAt}, nil
}

func (s *Store) get(ctx context.Context, id string) (*record, error) {
	data, err := s.client.Get(ctx, saveKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", storage.ErrSaveNotFound, id)
		}
		return nil, fmt.Errorf("redis store: load %s: %w", id, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errBadRecord, id, err)
	}
	return &rec, nil
}

// DeleteGame removes the saved game id.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, saveKey(id))
	pipe.ZRem(ctx, savesIndexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: delete %s: %w", id, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrSaveNotFound, id)
	}
	return nil
}

// ListSaves returns saved games, most recently updated first, from the
// record summaries alone; a damaged board only fails LoadGame. Index
// entries whose record has expired are dropped from the index on the way,
// and values that are not records at all are skipped.
func (s *Store) ListSaves(ctx context.Context) ([]storage.SaveSummary, error) {
	ids, err := s.client.ZRevRange(ctx, savesIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: list saves: %w", err)
	}

	var (
		saves   []storage.SaveSummary
		expired []any
	)
	for _, id := range ids {
		rec, err := s.get(ctx, id)
		switch {
		case errors.Is(err, storage.ErrSaveNotFound):
			expired = append(expired, id)
			continue
		case errors.Is(err, errBadRecord):
			continue
		case err != nil:
			return nil, err
		}
		saves = append(saves, rec.summary(id))
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, savesIndexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("redis store: prune index: %w", err)
		}
	}
	return saves, nil
}
