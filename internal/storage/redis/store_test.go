package redis

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/storage"
)

type StoreSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *Store
	clock time.Time
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SaveTTL = time.Hour

	s.store = NewWithClient(client, cfg)
	s.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return s.clock }
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *StoreSuite) state(seed int64, moves int) *engine.GameState {
	e := engine.New(rand.New(rand.NewSource(seed)))
	st, err := e.Initialize(engine.Config{Mode: engine.ModeTarget, GridSize: 4, GoalValue: 2048})
	s.Require().NoError(err)
	for i := range moves {
		st, _ = e.Move(st, engine.Directions[i%len(engine.Directions)])
	}
	return st
}

func (s *StoreSuite) TestSaveAndLoad() {
	st := s.state(1, 10)

	s.Require().NoError(s.store.SaveGame(s.ctx, "abc", "fusion_target", st))

	loaded, err := s.store.LoadGame(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal("abc", loaded.ID)
	s.Equal("fusion_target", loaded.GameID)
	s.True(loaded.UpdatedAt.Equal(s.clock))
	s.True(loaded.State.Grid.Equal(st.Grid))
	s.Equal(st.Score, loaded.State.Score)
	s.Equal(engine.ModeTarget, loaded.State.Mode)

	s.True(s.mini.Exists("fusion:save:abc"))
	s.Equal(time.Hour, s.mini.TTL("fusion:save:abc"))
}

func (s *StoreSuite) TestLoadNotFound() {
	_, err := s.store.LoadGame(s.ctx, "missing")
	s.ErrorIs(err, storage.ErrSaveNotFound)
}

func (s *StoreSuite) TestLoadCorruptRecord() {
	s.Require().NoError(s.mini.Set("fusion:save:bad", `{"game_id":"fusion","state":{"grid":[[5]],"grid_size":1}}`))

	_, err := s.store.LoadGame(s.ctx, "bad")
	s.ErrorIs(err, engine.ErrCorruptState)
}

func (s *StoreSuite) TestDelete() {
	s.Require().NoError(s.store.SaveGame(s.ctx, "abc", "fusion", s.state(2, 3)))

	s.Require().NoError(s.store.DeleteGame(s.ctx, "abc"))
	s.False(s.mini.Exists("fusion:save:abc"))

	err := s.store.DeleteGame(s.ctx, "abc")
	s.ErrorIs(err, storage.ErrSaveNotFound)
}

func (s *StoreSuite) TestListSavesNewestFirst() {
	s.Require().NoError(s.store.SaveGame(s.ctx, "old", "fusion", s.state(3, 4)))
	s.clock = s.clock.Add(time.Minute)
	s.Require().NoError(s.store.SaveGame(s.ctx, "new", "fusion_target", s.state(4, 8)))

	saves, err := s.store.ListSaves(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(saves, 2)
	s.Equal("new", saves[0].ID)
	s.Equal("old", saves[1].ID)
	s.Equal("fusion_target", saves[0].GameID)
}

func (s *StoreSuite) TestListSavesPrunesExpired() {
	s.Require().NoError(s.store.SaveGame(s.ctx, "short", "fusion", s.state(5, 2)))
	s.mini.FastForward(2 * time.Hour)

	saves, err := s.store.ListSaves(s.ctx)
	s.Require().NoError(err)
	s.Empty(saves)

	s.False(s.mini.Exists("fusion:idx:saves"))
}

func (s *StoreSuite) TestListSavesSurvivesDamagedRecords() {
	good := s.state(6, 5)
	s.Require().NoError(s.store.SaveGame(s.ctx, "good", "fusion", good))
	s.clock = s.clock.Add(time.Minute)
	s.Require().NoError(s.store.SaveGame(s.ctx, "bad", "fusion", s.state(7, 5)))
	s.clock = s.clock.Add(time.Minute)
	s.Require().NoError(s.store.SaveGame(s.ctx, "junk", "fusion", s.state(8, 5)))

	s.Require().NoError(s.mini.Set("fusion:save:bad",
		`{"game_id":"fusion","mode":"classic","score":12,"state":{"grid":[[3]],"grid_size":1}}`))
	s.Require().NoError(s.mini.Set("fusion:save:junk", "not json"))

	saves, err := s.store.ListSaves(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(saves, 2)
	s.Equal("bad", saves[0].ID)
	s.Equal(12, saves[0].Score)
	s.Equal("good", saves[1].ID)
	s.Equal(good.Score, saves[1].Score)
	s.Equal(good.MaxTile(), saves[1].MaxTile)
	s.Equal(good.MoveCount, saves[1].Moves)
	s.Equal(engine.ModeTarget, saves[1].Mode)

	_, err = s.store.LoadGame(s.ctx, "bad")
	s.ErrorIs(err, engine.ErrCorruptState)
}
