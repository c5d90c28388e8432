package server

import (
	"github.com/IlikeChooros/go-linemc/pkg/game"
	"github.com/IlikeChooros/go-linemc/pkg/mcts"
)

type Config struct {
	Addr     string      `json:"addr"`
	Size     int         `json:"size"`
	Marker   game.Marker `json:"engine_marker"`
	Playouts int         `json:"playouts"`
	Threads  int         `json:"threads"`
	// 0 means the seed comes from mcts.SeedGeneratorFn
	Seed int64 `json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		Size:     3,
		Marker:   game.MarkerB,
		Playouts: mcts.DefaultPlayoutsLimit,
		Threads:  1,
	}
}

func (c Config) Limits() *mcts.Limits {
	return mcts.DefaultLimits().SetPlayouts(c.Playouts).SetThreads(c.Threads)
}
