package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameStatus is what the platform needs to know about a running game.
// Returned by Game.State().
type GameStatus struct {
	Score    int  // Current score
	MaxTile  int  // Highest tile on the board
	Moves    int  // Moves that changed the board
	GameOver bool // Whether the game has ended (won or lost)
	Won      bool // Whether the game ended by reaching the goal
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameStatus
	Moved bool // The tick applied a move that changed the board
}
