package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/fusion2048/internal/core"
	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/registry"
)

// flashTicks is how long a status message stays on screen.
const flashTicks = 120

// stateful is implemented by games that can be saved.
type stateful interface {
	GameState() *engine.GameState
}

// resizable is implemented by games that adapt to a new window size
// without restarting.
type resizable interface {
	Resize(w, h int)
}

// controlled is implemented by games that show control hints.
type controlled interface {
	Controls() string
}

// GameModel runs one game: fixed-rate ticks, input mapping, score
// recording and saving.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	env        Env
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	status     core.GameStatus
	keyMapper  *KeyMapper

	saveID     string // ID under which Ctrl+S saves; set on first save or resume
	flash      string
	flashTicks int

	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a game model. saveID continues an existing save.
func NewGameModel(game registry.Game, env Env, cfg core.RuntimeConfig, saveID string) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		env:        env,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		saveID:     saveID,
	}
}

// Init initializes the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if g, ok := m.game.(resizable); ok {
			g.Resize(msg.Width, msg.Height)
		}
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionSave:
		m.save()
		return m, nil
	case action == core.ActionBack && (m.status.GameOver || m.status.Paused):
		m.backToMenu = true
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.status.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.status = m.game.State()
		m.scoreSaved = false
		m.saveID = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.status = result.State

	if m.status.GameOver && !m.scoreSaved {
		m.finish()
	}

	if m.flashTicks > 0 {
		m.flashTicks--
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// finish records the score once and drops the save of a finished game.
func (m *GameModel) finish() {
	m.scoreSaved = true
	if m.env.Scores != nil && m.status.Score > 0 {
		//nolint:errcheck // Best-effort save, game continues regardless
		m.env.Scores.SaveScore(m.game.ID(), m.status.Score, m.status.MaxTile, m.status.Moves)
	}
	if m.env.Saves != nil && m.saveID != "" {
		//nolint:errcheck // A missing save is fine
		m.env.Saves.DeleteGame(context.Background(), m.saveID)
		m.saveID = ""
	}
}

// save stores the running game under saveID.
func (m *GameModel) save() {
	g, ok := m.game.(stateful)
	switch {
	case m.env.Saves == nil || !ok:
		m.setFlash("Saving is not available")
		return
	case m.status.GameOver:
		m.setFlash("Game is over")
		return
	}

	if m.saveID == "" {
		m.saveID = uuid.NewString()
	}
	if err := m.env.Saves.SaveGame(context.Background(), m.saveID, m.game.ID(), g.GameState()); err != nil {
		m.setFlash("Save failed: " + err.Error())
		return
	}
	m.setFlash(fmt.Sprintf("Saved as %s", m.saveID))
}

func (m *GameModel) setFlash(msg string) {
	m.flash = msg
	m.flashTicks = flashTicks
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	bottom := m.screen.Height() - 1
	switch {
	case m.flashTicks > 0:
		m.screen.DrawTextCenteredColor(bottom, m.flash, core.ColorBrightGreen)
	default:
		if c, ok := m.game.(controlled); ok {
			m.screen.DrawTextCenteredColor(bottom, c.Controls(), core.ColorGray)
		}
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// SaveID returns the ID the game is saved under, "" if unsaved.
func (m GameModel) SaveID() string {
	return m.saveID
}

// Run plays a single game in the terminal.
func Run(game registry.Game, env Env, cfg core.RuntimeConfig, saveID string) error {
	model := NewGameModel(game, env, cfg, saveID)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
