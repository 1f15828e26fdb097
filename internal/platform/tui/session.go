package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fusion2048/internal/core"
	"github.com/vovakirdan/fusion2048/internal/games/fusion"
)

type view int

const (
	viewMenu view = iota
	viewLevels
	viewScores
	viewSaves
	viewGame
)

// SessionModel runs the whole flow in one program:
// menu -> (level select) -> game -> menu, plus the scoreboard and saves.
// Child screens quit their own programs when used standalone; here their
// tea.Quit is dropped and the flags they set drive the transitions.
type SessionModel struct {
	env      Env
	config   core.RuntimeConfig
	view     view
	menu     MenuModel
	levels   LevelModel
	scores   ScoreboardModel
	saves    SavesModel
	game     *GameModel
	gameID   string
	quitting bool
}

// NewSessionModel creates a session that starts at the menu.
func NewSessionModel(env Env, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		env:    env,
		config: cfg,
		menu:   NewMenuModel(env, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewLevels:
		return m.updateLevels(msg)
	case viewScores:
		return m.updateScores(msg)
	case viewSaves:
		return m.updateSaves(msg)
	case viewGame:
		return m.updateGame(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		return m.quit()
	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.env.Scores, m.config.ScreenW, m.config.ScreenH)
		m.view = viewScores
		return m, nil
	case m.menu.WantsSaves():
		m.saves = NewSavesModel(m.env.Saves, m.config.ScreenW, m.config.ScreenH)
		m.view = viewSaves
		return m, nil
	case m.menu.Selected() != nil:
		m.gameID = m.menu.Selected().GameID
		if m.gameID == fusion.IDTarget {
			m.levels = NewLevelModel(m.config.ScreenW, m.config.ScreenH)
			m.view = viewLevels
			return m, nil
		}
		return m.startGame(GameSetup{GameID: m.gameID})
	}
	return m, cmd
}

func (m SessionModel) updateLevels(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLevels, cmd := m.levels.Update(msg)
	if levelModel, ok := newLevels.(LevelModel); ok {
		m.levels = levelModel
	}

	switch {
	case m.levels.IsQuitting():
		return m.quit()
	case m.levels.WantsBack():
		return m.toMenu()
	case m.levels.Selected() >= 0:
		return m.startGame(GameSetup{GameID: m.gameID, Level: m.levels.Selected()})
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	if scoreModel, ok := newScores.(ScoreboardModel); ok {
		m.scores = scoreModel
	}

	switch {
	case m.scores.IsQuitting():
		return m.quit()
	case m.scores.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateSaves(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSaves, cmd := m.saves.Update(msg)
	if savesModel, ok := newSaves.(SavesModel); ok {
		m.saves = savesModel
	}

	switch {
	case m.saves.IsQuitting():
		return m.quit()
	case m.saves.IsGoingBack():
		return m.toMenu()
	case m.saves.Resume() != nil:
		return m.startGame(GameSetup{Resume: m.saves.Resume()})
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	switch {
	case m.game.IsQuitting():
		return m.quit()
	case m.game.BackToMenu():
		m.game = nil
		return m.toMenu()
	}
	return m, cmd
}

// startGame switches to a new game, or back to the menu if it cannot be built.
func (m SessionModel) startGame(setup GameSetup) (tea.Model, tea.Cmd) {
	game, err := NewGame(m.env, setup)
	if err != nil {
		return m.toMenu()
	}

	saveID := ""
	if setup.Resume != nil {
		saveID = setup.Resume.ID
	}
	gm := NewGameModel(game, m.env, m.config, saveID)
	m.game = &gm
	m.view = viewGame
	return m, m.game.Init()
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.env, m.config)
	m.view = viewMenu
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewLevels:
		return m.levels.View()
	case viewScores:
		return m.scores.View()
	case viewSaves:
		return m.saves.View()
	case viewGame:
		return m.game.View()
	default:
		return m.menu.View()
	}
}

// InGame reports whether a game screen is active.
func (m SessionModel) InGame() bool {
	return m.view == viewGame
}

// RunSession runs the full menu flow in the local terminal.
func RunSession(env Env, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(NewSessionModel(env, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

