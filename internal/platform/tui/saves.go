package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fusion2048/internal/storage"
)

// storeTimeout bounds every save-store call made from the UI.
const storeTimeout = 5 * time.Second

// SavesKeyMap defines the key bindings for the saved games list.
type SavesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Resume key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SavesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Resume, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SavesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Resume, k.Delete},
		{k.Back, k.Quit},
	}
}

// DefaultSavesKeyMap returns default key bindings.
func DefaultSavesKeyMap() SavesKeyMap {
	return SavesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Resume: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "resume"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SavesModel lists saved games so one can be resumed or deleted.
type SavesModel struct {
	store     storage.GameStore
	saves     []storage.SaveSummary
	table     table.Model
	help      help.Model
	keys      SavesKeyMap
	width     int
	height    int
	err       error
	resume    *storage.SavedGame
	quitting  bool
	goingBack bool
}

// NewSavesModel creates a saved games list and loads it from store.
func NewSavesModel(store storage.GameStore, width, height int) SavesModel {
	m := SavesModel{
		store:  store,
		keys:   DefaultSavesKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

func (m *SavesModel) createTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 10},
			{Title: "Mode", Width: 12},
			{Title: "Score", Width: 8},
			{Title: "Max Tile", Width: 8},
			{Title: "Moves", Width: 6},
			{Title: "Saved", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	t.SetStyles(tableStyles())

	return t
}

// reload refreshes the list from the store.
func (m *SavesModel) reload() {
	m.saves = nil
	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		m.saves, m.err = m.store.ListSaves(ctx)
	}

	rows := make([]table.Row, len(m.saves))
	for i, s := range m.saves {
		rows[i] = table.Row{
			s.ID,
			string(s.Mode),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.MaxTile),
			fmt.Sprintf("%d", s.Moves),
			s.UpdatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoBottom()
	}
}

// Init initializes the model.
func (m SavesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SavesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Resume):
			if sum, ok := m.current(); ok {
				ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
				defer cancel()
				saved, err := m.store.LoadGame(ctx, sum.ID)
				if err != nil {
					m.err = err
					m.reload()
					return m, nil
				}
				m.resume = saved
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if sum, ok := m.current(); ok {
				ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
				defer cancel()
				if err := m.store.DeleteGame(ctx, sum.ID); err != nil && !errors.Is(err, storage.ErrSaveNotFound) {
					m.err = err
				}
				m.reload()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.reload()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SavesModel) current() (storage.SaveSummary, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.saves) {
		return storage.SaveSummary{}, false
	}
	return m.saves[i], true
}

// View renders the list.
func (m SavesModel) View() string {
	if m.quitting || m.goingBack || m.resume != nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(centerText("SAVED GAMES", m.width)))
	b.WriteString("\n\n")

	if len(m.saves) == 0 {
		b.WriteString(boxStyle.Render(mutedStyle.Italic(true).Padding(2, 4).Render("No saved games.\nPress Ctrl+S during a game to save it.")))
	} else {
		b.WriteString(boxStyle.Render(m.table.View()))
	}
	b.WriteString("\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		b.WriteString(errStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Resume returns the game picked for resuming, or nil.
func (m SavesModel) Resume() *storage.SavedGame {
	return m.resume
}

// IsGoingBack returns true if user wants to go back to menu.
func (m SavesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m SavesModel) IsQuitting() bool {
	return m.quitting
}

// RunSaves runs the saved games screen. It returns the game to resume,
// or nil with goBack reporting whether to return to the menu.
func RunSaves(store storage.GameStore, width, height int) (resume *storage.SavedGame, goBack bool, err error) {
	p := tea.NewProgram(NewSavesModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	m, ok := finalModel.(SavesModel)
	if !ok {
		return nil, false, nil
	}
	return m.Resume(), m.IsGoingBack(), nil
}
