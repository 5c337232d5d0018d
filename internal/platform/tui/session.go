package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// sessionState is the screen a session is showing.
type sessionState int

const (
	stateMenu sessionState = iota
	stateGame
	stateScores
)

// SessionModel manages the full flow: menu -> game -> menu, with the
// best-times screen reachable from the menu. It is the top-level model for
// the menu command and for SSH sessions.
type SessionModel struct {
	env       Env
	state     sessionState
	menu      MenuModel
	gameModel *GameModel
	scores    ScoreboardModel
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(env Env) SessionModel {
	return SessionModel{
		env:  env,
		menu: NewMenuModel(env),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.env.Runtime.ScreenW = wsm.Width
		m.env.Runtime.ScreenH = wsm.Height
	}

	switch m.state {
	case stateGame:
		return m.updateGame(msg)
	case stateScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.scores = NewScoreboardModel(m.env.Store, m.env.Config.Difficulties, m.env.Runtime.ScreenW, m.env.Runtime.ScreenH)
		m.state = stateScores
		return m, m.scores.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		g, err := selected.Start(m.env)
		if err != nil {
			m.env.warn("could not start game", "item", selected.Title, "error", err)
			m.menu = NewMenuModel(m.env).WithNotice(err.Error())
			return m, nil
		}

		gameModel := NewGameModel(g, m.env)
		gameModel.embedded = true
		m.gameModel = &gameModel
		m.state = stateGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScores handles updates when the best-times screen is open.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if scores, ok := newModel.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scores.IsGoingBack() {
		m.backToMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// backToMenu rebuilds the menu so new saves show up.
func (m *SessionModel) backToMenu() {
	m.state = stateMenu
	m.gameModel = nil
	m.menu = NewMenuModel(m.env)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case stateGame:
		return m.gameModel.View()
	case stateScores:
		return m.scores.View()
	}
	return m.menu.View()
}

// RunSession runs the menu-driven session in its own Bubble Tea program.
func RunSession(env Env) error {
	p := tea.NewProgram(
		NewSessionModel(env),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
