package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/game"
)

// maxMenuSaves caps how many saved games the menu offers.
const maxMenuSaves = 5

// MenuItem is one menu entry: a difficulty preset or a saved game.
type MenuItem struct {
	Title      string
	Detail     string
	Difficulty config.Difficulty
	SaveName   string // set for saved games
}

// Start creates the game the item stands for.
func (it MenuItem) Start(env Env) (*game.Game, error) {
	if it.SaveName == "" {
		return game.New(it.Difficulty, env.GameOptions()...)
	}
	if env.Saves == nil {
		return nil, fmt.Errorf("saving is not available")
	}
	f, err := env.Saves.Load(it.SaveName)
	if err != nil {
		return nil, err
	}
	return game.FromSave(f, env.GameOptions()...)
}

// MenuModel is the Bubble Tea model for the difficulty picker.
type MenuModel struct {
	items          []MenuItem
	firstSave      int // index of the first saved game in items
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects an entry
	openScoreboard bool      // True if user pressed Tab for scoreboard
	notice         string
}

// NewMenuModel creates a new menu model.
func NewMenuModel(env Env) MenuModel {
	items := make([]MenuItem, 0, len(env.Config.Difficulties)+maxMenuSaves)
	for _, d := range env.Config.Difficulties {
		items = append(items, MenuItem{
			Title:      d.Name(),
			Detail:     fmt.Sprintf("%dx%d, %d mines", d.Rows, d.Cols, d.Mines),
			Difficulty: d,
		})
	}
	firstSave := len(items)

	if env.Saves != nil {
		entries, err := env.Saves.List()
		if err != nil {
			env.warn("could not list saved games", "error", err)
		}
		for _, e := range entries {
			if e.Err != nil {
				continue
			}
			if len(items)-firstSave == maxMenuSaves {
				break
			}
			items = append(items, MenuItem{
				Title: e.Name,
				Detail: fmt.Sprintf("%s, %d/%d revealed, %s",
					e.Difficulty.Name(), e.Revealed, e.Safe, game.FormatDuration(e.Elapsed)),
				Difficulty: e.Difficulty,
				SaveName:   e.Name,
			})
		}
	}

	cursor := 0
	for i, it := range items {
		if it.SaveName == "" && it.Difficulty.ID == env.Config.Difficulty {
			cursor = i
		}
	}

	return MenuModel{
		items:     items,
		firstSave: firstSave,
		cursor:    cursor,
		width:     env.Runtime.ScreenW,
		height:    env.Runtime.ScreenH,
		config:    env.Runtime,
		keyMapper: NewKeyMapper(),
	}
}

// WithNotice returns the menu with a one-line message under the title,
// used to report why a game could not start.
func (m MenuModel) WithNotice(s string) MenuModel {
	m.notice = s
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("M I N E S W E E P E R", m.width)))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(errorStyle.Render(centerText(m.notice, m.width)))
		b.WriteString("\n\n")
	}

	b.WriteString(centerText("Choose a difficulty level:", m.width))
	b.WriteString("\n\n")

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	for i, item := range m.items {
		if i == m.firstSave {
			b.WriteString("\n")
			b.WriteString(centerText("Continue a saved game:", m.width))
			b.WriteString("\n\n")
		}

		line := fmt.Sprintf("  %-14s %s", item.Title, statusStyle.Render(item.Detail))
		if i == m.cursor {
			line = selectedStyle.Render("> "+fmt.Sprintf("%-14s", item.Title)) + " " + statusStyle.Render(item.Detail)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Best times  |  Q: Quit"
	b.WriteString(helpStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Item            *MenuItem
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result. A non-empty
// notice is shown above the entries.
func RunMenu(env Env, notice string) (MenuResult, error) {
	model := NewMenuModel(env).WithNotice(notice)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: env.Runtime}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: env.Runtime, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.Item = m.Selected()
	}

	return result, nil
}
