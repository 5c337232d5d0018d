package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/game"
	"github.com/vovakirdan/tui-minesweeper/internal/savegame"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

// Env bundles what a session needs from outside. Saves, Store and Logger
// may be nil; saving, result tracking and logging are then disabled.
type Env struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Saves   *savegame.Store
	Store   *storage.Store
	Logger  *log.Logger
	Player  string // SSH user, empty for local play
}

// GameOptions returns the session options derived from the environment.
func (e Env) GameOptions() []game.Option {
	return []game.Option{
		game.WithSeed(e.Runtime.Seed),
		game.WithGlyphs(e.Config.Glyphs),
	}
}

func (e Env) warn(msg string, keyvals ...any) {
	if e.Logger != nil {
		e.Logger.Warn(msg, keyvals...)
	}
}

// footerHeight is the number of lines below the board for prompts and help.
const footerHeight = 2

// promptMode is what the model is waiting for.
type promptMode int

const (
	modePlay promptMode = iota
	modeHelp
	modeSaveName
	modeConfirmOverwrite
	modeOfferSave
	modeConfirmExit
)

// GameModel is the Bubble Tea model for one Minesweeper game.
type GameModel struct {
	env      Env
	game     *game.Game
	screen   *core.Screen
	keys     *KeyMapper
	help     help.Model
	input    textinput.Model
	mode     promptMode
	pending  string // save name awaiting overwrite confirmation
	exiting  bool   // save prompt was opened by the exit flow
	status   string
	failed   bool // status is an error
	lastTick time.Time
	recorded bool // result stored for the current game
	embedded bool // running inside a SessionModel

	quitting   bool
	backToMenu bool
}

// NewGameModel creates a new Bubble Tea model for the given game.
func NewGameModel(g *game.Game, env Env) GameModel {
	in := textinput.New()
	in.Prompt = "Save as: "
	in.Placeholder = "blank name cancels"
	in.CharLimit = savegame.MaxNameBytes
	in.Width = 32

	h := help.New()
	h.Width = env.Runtime.ScreenW

	return GameModel{
		env:    env,
		game:   g,
		screen: core.NewScreen(env.Runtime.ScreenW, core.Max(1, env.Runtime.ScreenH-footerHeight)),
		keys:   NewKeyMapper(),
		help:   h,
		input:  in,
	}
}

// Init starts the clock ticks.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.env.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.env.Runtime.ScreenW = msg.Width
		m.env.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, core.Max(1, msg.Height-footerHeight))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	// Cursor blink and friends
	if m.mode == modeSaveName {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleTick advances the game clock. Time spent in prompts and help does
// not count.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.mode == modePlay && !m.lastTick.IsZero() {
		m.game.Advance(now.Sub(m.lastTick))
	}
	m.lastTick = now
	return m, tickCmd(m.env.Runtime.TickRate)
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeHelp:
		m.mode = modePlay
		return m, nil

	case modeSaveName:
		return m.handleSaveName(msg)

	case modeConfirmOverwrite:
		switch MapKeyToAnswer(msg) {
		case AnswerYes:
			return m.save(m.pending)
		case AnswerNo:
			m.setStatus("Game was not saved")
			return m.saveCancelled()
		}
		return m, nil

	case modeOfferSave:
		switch MapKeyToAnswer(msg) {
		case AnswerYes:
			return m.openSavePrompt(true)
		case AnswerNo:
			m.mode = modeConfirmExit
		}
		return m, nil

	case modeConfirmExit:
		switch MapKeyToAnswer(msg) {
		case AnswerYes:
			m.quitting = true
			return m, tea.Quit
		case AnswerNo:
			m.mode = modePlay
		}
		return m, nil
	}

	action := m.keys.MapKey(msg)
	switch action {
	case core.ActionQuit:
		// Nothing to lose once the game is over or before it starts
		if m.game.Over() || !m.game.Started() {
			m.quitting = true
			return m, tea.Quit
		}
		if m.env.Saves == nil {
			m.mode = modeConfirmExit
		} else {
			m.mode = modeOfferSave
		}
		return m, nil

	case core.ActionHelp:
		m.mode = modeHelp
		return m, nil

	case core.ActionSave:
		switch {
		case m.game.Over():
			m.setError("Finished games cannot be saved")
		case m.env.Saves == nil:
			m.setError("Saving is not available")
		default:
			return m.openSavePrompt(false)
		}
		return m, nil

	case core.ActionBack:
		if !m.game.Over() {
			return m, nil
		}
		m.backToMenu = true
		if m.embedded {
			return m, nil
		}
		return m, tea.Quit
	}

	m.onEvent(m.game.Handle(action))
	return m, nil
}

func (m *GameModel) onEvent(ev game.Event) {
	switch ev {
	case game.EventWon, game.EventLost:
		m.recordResult()
		m.setStatus("")
	case game.EventRestarted:
		m.recorded = false
		m.setStatus("")
	case game.EventRejected:
		if m.game.LastResult().Symbol == m.game.Board().Glyphs().Flag {
			m.setStatus("Flagged tiles cannot be revealed until they are unflagged")
		}
	case game.EventMoved, game.EventRevealed, game.EventFlagged, game.EventUnflagged:
		m.setStatus("")
	}
}

// recordResult stores the finished game once. Storage failures never
// interrupt play.
func (m *GameModel) recordResult() {
	if m.recorded || m.env.Store == nil {
		return
	}
	m.recorded = true

	g := m.game
	d := g.Difficulty()
	_, err := m.env.Store.SaveResult(storage.Result{
		GameID:     g.ID(),
		Difficulty: d.ID,
		Won:        g.Status() == game.StatusWon,
		Duration:   g.Elapsed(),
		Rows:       d.Rows,
		Cols:       d.Cols,
		Mines:      d.Mines,
		Revealed:   g.Board().RevealedCount(),
		Player:     m.env.Player,
	})
	if err != nil {
		m.env.warn("could not record result", "game", g.ID(), "error", err)
	}
}

func (m GameModel) openSavePrompt(exiting bool) (tea.Model, tea.Cmd) {
	m.exiting = exiting
	m.mode = modeSaveName
	m.input.Reset()
	return m, m.input.Focus()
}

func (m GameModel) handleSaveName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.input.Blur()
		m.setStatus("Save cancelled")
		return m.saveCancelled()

	case tea.KeyEnter:
		m.input.Blur()
		name := savegame.SanitizeName(m.input.Value())
		if name == "" {
			m.setStatus("Save cancelled")
			return m.saveCancelled()
		}
		exists, err := m.env.Saves.Exists(name)
		if err != nil {
			m.setError(err.Error())
			return m.saveCancelled()
		}
		if exists {
			m.pending = name
			m.mode = modeConfirmOverwrite
			return m, nil
		}
		return m.save(name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m GameModel) save(name string) (tea.Model, tea.Cmd) {
	m.pending = ""
	path, err := m.env.Saves.Save(name, m.game.SaveFile())
	if err != nil {
		m.env.warn("save failed", "name", name, "error", err)
		m.setError("Game was not saved: " + err.Error())
		return m.saveCancelled()
	}

	if m.exiting {
		m.quitting = true
		return m, tea.Quit
	}
	m.mode = modePlay
	m.setStatus("Saved to " + path)
	return m, nil
}

// saveCancelled returns to play, or on to the exit confirmation when the
// save was offered on exit.
func (m GameModel) saveCancelled() (tea.Model, tea.Cmd) {
	m.pending = ""
	if m.exiting {
		m.exiting = false
		m.mode = modeConfirmExit
		return m, nil
	}
	m.mode = modePlay
	return m, nil
}

func (m *GameModel) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *GameModel) setError(s string) {
	m.status = s
	m.failed = true
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeHelp {
		return m.renderHelp()
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")

	line1, line2 := m.footer()
	b.WriteString(line1)
	b.WriteString("\n")
	b.WriteString(line2)
	return b.String()
}

func (m GameModel) footer() (string, string) {
	switch m.mode {
	case modeSaveName:
		return m.input.View(), helpStyle.Render("enter: save • esc: cancel")
	case modeConfirmOverwrite:
		return promptStyle.Render(fmt.Sprintf("%q already exists.", m.pending)),
			promptStyle.Render("Would you like to overwrite it? (y/n)")
	case modeOfferSave:
		return promptStyle.Render("Exiting..."),
			promptStyle.Render("Would you like to save first? (y/n)")
	case modeConfirmExit:
		return promptStyle.Render("All unsaved progress will be lost."),
			promptStyle.Render("Are you sure you would like to exit? (y/n)")
	}

	status := statusStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}
	if m.game.Over() {
		return status, m.help.ShortHelpView(m.keys.Keys().GameOverHelp())
	}
	return status, m.help.View(m.keys.Keys())
}

func (m GameModel) renderHelp() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  HOW TO PLAY"))
	b.WriteString("\n\n")
	for _, line := range game.Instructions {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  Press any key to return..."))
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Game returns the session being played.
func (m GameModel) Game() *game.Game {
	return m.game
}

// Run plays one game in its own Bubble Tea program. It returns true when
// the player asked to go back to a menu rather than quit.
func Run(g *game.Game, env Env) (backToMenu bool, err error) {
	p := tea.NewProgram(
		NewGameModel(g, env),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(GameModel)
	return ok && m.BackToMenu(), nil
}
