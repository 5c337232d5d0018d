package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the game session to work with intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Up arrow, k - move cursor up
	ActionDown           // Down arrow, j - move cursor down
	ActionLeft           // Left arrow, h - move cursor left
	ActionRight          // Right arrow, l - move cursor right
	ActionReveal         // r, Space, Enter - reveal the tile under the cursor
	ActionFlag           // f - flag/unflag the tile under the cursor
	ActionSave           // s - save the game
	ActionHelp           // ? - show instructions
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // b, Escape - go back to menu
	ActionRestart        // n - new game after game over
	ActionQuit           // x, q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionReveal:
		return "Reveal"
	case ActionFlag:
		return "Flag"
	case ActionSave:
		return "Save"
	case ActionHelp:
		return "Help"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsMove reports whether the action moves the cursor.
func (a Action) IsMove() bool {
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		return true
	}
	return false
}
