package game

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/mines"
)

const (
	cellWidth   = 2 // one glyph plus a separating space
	rowLabelW   = 3 // "15 "
	footerLines = 2 // counters + banner
)

// wrongFlag marks a flag on a safe tile once the game is lost.
const wrongFlag = 'X'

// Instructions is the help text shown on request.
var Instructions = []string{
	"Reveal every safe tile, but revealing a mine ends the game.",
	"A number tells how many of the eight neighbors hold mines.",
	"The timer starts with your first reveal or flag.",
	"",
	"  arrows/hjkl  move the cursor",
	"  r/space      reveal the tile under the cursor",
	"  f            flag or unflag a suspected mine",
	"               flagged tiles cannot be revealed",
	"  s            save the game, load it later with -l <name>",
	"  x/q          exit (offers to save first)",
}

// layout holds the computed positions of the board on screen.
type layout struct {
	labelY int // first column label row
	box    core.Rect
	width  int
	height int
}

func (g *Game) layout(screen core.Rect) layout {
	rows, cols := g.board.Rows(), g.board.Cols()
	labelRows := 1
	if cols > 10 {
		labelRows = 2
	}

	boxW := cols*cellWidth + 3
	boxH := rows + 2
	w := rowLabelW + boxW
	h := 1 + labelRows + boxH + footerLines // title on top

	area := screen.Centered(w, h)
	return layout{
		labelY: area.Y + 1,
		box:    core.NewRect(area.X+rowLabelW, area.Y+1+labelRows, boxW, boxH),
		width:  w,
		height: h,
	}
}

// MinSize returns the smallest screen that fits the board.
func (g *Game) MinSize() (w, h int) {
	l := g.layout(core.NewRect(0, 0, 0, 0))
	return l.width, l.height
}

// Render draws the session to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	minW, minH := g.MinSize()
	if dst.Width() < minW || dst.Height() < minH {
		g.renderTooSmall(dst, minW, minH)
		return
	}

	l := g.layout(dst.Bounds())

	dst.DrawTextCenteredColored(l.labelY-1, "MINESWEEPER  "+g.difficulty.String(), core.ColorBrightWhite)
	g.renderLabels(dst, l)
	dst.DrawBox(l.box, core.ColorGray)
	g.renderTiles(dst, l)
	g.renderCursor(dst, l)
	g.renderFooter(dst, l)
}

func (g *Game) renderTooSmall(dst *core.Screen, minW, minH int) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y-1, "Window too small")
	dst.DrawTextCentered(y, fmt.Sprintf("Need %dx%d", minW, minH))
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) tileX(l layout, col int) int {
	return l.box.X + 2 + col*cellWidth
}

func (g *Game) tileY(l layout, row int) int {
	return l.box.Y + 1 + row
}

// renderLabels draws column numbers above the box (tens digit on its own
// row for wide boards) and row numbers to its left.
func (g *Game) renderLabels(dst *core.Screen, l layout) {
	unitsY := l.box.Y - 1
	for c := range g.board.Cols() {
		x := g.tileX(l, c)
		dst.SetColored(x, unitsY, rune('0'+c%10), core.ColorGray)
		if c >= 10 {
			dst.SetColored(x, unitsY-1, rune('0'+c/10%10), core.ColorGray)
		}
	}
	for r := range g.board.Rows() {
		dst.DrawTextColored(l.box.X-rowLabelW, g.tileY(l, r), fmt.Sprintf("%2d", r), core.ColorGray)
	}
}

func (g *Game) renderTiles(dst *core.Screen, l layout) {
	lost := g.status == StatusLost
	glyphs := g.board.Glyphs()

	for p, t := range g.board.Tiles() {
		r, c := glyphRune(t.Symbol(glyphs)), tileColor(t)

		if lost {
			switch {
			case t.Mine() && p == g.hit:
				r, c = glyphRune(glyphs.Mine), core.ColorBrightRed
			case t.Mine() && !t.Flagged():
				r, c = glyphRune(glyphs.Mine), core.ColorRed
			case t.Flagged() && !t.Mine():
				r, c = wrongFlag, core.ColorBrightRed
			}
		}
		dst.SetColored(g.tileX(l, p.Col), g.tileY(l, p.Row), r, c)
	}
}

func (g *Game) renderCursor(dst *core.Screen, l layout) {
	if g.Over() {
		return
	}
	x, y := g.tileX(l, g.cursor.Col), g.tileY(l, g.cursor.Row)
	dst.SetColored(x-1, y, '[', core.ColorCursor)
	dst.SetColored(x+1, y, ']', core.ColorCursor)
	cell := dst.GetCell(x, y)
	dst.SetColored(x, y, cell.Rune, core.ColorCursor)
}

func (g *Game) renderFooter(dst *core.Screen, l layout) {
	y := l.box.Bottom()

	dst.DrawTextCentered(y, fmt.Sprintf("%d mines remain   Time %s", g.board.MinesRemaining(), FormatDuration(g.elapsed)))

	switch g.status {
	case StatusWon:
		dst.DrawTextCenteredColored(y+1, "You win 8-)  Your time was "+FormatDuration(g.elapsed), core.ColorBrightGreen)
	case StatusLost:
		dst.DrawTextCenteredColored(y+1, "Game over :-(", core.ColorBrightRed)
	default:
		dst.DrawTextCenteredColored(y+1, "Press ? for instructions", core.ColorGray)
	}
}

// tileColor picks the color for a tile as the player sees it.
func tileColor(t mines.Tile) core.Color {
	switch {
	case t.Flagged():
		return core.ColorBrightYellow
	case !t.Revealed():
		return core.ColorGray
	case t.Mine():
		return core.ColorBrightRed
	default:
		return core.NumberColors[t.AdjacentMines()]
	}
}

// glyphRune returns the first rune of a glyph; the grid is one column per
// tile.
func glyphRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ' '
	}
	return r
}
