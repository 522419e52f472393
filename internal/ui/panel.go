package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/fiveplay/internal/engine"
)

// Panel draws the side panel: game status, difficulty, player stats and
// key help.
type Panel struct {
	game  *Game
	scale float64
}

// NewPanel creates a panel for game.
func NewPanel(game *Game) *Panel {
	return &Panel{game: game, scale: 1.0}
}

// SetScale sets the HiDPI scale factor.
func (p *Panel) SetScale(scale float64) {
	p.scale = scale
}

// Draw renders the panel to the right of the board.
func (p *Panel) Draw(screen *ebiten.Image, r *Renderer) {
	g := p.game
	theme := r.Theme()
	x := BoardSize + 24

	vector.DrawFilledRect(screen, float32(float64(BoardSize)*p.scale), 0,
		float32(float64(PanelWidth)*p.scale), float32(float64(ScreenHeight)*p.scale), theme.Background, false)

	p.drawTitle(screen, "Five in a Row", x, 24, theme.AccentColor)
	p.drawText(screen, fmt.Sprintf("Player: %s (%s)", g.username, g.human), x, 64, defaultFontSize, theme.TextColor)
	p.drawText(screen, fmt.Sprintf("Difficulty: %s (depth %d)", g.difficulty, g.difficulty.Depth()), x, 88, defaultFontSize, theme.TextColor)
	p.drawText(screen, fmt.Sprintf("Board: %dx%d", g.b.Size(), g.b.Size()), x, 112, defaultFontSize, theme.TextColor)

	status, statusColor := p.statusLine(theme)
	p.drawTitle(screen, status, x, 152, statusColor)
	if g.message != "" {
		p.drawText(screen, g.message, x, 180, defaultFontSize, theme.MutedText)
	}

	if s := g.stats; s != nil {
		p.drawText(screen, "Record vs computer", x, 232, defaultFontSize, theme.AccentColor)
		p.drawText(screen, fmt.Sprintf("Won %d  Lost %d  Drawn %d", s.Wins, s.Losses, s.Draws), x, 256, defaultFontSize, theme.TextColor)
		p.drawText(screen, fmt.Sprintf("Win rate %.0f%%  Best streak %d", s.GetWinRate(), s.LongestWinStrk), x, 280, defaultFontSize, theme.TextColor)
	}

	help := []string{
		"Click an intersection to play",
		"R  new game",
		"C  switch colors",
		"B  change board size",
		"M  sound on / off",
		"1-4  easy / medium / hard / expert",
	}
	for i, line := range help {
		p.drawText(screen, line, x, ScreenHeight-164+i*24, defaultFontSize, theme.MutedText)
	}
}

func (p *Panel) statusLine(theme *Theme) (string, color.Color) {
	g := p.game
	switch {
	case g.aiThinking:
		return "Computer is thinking...", theme.AccentColor
	case !g.gameOver:
		return "Your move", theme.TextColor
	}
	switch g.status {
	case engine.OpponentWin:
		return "You win!", theme.WinLineColor
	case engine.AIWin:
		return "Computer wins", theme.LastMoveColor
	default:
		return "Draw", theme.TextColor
	}
}

func (p *Panel) drawTitle(screen *ebiten.Image, s string, x, y int, c color.Color) {
	p.draw(screen, s, x, y, GetBoldFaceWithSize(titleFontSize*p.scale), c)
}

func (p *Panel) drawText(screen *ebiten.Image, s string, x, y int, size float64, c color.Color) {
	p.draw(screen, s, x, y, GetFaceWithSize(size*p.scale), c)
}

func (p *Panel) draw(screen *ebiten.Image, s string, x, y int, face *text.GoTextFace, c color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x)*p.scale, float64(y)*p.scale)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}
