package ui

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/engine"
	"github.com/hailam/fiveplay/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	PanelWidth   = ScreenWidth - BoardSize
)

// UIScale is the global HiDPI scale factor for all UI drawing.
// Set by Game.Layout() and used by the input handler.
var UIScale float64 = 1.0

// boardSizes are the sizes cycled by the B key.
var boardSizes = []int{15, 19, 9}

// aiResult is a finished engine decision. round identifies the game it
// was computed for; results from an abandoned game are dropped.
type aiResult struct {
	round    int
	decision engine.Decision
	err      error
}

// Game implements ebiten.Game interface.
type Game struct {
	// Core game state
	b        *board.Board
	human    board.Cell
	ai       board.Cell
	lastMove board.Move
	winLine  []board.Move
	round    int

	// Game settings
	difficulty engine.Difficulty
	username   string

	// Storage
	storage *storage.Storage
	prefs   *storage.UserPreferences
	gameID  uint64
	stats   *storage.GameStats

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	audio    *AudioManager

	// AI Engine
	engine     *engine.Engine
	aiThinking bool
	aiMove     chan aiResult

	// Game state
	gameOver bool
	status   engine.Status
	message  string

	// HiDPI scaling
	scale float64
}

// NewGame creates a new game against the engine.
func NewGame() *Game {
	g := &Game{
		difficulty: engine.Medium,
		username:   "Player",
		input:      NewInputHandler(),
		engine:     engine.NewEngine(),
		aiMove:     make(chan aiResult, 1),
		scale:      1.0,
	}

	var err error
	g.storage, err = storage.NewStorage()
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
	}

	g.loadPreferences()
	g.renderer = NewRenderer(BoardSize, g.prefs.BoardSize)
	g.audio = NewAudioManager(g.prefs.SoundEnabled)
	g.panel = NewPanel(g)
	g.checkFirstLaunch()
	g.newRound()

	return g
}

// Close releases the storage.
func (g *Game) Close() error {
	if g.storage == nil {
		return nil
	}
	return g.storage.Close()
}

// loadPreferences loads user preferences from storage.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	if g.storage != nil {
		prefs, err := g.storage.LoadPreferences()
		if err != nil {
			log.Printf("Warning: Failed to load preferences: %v", err)
		} else {
			g.prefs = prefs
		}
	}

	if g.prefs.BoardSize < board.MinSize || g.prefs.BoardSize > board.MaxSize {
		g.prefs.BoardSize = board.DefaultSize
	}
	if _, ok := engine.DifficultyDepth[g.prefs.Difficulty]; !ok {
		g.prefs.Difficulty = engine.Medium
	}
	g.username = g.prefs.Username
	g.difficulty = g.prefs.Difficulty
	g.loadStats()
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}

	g.prefs.Username = g.username
	g.prefs.Difficulty = g.difficulty

	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

func (g *Game) loadStats() {
	if g.storage == nil {
		return
	}
	stats, err := g.storage.LoadStats(g.username)
	if err != nil {
		log.Printf("Warning: Failed to load stats: %v", err)
		return
	}
	g.stats = stats
}

// checkFirstLaunch greets a new player once.
func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}

	isFirst, err := g.storage.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if isFirst {
		g.message = "Welcome! Get five in a row to win."
		if err := g.storage.MarkFirstLaunchComplete(); err != nil {
			log.Printf("Warning: Failed to mark first launch complete: %v", err)
		}
		g.savePreferences()
	}
}

// newRound clears the board and starts a new recorded game. When the
// computer has Black it opens immediately.
func (g *Game) newRound() {
	g.round++
	g.b = board.New(g.prefs.BoardSize)
	g.renderer.SetCells(g.prefs.BoardSize)
	g.lastMove = board.NoMove
	g.winLine = nil
	g.gameOver = false
	g.status = engine.Continue
	g.aiThinking = false

	g.human = board.White
	if g.prefs.PlayBlack {
		g.human = board.Black
	}
	g.ai = g.human.Other()

	g.gameID = 0
	if g.storage != nil {
		game, err := g.storage.CreateGame(g.username, g.difficulty, g.b.Size())
		if err != nil {
			log.Printf("Warning: Failed to record game: %v", err)
		} else {
			g.gameID = game.ID
		}
	}

	if g.ai == board.Black {
		g.startAIThinking(board.NoMove)
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()

	g.handleKeys()
	g.handleBoardInput()
	g.checkAIMove()
	g.updateCursor()

	return nil
}

func (g *Game) handleKeys() {
	switch {
	case IsKeyJustPressed(ebiten.KeyR):
		g.message = ""
		g.newRound()
	case IsKeyJustPressed(ebiten.KeyC):
		g.prefs.PlayBlack = !g.prefs.PlayBlack
		g.savePreferences()
		g.message = ""
		g.newRound()
	case IsKeyJustPressed(ebiten.KeyM):
		g.prefs.SoundEnabled = !g.prefs.SoundEnabled
		g.audio.SetEnabled(g.prefs.SoundEnabled)
		g.savePreferences()
	case IsKeyJustPressed(ebiten.KeyB):
		g.prefs.BoardSize = nextBoardSize(g.prefs.BoardSize)
		g.savePreferences()
		g.message = ""
		g.newRound()
	}

	keys := map[ebiten.Key]engine.Difficulty{
		ebiten.Key1: engine.Easy,
		ebiten.Key2: engine.Medium,
		ebiten.Key3: engine.Hard,
		ebiten.Key4: engine.Expert,
	}
	for key, d := range keys {
		if IsKeyJustPressed(key) && d != g.difficulty {
			g.difficulty = d
			g.savePreferences()
			g.message = "Difficulty applies from the next computer move"
		}
	}
}

func nextBoardSize(current int) int {
	for i, n := range boardSizes {
		if n == current {
			return boardSizes[(i+1)%len(boardSizes)]
		}
	}
	return boardSizes[0]
}

// handleBoardInput places the player's stone on click.
func (g *Game) handleBoardInput() {
	if g.gameOver || g.aiThinking || !g.input.IsLeftJustPressed() {
		return
	}
	mx, my := g.input.MousePosition()
	x, y, ok := g.renderer.ScreenToCell(mx, my)
	if !ok {
		return
	}
	if !g.b.IsEmpty(x, y) {
		g.audio.Play(SoundInvalid)
		return
	}

	g.b.Set(x, y, g.human)
	g.audio.Play(SoundStone)
	g.lastMove = board.NewMove(x, y)
	g.message = ""
	g.recordMove(g.lastMove, g.human, 0)
	g.startAIThinking(g.lastMove)
}

// startAIThinking runs the engine on a copy of the board. last is the
// player's move, or NoMove when the computer opens.
func (g *Game) startAIThinking(last board.Move) {
	g.aiThinking = true

	b := g.b.Clone()
	round := g.round
	ai := g.ai
	difficulty := g.difficulty

	go func() {
		var res aiResult
		res.round = round
		if last.IsNone() {
			res.decision, res.err = g.engine.Open(b, ai, difficulty.Depth())
		} else {
			res.decision, res.err = g.engine.DecideDifficulty(b, last, difficulty)
		}
		g.aiMove <- res
	}()
}

// checkAIMove applies a finished engine decision.
func (g *Game) checkAIMove() {
	select {
	case res := <-g.aiMove:
		if res.round != g.round {
			return
		}
		g.aiThinking = false
		if res.err != nil {
			log.Printf("[AI] decision failed: %v", res.err)
			g.message = res.err.Error()
			return
		}

		d := res.decision
		if !d.Move.IsNone() {
			g.b.Set(d.Move.X, d.Move.Y, g.ai)
			g.audio.Play(SoundStone)
			g.lastMove = d.Move
			g.recordMove(d.Move, g.ai, d.Elapsed)
			log.Printf("[AI] %s at depth %d, searched %d nodes, pruned %d branches in %v",
				d.Move, d.Depth, d.Stats.Nodes, d.Stats.Cutoffs, d.Elapsed)
		}
		if d.Status.IsTerminal() {
			g.finish(d.Status)
		}
	default:
	}
}

// finish ends the game and records the result.
func (g *Game) finish(status engine.Status) {
	g.gameOver = true
	g.status = status
	switch status {
	case engine.OpponentWin:
		g.audio.Play(SoundWin)
	case engine.AIWin:
		g.audio.Play(SoundLoss)
	}
	if status != engine.Draw && !g.lastMove.IsNone() {
		g.winLine = board.WinningLine(g.b, g.lastMove.X, g.lastMove.Y)
	}

	if g.storage == nil || g.gameID == 0 {
		return
	}
	if err := g.storage.FinishGame(g.gameID, status); err != nil {
		log.Printf("Warning: Failed to record result: %v", err)
	}
	g.loadStats()
}

func (g *Game) recordMove(m board.Move, c board.Cell, think time.Duration) {
	if g.storage == nil || g.gameID == 0 {
		return
	}
	err := g.storage.AppendMoves(g.gameID, storage.MoveRecord{X: m.X, Y: m.Y, Color: c, ThinkTime: think})
	if err != nil {
		log.Printf("Warning: Failed to record move: %v", err)
	}
}

// updateCursor shows a pointer over playable intersections.
func (g *Game) updateCursor() {
	if g.canPlayAt(g.input.MousePosition()) {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

func (g *Game) canPlayAt(mx, my int) bool {
	if g.gameOver || g.aiThinking {
		return false
	}
	x, y, ok := g.renderer.ScreenToCell(mx, my)
	return ok && g.b.IsEmpty(x, y)
}

// Draw draws the game screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	g.panel.SetScale(g.scale)

	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawBoard(screen)
	g.renderer.DrawStones(screen, g.b)
	g.renderer.DrawLastMove(screen, g.lastMove)
	g.renderer.DrawWinningLine(screen, g.winLine)

	if mx, my := g.input.MousePosition(); g.canPlayAt(mx, my) {
		x, y, _ := g.renderer.ScreenToCell(mx, my)
		g.renderer.DrawPreview(screen, x, y, g.human)
	}

	g.panel.Draw(screen, g.renderer)
}

// Layout returns the game's screen dimensions.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Get and store device scale factor (2.0 on Retina, 1.0 on standard displays)
	g.scale = ebiten.Monitor().DeviceScaleFactor()
	if g.scale < 1.0 {
		g.scale = 1.0
	}
	UIScale = g.scale

	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}
