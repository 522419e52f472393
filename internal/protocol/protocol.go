// Package protocol runs the engine behind a line-based text protocol in
// the style of the Gomocup brain protocol:
//
//	START 15        new game on a 15x15 board
//	BEGIN           engine plays the first stone
//	TURN 7,7        opponent played 7,7; engine answers x,y
//	BOARD ... DONE  load a position (x,y,1 own, x,y,2 opponent)
//	INFO depth 2    set the search depth (also: INFO difficulty hard)
//	RESTART         clear the board
//	ABOUT, END, d   identify, quit, print the board
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/engine"
)

// Protocol is one engine session.
type Protocol struct {
	engine *engine.Engine
	out    io.Writer

	b     *board.Board
	self  board.Cell
	depth int
	over  bool

	// BOARD block being read, nil outside one.
	pending *boardBlock
}

type boardBlock struct {
	b    *board.Board
	last board.Move
}

// New creates a session. opts.OnInfo, when unset, reports search info as
// DEBUG lines.
func New(opts engine.Options, out io.Writer) *Protocol {
	p := &Protocol{
		out:   out,
		depth: engine.Medium.Depth(),
	}
	if opts.OnInfo == nil {
		opts.OnInfo = p.sendInfo
	}
	p.engine = engine.NewEngineWithOptions(opts)
	return p
}

// Run reads commands from in until END or end of input.
func (p *Protocol) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if p.pending != nil && !strings.EqualFold(line, "END") {
			p.handleBoardLine(line)
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToUpper(parts[0])
		args := parts[1:]

		switch cmd {
		case "START":
			p.handleStart(args)
		case "RESTART":
			p.handleRestart()
		case "BEGIN":
			p.handleBegin()
		case "TURN":
			p.handleTurn(args)
		case "BOARD":
			p.handleBoard()
		case "INFO":
			p.handleInfo(args)
		case "ABOUT":
			fmt.Fprintln(p.out, `name="fiveplay", version="1.0", author="fiveplay", country="-"`)
		case "END":
			return nil
		// Debug commands
		case "D":
			if p.b != nil {
				fmt.Fprint(p.out, p.b.String())
			}
		default:
			fmt.Fprintf(p.out, "UNKNOWN %s\n", parts[0])
		}
	}
	return scanner.Err()
}

func (p *Protocol) errorf(format string, args ...any) {
	fmt.Fprintf(p.out, "ERROR "+format+"\n", args...)
}

// handleStart sets up an empty board of the given size.
func (p *Protocol) handleStart(args []string) {
	if len(args) != 1 {
		p.errorf("usage: START size")
		return
	}
	size, err := strconv.Atoi(args[0])
	if err != nil || size < board.MinSize || size > board.MaxSize {
		p.errorf("unsupported size %s", args[0])
		return
	}
	p.b = board.New(size)
	p.self = board.Empty
	p.over = false
	fmt.Fprintln(p.out, "OK")
}

func (p *Protocol) handleRestart() {
	if p.b == nil {
		p.errorf("no game, send START first")
		return
	}
	p.b = board.New(p.b.Size())
	p.self = board.Empty
	p.over = false
	fmt.Fprintln(p.out, "OK")
}

// handleBegin makes the engine play the first stone as Black.
func (p *Protocol) handleBegin() {
	if !p.ready() {
		return
	}
	p.self = board.Black
	d, err := p.engine.Open(p.b, p.self, p.depth)
	p.reply(d, err)
}

// handleTurn records the opponent's move and answers it.
func (p *Protocol) handleTurn(args []string) {
	if !p.ready() {
		return
	}
	if len(args) != 1 {
		p.errorf("usage: TURN x,y")
		return
	}
	m, err := board.ParseMove(args[0])
	if err != nil {
		p.errorf("bad move %q", args[0])
		return
	}
	if !p.b.IsEmpty(m.X, m.Y) {
		p.errorf("cell %s is not free", m)
		return
	}
	if p.self == board.Empty {
		p.self = board.White
	}

	p.b.Set(m.X, m.Y, p.self.Other())
	d, err := p.engine.Decide(p.b, m, p.depth)
	p.reply(d, err)
}

// handleBoard starts reading a BOARD block.
func (p *Protocol) handleBoard() {
	if p.b == nil {
		p.errorf("no game, send START first")
		return
	}
	p.pending = &boardBlock{b: board.New(p.b.Size()), last: board.NoMove}
}

// handleBoardLine reads one "x,y,field" line of a BOARD block, or DONE.
// Own stones are White and the opponent's Black.
func (p *Protocol) handleBoardLine(line string) {
	blk := p.pending
	if strings.EqualFold(line, "DONE") {
		p.pending = nil
		p.b = blk.b
		p.self = board.White
		p.over = false

		var (
			d   engine.Decision
			err error
		)
		if blk.last.IsNone() {
			d, err = p.engine.Open(p.b, p.self, p.depth)
		} else {
			d, err = p.engine.Decide(p.b, blk.last, p.depth)
		}
		p.reply(d, err)
		return
	}

	var x, y, field int
	if _, err := fmt.Sscanf(line, "%d,%d,%d", &x, &y, &field); err != nil || !blk.b.IsEmpty(x, y) {
		p.errorf("bad board line %q", line)
		return
	}
	switch field {
	case 1:
		blk.b.Set(x, y, board.White)
	case 2:
		blk.b.Set(x, y, board.Black)
		blk.last = board.NewMove(x, y)
	default:
		p.errorf("bad field %d", field)
	}
}

// handleInfo applies the settings the engine understands and ignores
// the rest.
func (p *Protocol) handleInfo(args []string) {
	if len(args) < 2 {
		return
	}
	switch strings.ToLower(args[0]) {
	case "depth":
		depth, err := strconv.Atoi(args[1])
		if err != nil || depth < 0 || depth > engine.MaxDepth {
			p.errorf("depth must be 0..%d", engine.MaxDepth)
			return
		}
		p.depth = depth
	case "difficulty":
		d, err := engine.ParseDifficulty(args[1])
		if err != nil {
			p.errorf("%v", err)
			return
		}
		p.depth = d.Depth()
	}
}

func (p *Protocol) ready() bool {
	if p.b == nil {
		p.errorf("no game, send START first")
		return false
	}
	if p.over {
		p.errorf("game is over, send RESTART")
		return false
	}
	return true
}

// reply prints the engine's move and, when the game ended, its status.
func (p *Protocol) reply(d engine.Decision, err error) {
	if err != nil {
		p.errorf("%v", err)
		return
	}
	if !d.Move.IsNone() {
		fmt.Fprintln(p.out, d.Move)
	}
	if d.Status.IsTerminal() {
		p.over = true
		fmt.Fprintf(p.out, "MESSAGE %s\n", d.Status)
	}
}

// sendInfo reports a finished search.
func (p *Protocol) sendInfo(info engine.SearchInfo) {
	fmt.Fprintf(p.out, "DEBUG depth %d score %s nodes %d cutoffs %d time %d\n",
		info.Depth, engine.ScoreToString(info.Score), info.Nodes, info.Cutoffs, info.Time.Milliseconds())
}
