package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/engine"
	"github.com/hailam/fiveplay/internal/storage"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// movePayload is a player's stone.
type movePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// resetPayload starts a new game. Zero values keep the server defaults.
type resetPayload struct {
	Size    int  `json:"size"`
	Level   *int `json:"level"`
	AIFirst bool `json:"aiFirst"`
}

type decisionPayload struct {
	GameID    uint64        `json:"gameId"`
	AIPieces  *coordinate   `json:"aiPieces"`
	Status    engine.Status `json:"gameStatus"`
	ThinkTime int64         `json:"thinkTime"`
	Board     [][]int       `json:"board"`
}

type errorPayload struct {
	Message string `json:"message"`
}

var (
	errGameOver = errors.New("game is over, send reset")
	errNoGame   = errors.New("no game in progress, send reset")
)

// aiSession is one realtime game. The server owns the board; the player
// only sends coordinates.
type aiSession struct {
	srv    *Server
	r      *http.Request
	player string
	send   chan []byte

	b      *board.Board
	human  board.Cell
	level  engine.Difficulty
	gameID uint64
	status engine.Status
}

func (s *Server) serveAI(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sess := &aiSession{
		srv:    s,
		r:      r,
		player: r.URL.Query().Get("player"),
		send:   make(chan []byte, 16),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, sess.send, time.Duration(s.cfg.PingInterval)); err != nil {
			log.Printf("[server] ws write: %v", err)
		}
	}()

	if err := sess.reset(resetPayload{}); err != nil {
		sess.sendError(err)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			sess.sendError(errInvalidPayload)
			continue
		}
		if err := sess.handle(msg); err != nil {
			sess.sendError(err)
		}
	}

	close(sess.send)
	<-done
}

func (a *aiSession) handle(msg wsMessage) error {
	switch msg.Type {
	case "move":
		var p movePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errInvalidPayload
		}
		return a.move(p)
	case "reset":
		var p resetPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return errInvalidPayload
			}
		}
		return a.reset(p)
	case "pong":
		return nil
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// reset starts a new recorded game and, if the engine opens, plays its
// first stone.
func (a *aiSession) reset(p resetPayload) error {
	size := p.Size
	if size == 0 {
		size = a.srv.cfg.BoardSize
	}
	level, err := parseLevel(p.Level, a.srv.cfg.Difficulty)
	if err != nil {
		return err
	}
	game, err := a.srv.store.CreateGame(a.player, level, size)
	if err != nil {
		return err
	}

	a.b = board.New(size)
	a.level = level
	a.gameID = game.ID
	a.status = engine.Continue
	a.human = board.Black
	if !p.AIFirst {
		a.sendDecision(engine.Decision{Move: board.NoMove, Status: engine.Continue})
		return nil
	}

	a.human = board.White
	var (
		d    engine.Decision
		derr error
	)
	if err := a.srv.limiter.Do(a.r.Context(), func() {
		d, derr = a.srv.eng.Open(a.b, board.Black, level.Depth())
	}); err != nil {
		return err
	}
	if derr != nil {
		return derr
	}
	err = a.srv.store.AppendMoves(a.gameID, storage.MoveRecord{X: d.Move.X, Y: d.Move.Y, Color: board.Black, ThinkTime: d.Elapsed})
	if err != nil {
		return err
	}
	a.sendDecision(d)
	return nil
}

func (a *aiSession) move(p movePayload) error {
	if a.b == nil {
		return errNoGame
	}
	if a.status.IsTerminal() {
		return errGameOver
	}
	if !a.b.InBounds(p.X, p.Y) {
		return fmt.Errorf("%w: %d,%d", board.ErrInvalidCoordinate, p.X, p.Y)
	}
	if !a.b.IsEmpty(p.X, p.Y) {
		return fmt.Errorf("%w: %d,%d is taken", board.ErrInvalidBoard, p.X, p.Y)
	}

	a.b.Set(p.X, p.Y, a.human)
	last := board.NewMove(p.X, p.Y)
	d, err := a.srv.decide(a.r, a.b, last, a.level.Depth())
	if err != nil {
		a.b.Set(p.X, p.Y, board.Empty)
		return err
	}
	if err := a.srv.record(a.gameID, last, d); err != nil {
		return err
	}
	a.status = d.Status
	a.sendDecision(d)
	return nil
}

func (a *aiSession) sendDecision(d engine.Decision) {
	payload := decisionPayload{
		GameID:    a.gameID,
		Status:    d.Status,
		ThinkTime: d.Elapsed.Milliseconds(),
		Board:     a.b.Ints(),
	}
	if !d.Move.IsNone() {
		payload.AIPieces = &coordinate{X: d.Move.X, Y: d.Move.Y}
	}
	a.sendJSON(wsMessage{Type: "decision", Payload: mustMarshal(payload)})
}

func (a *aiSession) sendError(err error) {
	a.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Message: err.Error()})})
}

func (a *aiSession) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case a.send <- data:
	default:
	}
}

// writeWSWithHeartbeat writes queued messages and sends a ping message
// whenever the connection has been idle for interval.
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < interval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
