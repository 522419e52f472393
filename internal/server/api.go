package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/engine"
	"github.com/hailam/fiveplay/internal/storage"
)

const defaultHistoryLimit = 20

type coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type createGameRequest struct {
	Player string `json:"player"`
	Level  *int   `json:"level"`
	Size   int    `json:"size"`
}

type createGameResponse struct {
	ID    uint64 `json:"id"`
	Level int    `json:"level"`
	Size  int    `json:"size"`
}

// pieceRequest carries the player's move and the board after it. Level is
// the difficulty, which is also the search depth.
type pieceRequest struct {
	GameID      uint64     `json:"gameId"`
	Level       *int       `json:"level"`
	PlayerMoves coordinate `json:"playerMoves"`
	BoardStates [][]int    `json:"boardStates"`
	StepOrder   int        `json:"stepOrder"`
}

type pieceResponse struct {
	AIPieces   *coordinate   `json:"aiPieces"`
	GameStatus engine.Status `json:"gameStatus"`
	ThinkTime  int64         `json:"thinkTime"` // milliseconds
}

type statsResponse struct {
	*storage.GameStats
	Player  string  `json:"player"`
	WinRate float64 `json:"win_rate"`
}

var errInvalidPayload = errors.New("invalid payload")

// parseLevel resolves a requested level, falling back to def.
func parseLevel(level *int, def engine.Difficulty) (engine.Difficulty, error) {
	if level == nil {
		return def, nil
	}
	d := engine.Difficulty(*level)
	if _, ok := engine.DifficultyDepth[d]; !ok {
		return 0, fmt.Errorf("%w: level %d", engine.ErrInvalidDepth, *level)
	}
	return d, nil
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errInvalidPayload.Error()})
			return
		}
	}
	level, err := parseLevel(req.Level, s.cfg.Difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Size == 0 {
		req.Size = s.cfg.BoardSize
	}

	game, err := s.store.CreateGame(req.Player, level, req.Size)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("[server] player %q starts game %d (%s, %dx%d)", req.Player, game.ID, level, game.Size, game.Size)
	writeJSON(w, http.StatusOK, createGameResponse{ID: game.ID, Level: int(level), Size: game.Size})
}

func (s *Server) handlePieces(w http.ResponseWriter, r *http.Request) {
	var req pieceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errInvalidPayload.Error()})
		return
	}

	b, err := board.FromInts(req.BoardStates)
	if err != nil {
		writeError(w, err)
		return
	}

	var game *storage.GameRecord
	def := s.cfg.Difficulty
	if req.GameID != 0 {
		if game, err = s.store.LoadGame(req.GameID); err != nil {
			writeError(w, err)
			return
		}
		if game.Finished() {
			writeError(w, fmt.Errorf("game %d: %w", game.ID, storage.ErrGameFinished))
			return
		}
		if game.Size != b.Size() {
			writeError(w, fmt.Errorf("%w: game %d is %dx%d, board is %dx%d",
				board.ErrInvalidBoard, game.ID, game.Size, game.Size, b.Size(), b.Size()))
			return
		}
		def = game.Level
	}
	level, err := parseLevel(req.Level, def)
	if err != nil {
		writeError(w, err)
		return
	}

	last := board.NewMove(req.PlayerMoves.X, req.PlayerMoves.Y)
	decision, err := s.decide(r, b, last, level.Depth())
	if err != nil {
		writeError(w, err)
		return
	}

	if game != nil {
		if err := s.record(game.ID, last, decision); err != nil {
			writeError(w, err)
			return
		}
		log.Printf("[server] game %d step %d: %s", game.ID, req.StepOrder, decision.Status)
	}

	resp := pieceResponse{
		GameStatus: decision.Status,
		ThinkTime:  decision.Elapsed.Milliseconds(),
	}
	if !decision.Move.IsNone() {
		resp.AIPieces = &coordinate{X: decision.Move.X, Y: decision.Move.Y}
	}
	writeJSON(w, http.StatusOK, resp)
}

// record appends the player's move and the engine's answer to a game and
// closes it when the decision ended the game.
func (s *Server) record(id uint64, last board.Move, d engine.Decision) error {
	moves := []storage.MoveRecord{{X: last.X, Y: last.Y, Color: d.Self.Other()}}
	if !d.Move.IsNone() {
		moves = append(moves, storage.MoveRecord{X: d.Move.X, Y: d.Move.Y, Color: d.Self, ThinkTime: d.Elapsed})
	}
	if err := s.store.AppendMoves(id, moves...); err != nil {
		return err
	}
	if d.Status.IsTerminal() {
		return s.store.FinishGame(id, d.Status)
	}
	return nil
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	game, err := s.store.LoadGame(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	games, err := s.store.ListGames(r.URL.Query().Get("player"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if games == nil {
		games = []storage.GameRecord{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	stats, err := s.store.LoadStats(player)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{GameStats: stats, Player: player, WinRate: stats.GetWinRate()})
}
