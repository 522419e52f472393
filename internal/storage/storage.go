package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/fiveplay/internal/board"
	"github.com/hailam/fiveplay/internal/engine"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyFirstLaunch = "first_launch"
	keyGameSeq     = "seq/game"
	prefixStats    = "stats/"
	prefixGame     = "game/"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameFinished = errors.New("game already finished")
)

// UserPreferences stores desktop client settings.
type UserPreferences struct {
	Username     string            `json:"username"`
	Difficulty   engine.Difficulty `json:"difficulty"`
	BoardSize    int               `json:"board_size"`
	PlayBlack    bool              `json:"play_black"`
	SoundEnabled bool              `json:"sound_enabled"`
	LastPlayed   time.Time         `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:     "Player",
		Difficulty:   engine.Medium,
		BoardSize:    board.DefaultSize,
		PlayBlack:    true,
		SoundEnabled: true,
		LastPlayed:   time.Now(),
	}
}

// GameStats stores one player's results against the engine.
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByDiff: make(map[string]int),
	}
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// record folds a finished game into the statistics. Result is seen from
// the engine: OpponentWin is a win for the player.
func (s *GameStats) record(result engine.Status, level engine.Difficulty, duration time.Duration) {
	if s.WinsByDiff == nil {
		s.WinsByDiff = make(map[string]int)
	}
	s.GamesPlayed++
	s.TotalPlayTime += duration

	switch result {
	case engine.OpponentWin:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
		s.WinsByDiff[level.String()]++
	case engine.AIWin:
		s.Losses++
		s.CurrentStreak = 0
	default:
		s.Draws++
		s.CurrentStreak = 0
	}
}

// MoveRecord is one stone placed during a game.
type MoveRecord struct {
	X         int           `json:"x"`
	Y         int           `json:"y"`
	Color     board.Cell    `json:"color"`
	Step      int           `json:"step"`
	ThinkTime time.Duration `json:"think_time,omitempty"`
}

// GameRecord is one game between a player and the engine.
type GameRecord struct {
	ID        uint64            `json:"id"`
	Player    string            `json:"player"`
	Level     engine.Difficulty `json:"level"`
	Size      int               `json:"size"`
	BeginTime time.Time         `json:"begin_time"`
	EndTime   time.Time         `json:"end_time,omitzero"`
	Result    engine.Status     `json:"result"`
	Moves     []MoveRecord      `json:"moves"`
}

// Finished reports whether the game has a final result.
func (g *GameRecord) Finished() bool {
	return !g.EndTime.IsZero()
}

// Board replays the recorded moves onto a fresh board.
func (g *GameRecord) Board() (*board.Board, error) {
	b := board.New(g.Size)
	for _, m := range g.Moves {
		if !b.IsEmpty(m.X, m.Y) || !m.Color.IsStone() {
			return nil, fmt.Errorf("game %d step %d: %w", g.ID, m.Step, board.ErrInvalidBoard)
		}
		b.Set(m.X, m.Y, m.Color)
	}
	return b, nil
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	return Open("")
}

// Open opens the database under dataDir; an empty dataDir selects the
// platform data directory.
func Open(dataDir string) (*Storage, error) {
	dbDir, err := GetDatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil // Disable logging

	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the Storage.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte(keyGameSeq), 64)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Storage{db: db, seq: seq}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.seq != nil {
		if err := s.seq.Release(); err != nil {
			s.db.Close()
			return err
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, keyPreferences, prefs)
	})

	return prefs, err
}

// LoadStats loads a player's statistics, returns empty stats if not found
func (s *Storage) LoadStats(player string) (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, prefixStats+player, stats)
	})

	return stats, err
}

// CreateGame starts a new game record and returns it with its ID assigned.
func (s *Storage) CreateGame(player string, level engine.Difficulty, size int) (*GameRecord, error) {
	if size < board.MinSize || size > board.MaxSize {
		return nil, fmt.Errorf("%w: size %d", board.ErrInvalidBoard, size)
	}
	n, err := s.seq.Next()
	if err != nil {
		return nil, err
	}

	game := &GameRecord{
		ID:        n + 1,
		Player:    player,
		Level:     level,
		Size:      size,
		BeginTime: time.Now(),
		Result:    engine.Continue,
		Moves:     []MoveRecord{},
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, gameKey(game.ID), game)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// LoadGame loads a game record by ID.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	var game GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return loadGame(txn, id, &game)
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// AppendMoves adds moves to an unfinished game. Steps are numbered in
// append order, starting at 1.
func (s *Storage) AppendMoves(id uint64, moves ...MoveRecord) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var game GameRecord
		if err := loadGame(txn, id, &game); err != nil {
			return err
		}
		if game.Finished() {
			return fmt.Errorf("game %d: %w", id, ErrGameFinished)
		}
		for _, m := range moves {
			m.Step = len(game.Moves) + 1
			game.Moves = append(game.Moves, m)
		}
		return setJSON(txn, gameKey(id), &game)
	})
}

// FinishGame records the result of a game and updates the player's
// statistics in the same transaction.
func (s *Storage) FinishGame(id uint64, result engine.Status) error {
	if !result.IsTerminal() {
		return fmt.Errorf("finish game %d: status %s is not final", id, result)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		var game GameRecord
		if err := loadGame(txn, id, &game); err != nil {
			return err
		}
		if game.Finished() {
			return fmt.Errorf("game %d: %w", id, ErrGameFinished)
		}
		game.EndTime = time.Now()
		game.Result = result
		if err := setJSON(txn, gameKey(id), &game); err != nil {
			return err
		}

		stats := NewGameStats()
		if err := getJSON(txn, prefixStats+game.Player, stats); err != nil {
			return err
		}
		stats.record(result, game.Level, game.EndTime.Sub(game.BeginTime))
		return setJSON(txn, prefixStats+game.Player, stats)
	})
}

// ListGames returns a player's games, newest first. An empty player lists
// every game; limit <= 0 means no limit.
func (s *Storage) ListGames(player string, limit int) ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var game GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &game)
			})
			if err != nil {
				return err
			}
			if player == "" || game.Player == player {
				games = append(games, game)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(games, func(i, j int) bool { return games[i].ID > games[j].ID })
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func gameKey(id uint64) string {
	return fmt.Sprintf("%s%020d", prefixGame, id)
}

func loadGame(txn *badger.Txn, id uint64, game *GameRecord) error {
	item, err := txn.Get([]byte(gameKey(id)))
	if err == badger.ErrKeyNotFound {
		return fmt.Errorf("game %d: %w", id, ErrGameNotFound)
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, game)
	})
}

// getJSON decodes key into v, leaving v untouched when the key is missing.
func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}
