package engine

import "github.com/hailam/fiveplay/internal/board"

// DefaultEvalCacheEntries is the evaluation cache size used by NewEngine.
const DefaultEvalCacheEntries = 1 << 16

// whiteKey separates the two perspectives of one position.
const whiteKey = 0x9E3779B97F4A7C15

// EvalEntry stores one cached evaluation.
type EvalEntry struct {
	Key   uint64
	Score int
	Used  bool
}

// EvalCache is a direct-mapped cache of leaf evaluations keyed by the
// board's Zobrist hash. It is created for one decision and dropped after,
// and is not safe for concurrent use.
type EvalCache struct {
	entries []EvalEntry
	mask    uint64
}

// NewEvalCache creates a cache with n entries rounded down to a power of 2.
func NewEvalCache(n int) *EvalCache {
	size := 1
	for size*2 <= n {
		size *= 2
	}
	return &EvalCache{
		entries: make([]EvalEntry, size),
		mask:    uint64(size - 1),
	}
}

func evalKey(hash uint64, perspective board.Cell) uint64 {
	if perspective == board.White {
		return hash ^ whiteKey
	}
	return hash
}

// Probe looks up the evaluation of hash from perspective.
func (c *EvalCache) Probe(hash uint64, perspective board.Cell) (int, bool) {
	key := evalKey(hash, perspective)
	entry := &c.entries[key&c.mask]
	if entry.Used && entry.Key == key {
		return entry.Score, true
	}
	return 0, false
}

// Store saves an evaluation, replacing whatever shared its slot.
func (c *EvalCache) Store(hash uint64, perspective board.Cell, score int) {
	key := evalKey(hash, perspective)
	c.entries[key&c.mask] = EvalEntry{Key: key, Score: score, Used: true}
}

// Len returns the number of slots.
func (c *EvalCache) Len() int {
	return len(c.entries)
}
