package board

import "sync"

// Zobrist keys are generated per board size from a fixed seed and never
// modified after creation.
type zobristTable struct {
	stones []uint64 // [index*2 + color-1]
}

var zobristTables = struct {
	mu     sync.Mutex
	bySize map[int]*zobristTable
}{bySize: make(map[int]*zobristTable)}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func zobristFor(size int) *zobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	if t, ok := zobristTables.bySize[size]; ok {
		return t
	}
	rng := newPRNG(0x98F107A2BEEF1234 ^ uint64(size))
	t := &zobristTable{stones: make([]uint64, size*size*2)}
	for i := range t.stones {
		t.stones[i] = rng.next()
	}
	zobristTables.bySize[size] = t
	return t
}

func (z *zobristTable) key(idx int, c Cell) uint64 {
	return z.stones[idx*2+int(c)-1]
}
