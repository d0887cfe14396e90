package engine

import (
	"math"
	"sync/atomic"

	"github.com/hailam/chessplay/internal/board"
)

// NoEval marks a transposition entry that was stored without a static
// evaluation (e.g. a tablebase hit). Probe returns this sentinel in
// TTEntry.Eval when the slot never captured one, so callers can fall back to
// evaluating from scratch instead of trusting a phantom zero.
const NoEval int16 = math.MinInt16

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

const (
	ttClusterSize = 3
	ttGenBits     = 5
	ttGenCycle    = 1 << ttGenBits // generation wraps modulo 32
	ttGenMask     = ttGenCycle - 1
)

// ttSlot is one lock-free entry in a cluster. The key is stored XOR-ed with
// the packed data word so concurrent readers can detect a torn read: if
// key^data no longer matches the probed hash, the slot is treated as a miss
// instead of returning corrupted data. This mirrors the verification trick
// used by lock-free transposition tables under concurrent Lazy-SMP access.
type ttSlot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

// data word layout (low to high bit):
//
//	[0:16)  best move
//	[16:32) score (int16)
//	[32:40) depth (int8)
//	[40:41) isPV
//	[41:43) bound flag
//	[43:48) generation (mod 32)
//	[48:64) static eval (int16)
func packTTData(move board.Move, score, depth, eval int, isPV bool, flag TTFlag, gen uint8) uint64 {
	d := uint64(uint16(move))
	d |= uint64(uint16(int16(score))) << 16
	d |= uint64(uint8(int8(depth))) << 32
	if isPV {
		d |= 1 << 40
	}
	d |= uint64(flag&0x3) << 41
	d |= uint64(gen&ttGenMask) << 43
	d |= uint64(uint16(int16(eval))) << 48
	return d
}

func unpackTTData(d uint64) (move board.Move, score, depth, eval int, isPV bool, flag TTFlag, gen uint8) {
	move = board.Move(uint16(d))
	score = int(int16(uint16(d >> 16)))
	depth = int(int8(uint8(d >> 32)))
	isPV = (d>>40)&1 != 0
	flag = TTFlag((d >> 41) & 0x3)
	gen = uint8((d >> 43) & ttGenMask)
	eval = int(int16(uint16(d >> 48)))
	return
}

// ttCluster groups three slots that share the same index so probes and
// stores only ever touch one cache line's worth of entries.
type ttCluster struct {
	slots [ttClusterSize]ttSlot
	_     [16]byte // pad cluster to 64 bytes
}

// TTEntry is the decoded, race-free snapshot returned by Probe.
type TTEntry struct {
	BestMove board.Move
	Score    int16
	Eval     int16
	Depth    int8
	Flag     TTFlag
	IsPV     bool
}

// TranspositionTable is a lock-free hash table for storing search results,
// shared read/write across all Lazy-SMP worker goroutines.
type TranspositionTable struct {
	clusters []ttCluster
	mask     uint64
	gen      atomic.Uint32

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	clusterSize := uint64(64) // bytes
	numClusters := (uint64(sizeMB) * 1024 * 1024) / clusterSize
	numClusters = roundDownToPowerOf2(numClusters)
	if numClusters == 0 {
		numClusters = 1
	}

	return &TranspositionTable{
		clusters: make([]ttCluster, numClusters),
		mask:     numClusters - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position in the transposition table.
// Returns the entry and true if found, otherwise returns empty entry and false.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes.Add(1)

	cluster := &tt.clusters[hash&tt.mask]
	for i := range cluster.slots {
		slot := &cluster.slots[i]
		k := slot.key.Load()
		d := slot.data.Load()
		if k^d != hash {
			continue
		}
		move, score, depth, eval, isPV, flag, _ := unpackTTData(d)
		if depth <= 0 && move == board.NoMove && score == 0 {
			continue // never-written slot coincidentally XORs to the probed hash
		}
		tt.hits.Add(1)
		return TTEntry{BestMove: move, Score: int16(score), Eval: int16(eval), Depth: int8(depth), Flag: flag, IsPV: isPV}, true
	}

	return TTEntry{}, false
}

// Store saves a position in the transposition table, replacing the slot in
// the target cluster with the lowest replacement priority
// (depth - 8*generationAge), always preferring an exact key match or an
// empty slot first.
func (tt *TranspositionTable) Store(hash uint64, depth, score, eval int, flag TTFlag, bestMove board.Move, isPV bool) {
	gen := uint8(tt.gen.Load() & ttGenMask)
	cluster := &tt.clusters[hash&tt.mask]

	var (
		replaceIdx      = 0
		replacePriority = int(^uint(0) >> 1) // max int, so any real slot wins the first comparison
	)

	for i := range cluster.slots {
		slot := &cluster.slots[i]
		k := slot.key.Load()
		d := slot.data.Load()

		if k^d == hash {
			// Same position: keep the existing move if the new store has none,
			// and always refresh depth/score/generation.
			existingMove, _, existingDepth, _, _, existingFlag, _ := unpackTTData(d)
			if bestMove == board.NoMove {
				bestMove = existingMove
			}
			if flag != TTExact && existingFlag == TTExact && depth < existingDepth {
				return // don't overwrite a deeper exact bound with a shallower bound
			}
			replaceIdx = i
			replacePriority = -1 << 30
			break
		}

		_, _, existingDepth, _, _, _, existingGen := unpackTTData(d)
		ageDiff := int(gen) - int(existingGen)
		if ageDiff < 0 {
			ageDiff += ttGenCycle
		}
		priority := existingDepth - 8*ageDiff

		if d == 0 && k == 0 {
			priority = -1 << 29 // empty slot, strongly preferred
		}

		if priority < replacePriority {
			replacePriority = priority
			replaceIdx = i
		}
	}

	newData := packTTData(bestMove, score, depth, eval, isPV, flag, gen)
	slot := &cluster.slots[replaceIdx]
	slot.data.Store(newData)
	slot.key.Store(hash ^ newData)
}

// NewSearch advances the generation counter for a new search.
// Generation wraps modulo 32; replacement priority accounts for the wrap.
func (tt *TranspositionTable) NewSearch() {
	tt.gen.Add(1)
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.clusters {
		for j := range tt.clusters[i].slots {
			tt.clusters[i].slots[j].key.Store(0)
			tt.clusters[i].slots[j].data.Store(0)
		}
	}
	tt.gen.Store(0)
	tt.hits.Store(0)
	tt.probes.Store(0)
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := 1000 / ttClusterSize
	if sampleSize == 0 {
		sampleSize = 1
	}
	if uint64(sampleSize) > uint64(len(tt.clusters)) {
		sampleSize = len(tt.clusters)
	}

	gen := uint8(tt.gen.Load() & ttGenMask)
	used := 0
	total := 0
	for i := 0; i < sampleSize; i++ {
		for j := range tt.clusters[i].slots {
			total++
			d := tt.clusters[i].slots[j].data.Load()
			_, _, depth, _, _, _, slotGen := unpackTTData(d)
			if depth > 0 && slotGen == gen {
				used++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return (used * 1000) / total
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes) * 100
}

// Size returns the number of addressable clusters in the table.
func (tt *TranspositionTable) Size() uint64 {
	return uint64(len(tt.clusters))
}

// AdjustScoreFromTT adjusts a score read from the transposition table.
// Mate scores need to be adjusted based on ply distance.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
