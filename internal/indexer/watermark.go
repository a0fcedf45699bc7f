package indexer

import (
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Watermark tracks the highest block whose dispatched logs have all been applied.
type Watermark struct {
	mu       sync.Mutex
	inflight map[uint64]int
	hashes   map[uint64]ethcommon.Hash
	floor    uint64
	maxSeen  uint64
	margin   uint64
}

// NewWatermark starts tracking above floor, the last block already in the projection.
// Progress derived from live logs trails the newest block seen by margin blocks, since
// an older log may still be buffered in another subscription.
func NewWatermark(floor, margin uint64) *Watermark {
	return &Watermark{
		inflight: make(map[uint64]int),
		hashes:   make(map[uint64]ethcommon.Hash),
		floor:    floor,
		margin:   margin,
	}
}

// Begin records a log of block as dispatched.
func (w *Watermark) Begin(block uint64, hash ethcommon.Hash) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.inflight[block]++
	w.hashes[block] = hash
	if block > w.maxSeen {
		w.maxSeen = block
	}
}

// Done records a log of block as processed.
func (w *Watermark) Done(block uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inflight[block] <= 1 {
		delete(w.inflight, block)
		return
	}
	w.inflight[block]--
}

// Advance raises the floor after every log up to block was dispatched by a range scan.
func (w *Watermark) Advance(block uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if block > w.floor {
		w.floor = block
	}
}

// Safe returns the highest block that can be checkpointed and its hash, when known.
//
// Live logs of the newest block seen may still be arriving, so that block and the
// margin below it are held back. No block at or above an in-flight log is safe.
func (w *Watermark) Safe() (uint64, ethcommon.Hash) {
	w.mu.Lock()
	defer w.mu.Unlock()

	safe := w.floor
	if w.maxSeen > w.margin+1 && w.maxSeen-w.margin-1 > safe {
		safe = w.maxSeen - w.margin - 1
	}

	for block := range w.inflight {
		if block <= safe {
			if block == 0 {
				return 0, ethcommon.Hash{}
			}
			safe = block - 1
		}
	}

	for block := range w.hashes {
		if block < safe {
			delete(w.hashes, block)
		}
	}

	return safe, w.hashes[safe]
}
