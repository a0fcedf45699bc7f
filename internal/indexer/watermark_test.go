package indexer

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestWatermark(t *testing.T) {
	t.Parallel()

	hash := func(b uint64) ethcommon.Hash { return ethcommon.BigToHash(new(big.Int).SetUint64(b)) }

	t.Run("starts at floor", func(t *testing.T) {
		t.Parallel()

		w := NewWatermark(50, 0)
		block, h := w.Safe()
		require.Equal(t, uint64(50), block)
		require.Equal(t, ethcommon.Hash{}, h)
	})

	t.Run("newest block is held back", func(t *testing.T) {
		t.Parallel()

		w := NewWatermark(0, 0)
		w.Begin(10, hash(10))
		w.Done(10)

		block, _ := w.Safe()
		require.Equal(t, uint64(9), block)

		w.Begin(11, hash(11))
		w.Done(11)

		block, h := w.Safe()
		require.Equal(t, uint64(10), block)
		require.Equal(t, hash(10), h)
	})

	t.Run("in flight block caps progress", func(t *testing.T) {
		t.Parallel()

		w := NewWatermark(0, 0)
		w.Begin(10, hash(10))
		w.Begin(10, hash(10))
		w.Begin(12, hash(12))
		w.Begin(15, hash(15))
		w.Done(12)
		w.Done(15)
		w.Done(10)

		block, _ := w.Safe()
		require.Equal(t, uint64(9), block)

		w.Done(10)
		block, _ = w.Safe()
		require.Equal(t, uint64(14), block)
	})

	t.Run("advance raises floor", func(t *testing.T) {
		t.Parallel()

		w := NewWatermark(0, 0)
		w.Begin(20, hash(20))
		w.Done(20)
		w.Advance(20)

		block, h := w.Safe()
		require.Equal(t, uint64(20), block)
		require.Equal(t, hash(20), h)

		w.Advance(5)
		block, _ = w.Safe()
		require.Equal(t, uint64(20), block)
	})

	t.Run("advance does not pass in flight logs", func(t *testing.T) {
		t.Parallel()

		w := NewWatermark(0, 0)
		w.Begin(7, hash(7))
		w.Advance(30)

		block, _ := w.Safe()
		require.Equal(t, uint64(6), block)
	})

	t.Run("margin holds back live progress", func(t *testing.T) {
		t.Parallel()

		w := NewWatermark(0, 5)
		w.Begin(3, hash(3))
		w.Done(3)

		block, _ := w.Safe()
		require.Zero(t, block)

		w.Begin(20, hash(20))
		w.Done(20)

		// a log of block 15 may still be buffered in another subscription
		block, _ = w.Safe()
		require.Equal(t, uint64(14), block)

		w.Begin(15, hash(15))
		w.Done(15)
		block, h := w.Safe()
		require.Equal(t, uint64(14), block)
		require.Equal(t, ethcommon.Hash{}, h)
	})

	t.Run("margin does not hold back the floor", func(t *testing.T) {
		t.Parallel()

		w := NewWatermark(0, 5)
		w.Begin(20, hash(20))
		w.Done(20)
		w.Advance(20)

		block, h := w.Safe()
		require.Equal(t, uint64(20), block)
		require.Equal(t, hash(20), h)
	})

	t.Run("block zero in flight", func(t *testing.T) {
		t.Parallel()

		w := NewWatermark(0, 0)
		w.Begin(0, hash(0))
		w.Begin(3, hash(3))

		block, _ := w.Safe()
		require.Zero(t, block)
	})
}
