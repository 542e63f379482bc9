package ringbuffer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errFailingTranslator = errors.New("translator: intentional failure for test")

func identity(values []int32) Translator[int32] {
	return func(span []int32) error {
		copy(span, values)
		return nil
	}
}

func TestFillDrainCycle(t *testing.T) {
	buf, err := New[int32](1024)
	require.NoError(t, err)

	w := buf.NewWriterInstance()
	r := buf.NewReaderInstance()

	values := make([]int32, 1024)
	for i := range values {
		values[i] = int32(i + 1)
	}
	require.NoError(t, w.Publish(context.Background(), identity(values), 1024))

	require.Equal(t, int64(1024), r.Available())
	require.Equal(t, int64(0), w.Available())

	ok, err := w.TryPublish(identity([]int32{0}), 1)
	require.NoError(t, err)
	require.False(t, ok)

	require.True(t, r.Consume(1024))
	require.Equal(t, int64(1024), w.Available())
}

func TestWrapTwiceIntegrity(t *testing.T) {
	const size = 1024
	buf, err := New[int32](size)
	require.NoError(t, err)

	w := buf.NewWriterInstance()
	r := buf.NewReaderInstance()

	blocks := []int64{1, 2, 3, 5, 7, 42}
	var next int32 = 1
	// sum(blocks) == 60; 40 passes publish 2400 elements through a
	// 1024-slot buffer, forcing the ring to wrap more than twice.
	for pass := 0; pass < 40; pass++ {
		for _, blockSize := range blocks {
			values := make([]int32, blockSize)
			for i := range values {
				values[i] = next
				next++
			}
			require.NoError(t, w.Publish(context.Background(), identity(values), blockSize))

			got := r.Get(blockSize)
			require.Equal(t, values, got)
			require.True(t, r.Consume(blockSize))
		}
	}
}

func TestLateJoinerIsolation(t *testing.T) {
	buf, err := New[int32](64)
	require.NoError(t, err)
	w := buf.NewWriterInstance()

	first := buf.NewReaderInstance()
	values := make([]int32, 10)
	for i := range values {
		values[i] = int32(i + 1)
	}
	require.NoError(t, w.Publish(context.Background(), identity(values), 10))
	require.True(t, first.Consume(10))

	late := buf.NewReaderInstance()
	require.Equal(t, int64(0), late.Available())

	more := []int32{11, 12, 13, 14, 15}
	require.NoError(t, w.Publish(context.Background(), identity(more), 5))

	require.Equal(t, int64(5), late.Available())
	require.Equal(t, more, late.Get(0))
}

func TestBackpressureUnderSlowReader(t *testing.T) {
	buf, err := New[int32](16)
	require.NoError(t, err)
	// A double-mapped allocator rounds capacity up to a page multiple, so
	// fill the capacity the buffer actually has.
	size := buf.Size()
	w := buf.NewWriterInstance()
	a := buf.NewReaderInstance()
	b := buf.NewReaderInstance()

	values := make([]int32, size)
	for i := range values {
		values[i] = int32(i)
	}
	require.NoError(t, w.Publish(context.Background(), identity(values), size))
	require.True(t, a.Consume(size))

	ok, err := w.TryPublish(identity([]int32{99}), 1)
	require.NoError(t, err)
	require.False(t, ok, "slow reader b must block further publishes")
	require.Equal(t, int64(0), w.Available())

	require.True(t, b.Consume(size))
	ok, err = w.TryPublish(identity([]int32{99}), 1)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMultiProducerInterleave(t *testing.T) {
	const perProducer = 2000
	buf, err := New[int64](4096, WithMultiProducer[int64]())
	require.NoError(t, err)

	w := buf.NewWriterInstance()
	r := buf.NewReaderInstance()

	var wg sync.WaitGroup
	for p := int64(0); p < 2; p++ {
		wg.Add(1)
		go func(producer int64) {
			defer wg.Done()
			base := producer * perProducer
			for i := int64(0); i < perProducer; i++ {
				v := base + i
				require.NoError(t, w.Publish(context.Background(), func(span []int64) error {
					span[0] = v
					return nil
				}, 1))
			}
		}(p)
	}

	seenA := make([]int64, 0, perProducer)
	seenB := make([]int64, 0, perProducer)
	total := int64(0)
	deadline := time.Now().Add(5 * time.Second)
	for total < 2*perProducer && time.Now().Before(deadline) {
		n := r.Available()
		if n == 0 {
			time.Sleep(time.Millisecond)
			continue
		}
		span := r.Get(n)
		for _, v := range span {
			if v < perProducer {
				seenA = append(seenA, v)
			} else {
				seenB = append(seenB, v)
			}
		}
		require.True(t, r.Consume(n))
		total += n
	}
	wg.Wait()

	require.Equal(t, int64(2*perProducer), total)
	require.True(t, isStrictlyIncreasing(seenA))
	require.True(t, isStrictlyIncreasing(seenB))
	require.Len(t, seenA, perProducer)
	require.Len(t, seenB, perProducer)
}

func isStrictlyIncreasing(vs []int64) bool {
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return false
		}
	}
	return true
}

func TestAbortOnFailureReturnsWrappedError(t *testing.T) {
	buf, err := New[int32](8, WithFailurePolicy[int32](AbortOnFailure))
	require.NoError(t, err)
	w := buf.NewWriterInstance()
	_ = buf.NewReaderInstance()

	translatorErr := w.Publish(context.Background(), func([]int32) error {
		return errFailingTranslator
	}, 1)
	require.ErrorIs(t, translatorErr, ErrTranslatorFailed)
}

func TestPublishPartialSwallowsTranslatorError(t *testing.T) {
	buf, err := New[int32](8)
	require.NoError(t, err)
	w := buf.NewWriterInstance()
	r := buf.NewReaderInstance()

	err = w.Publish(context.Background(), func(span []int32) error {
		span[0] = 42
		return errFailingTranslator
	}, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), r.Available())
	require.Equal(t, int32(42), r.At(0))
}

func TestReinterpretRejectsSizeMismatch(t *testing.T) {
	buf, err := New[int32](8)
	require.NoError(t, err)

	_, err = Reinterpret[int32, int64](buf)
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestReinterpretAllowsSameSizeAndAlignment(t *testing.T) {
	buf, err := New[int32](8)
	require.NoError(t, err)

	view, err := Reinterpret[int32, uint32](buf)
	require.NoError(t, err)
	require.Equal(t, buf.Size(), view.Size())
}

// TestNonPageAlignedSizeWrapIntegrity guards against a mirrored allocator
// rounding its byte size up to a page multiple while the buffer keeps the
// caller's unrounded element count: the mirror alias then sits at the wrong
// offset and any span straddling the wrap point reads unrelated bytes.
// 1000 int32s (4000 bytes) is deliberately not a page multiple.
func TestNonPageAlignedSizeWrapIntegrity(t *testing.T) {
	buf, err := New[int32](1000)
	require.NoError(t, err)
	defer buf.Close()

	size := buf.Size()
	w := buf.NewWriterInstance()
	r := buf.NewReaderInstance()

	first := make([]int32, size-5)
	for i := range first {
		first[i] = int32(i)
	}
	require.NoError(t, w.Publish(context.Background(), identity(first), int64(len(first))))
	require.True(t, r.Consume(int64(len(first))))

	// This window starts 5 elements before the end of the primary region and
	// runs 5 past it, straddling the wrap point.
	straddle := make([]int32, 10)
	for i := range straddle {
		straddle[i] = int32(9000 + i)
	}
	require.NoError(t, w.Publish(context.Background(), identity(straddle), int64(len(straddle))))

	got := r.Get(int64(len(straddle)))
	require.Equal(t, straddle, got)
	require.True(t, r.Consume(int64(len(straddle))))
}

func TestCloseReleasesStorageAndIsIdempotent(t *testing.T) {
	buf, err := New[int32](64)
	require.NoError(t, err)

	require.NoError(t, buf.Close())
	require.NoError(t, buf.Close())
}

func TestCloseIsSharedAcrossReinterpretViews(t *testing.T) {
	buf, err := New[int32](64)
	require.NoError(t, err)

	view, err := Reinterpret[int32, uint32](buf)
	require.NoError(t, err)

	require.NoError(t, view.Close())
	require.NoError(t, buf.Close())
}
