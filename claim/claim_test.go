package claim

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RalphSteinhagen/gnuradio/sequence"
	"github.com/RalphSteinhagen/gnuradio/wait"
)

func TestSingleProducerTryNextAndPublish(t *testing.T) {
	cursor := sequence.New()
	reader := sequence.New()
	s := NewSingleProducer(4, cursor, wait.NewBusySpin())
	readers := []*sequence.Sequence{reader}

	seq, err := s.TryNext(readers, 4)
	require.NoError(t, err)
	require.Equal(t, int64(3), seq)

	// The cursor doubles as the claim point, so capacity is only taken once
	// the claimed range is published.
	s.Publish(seq, 4)
	require.Equal(t, int64(3), cursor.Value())
	require.Equal(t, int64(0), s.RemainingCapacity(readers))

	_, err = s.TryNext(readers, 1)
	require.ErrorIs(t, err, ErrNoCapacity)

	reader.SetValue(2)
	require.Equal(t, int64(3), s.RemainingCapacity(readers))
}

func TestSingleProducerNextBlocksUntilReaderConsumes(t *testing.T) {
	cursor := sequence.New()
	reader := sequence.New()
	readers := []*sequence.Sequence{reader}
	s := NewSingleProducer(2, cursor, wait.NewBusySpin())

	seq, err := s.TryNext(readers, 2)
	require.NoError(t, err)
	s.Publish(seq, 2)

	done := make(chan int64, 1)
	go func() {
		v, err := s.Next(context.Background(), readers, 1)
		require.NoError(t, err)
		done <- v
	}()

	select {
	case <-done:
		t.Fatal("Next returned before reader freed capacity")
	case <-time.After(20 * time.Millisecond):
	}

	reader.SetValue(0)

	select {
	case v := <-done:
		require.Equal(t, int64(2), v)
	case <-time.After(2 * time.Second):
		t.Fatal("Next never unblocked after reader consumed")
	}
}

func TestMultiProducerDisjointRangesAndOrderedPublish(t *testing.T) {
	cursor := sequence.New()
	reader := sequence.New()
	readers := []*sequence.Sequence{reader}
	// The reader never consumes, so capacity must hold every claim below.
	m := NewMultiProducer(2048, cursor, wait.NewBusySpin())

	const producers = 8
	const perProducer = 200

	var wg sync.WaitGroup
	seen := make([][]int64, producers)
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			local := make([]int64, 0, perProducer)
			for i := 0; i < perProducer; i++ {
				seq, err := m.Next(context.Background(), readers, 1)
				require.NoError(t, err)
				local = append(local, seq)
				m.Publish(seq, 1)
			}
			seen[p] = local
		}(p)
	}
	wg.Wait()

	claimedTotal := make(map[int64]bool)
	for _, local := range seen {
		var prev int64 = -1
		for _, seq := range local {
			require.False(t, claimedTotal[seq], "sequence %d claimed twice", seq)
			claimedTotal[seq] = true
			require.Greater(t, seq, prev, "a single producer's own sequence must be monotonically increasing")
			prev = seq
		}
	}
	require.Len(t, claimedTotal, producers*perProducer)
	require.Eventually(t, func() bool {
		return cursor.Value() == int64(producers*perProducer-1)
	}, time.Second, time.Millisecond, "cursor must advance to the highest contiguously published slot")
}

func TestMultiProducerTryNextNoCapacity(t *testing.T) {
	cursor := sequence.New()
	reader := sequence.New()
	readers := []*sequence.Sequence{reader}
	m := NewMultiProducer(2, cursor, wait.NewBusySpin())

	seq, err := m.TryNext(readers, 2)
	require.NoError(t, err)
	m.Publish(seq, 2)

	_, err = m.TryNext(readers, 1)
	require.ErrorIs(t, err, ErrNoCapacity)
}
