package wait

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RalphSteinhagen/gnuradio/sequence"
)

func allStrategies() map[string]Strategy {
	return map[string]Strategy{
		"NoWait":          NewNoWait(),
		"BusySpin":        NewBusySpin(),
		"Yielding":        NewYielding(),
		"Sleeping":        NewSleepingWithQuantum(time.Millisecond),
		"SpinWait":        NewSpinWait(),
		"Blocking":        NewBlocking(),
		"TimeoutBlocking": NewTimeoutBlocking(time.Second),
	}
}

func TestWaitForReturnsImmediatelyWhenAlreadySatisfied(t *testing.T) {
	cursor := sequence.NewWithValue(5)
	for name, s := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			v, err := s.WaitFor(context.Background(), 5, cursor, nil)
			require.NoError(t, err)
			require.Equal(t, int64(5), v)
		})
	}
}

func TestWaitForBlocksUntilSignal(t *testing.T) {
	for name, s := range allStrategies() {
		if name == "NoWait" {
			continue // NoWait never blocks by contract
		}
		t.Run(name, func(t *testing.T) {
			cursor := sequence.New()
			done := make(chan int64, 1)
			go func() {
				v, err := s.WaitFor(context.Background(), 3, cursor, nil)
				require.NoError(t, err)
				done <- v
			}()

			time.Sleep(5 * time.Millisecond)
			select {
			case <-done:
				t.Fatal("waiter returned before target was published")
			default:
			}

			cursor.SetValue(3)
			s.SignalAllWhenBlocking()

			select {
			case v := <-done:
				require.Equal(t, int64(3), v)
			case <-time.After(2 * time.Second):
				t.Fatal("waiter never woke up after signal")
			}
		})
	}
}

func TestWaitForRespectsContextCancellation(t *testing.T) {
	for name, s := range allStrategies() {
		if name == "NoWait" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			cursor := sequence.New()
			ctx, cancel := context.WithCancel(context.Background())
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.WaitFor(ctx, 100, cursor, nil)
				require.ErrorIs(t, err, context.Canceled)
			}()
			time.Sleep(5 * time.Millisecond)
			cancel()
			done := make(chan struct{})
			go func() { wg.Wait(); close(done) }()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("waiter never observed cancellation")
			}
		})
	}
}

func TestTimeoutBlockingTimesOutWithoutSignal(t *testing.T) {
	s := NewTimeoutBlocking(20 * time.Millisecond)
	cursor := sequence.New()
	v, err := s.WaitFor(context.Background(), 1, cursor, nil)
	require.ErrorIs(t, err, ErrTimeout)
	require.Equal(t, int64(-1), v)
}

func TestWaitForUsesMinimumAcrossDependents(t *testing.T) {
	cursor := sequence.NewWithValue(10)
	a := sequence.NewWithValue(2)
	b := sequence.NewWithValue(7)
	s := NewBusySpin()
	v, err := s.WaitFor(context.Background(), 2, cursor, []*sequence.Sequence{a, b})
	require.NoError(t, err)
	require.Equal(t, int64(2), v)
}
