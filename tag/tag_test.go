package tag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamAddKeepsOffsetOrder(t *testing.T) {
	s := NewStream()
	s.Add(Tag{Offset: 5, Key: "b"})
	s.Add(Tag{Offset: 1, Key: "a"})
	s.Add(Tag{Offset: 9, Key: "c"})

	got := s.Range(0, 100)
	require.Len(t, got, 3)
	require.Equal(t, "a", got[0].Key)
	require.Equal(t, "b", got[1].Key)
	require.Equal(t, "c", got[2].Key)
}

func TestStreamRangeIsInclusiveAndBounded(t *testing.T) {
	s := NewStream()
	for _, off := range []int64{0, 2, 4, 6, 8} {
		s.Add(Tag{Offset: off, Key: "t"})
	}

	got := s.Range(2, 6)
	require.Len(t, got, 3)
	require.Equal(t, int64(2), got[0].Offset)
	require.Equal(t, int64(6), got[2].Offset)

	require.Empty(t, s.Range(9, 3))
}

func TestStreamPruneDropsBeforeOffset(t *testing.T) {
	s := NewStream()
	for _, off := range []int64{0, 1, 2, 3, 4} {
		s.Add(Tag{Offset: off})
	}

	s.Prune(3)
	require.Equal(t, 2, s.Len())
	got := s.Range(0, 10)
	require.Equal(t, int64(3), got[0].Offset)
	require.Equal(t, int64(4), got[1].Offset)
}
