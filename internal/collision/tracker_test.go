package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Resolve_SameTripleSameKey(t *testing.T) {
	tracker := NewTracker()

	k1 := tracker.Resolve(0xABCD, 'A', []byte{0x02}, []byte{'T'})
	k2 := tracker.Resolve(0xABCD, 'A', []byte{0x02}, []byte{'T'})

	require.Equal(t, k1, k2)
	require.Equal(t, uint64(0xABCD), k1)
	require.False(t, tracker.HasCollision())
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Resolve_DistinctHashesNoCollision(t *testing.T) {
	tracker := NewTracker()

	k1 := tracker.Resolve(1, 'A', []byte{0x02}, []byte{'T'})
	k2 := tracker.Resolve(2, 'C', []byte{0x01}, []byte{'G'})

	require.NotEqual(t, k1, k2)
	require.False(t, tracker.HasCollision())
	require.Equal(t, 2, tracker.Count())
}

func TestTracker_Resolve_CollisionGetsProbed(t *testing.T) {
	tracker := NewTracker()

	first := tracker.Resolve(0x1234, 'A', []byte{0x02}, []byte{'T'})
	require.Equal(t, uint64(0x1234), first)
	require.False(t, tracker.HasCollision())

	// Same hash, genuinely different triple: must resolve to a different key.
	second := tracker.Resolve(0x1234, 'C', []byte{0x03}, []byte{'G'})
	require.NotEqual(t, first, second)
	require.Equal(t, uint64(0x1235), second)
	require.True(t, tracker.HasCollision())
	require.Equal(t, 1, tracker.CollisionCount())
	require.Equal(t, 2, tracker.Count())
}

func TestTracker_Resolve_CollisionChainProbesPastOccupiedSlot(t *testing.T) {
	tracker := NewTracker()

	// Occupy 0x10 and 0x11 with two distinct triples directly.
	a := tracker.Resolve(0x10, 'A', nil, nil)
	b := tracker.Resolve(0x11, 'C', nil, nil)
	require.Equal(t, uint64(0x10), a)
	require.Equal(t, uint64(0x11), b)

	// A third, distinct triple colliding at 0x10 must skip past the occupied 0x11 too.
	c := tracker.Resolve(0x10, 'G', nil, nil)
	require.Equal(t, uint64(0x12), c)
	require.Equal(t, 2, tracker.CollisionCount())
}

func TestTracker_Resolve_RepeatedColliderReturnsSameResolvedKey(t *testing.T) {
	tracker := NewTracker()

	_ = tracker.Resolve(0x99, 'A', []byte{0x02}, []byte{'T'})
	second := tracker.Resolve(0x99, 'C', []byte{0x03}, []byte{'G'})
	secondAgain := tracker.Resolve(0x99, 'C', []byte{0x03}, []byte{'G'})

	require.Equal(t, second, secondAgain)
	require.Equal(t, 1, tracker.CollisionCount(), "re-observing the same colliding triple must not count again")
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()

	_ = tracker.Resolve(1, 'A', nil, nil)
	_ = tracker.Resolve(1, 'C', nil, nil)
	require.True(t, tracker.HasCollision())
	require.Equal(t, 2, tracker.Count())

	tracker.Reset()

	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())

	// Should behave like new after reset.
	k := tracker.Resolve(1, 'A', nil, nil)
	require.Equal(t, uint64(1), k)
	require.Equal(t, 1, tracker.Count())
}
