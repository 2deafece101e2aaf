package dropcount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreEmitPublishesOnFirstCall(t *testing.T) {
	a := New(1, 10)
	pub, c := a.PreEmit(0)
	require.True(t, pub)
	require.EqualValues(t, 0, c)
}

func TestPreEmitPublishesOnChange(t *testing.T) {
	a := New(1, 10)
	_, _ = a.PreEmit(0)

	pub, _ := a.PreEmit(0)
	require.False(t, pub, "unchanged count should not republish immediately")

	a.RecordDrop()
	pub, c := a.PreEmit(0)
	require.True(t, pub)
	require.EqualValues(t, 1, c)
}

func TestPreEmitPublishesPeriodicallyEvenWithoutChange(t *testing.T) {
	a := New(1, 3)
	_, _ = a.PreEmit(0) // initial publish, countdown reset to 3

	pub1, _ := a.PreEmit(0)
	pub2, _ := a.PreEmit(0)
	pub3, _ := a.PreEmit(0)
	pub4, _ := a.PreEmit(0)
	require.False(t, pub1)
	require.False(t, pub2)
	require.False(t, pub3)
	require.True(t, pub4, "countdown reaching zero must force a republish")
}

func TestCoresAreIndependent(t *testing.T) {
	a := New(2, 10)
	pub0, _ := a.PreEmit(0)
	require.True(t, pub0)

	pub1, _ := a.PreEmit(1)
	require.True(t, pub1, "a fresh core must publish on its own first emission")
}

func TestResetForcesRepublish(t *testing.T) {
	a := New(1, 10)
	_, _ = a.PreEmit(0)
	pub, _ := a.PreEmit(0)
	require.False(t, pub)

	a.Reset(0)
	pub, _ = a.PreEmit(0)
	require.True(t, pub, "reset core must republish even with an unchanged count")
}

func TestCountReflectsRecordDrop(t *testing.T) {
	a := New(1, 10)
	require.EqualValues(t, 0, a.Count())
	a.RecordDrop()
	a.RecordDrop()
	require.EqualValues(t, 2, a.Count())
}
