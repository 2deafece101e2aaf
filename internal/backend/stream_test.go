package backend

import (
	"bytes"
	"errors"
	"testing"

	"github.com/schilkp/Tonbandgeraet/internal/encode"
	"github.com/schilkp/Tonbandgeraet/internal/frame"
	"github.com/schilkp/Tonbandgeraet/internal/meta"
	"github.com/stretchr/testify/require"
)

func TestStreamForwardWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf, meta.NewStore(1, 64), &fakePort{})
	require.Equal(t, ForwardOK, s.Forward(0, []byte{1, 2, 3}))
	require.Equal(t, []byte{1, 2, 3}, buf.Bytes())
}

func TestStreamForwardReportsDroppedOnWriteError(t *testing.T) {
	s := NewStream(failingWriter{}, meta.NewStore(1, 64), &fakePort{})
	require.Equal(t, ForwardDropped, s.Forward(0, []byte{1}))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

// unframeAll splits a byte stream into its frame payloads, in order.
func unframeAll(t *testing.T, raw []byte) [][]byte {
	t.Helper()
	var out [][]byte
	for len(raw) > 0 {
		payload, rest, ok := frame.Unframe(raw)
		require.True(t, ok)
		out = append(out, payload)
		raw = rest
	}
	return out
}

func TestStreamStartReplaysMetadataPrefixedByCoreIDInCoreOrder(t *testing.T) {
	store := meta.NewStore(2, 64)

	res0 := encode.TSResolutionNS{ResolutionNS: 10}
	b0 := make([]byte, res0.MaxLen())
	store.Core(0).Append(b0[:res0.Encode(b0)])

	res1 := encode.TSResolutionNS{ResolutionNS: 20}
	b1 := make([]byte, res1.MaxLen())
	store.Core(1).Append(b1[:res1.Encode(b1)])

	var buf bytes.Buffer
	s := NewStream(&buf, store, &fakePort{})
	require.NoError(t, s.Start())

	frames := unframeAll(t, buf.Bytes())
	require.Len(t, frames, 5) // core_id(0), meta(0), core_id(1), meta(1), core_id(current)
	require.Equal(t, encode.TagCoreID, frames[0][0])
	require.Equal(t, encode.TagTSResolutionNS, frames[1][0])
	require.Equal(t, encode.TagCoreID, frames[2][0])
	require.Equal(t, encode.TagTSResolutionNS, frames[3][0])
	require.Equal(t, encode.TagCoreID, frames[4][0])
}

func TestStreamStartReportsMetadataDropOnStart(t *testing.T) {
	store := meta.NewStore(1, 1)
	store.Core(0).Append([]byte{1})
	require.False(t, store.Core(0).Append([]byte{2, 3}))
	require.True(t, store.Core(0).Overflowed())

	var buf bytes.Buffer
	s := NewStream(&buf, store, &fakePort{})
	err := s.Start()
	require.Error(t, err)
	var dropErr *MetadataDropOnStartError
	require.True(t, errors.As(err, &dropErr))
	require.Equal(t, []int{0}, dropErr.Cores)
	require.False(t, store.Core(0).Overflowed())
}
