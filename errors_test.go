package tband

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuredError(t *testing.T) {
	err := NewError("StartStreaming", ErrCodeInvalidParameters, nil)
	require.Equal(t, "StartStreaming", err.Op)
	require.Equal(t, ErrCodeInvalidParameters, err.Code)
	require.Equal(t, "tband: invalid parameters (op=StartStreaming)", err.Error())
}

func TestCoreError(t *testing.T) {
	err := NewCoreError("Submit", 3, ErrCodeNotQuiescent, nil)
	require.Equal(t, 3, err.CoreID)
	require.Equal(t, "tband: not quiescent (op=Submit, core=3)", err.Error())
}

func TestWrapErrorPreservesCodeAndCore(t *testing.T) {
	inner := NewCoreError("Submit", 2, ErrCodeAlreadyStopped, io.EOF)
	wrapped := WrapError("StopStreaming", inner)

	require.Equal(t, "StopStreaming", wrapped.Op)
	require.Equal(t, 2, wrapped.CoreID)
	require.Equal(t, ErrCodeAlreadyStopped, wrapped.Code)
	require.True(t, errors.Is(wrapped, io.EOF))
}

func TestWrapErrorOnPlainError(t *testing.T) {
	wrapped := WrapError("Submit", io.EOF)
	require.Equal(t, ErrCodeInvalidParameters, wrapped.Code)
	require.True(t, errors.Is(wrapped, io.EOF))
}

func TestWrapErrorNil(t *testing.T) {
	require.Nil(t, WrapError("Submit", nil))
}

func TestErrorIsMatchesByCodeOnly(t *testing.T) {
	a := NewCoreError("Submit", 0, ErrCodeNotQuiescent, nil)
	b := NewCoreError("Reset", 5, ErrCodeNotQuiescent, nil)
	require.True(t, errors.Is(a, b))
}

func TestIsCode(t *testing.T) {
	err := NewError("Submit", ErrCodeAlreadyStopped, nil)
	require.True(t, IsCode(err, ErrCodeAlreadyStopped))
	require.False(t, IsCode(err, ErrCodeNotQuiescent))
	require.False(t, IsCode(nil, ErrCodeAlreadyStopped))
}

func TestBackendNotImplementedSentinel(t *testing.T) {
	require.True(t, errors.Is(ErrBackendNotImplemented, ErrBackendNotImplemented))
	require.Equal(t, ErrCodeNotImplemented, ErrBackendNotImplemented.Code)
}
