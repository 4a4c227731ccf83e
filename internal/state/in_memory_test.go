package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBackendSaveLoadRoundTrip(t *testing.T) {
	b := NewInMemoryBackend()
	want := map[string][]byte{"k1": []byte("v1"), "k2": []byte("v2")}

	require.NoError(t, b.Save("op-1", 3, want))

	got, err := b.Load("op-1", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInMemoryBackendLoadMissingReturnsErrNotFound(t *testing.T) {
	b := NewInMemoryBackend()

	_, err := b.Load("op-1", 1)
	require.Error(t, err)
	var notFound *ErrNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestInMemoryBackendIsolatesCallerMutations(t *testing.T) {
	b := NewInMemoryBackend()
	state := map[string][]byte{"k": []byte("original")}
	require.NoError(t, b.Save("op-1", 1, state))

	state["k"][0] = 'X'

	got, err := b.Load("op-1", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got["k"])
}

func TestInMemoryBackendKeysByCheckpointAndOperator(t *testing.T) {
	b := NewInMemoryBackend()
	require.NoError(t, b.Save("op-1", 1, map[string][]byte{"v": []byte("a")}))
	require.NoError(t, b.Save("op-1", 2, map[string][]byte{"v": []byte("b")}))
	require.NoError(t, b.Save("op-2", 1, map[string][]byte{"v": []byte("c")}))

	got, err := b.Load("op-1", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got["v"])

	got, err = b.Load("op-1", 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got["v"])

	got, err = b.Load("op-2", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got["v"])
}
