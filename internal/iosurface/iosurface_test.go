package iosurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemSpaceReadBitsRoundTripsWriteBits(t *testing.T) {
	sp := NewMemSpace(32)
	require.NoError(t, sp.WriteBits(8, 16, 0xBEEF))
	v, err := sp.ReadBits(8, 16)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xBEEF), v)
}

func TestMemSpaceFromBytesReadsBackOriginalBytes(t *testing.T) {
	sp := NewMemSpaceFromBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	v, err := sp.ReadBits(0, 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), v)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, sp.Bytes())
}

func TestMemSpaceReadBitsRejectsOutOfRangeAccess(t *testing.T) {
	sp := NewMemSpace(8)
	_, err := sp.ReadBits(0, 16)
	assert.Error(t, err)
}

func TestMemSpaceWriteBitsRejectsInvalidWidth(t *testing.T) {
	sp := NewMemSpace(64)
	assert.Error(t, sp.WriteBits(0, 0, 1))
	assert.Error(t, sp.WriteBits(0, 65, 1))
}

func TestRegistryOpenLookupClose(t *testing.T) {
	r := NewRegistry()
	sp := NewMemSpace(8)
	id := r.Open(sp)

	got, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Same(t, sp, got)

	r.Close(id)
	_, ok = r.Lookup(id)
	assert.False(t, ok)
}

func TestRegistryAssignsDistinctIDsPerOpen(t *testing.T) {
	r := NewRegistry()
	id1 := r.Open(NewMemSpace(8))
	id2 := r.Open(NewMemSpace(8))
	assert.NotEqual(t, id1, id2)
}
