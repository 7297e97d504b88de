package protectedstring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProtectedRoundTrip(t *testing.T) {
	ps := NewProtected([]byte("hunter2"))
	require.True(t, ps.Protected())
	require.Equal(t, "hunter2", ps.String())
}

func TestUnprotectedRoundTrip(t *testing.T) {
	ps := NewUnprotected([]byte("alice"))
	require.False(t, ps.Protected())
	require.Equal(t, "alice", ps.String())
}

func TestEqualComparesPlaintextAndFlag(t *testing.T) {
	a := NewProtected([]byte("same"))
	b := NewUnprotected([]byte("same"))
	require.False(t, a.Equal(b), "differing protect flags must compare unequal")

	c := NewProtected([]byte("same"))
	require.True(t, a.Equal(c))
}

func TestSetProtectPreservesValue(t *testing.T) {
	ps := NewProtected([]byte("toggle-me"))
	unprotected := ps.SetProtect(false)
	require.False(t, unprotected.Protected())
	require.Equal(t, "toggle-me", unprotected.String())
}
