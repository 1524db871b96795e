package lemmagen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderLayout(t *testing.T) {
	e := NewEncoder()

	r, err := e.Rule(false, 2, "y")
	require.NoError(t, err)
	require.Equal(t, Addr(0), r)

	ew, err := e.Rule(true, 1, "")
	require.NoError(t, err)
	require.Equal(t, Addr(4), ew)

	leaf, err := e.Leaf(false, r, "ie")
	require.NoError(t, err)
	require.Equal(t, Addr(7), leaf)

	node, err := e.Internal(ew, "", 2)
	require.NoError(t, err)
	require.Equal(t, Addr(15), node)
	require.NoError(t, e.SetChild(node, 's', leaf)) // 's' = 115, slot 1

	want := []byte{
		0x00, 2, 1, 'y', // rule
		0x04, 1, 0, // entire-word rule
		0x01, 0, 0, 0, 0, 2, 'i', 'e', // leaf
		0x02, 4, 0, 0, 0, 2, // internal header
		0, 0, 0, 0, 0, // slot 0
		's', 7, 0, 0, 0, // slot 1
	}
	require.Equal(t, want, e.Model().Bytes())
	require.Equal(t, len(want), e.Len())
}

func TestEncoderInternalSuffix(t *testing.T) {
	e := NewEncoder()
	at, err := e.Internal(0, "ab", 3)
	require.NoError(t, err)

	n, err := e.view(at)
	require.NoError(t, err)
	assert.Equal(t, TypeInternalSuffix, n.typ)
	assert.Equal(t, []byte("ab"), n.suffix)
	assert.Equal(t, 3, n.hashSize)
	assert.Equal(t, flagLen+addrLen+lenSpecLen+2+modLen+3*entryLen, e.Len())
}

func TestEncoderEntireWordLeaf(t *testing.T) {
	e := NewEncoder()
	at, err := e.Leaf(true, 0, "x")
	require.NoError(t, err)

	n, err := e.view(at)
	require.NoError(t, err)
	assert.Equal(t, TypeLeafEntireWord, n.typ)
	assert.True(t, n.typ.IsEntireWord())
	assert.False(t, n.typ.IsInternal())
}

func TestEncoderFieldLimits(t *testing.T) {
	e := NewEncoder()
	long := strings.Repeat("a", MaxWordLen+1)

	_, err := e.Rule(false, -1, "")
	assert.ErrorIs(t, err, ErrFieldOverflow)
	_, err = e.Rule(false, MaxWordLen+1, "")
	assert.ErrorIs(t, err, ErrFieldOverflow)
	_, err = e.Rule(false, 0, long)
	assert.ErrorIs(t, err, ErrFieldOverflow)
	_, err = e.Leaf(false, 0, "")
	assert.ErrorIs(t, err, ErrInvalidNode)
	_, err = e.Leaf(false, 0, long)
	assert.ErrorIs(t, err, ErrFieldOverflow)
	_, err = e.Internal(0, "", 0)
	assert.ErrorIs(t, err, ErrFieldOverflow)
	_, err = e.Internal(0, "", 256)
	assert.ErrorIs(t, err, ErrFieldOverflow)
	_, err = e.Internal(0, long, 1)
	assert.ErrorIs(t, err, ErrFieldOverflow)

	assert.Zero(t, e.Len(), "rejected records must not be written")
}

func TestEncoderSetChild(t *testing.T) {
	e := NewEncoder()
	root, err := e.Internal(0, "", 5)
	require.NoError(t, err)
	r, err := e.Rule(false, 0, "")
	require.NoError(t, err)
	leaf, err := e.Leaf(false, r, "z")
	require.NoError(t, err)

	require.ErrorIs(t, e.SetChild(root, 0, r), ErrReservedChar)

	require.NoError(t, e.SetChild(root, 'a', r))
	// Same character may be rewritten.
	require.NoError(t, e.SetChild(root, 'a', leaf))
	// 'f' = 102 shares slot 2 with 'a' = 97.
	require.ErrorIs(t, e.SetChild(root, 'f', r), ErrSlotCollision)

	require.ErrorIs(t, e.SetChild(r, 'a', root), ErrInvalidNode)
	require.ErrorIs(t, e.SetChild(leaf, 'a', root), ErrInvalidNode)
	require.ErrorIs(t, e.SetChild(Addr(e.Len()+10), 'a', r), ErrAddressOutOfRange)

	require.ErrorIs(t, e.SetRule(r, r), ErrInvalidNode)
	require.NoError(t, e.SetRule(leaf, r))
}

func TestEncoderEntireWordSlot(t *testing.T) {
	e := NewEncoder()
	root, err := e.Internal(0, "", 5)
	require.NoError(t, err)
	ew, err := e.Rule(true, 0, "")
	require.NoError(t, err)

	require.NoError(t, e.SetEntireWord(root, ew))
	// 'd' = 100 hashes to slot 0, already held by the entire-word entry.
	require.ErrorIs(t, e.SetChild(root, 'd', ew), ErrSlotCollision)

	n, err := e.view(root)
	require.NoError(t, err)
	c, child := n.slot(0)
	assert.Zero(t, c)
	assert.Equal(t, ew, child)
}

func TestEncoderModelIsSnapshot(t *testing.T) {
	e := NewEncoder()
	_, err := e.Rule(false, 1, "")
	require.NoError(t, err)
	m := e.Model()

	_, err = e.Rule(false, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Size())
	assert.Equal(t, 6, e.Len())
}
