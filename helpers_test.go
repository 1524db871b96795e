package lemmagen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// builder wraps an Encoder so test models read as a list of records.
type builder struct {
	t *testing.T
	e *Encoder
}

func newBuilder(t *testing.T) *builder {
	return &builder{t: t, e: NewEncoder()}
}

func (b *builder) must(a Addr, err error) Addr {
	b.t.Helper()
	require.NoError(b.t, err)
	return a
}

func (b *builder) rule(fromLen int, to string) Addr {
	b.t.Helper()
	return b.must(b.e.Rule(false, fromLen, to))
}

func (b *builder) entireWordRule(fromLen int, to string) Addr {
	b.t.Helper()
	return b.must(b.e.Rule(true, fromLen, to))
}

func (b *builder) internal(rule Addr, suffix string, size int) Addr {
	b.t.Helper()
	return b.must(b.e.Internal(rule, suffix, size))
}

func (b *builder) leaf(rule Addr, suffix string) Addr {
	b.t.Helper()
	return b.must(b.e.Leaf(false, rule, suffix))
}

func (b *builder) setRule(node, rule Addr) {
	b.t.Helper()
	require.NoError(b.t, b.e.SetRule(node, rule))
}

func (b *builder) child(node Addr, c byte, child Addr) {
	b.t.Helper()
	require.NoError(b.t, b.e.SetChild(node, c, child))
}

func (b *builder) model() *Model {
	return b.e.Model()
}

// catsModel strips a trailing 's' and leaves every other word unchanged.
func catsModel(t *testing.T) *Model {
	b := newBuilder(t)
	root := b.internal(0, "", 7)
	b.setRule(root, b.rule(0, ""))
	b.child(root, 's', b.rule(1, "")) // 's' = 115, slot 3
	return b.model()
}

// iesModel maps *ies to *y through a leaf guarding the literal "ie".
func iesModel(t *testing.T) *Model {
	b := newBuilder(t)
	root := b.internal(0, "", 7)
	b.setRule(root, b.rule(0, ""))
	b.child(root, 's', b.leaf(b.rule(3, "y"), "ie"))
	return b.model()
}

// hesModel guards "e" under 's' with an internal node: *hes -> *h, other
// *es -> *e.
func hesModel(t *testing.T) *Model {
	b := newBuilder(t)
	root := b.internal(0, "", 7)
	b.setRule(root, b.rule(0, ""))
	es := b.internal(b.rule(1, ""), "e", 5)
	b.child(root, 's', es)
	b.child(es, 'h', b.rule(2, "")) // 'h' = 104, slot 4
	return b.model()
}

// exceptionModel has a suffix rule *s -> * and two entire-word exceptions:
// "is" -> "be" (through slot 0 of the node for "is") and "x" -> "y" (a
// regular branch ending in an entire-word rule).
func exceptionModel(t *testing.T) *Model {
	b := newBuilder(t)
	root := b.internal(0, "", 7)
	b.setRule(root, b.rule(0, ""))
	stripS := b.rule(1, "")

	s := b.internal(stripS, "", 4)
	b.child(root, 's', s) // slot 3
	is := b.internal(stripS, "", 3)
	b.child(s, 'i', is) // 'i' = 105, slot 1
	require.NoError(t, b.e.SetEntireWord(is, b.entireWordRule(2, "be")))

	b.child(root, 'x', b.entireWordRule(1, "y")) // 'x' = 120, slot 1
	return b.model()
}

// collisionModel has a single branch for 'a' in a 5 slot table; 'f' hashes to
// the same slot.
func collisionModel(t *testing.T) *Model {
	b := newBuilder(t)
	root := b.internal(0, "", 5)
	b.setRule(root, b.rule(0, ""))
	b.child(root, 'a', b.rule(1, "e")) // 'a' = 97, slot 2
	return b.model()
}

// wholeLeafModel maps the whole word "is" to "be" through an entire-word leaf
// under 's' guarding "i".
func wholeLeafModel(t *testing.T) *Model {
	b := newBuilder(t)
	root := b.internal(0, "", 7)
	b.setRule(root, b.rule(0, ""))
	leaf := b.must(b.e.Leaf(true, b.rule(2, "be"), "i"))
	b.child(root, 's', leaf)
	return b.model()
}

// slotZeroModel stores a real character in slot 0 of two tables: 'i' = 105 is
// a multiple of 7. The inner node's own rule is *i -> *o, its branch for a
// second 'i' is *i -> *X.
func slotZeroModel(t *testing.T) *Model {
	b := newBuilder(t)
	root := b.internal(0, "", 7)
	b.setRule(root, b.rule(0, ""))
	n := b.internal(b.rule(1, "o"), "", 7)
	b.child(root, 'i', n)
	b.child(n, 'i', b.rule(1, "X"))
	return b.model()
}
