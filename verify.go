package lemmagen

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Stats summarises the records reachable from the root of a model.
type Stats struct {
	Bytes      int
	Nodes      int
	Rules      int
	Leaves     int
	Internals  int
	EntireWord int

	// Slots is the total number of hash table slots, Used the non-empty ones.
	Slots int
	Used  int

	// Depth is the deepest level, counted in records from the root, at which
	// a record was first reached.
	Depth int
}

// Verify walks every record reachable from the root once and checks that all
// fields and addresses stay inside the buffer, that every node's rule address
// resolves to a rule record and that hash tables are well formed. All problems
// found are returned together.
func (m *Model) Verify() (Stats, error) {
	st := Stats{Bytes: m.Size()}
	if m.IsEmpty() {
		return st, ErrModelNotLoaded
	}

	var merr *multierror.Error
	type item struct {
		addr  Addr
		depth int
	}
	seen := make(map[Addr]bool)
	stack := []item{{0, 1}}

	visit := func(a Addr, depth int) {
		if !seen[a] {
			stack = append(stack, item{a, depth})
		}
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[it.addr] {
			continue
		}
		seen[it.addr] = true
		st.Nodes++
		st.Depth = max(st.Depth, it.depth)

		t, err := m.typeAt(it.addr)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		if t.IsEntireWord() {
			st.EntireWord++
		}
		if t.IsRule() {
			st.Rules++
			if _, err := m.rule(it.addr); err != nil {
				merr = multierror.Append(merr, err)
			}
			continue
		}

		n, err := m.node(it.addr)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		if rt, err := m.typeAt(n.rule); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("rule of node %d: %w", n.addr, err))
		} else if !rt.IsRule() {
			merr = multierror.Append(merr, fmt.Errorf("%w: node %d refers to %s node %d as its rule",
				ErrInvalidRule, n.addr, rt, n.rule))
		} else {
			visit(n.rule, it.depth+1)
		}

		if !n.typ.IsInternal() {
			st.Leaves++
			continue
		}
		st.Internals++
		st.Slots += n.hashSize
		for i := 0; i < n.hashSize; i++ {
			c, child := n.slot(i)
			if child == 0 {
				continue
			}
			st.Used++
			if c != 0 && int(c)%n.hashSize != i {
				merr = multierror.Append(merr, fmt.Errorf("%w: node %d stores %q in slot %d, want slot %d",
					ErrInvalidNode, n.addr, c, i, int(c)%n.hashSize))
			}
			if int(child) >= m.Size() {
				merr = multierror.Append(merr, fmt.Errorf("%w: child %d of node %d", ErrAddressOutOfRange, child, n.addr))
				continue
			}
			visit(child, it.depth+1)
		}
	}
	return st, merr.ErrorOrNil()
}
