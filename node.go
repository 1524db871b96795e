package lemmagen

import (
	"encoding/binary"
	"fmt"
)

// node is a decoded view of one node record. Slices alias the model buffer.
type node struct {
	addr Addr
	typ  NodeType

	// rule is the address of the node's rule record (unset for rule records).
	rule Addr

	// suffix holds the literal characters guarded by an ADD_CHAR node.
	suffix []byte

	// table is the raw hash table of an internal node, hashSize*entryLen bytes.
	table    []byte
	hashSize int
}

// rule is a decoded rule record.
type rule struct {
	fromLen int
	to      []byte
}

// span returns data[off:off+n] or ErrAddressOutOfRange.
func span(data []byte, off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(data) || n > len(data)-off {
		return nil, fmt.Errorf("%w: [%d,+%d) in %d byte model", ErrAddressOutOfRange, off, n, len(data))
	}
	return data[off : off+n], nil
}

func (m *Model) byteAt(off int) (byte, error) {
	b, err := span(m.data, off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *Model) addrAt(off int) (Addr, error) {
	b, err := span(m.data, off, addrLen)
	if err != nil {
		return 0, err
	}
	return Addr(binary.LittleEndian.Uint32(b)), nil
}

// typeAt returns the validated flag byte at addr.
func (m *Model) typeAt(addr Addr) (NodeType, error) {
	b, err := m.byteAt(int(addr))
	if err != nil {
		return 0, err
	}
	t := NodeType(b)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: flag 0x%02x at %d", ErrInvalidNode, b, addr)
	}
	return t, nil
}

// node decodes the non-rule record at addr.
func (m *Model) node(addr Addr) (node, error) {
	t, err := m.typeAt(addr)
	if err != nil {
		return node{}, err
	}
	n := node{addr: addr, typ: t}
	if t.IsRule() {
		return n, nil
	}

	off := int(addr) + flagLen
	if n.rule, err = m.addrAt(off); err != nil {
		return node{}, err
	}
	off += addrLen

	if t.HasSuffix() {
		k, err := m.byteAt(off)
		if err != nil {
			return node{}, err
		}
		off += lenSpecLen
		if n.suffix, err = span(m.data, off, int(k)); err != nil {
			return node{}, err
		}
		off += int(k)
	}

	if t.IsInternal() {
		size, err := m.byteAt(off)
		if err != nil {
			return node{}, err
		}
		if size == 0 {
			return node{}, fmt.Errorf("%w: empty hash table at %d", ErrInvalidNode, addr)
		}
		off += modLen
		n.hashSize = int(size)
		if n.table, err = span(m.data, off, n.hashSize*entryLen); err != nil {
			return node{}, err
		}
	}
	return n, nil
}

// slot returns the stored character and child address of hash table slot i.
func (n node) slot(i int) (byte, Addr) {
	e := n.table[i*entryLen : (i+1)*entryLen]
	return e[0], Addr(binary.LittleEndian.Uint32(e[charLen:]))
}

// rule decodes the rule record at addr.
func (m *Model) rule(addr Addr) (rule, error) {
	t, err := m.typeAt(addr)
	if err != nil {
		return rule{}, err
	}
	if !t.IsRule() {
		return rule{}, fmt.Errorf("%w: node at %d is %s, not a rule", ErrInvalidRule, addr, t)
	}
	hdr, err := span(m.data, int(addr)+flagLen, 2*lenSpecLen)
	if err != nil {
		return rule{}, err
	}
	to, err := span(m.data, int(addr)+flagLen+2*lenSpecLen, int(hdr[1]))
	if err != nil {
		return rule{}, err
	}
	return rule{fromLen: int(hdr[0]), to: to}, nil
}
