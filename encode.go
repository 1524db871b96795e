package lemmagen

import (
	"encoding/binary"
	"fmt"
)

// Encoder appends node records to a model buffer. It writes the records a
// learner would emit; it does not decide what the tree should contain.
//
// The first record appended is the root and must therefore be a node, not a
// rule, unless the model consists of a single rule. Records may reference
// addresses appended later through SetRule and SetChild.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

func (e *Encoder) next() Addr { return Addr(len(e.buf)) }

func (e *Encoder) putAddr(a Addr) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(a))
}

// putString writes a length-prefixed string. Callers check len(s) <= MaxWordLen.
func (e *Encoder) putString(s string) {
	e.buf = append(e.buf, byte(len(s)))
	e.buf = append(e.buf, s...)
}

// Rule appends a rule that strips fromLen characters and appends to.
func (e *Encoder) Rule(entireWord bool, fromLen int, to string) (Addr, error) {
	if fromLen < 0 || fromLen > MaxWordLen {
		return 0, fmt.Errorf("%w: fromLen %d", ErrFieldOverflow, fromLen)
	}
	if len(to) > MaxWordLen {
		return 0, fmt.Errorf("%w: %d byte replacement", ErrFieldOverflow, len(to))
	}
	at := e.next()
	t := TypeRule
	if entireWord {
		t = TypeRuleEntireWord
	}
	e.buf = append(e.buf, byte(t), byte(fromLen))
	e.putString(to)
	return at, nil
}

// Leaf appends a terminal node guarding the literal suffix.
func (e *Encoder) Leaf(entireWord bool, rule Addr, suffix string) (Addr, error) {
	if suffix == "" {
		return 0, fmt.Errorf("%w: leaf without suffix", ErrInvalidNode)
	}
	if len(suffix) > MaxWordLen {
		return 0, fmt.Errorf("%w: %d byte suffix", ErrFieldOverflow, len(suffix))
	}
	at := e.next()
	t := TypeLeaf
	if entireWord {
		t = TypeLeafEntireWord
	}
	e.buf = append(e.buf, byte(t))
	e.putAddr(rule)
	e.putString(suffix)
	return at, nil
}

// Internal appends a branching node with an empty hash table of hashSize
// slots. A non-empty suffix makes it an ADD_CHAR internal node.
func (e *Encoder) Internal(rule Addr, suffix string, hashSize int) (Addr, error) {
	if hashSize < 1 || hashSize > 255 {
		return 0, fmt.Errorf("%w: hash size %d", ErrFieldOverflow, hashSize)
	}
	if len(suffix) > MaxWordLen {
		return 0, fmt.Errorf("%w: %d byte suffix", ErrFieldOverflow, len(suffix))
	}
	at := e.next()
	t := TypeInternal
	if suffix != "" {
		t = TypeInternalSuffix
	}
	e.buf = append(e.buf, byte(t))
	e.putAddr(rule)
	if suffix != "" {
		e.putString(suffix)
	}
	e.buf = append(e.buf, byte(hashSize))
	e.buf = append(e.buf, make([]byte, hashSize*entryLen)...)
	return at, nil
}

// view decodes an already written node through the regular decoder.
func (e *Encoder) view(at Addr) (node, error) {
	return (&Model{data: e.buf}).node(at)
}

// SetRule points the node at node to rule.
func (e *Encoder) SetRule(at, rule Addr) error {
	n, err := e.view(at)
	if err != nil {
		return err
	}
	if n.typ.IsRule() {
		return fmt.Errorf("%w: %d is a rule record", ErrInvalidNode, at)
	}
	binary.LittleEndian.PutUint32(e.buf[int(at)+flagLen:], uint32(rule))
	return nil
}

// SetChild stores child under character c in the hash table of the internal
// node at at, in slot c mod hashSize.
func (e *Encoder) SetChild(at Addr, c byte, child Addr) error {
	if c == 0 {
		return ErrReservedChar
	}
	return e.setSlot(at, c, child)
}

// SetEntireWord stores child in slot 0 under the entire-word sentinel.
func (e *Encoder) SetEntireWord(at Addr, child Addr) error {
	return e.setSlot(at, 0, child)
}

func (e *Encoder) setSlot(at Addr, c byte, child Addr) error {
	n, err := e.view(at)
	if err != nil {
		return err
	}
	if !n.typ.IsInternal() {
		return fmt.Errorf("%w: %d is a %s node", ErrInvalidNode, at, n.typ)
	}
	i := int(c) % n.hashSize
	if stored, addr := n.slot(i); addr != 0 && stored != c {
		return fmt.Errorf("%w: slot %d of %d holds %q, want %q", ErrSlotCollision, i, at, stored, c)
	}
	entry := n.table[i*entryLen : (i+1)*entryLen]
	entry[0] = c
	binary.LittleEndian.PutUint32(entry[charLen:], uint32(child))
	return nil
}

// Model returns a Model over a copy of the records written so far.
func (e *Encoder) Model() *Model {
	return NewModel(e.buf)
}
