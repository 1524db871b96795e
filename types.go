package lemmagen

import "errors"

// Addr is a byte offset of a node record inside a model buffer.
// The root node always lives at address 0; everywhere else 0 means "absent".
type Addr uint32

// Field widths of the on-disk node records.
const (
	flagLen    = 1
	addrLen    = 4
	lenSpecLen = 1
	modLen     = 1
	charLen    = 1
	entryLen   = charLen + addrLen

	// prefixLen is the width of the little-endian length prefix of a model stream.
	prefixLen = 4
)

// MaxWordLen is the longest word (and the longest suffix) the single-byte length
// fields of the format can describe.
const MaxWordLen = 255

// Flag bits of the first byte of every node record.
const (
	BitAddChar    = 0x01
	BitInternal   = 0x02
	BitEntireWord = 0x04
)

// NodeType is the flag byte of a node record.
type NodeType uint8

// The six valid node variants.
const (
	TypeRule           NodeType = 0
	TypeRuleEntireWord NodeType = BitEntireWord
	TypeLeaf           NodeType = BitAddChar
	TypeLeafEntireWord NodeType = BitAddChar | BitEntireWord
	TypeInternal       NodeType = BitInternal
	TypeInternalSuffix NodeType = BitInternal | BitAddChar
)

// IsRule reports whether t is a rule record, ignoring the entire-word bit.
func (t NodeType) IsRule() bool { return t&^BitEntireWord == TypeRule }

// HasSuffix reports whether t guards a literal suffix (ADD_CHAR).
func (t NodeType) HasSuffix() bool { return t&BitAddChar != 0 }

// IsInternal reports whether t carries a hash table of children.
func (t NodeType) IsInternal() bool { return t&BitInternal != 0 }

// IsEntireWord reports whether t only applies when the whole word was matched.
func (t NodeType) IsEntireWord() bool { return t&BitEntireWord != 0 }

// Valid reports whether t is one of the six node variants.
func (t NodeType) Valid() bool {
	switch t {
	case TypeRule, TypeRuleEntireWord, TypeLeaf, TypeLeafEntireWord, TypeInternal, TypeInternalSuffix:
		return true
	}
	return false
}

// String returns a short name for the variant, or "invalid".
func (t NodeType) String() string {
	switch t {
	case TypeRule:
		return "rule"
	case TypeRuleEntireWord:
		return "rule(entire-word)"
	case TypeLeaf:
		return "leaf"
	case TypeLeafEntireWord:
		return "leaf(entire-word)"
	case TypeInternal:
		return "internal"
	case TypeInternalSuffix:
		return "internal(suffix)"
	}
	return "invalid"
}

var (
	ErrModelNotLoaded    = errors.New("lemmagen: no model loaded")
	ErrTruncatedInput    = errors.New("lemmagen: model stream is truncated")
	ErrUnreadableModel   = errors.New("lemmagen: model source is unreadable")
	ErrInvalidRule       = errors.New("lemmagen: invalid rule")
	ErrAddressOutOfRange = errors.New("lemmagen: address out of range")
	ErrInvalidNode       = errors.New("lemmagen: invalid node")
	ErrInvalidWord       = errors.New("lemmagen: invalid word")

	ErrSlotCollision = errors.New("lemmagen: hash slot already taken")
	ErrReservedChar  = errors.New("lemmagen: character 0 is reserved for the entire-word slot")
	ErrFieldOverflow = errors.New("lemmagen: value does not fit its length field")

	ErrUnsupportedLanguage = errors.New("lemmagen: language not supported")
)
