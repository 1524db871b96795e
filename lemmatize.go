package lemmagen

import (
	"fmt"
	"strings"
)

// checkWord enforces the limits of the single-byte length fields.
func checkWord(word string) error {
	switch {
	case word == "":
		return fmt.Errorf("%w: empty", ErrInvalidWord)
	case len(word) > MaxWordLen:
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidWord, len(word), MaxWordLen)
	case strings.IndexByte(word, 0) >= 0:
		return fmt.Errorf("%w: contains NUL", ErrInvalidWord)
	}
	return nil
}

// Lemmatize returns the lemma of word according to m.
func (m *Model) Lemmatize(word string) (string, error) {
	if m.IsEmpty() {
		return "", ErrModelNotLoaded
	}
	if err := checkWord(word); err != nil {
		return "", err
	}

	ruleAddr, err := m.match(word)
	if err != nil {
		return "", fmt.Errorf("lemmatize %q: %w", word, err)
	}
	r, err := m.rule(ruleAddr)
	if err != nil {
		return "", fmt.Errorf("lemmatize %q: %w", word, err)
	}

	stemLen := len(word) - r.fromLen
	if stemLen < 0 {
		return "", fmt.Errorf("%w: rule at %d strips %d chars from %d char word %q",
			ErrInvalidRule, ruleAddr, r.fromLen, len(word), word)
	}

	var b strings.Builder
	b.Grow(stemLen + len(r.to))
	b.WriteString(word[:stemLen])
	b.Write(r.to)
	return b.String(), nil
}

// match walks the tree from the root, reading word from its last character
// towards its first, and returns the address of the rule that applies.
func (m *Model) match(word string) (Addr, error) {
	var (
		cursor, parent Addr
		pos            = len(word) // one past the last unconsumed character
	)
	n, err := m.node(cursor)
	if err != nil {
		return 0, err
	}

	// Every iteration either consumes at least one character or exits.
	for {
		if n.typ.HasSuffix() {
			pos -= len(n.suffix)
			if pos < 0 || !suffixMatches(word, pos, n.suffix) {
				// Reached in error: the parent's rule is the answer.
				cursor = parent
				if n, err = m.node(cursor); err != nil {
					return 0, err
				}
				break
			}
			if !n.typ.IsInternal() {
				break
			}
		}

		pos--
		if pos < 0 {
			// Whole word consumed; look for an entire-word entry in slot 0.
			if n.typ.IsInternal() {
				if c, child := n.slot(0); c == 0 && child != 0 {
					parent, cursor = cursor, child
					if n, err = m.node(cursor); err != nil {
						return 0, err
					}
					pos++
				}
			}
			break
		}

		if !n.typ.IsInternal() {
			break
		}

		c := word[pos]
		next := n.rule
		if stored, child := n.slot(int(c) % n.hashSize); stored == c {
			next = child
		}
		parent, cursor = cursor, next
		if n, err = m.node(cursor); err != nil {
			return 0, err
		}
		if n.typ.IsRule() {
			break
		}
	}

	// An entire-word node only applies when the match reached the first character.
	if n.typ.IsEntireWord() && pos != 0 {
		cursor = parent
		if n, err = m.node(cursor); err != nil {
			return 0, err
		}
	}

	if n.typ.IsRule() {
		return cursor, nil
	}
	return n.rule, nil
}

// suffixMatches compares lit against word[pos:pos+len(lit)], last character first.
func suffixMatches(word string, pos int, lit []byte) bool {
	if pos+len(lit) > len(word) {
		return false
	}
	for i := len(lit) - 1; i >= 0; i-- {
		if word[pos+i] != lit[i] {
			return false
		}
	}
	return true
}
