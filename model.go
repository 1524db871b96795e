package lemmagen

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rboyer/safeio"
)

// Model is a loaded decision structure: one immutable buffer of node records.
// A Model is safe for concurrent use once it has been returned by a constructor.
type Model struct {
	data []byte
}

// Empty returns the "no model loaded" sentinel. Lemmatizing against it fails
// with ErrModelNotLoaded.
func Empty() *Model {
	return &Model{}
}

// NewModel returns a Model over a copy of buf. buf holds raw node records
// without the length prefix.
func NewModel(buf []byte) *Model {
	return &Model{data: bytes.Clone(buf)}
}

// Load reads a length-prefixed model from r: a 4-byte little-endian length
// followed by exactly that many bytes. Trailing bytes are left unread.
func Load(r io.Reader) (*Model, error) {
	var prefix [prefixLen]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, loadErr(err, "length prefix")
	}
	n := binary.LittleEndian.Uint32(prefix[:])

	// The buffer grows with the bytes actually read, not the declared length.
	data, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, loadErr(err, "model body")
	}
	if uint64(len(data)) < uint64(n) {
		return nil, fmt.Errorf("%w: declared %d bytes, got %d", ErrTruncatedInput, n, len(data))
	}
	return &Model{data: data}, nil
}

func loadErr(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: short %s", ErrTruncatedInput, what)
	}
	return fmt.Errorf("%w: reading %s: %w", ErrUnreadableModel, what, err)
}

// LoadFile loads a model from the binary file at path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableModel, err)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Size returns the number of bytes in the model buffer.
func (m *Model) Size() int {
	if m == nil {
		return 0
	}
	return len(m.data)
}

// IsEmpty reports whether m is nil or the empty sentinel.
func (m *Model) IsEmpty() bool {
	return m.Size() == 0
}

// Bytes returns a copy of the raw node buffer.
func (m *Model) Bytes() []byte {
	if m == nil {
		return nil
	}
	return bytes.Clone(m.data)
}

// WriteTo serializes m in the format read by Load.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	var prefix [prefixLen]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(m.Size()))
	n, err := w.Write(prefix[:])
	if err != nil {
		return int64(n), err
	}
	if m.IsEmpty() {
		return int64(n), nil
	}
	n2, err := w.Write(m.data)
	return int64(n + n2), err
}

// WriteFile atomically replaces the file at path with the serialized model.
func (m *Model) WriteFile(path string) error {
	fh, err := safeio.OpenFile(path, 0o644)
	if err != nil {
		return err
	}
	defer fh.Close()

	if _, err := m.WriteTo(fh); err != nil {
		return err
	}
	return fh.Commit()
}
