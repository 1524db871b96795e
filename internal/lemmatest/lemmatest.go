// Package lemmatest builds small models for tests of the lemmagen commands
// and server.
package lemmatest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cours-de-latin/lemmagen"
)

// Cats returns a model that strips a trailing 's' ("cats" -> "cat") and maps
// the whole word "is" to "be". Every other word is its own lemma.
func Cats(t testing.TB) *lemmagen.Model {
	t.Helper()
	e := lemmagen.NewEncoder()

	root, err := e.Internal(0, "", 7)
	require.NoError(t, err)
	identity, err := e.Rule(false, 0, "")
	require.NoError(t, err)
	require.NoError(t, e.SetRule(root, identity))
	stripS, err := e.Rule(false, 1, "")
	require.NoError(t, err)

	s, err := e.Internal(stripS, "", 4)
	require.NoError(t, err)
	require.NoError(t, e.SetChild(root, 's', s))

	is, err := e.Internal(stripS, "", 3)
	require.NoError(t, err)
	require.NoError(t, e.SetChild(s, 'i', is))
	be, err := e.Rule(true, 2, "be")
	require.NoError(t, err)
	require.NoError(t, e.SetEntireWord(is, be))

	return e.Model()
}

// WriteFile writes m to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, m *lemmagen.Model) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, m.WriteFile(path))
	return path
}

// Install stores m as the model for lang in the registry directory dir.
func Install(t testing.TB, dir, lang string, m *lemmagen.Model) {
	t.Helper()
	WriteFile(t, dir, lang+lemmagen.ModelExt, m)
}
