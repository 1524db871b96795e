package lemmagen

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T, opts ...RegistryOption) *Registry {
	t.Helper()
	reg, err := NewRegistry(t.TempDir(), opts...)
	require.NoError(t, err)
	return reg
}

func TestNewRegistryErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewRegistry(filepath.Join(dir, "missing"))
	require.Error(t, err)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewRegistry(file)
	require.ErrorContains(t, err, "not a directory")

	_, err = NewRegistry(dir, WithCacheSize(0))
	require.Error(t, err)
}

func TestRegistryInstallAndLemmatize(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.Install("en", catsModel(t)))

	lemma, err := reg.Lemmatize("en", "cats")
	require.NoError(t, err)
	require.Equal(t, "cat", lemma)

	_, err = os.Stat(filepath.Join(reg.Dir(), "en"+ModelExt))
	require.NoError(t, err)

	_, err = reg.Lemmatize("en", "")
	require.ErrorIs(t, err, ErrInvalidWord)
}

func TestRegistryLanguages(t *testing.T) {
	reg := testRegistry(t)

	langs, err := reg.Languages()
	require.NoError(t, err)
	require.Empty(t, langs)

	for _, lang := range []string{"fr", "en", "de-AT"} {
		require.NoError(t, reg.Install(lang, catsModel(t)))
	}
	dir := reg.Dir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad code.bin"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.bin"), 0o755))

	langs, err = reg.Languages()
	require.NoError(t, err)
	require.Equal(t, []string{"de-AT", "en", "fr"}, langs)
}

func TestRegistryUnsupported(t *testing.T) {
	reg := testRegistry(t)

	for _, lang := range []string{"zz", "", "../en", "en/us", "e n"} {
		_, err := reg.Model(lang)
		assert.ErrorIs(t, err, ErrUnsupportedLanguage, "lang %q", lang)
	}
	require.ErrorIs(t, reg.Install("../en", catsModel(t)), ErrUnsupportedLanguage)
}

func TestRegistryCorruptFile(t *testing.T) {
	reg := testRegistry(t)
	path, err := reg.Path("xx")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte{40, 0, 0, 0, 1}, 0o644))

	_, err = reg.Model("xx")
	require.ErrorIs(t, err, ErrTruncatedInput)
	require.NotErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestRegistryInstallEmpty(t *testing.T) {
	reg := testRegistry(t)
	require.ErrorIs(t, reg.Install("en", Empty()), ErrModelNotLoaded)
	require.ErrorIs(t, reg.Install("en", nil), ErrModelNotLoaded)
}

func TestRegistryCaching(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.Install("en", catsModel(t)))

	m1, err := reg.Model("en")
	require.NoError(t, err)
	m2, err := reg.Model("en")
	require.NoError(t, err)
	require.Same(t, m1, m2)

	// A file replaced behind the registry's back is not seen until Purge.
	path, err := reg.Path("en")
	require.NoError(t, err)
	require.NoError(t, iesModel(t).WriteFile(path))

	lemma, err := reg.Lemmatize("en", "flies")
	require.NoError(t, err)
	require.Equal(t, "flie", lemma)

	reg.Purge()
	lemma, err = reg.Lemmatize("en", "flies")
	require.NoError(t, err)
	require.Equal(t, "fly", lemma)

	// Install drops the cached copy itself.
	require.NoError(t, reg.Install("en", hesModel(t)))
	lemma, err = reg.Lemmatize("en", "wishes")
	require.NoError(t, err)
	require.Equal(t, "wish", lemma)
}

func TestRegistryEviction(t *testing.T) {
	reg := testRegistry(t, WithCacheSize(1))
	require.NoError(t, reg.Install("en", catsModel(t)))
	require.NoError(t, reg.Install("fr", catsModel(t)))

	en, err := reg.Model("en")
	require.NoError(t, err)
	_, err = reg.Model("fr")
	require.NoError(t, err)

	again, err := reg.Model("en")
	require.NoError(t, err)
	require.NotSame(t, en, again)
	require.Equal(t, en.Bytes(), again.Bytes())
}

func TestRegistryConcurrentLoad(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.Install("en", catsModel(t)))

	const n = 8
	models := make([]*Model, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := reg.Model("en")
			assert.NoError(t, err)
			models[i] = m
		}()
	}
	wg.Wait()

	for _, m := range models[1:] {
		require.Same(t, models[0], m)
	}
}

func TestRegistryLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "test",
		Level:  hclog.Debug,
		Output: &buf,
	})
	reg := testRegistry(t, WithLogger(logger))

	require.NoError(t, reg.Install("en", catsModel(t)))
	_, err := reg.Model("en")
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "test.registry")
	require.Contains(t, out, "model installed")
	require.Contains(t, out, "model loaded")
}
