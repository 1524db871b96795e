package lemmagen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru"
)

// ModelExt is the file extension of model files inside a registry directory.
const ModelExt = ".bin"

// DefaultCacheSize is the number of models a Registry keeps loaded.
const DefaultCacheSize = 8

var langRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Registry serves the models stored as <lang>.bin files in one directory.
// Models are loaded on first use and kept in a bounded LRU cache.
type Registry struct {
	dir    string
	logger hclog.Logger
	models *lru.Cache

	// loadMu serialises loads so a language is read from disk once.
	loadMu sync.Mutex
}

type RegistryOption func(*registryOptions)

type registryOptions struct {
	logger    hclog.Logger
	cacheSize int
}

// WithLogger sets the logger used for load and eviction events.
func WithLogger(logger hclog.Logger) RegistryOption {
	return func(o *registryOptions) { o.logger = logger }
}

// WithCacheSize bounds the number of models held in memory.
func WithCacheSize(n int) RegistryOption {
	return func(o *registryOptions) { o.cacheSize = n }
}

// NewRegistry returns a Registry over the model files in dir.
func NewRegistry(dir string, opts ...RegistryOption) (*Registry, error) {
	o := registryOptions{
		logger:    hclog.NewNullLogger(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("model directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("model directory %s is not a directory", dir)
	}

	r := &Registry{
		dir:    dir,
		logger: o.logger.Named("registry"),
	}
	r.models, err = lru.NewWithEvict(o.cacheSize, func(key, _ interface{}) {
		r.logger.Debug("model evicted", "lang", key)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Dir returns the directory the registry reads from.
func (r *Registry) Dir() string { return r.dir }

// Path returns the file a model for lang is read from and installed to.
func (r *Registry) Path(lang string) (string, error) {
	if !langRe.MatchString(lang) {
		return "", fmt.Errorf("%w: malformed language code %q", ErrUnsupportedLanguage, lang)
	}
	return filepath.Join(r.dir, lang+ModelExt), nil
}

// Languages returns the sorted codes of all languages with a model file.
func (r *Registry) Languages() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	var langs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ModelExt) {
			continue
		}
		if lang := strings.TrimSuffix(name, ModelExt); langRe.MatchString(lang) {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs, nil
}

// Model returns the model for lang, loading it if it is not cached.
func (r *Registry) Model(lang string) (*Model, error) {
	if m, ok := r.models.Get(lang); ok {
		metrics.IncrCounter([]string{"lemmagen", "registry", "hit"}, 1)
		return m.(*Model), nil
	}

	path, err := r.Path(lang)
	if err != nil {
		return nil, err
	}

	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	// Another caller may have loaded it while we waited.
	if m, ok := r.models.Get(lang); ok {
		metrics.IncrCounter([]string{"lemmagen", "registry", "hit"}, 1)
		return m.(*Model), nil
	}
	metrics.IncrCounter([]string{"lemmagen", "registry", "miss"}, 1)

	start := time.Now()
	m, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
		}
		r.logger.Error("failed to load model", "lang", lang, "path", path, "error", err)
		return nil, err
	}
	metrics.MeasureSince([]string{"lemmagen", "registry", "load"}, start)
	r.logger.Debug("model loaded", "lang", lang, "bytes", m.Size(), "duration", time.Since(start))

	r.models.Add(lang, m)
	return m, nil
}

// Lemmatize lemmatizes word with the model for lang.
func (r *Registry) Lemmatize(lang, word string) (string, error) {
	m, err := r.Model(lang)
	if err != nil {
		return "", err
	}
	return m.Lemmatize(word)
}

// Install writes m as the model for lang, replacing any existing file
// atomically, and drops the cached copy.
func (r *Registry) Install(lang string, m *Model) error {
	if m.IsEmpty() {
		return ErrModelNotLoaded
	}
	path, err := r.Path(lang)
	if err != nil {
		return err
	}

	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	if err := m.WriteFile(path); err != nil {
		return fmt.Errorf("install %s: %w", lang, err)
	}
	r.models.Remove(lang)
	r.logger.Info("model installed", "lang", lang, "path", path, "bytes", m.Size())
	return nil
}

// Purge drops every cached model.
func (r *Registry) Purge() {
	r.models.Purge()
}
