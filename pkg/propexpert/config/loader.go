package config

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/propexpert/pkg/propexpert/kb"
)

// Loader reads a knowledge-base file and an optional config file and
// constructs the components the CLI runs against.
type Loader struct {
	KBPath     string
	ConfigPath string
}

// Components bundles a loaded knowledge base with its CLI configuration.
type Components struct {
	KB     *kb.KnowledgeBase
	Config CLIConfig
}

// Load reads l.KBPath and, if set, l.ConfigPath, returning the parsed
// Components.
func (l *Loader) Load() (*Components, error) {
	f, err := os.Open(l.KBPath)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base %q: %w", l.KBPath, err)
	}
	defer f.Close()

	kbase, err := kb.Load(f)
	if err != nil {
		return nil, fmt.Errorf("parse knowledge base %q: %w", l.KBPath, err)
	}

	cfg := DefaultCLIConfig()
	if l.ConfigPath != "" {
		cfg, err = LoadCLIConfig(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config %q: %w", l.ConfigPath, err)
		}
	}

	return &Components{KB: kbase, Config: cfg}, nil
}

// cacheKey identifies one (knowledge-base path, config path, knowledge-base
// mtime) triple. The knowledge-base mtime is included so editing the file
// on disk invalidates the cache entry instead of serving a stale parse.
type cacheKey struct {
	kbPath     string
	configPath string
	kbModTime  int64
}

// CachedLoader wraps Loader with an LRU cache keyed on file path and
// modification time, so the CLI's startup load and its interactive
// /reload command don't re-parse an unchanged knowledge base from disk.
// The config file's modification time is not part of the key.
type CachedLoader struct {
	cache *lru.Cache[cacheKey, *Components]
}

// NewCachedLoader builds a CachedLoader holding up to size recently used
// Components.
func NewCachedLoader(size int) (*CachedLoader, error) {
	cache, err := lru.New[cacheKey, *Components](size)
	if err != nil {
		return nil, fmt.Errorf("create component cache: %w", err)
	}
	return &CachedLoader{cache: cache}, nil
}

// Load returns cached Components for l's paths if the knowledge-base
// file's modification time matches a cached entry, otherwise loads fresh
// and caches the result.
func (c *CachedLoader) Load(l *Loader) (*Components, error) {
	info, err := os.Stat(l.KBPath)
	if err != nil {
		return nil, fmt.Errorf("stat knowledge base %q: %w", l.KBPath, err)
	}
	key := cacheKey{kbPath: l.KBPath, configPath: l.ConfigPath, kbModTime: info.ModTime().UnixNano()}

	if comp, ok := c.cache.Get(key); ok {
		return comp, nil
	}

	comp, err := l.Load()
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, comp)
	return comp, nil
}
