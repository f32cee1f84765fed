package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/psyarxivbot/psyfeed/internal/logger"
)

// TranslationCache persists title translations as a flat JSON object keyed
// by the exact English title text. Lookups are exact-string: whitespace or
// casing differences miss on purpose, since titles are resolved from the
// same source each run.
type TranslationCache struct {
	filePath string
	entries  map[string]string
	mu       sync.RWMutex
}

func NewTranslationCache(filePath string) *TranslationCache {
	return &TranslationCache{
		filePath: filePath,
		entries:  make(map[string]string),
	}
}

// Load reads the cache file. A missing or corrupt file starts an empty
// cache: losing the cache costs repeat translations, never correctness.
func (tc *TranslationCache) Load() {
	data, err := os.ReadFile(tc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("could not read translation cache, starting empty", "path", tc.filePath, "err", err)
		}
		return
	}
	if len(data) == 0 {
		return
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("translation cache is corrupt, starting empty", "path", tc.filePath, "err", err)
		return
	}

	tc.mu.Lock()
	tc.entries = entries
	tc.mu.Unlock()
	logger.Debug("loaded translation cache", "path", tc.filePath, "entries", len(entries))
}

// Save rewrites the cache file wholesale. Values are written as literal
// UTF-8 so Japanese text round-trips readably.
func (tc *TranslationCache) Save() error {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tc.entries); err != nil {
		return fmt.Errorf("failed to marshal translation cache: %w", err)
	}

	if err := os.WriteFile(tc.filePath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write translation cache: %w", err)
	}
	return nil
}

func (tc *TranslationCache) Get(key string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	value, ok := tc.entries[key]
	return value, ok
}

func (tc *TranslationCache) Set(key, value string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.entries[key] = value
}

func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.entries)
}
