package metrics

import "sync"

// RunStats collects counters for one batch run.
type RunStats struct {
	mu sync.Mutex

	PostsFetched       int64
	URLsExtracted      int64
	Observations       int64
	CacheHits          int64
	CacheMisses        int64
	TranslationCalls   int64
	FailedTranslations int64
}

var Global = &RunStats{}

func (m *RunStats) AddPostsFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsFetched += int64(n)
}

func (m *RunStats) AddURLsExtracted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.URLsExtracted += int64(n)
}

func (m *RunStats) AddObservations(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Observations += int64(n)
}

func (m *RunStats) IncrementCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *RunStats) IncrementCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *RunStats) IncrementTranslationCall() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationCalls++
}

func (m *RunStats) IncrementFailedTranslation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedTranslations++
}

// LogArgs renders the counters as slog key-value pairs for the run summary.
func (m *RunStats) LogArgs() []any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return []any{
		"posts", m.PostsFetched,
		"urls", m.URLsExtracted,
		"observations", m.Observations,
		"cache_hits", m.CacheHits,
		"cache_misses", m.CacheMisses,
		"translation_calls", m.TranslationCalls,
		"failed_translations", m.FailedTranslations,
	}
}
