package translate

import (
	"context"
	"strings"

	"github.com/psyarxivbot/psyfeed/internal/logger"
	"github.com/psyarxivbot/psyfeed/internal/metrics"
	"github.com/psyarxivbot/psyfeed/internal/storage"
)

// Service is the translation backend contract.
type Service interface {
	TranslateTitle(ctx context.Context, title string) (string, error)
}

// TitleTranslator returns Japanese titles, consulting the persistent cache
// before spending a paid translation call. Translation is the most
// expensive operation per entry, so the cache check comes first always.
type TitleTranslator struct {
	cache    *storage.TranslationCache
	service  Service
	maxCalls int // 0 = unlimited
	calls    int
}

// NewTitleTranslator wires the cache to a backend. A nil service disables
// translation entirely; titles then pass through unchanged.
func NewTitleTranslator(cache *storage.TranslationCache, service Service, maxCalls int) *TitleTranslator {
	return &TitleTranslator{cache: cache, service: service, maxCalls: maxCalls}
}

// Translate returns the Japanese title for an English one. On any failure
// (backend error, empty output, the model echoing the English back) the
// English title is returned unchanged and nothing is cached, so a later
// run can still translate it.
func (t *TitleTranslator) Translate(ctx context.Context, title string) string {
	if title == "" {
		return title
	}

	if cached, ok := t.cache.Get(title); ok {
		metrics.Global.IncrementCacheHit()
		logger.Debug("translation cache hit", "title", title)
		return cached
	}
	metrics.Global.IncrementCacheMiss()

	if t.service == nil {
		return title
	}
	if t.maxCalls > 0 && t.calls >= t.maxCalls {
		logger.Warn("translation call budget exhausted, keeping English title", "title", title)
		return title
	}

	t.calls++
	metrics.Global.IncrementTranslationCall()
	translated, err := t.service.TranslateTitle(ctx, title)
	if err != nil {
		metrics.Global.IncrementFailedTranslation()
		logger.Warn("translation failed, keeping English title", "title", title, "err", err)
		return title
	}
	if translated == "" || strings.EqualFold(strings.TrimSpace(translated), strings.TrimSpace(title)) {
		metrics.Global.IncrementFailedTranslation()
		logger.Warn("translation came back unusable, keeping English title", "title", title)
		return title
	}

	t.cache.Set(title, translated)
	logger.Debug("translated title", "title", title, "translated", translated)
	return translated
}
