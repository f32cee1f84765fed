package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/psyarxivbot/psyfeed/internal/bluesky"
	"github.com/psyarxivbot/psyfeed/internal/cfg"
	"github.com/psyarxivbot/psyfeed/internal/feed"
	"github.com/psyarxivbot/psyfeed/internal/logger"
	"github.com/psyarxivbot/psyfeed/internal/metadata"
	"github.com/psyarxivbot/psyfeed/internal/metrics"
	"github.com/psyarxivbot/psyfeed/internal/preprint"
	"github.com/psyarxivbot/psyfeed/internal/storage"
	"github.com/psyarxivbot/psyfeed/internal/translate"
)

// Run executes one batch: walk the author feed, reduce mentions to the
// most recent per preprint, enrich each survivor with a translated title,
// and write the RSS document. Per-entry failures degrade that entry; a
// failed feed walk degrades the run to the placeholder pair. Only
// configuration and filesystem problems abort the run.
func Run(c *cfg.Config) error {
	ctx := context.Background()
	runStart := time.Now().UTC()

	channelCfg, err := feed.LoadChannelConfig(c.ChannelConfigPath)
	if err != nil {
		return fmt.Errorf("loading channel config: %w", err)
	}

	cache := storage.NewTranslationCache(c.CachePath)
	cache.Load()

	httpClient := &http.Client{Timeout: c.RequestTimeout}

	var service translate.Service
	if c.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, titles stay in English")
	} else {
		client, err := translate.NewGeminiClient(ctx, c.GeminiAPIKey, c.GeminiModel)
		if err != nil {
			logger.Warn("could not create Gemini client, titles stay in English", "err", err)
		} else {
			defer client.Close()
			service = client
		}
	}
	translator := translate.NewTitleTranslator(cache, service, c.MaxTranslations)

	normalizer := preprint.NewNormalizer(httpClient)
	resolver := &metadata.Resolver{
		APIBase: c.MetadataAPIURL,
		Order:   c.TitleSources,
		Client:  httpClient,
		PageURL: normalizer.PageURL,
	}

	entries := collectEntries(ctx, c, normalizer, resolver, translator, runStart)

	if len(entries) == 0 && c.UsePlaceholders {
		logger.Warn("pipeline produced no entries, emitting placeholder pair")
		entries = feed.PlaceholderEntries(channelCfg, runStart)
	}

	doc := feed.BuildRSS(channelCfg, entries)
	if dir := filepath.Dir(c.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(c.OutputPath, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing feed: %w", err)
	}

	if err := cache.Save(); err != nil {
		logger.Warn("could not save translation cache", "err", err)
	}

	logger.Info("run complete", metrics.Global.LogArgs()...)
	fmt.Printf("wrote %s (%d items)\n", c.OutputPath, len(entries))
	return nil
}

// collectEntries runs extraction through enrichment. A feed transport
// failure returns zero entries; the caller then falls through to the
// placeholder path rather than aborting.
func collectEntries(ctx context.Context, c *cfg.Config, normalizer *preprint.Normalizer, resolver *metadata.Resolver, translator *translate.TitleTranslator, runStart time.Time) []feed.Entry {
	client := bluesky.NewClient(c.FeedAPIURL, c.Actor, c.PageSize, c.RequestTimeout)
	posts, err := client.FetchPosts(ctx, c.MaxPosts)
	if err != nil {
		logger.Error("feed fetch failed", "actor", c.Actor, "err", err)
		return nil
	}
	metrics.Global.AddPostsFetched(len(posts))

	var observations []preprint.Observation
	for _, post := range posts {
		urls := bluesky.ExtractURLs(post)
		metrics.Global.AddURLsExtracted(len(urls))
		seenAt := post.Record.CreatedAtTime(runStart)
		for _, raw := range urls {
			id, ok := normalizer.Normalize(raw)
			if !ok {
				continue
			}
			observations = append(observations, preprint.Observation{
				ID:        id,
				SeenAt:    seenAt,
				PostText:  post.Record.Text,
				SourceURL: raw,
			})
		}
	}
	metrics.Global.AddObservations(len(observations))

	index := preprint.Reduce(observations)
	top := index.Top(c.MaxItems)
	logger.Info("reduced mentions", "observations", len(observations), "unique", len(index), "selected", len(top))

	entries := make([]feed.Entry, 0, len(top))
	for i, entry := range top {
		meta := resolver.Resolve(ctx, entry)
		jaTitle := translator.Translate(ctx, meta.Title)
		description := metadata.FormatAuthors(meta.Authors, c.AuthorDisplayLimit)
		entries = append(entries, feed.NewEntry(jaTitle, meta.Title, normalizer.PageURL(entry.ID), entry.SeenAt, description))

		// pause between per-entry enrichment calls, don't hammer the
		// metadata source
		if i < len(top)-1 {
			time.Sleep(c.RequestDelay)
		}
	}
	return entries
}
