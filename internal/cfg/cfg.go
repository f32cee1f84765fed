package cfg

import (
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Config is the fully resolved run configuration. It is passed explicitly
// into each component; there is no global accessor.
type Config struct {
	Actor          string
	FeedAPIURL     string
	MetadataAPIURL string

	GeminiAPIKey    string
	GeminiModel     string
	MaxTranslations int

	OutputPath        string
	CachePath         string
	ChannelConfigPath string

	MaxPosts           int
	PageSize           int
	MaxItems           int
	AuthorDisplayLimit int
	TitleSources       []string

	RequestTimeout  time.Duration
	RequestDelay    time.Duration
	UsePlaceholders bool
	Debug           bool
}

type rawConfig struct {
	Actor          string `long:"actor" env:"BSKY_ACTOR" default:"psyarxivbot.bsky.social" description:"Bluesky actor whose feed is converted"`
	FeedAPIURL     string `long:"feed-api" env:"FEED_API_URL" default:"https://public.api.bsky.app/xrpc/app.bsky.feed.getAuthorFeed" description:"Author feed endpoint"`
	MetadataAPIURL string `long:"metadata-api" env:"METADATA_API_URL" default:"https://api.osf.io/v2/preprints" description:"Preprint metadata API base"`

	GeminiAPIKey    string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key; when empty, titles stay in English"`
	GeminiModel     string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model used for title translation"`
	MaxTranslations int    `long:"max-translations" env:"MAX_TRANSLATIONS" default:"0" description:"Cap on translation calls per run (0 = unlimited, cache hits are free)"`

	OutputPath        string `long:"output" env:"OUTPUT_PATH" default:"docs/feed.xml" description:"Path of the generated RSS document"`
	CachePath         string `long:"cache" env:"CACHE_PATH" default:"title_cache.json" description:"Path of the persistent translation cache"`
	ChannelConfigPath string `long:"channel-config" env:"CHANNEL_CONFIG_PATH" default:"configs/feed.yaml" description:"Channel metadata YAML (built-in defaults when missing)"`

	MaxPosts           int    `long:"max-posts" env:"MAX_POSTS" default:"100" description:"Maximum feed records to walk"`
	PageSize           int    `long:"page-size" env:"PAGE_SIZE" default:"50" description:"Feed page size"`
	MaxItems           int    `long:"max-items" env:"MAX_ITEMS" default:"60" description:"Maximum items in the output feed"`
	AuthorDisplayLimit int    `long:"author-limit" env:"AUTHOR_DISPLAY_LIMIT" default:"3" description:"Authors shown before the et al. marker"`
	TitleSources       string `long:"title-sources" env:"TITLE_SOURCES" default:"api,scrape,post" description:"Metadata resolution order"`

	TimeoutSeconds int  `long:"request-timeout" env:"REQUEST_TIMEOUT_SECONDS" default:"15" description:"Per-request timeout in seconds"`
	DelayMillis    int  `long:"request-delay" env:"REQUEST_DELAY_MS" default:"500" description:"Delay between per-entry enrichment calls in milliseconds"`
	NoPlaceholders bool `long:"no-placeholders" env:"NO_PLACEHOLDERS" description:"Emit an empty item list instead of the placeholder pair when nothing survives"`
	Debug          bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses flags and environment. A nil Config with a nil error means
// help was requested.
func Load(args []string) (*Config, error) {
	var raw rawConfig

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	c := &Config{
		Actor:          raw.Actor,
		FeedAPIURL:     raw.FeedAPIURL,
		MetadataAPIURL: strings.TrimRight(raw.MetadataAPIURL, "/"),

		GeminiAPIKey:    raw.GeminiAPIKey,
		GeminiModel:     raw.GeminiModel,
		MaxTranslations: raw.MaxTranslations,

		OutputPath:        raw.OutputPath,
		CachePath:         raw.CachePath,
		ChannelConfigPath: raw.ChannelConfigPath,

		MaxPosts:           raw.MaxPosts,
		PageSize:           raw.PageSize,
		MaxItems:           raw.MaxItems,
		AuthorDisplayLimit: raw.AuthorDisplayLimit,
		TitleSources:       splitSources(raw.TitleSources),

		RequestTimeout:  time.Duration(raw.TimeoutSeconds) * time.Second,
		RequestDelay:    time.Duration(raw.DelayMillis) * time.Millisecond,
		UsePlaceholders: !raw.NoPlaceholders,
		Debug:           raw.Debug,
	}

	return c, c.Validate()
}

func splitSources(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Actor == "" {
		return fmt.Errorf("actor is required")
	}
	if c.MaxPosts <= 0 {
		return fmt.Errorf("max-posts must be positive")
	}
	if c.MaxItems <= 0 {
		return fmt.Errorf("max-items must be positive")
	}
	if len(c.TitleSources) == 0 {
		return fmt.Errorf("title-sources must name at least one source")
	}
	for _, s := range c.TitleSources {
		switch s {
		case "api", "scrape", "post":
		default:
			return fmt.Errorf("unknown title source %q", s)
		}
	}
	return nil
}
