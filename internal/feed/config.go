package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChannelConfig describes the output channel plus the placeholder entries
// substituted when the pipeline produces nothing.
type ChannelConfig struct {
	Channel struct {
		Title       string `yaml:"title"`
		Link        string `yaml:"link"`
		Description string `yaml:"description"`
		Language    string `yaml:"language"`
	} `yaml:"channel"`
	Placeholders []Placeholder `yaml:"placeholders"`
}

// Placeholder is a fixed dummy-domain entry that keeps the feed visibly
// alive during failure windows.
type Placeholder struct {
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
}

// DefaultChannelConfig matches the published feed so a missing config file
// is never fatal.
func DefaultChannelConfig() ChannelConfig {
	var c ChannelConfig
	c.Channel.Title = "PsyArXiv bot (日本語タイトル付き)"
	c.Channel.Link = "https://bsky.app/profile/psyarxivbot.bsky.social"
	c.Channel.Description = "PsyArXivの新着プレプリントを日本語タイトル付きで配信するRSSフィード"
	c.Channel.Language = "ja"
	c.Placeholders = []Placeholder{
		{Title: "テスト論文その1 (Test paper one)", Link: "https://example.com/paper-1"},
		{Title: "テスト論文その2 (Test paper two)", Link: "https://example.com/paper-2"},
	}
	return c
}

// LoadChannelConfig reads the YAML channel config, falling back to the
// built-in defaults when the file does not exist.
func LoadChannelConfig(path string) (ChannelConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultChannelConfig(), nil
		}
		return ChannelConfig{}, err
	}
	defer f.Close()

	cfg := DefaultChannelConfig()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return ChannelConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
