package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileStartsEmpty(t *testing.T) {
	tc := NewTranslationCache(filepath.Join(t.TempDir(), "absent.json"))
	tc.Load()
	if tc.Len() != 0 {
		t.Errorf("Len = %d after loading missing file", tc.Len())
	}
}

func TestLoad_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	tc := NewTranslationCache(path)
	tc.Load()
	if tc.Len() != 0 {
		t.Errorf("Len = %d after loading corrupt file", tc.Len())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	tc := NewTranslationCache(path)
	tc.Set("Sleep and Memory", "睡眠と記憶")
	tc.Set("Attention in Adults", "成人における注意")
	if err := tc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewTranslationCache(path)
	reloaded.Load()
	if reloaded.Len() != 2 {
		t.Fatalf("Len = %d after reload, want 2", reloaded.Len())
	}
	if got, ok := reloaded.Get("Sleep and Memory"); !ok || got != "睡眠と記憶" {
		t.Errorf("Get = %q, %v", got, ok)
	}
}

func TestSave_WritesLiteralUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	tc := NewTranslationCache(path)
	tc.Set("Sleep & Memory", "睡眠と記憶")
	if err := tc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "睡眠と記憶") {
		t.Errorf("cache file escapes Japanese text: %s", data)
	}
	if strings.Contains(string(data), "\\u0026") {
		t.Errorf("cache file HTML-escapes ampersand: %s", data)
	}
}

func TestGet_ExactStringKey(t *testing.T) {
	tc := NewTranslationCache(filepath.Join(t.TempDir(), "cache.json"))
	tc.Set("Sleep and Memory", "睡眠と記憶")

	if _, ok := tc.Get("sleep and memory"); ok {
		t.Error("lookup must be case-sensitive")
	}
	if _, ok := tc.Get(" Sleep and Memory"); ok {
		t.Error("lookup must not trim whitespace")
	}
}
