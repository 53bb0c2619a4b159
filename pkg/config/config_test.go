package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/seqserve/pkg/tokenize"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Engine.TextMode != "char" || cfg.Engine.MelodyEncoding != "interval" {
		t.Errorf("engine defaults = %+v", cfg.Engine)
	}
	if cfg.Engine.CacheEntries != 4096 {
		t.Errorf("CacheEntries = %d, want 4096", cfg.Engine.CacheEntries)
	}
	if cfg.Server.MaxLimit != 64 || cfg.Server.MinPrefix != 1 || cfg.Server.MaxPrefix != 60 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.TextMode() != tokenize.ModeChar {
		t.Errorf("TextMode() = %v, want ModeChar", cfg.TextMode())
	}
	if cfg.MelodyEncoding() != tokenize.EncodingInterval {
		t.Errorf("MelodyEncoding() = %v, want EncodingInterval", cfg.MelodyEncoding())
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
[engine]
text_mode = "word"
melody_encoding = "pitch"
cache_entries = 128

[server]
max_limit = 10
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TextMode() != tokenize.ModeWord {
		t.Errorf("TextMode() = %v, want ModeWord", cfg.TextMode())
	}
	if cfg.MelodyEncoding() != tokenize.EncodingPitchClass {
		t.Errorf("MelodyEncoding() = %v, want EncodingPitchClass", cfg.MelodyEncoding())
	}
	if cfg.Engine.CacheEntries != 128 {
		t.Errorf("CacheEntries = %d, want 128", cfg.Engine.CacheEntries)
	}
	if cfg.Server.MaxLimit != 10 {
		t.Errorf("MaxLimit = %d, want 10", cfg.Server.MaxLimit)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Server.MaxPrefix != 60 {
		t.Errorf("MaxPrefix = %d, want default 60", cfg.Server.MaxPrefix)
	}
	if cfg.CLI.DefaultLimit != 24 {
		t.Errorf("DefaultLimit = %d, want default 24", cfg.CLI.DefaultLimit)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// The engine section is fine, the server section is broken; the good
	// section should still be recovered.
	path := writeConfigFile(t, `
[engine]
text_mode = "word"

[server]
max_limit = "not a number"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.TextMode != "word" {
		t.Errorf("TextMode = %q, want word recovered from partial parse", cfg.Engine.TextMode)
	}
	if cfg.Server.MaxLimit != 64 {
		t.Errorf("MaxLimit = %d, want default 64 after bad value", cfg.Server.MaxLimit)
	}
}

func TestUnknownPolicyFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.TextMode = "hieroglyphs"
	cfg.Engine.MelodyEncoding = "morse"
	if cfg.TextMode() != tokenize.ModeChar {
		t.Errorf("TextMode() = %v for unknown mode, want ModeChar", cfg.TextMode())
	}
	if cfg.MelodyEncoding() != tokenize.EncodingInterval {
		t.Errorf("MelodyEncoding() = %v for unknown encoding, want EncodingInterval", cfg.MelodyEncoding())
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Engine.TextMode = "word"
	cfg.Server.MaxLimit = 32

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Engine.TextMode != "word" || loaded.Server.MaxLimit != 32 {
		t.Errorf("reloaded config = %+v / %+v", loaded.Engine, loaded.Server)
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfigFile(t, `
[engine]
text_mode = "word"
`)
	cfg, activePath, err := LoadConfigWithPriority(path)
	if err != nil {
		t.Fatal(err)
	}
	if activePath != path {
		t.Errorf("active path = %q, want %q", activePath, path)
	}
	if cfg.Engine.TextMode != "word" {
		t.Errorf("TextMode = %q, want word", cfg.Engine.TextMode)
	}
}
