package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/hotserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("InitConfig = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if *reloaded != *cfg {
		t.Errorf("reloaded %+v, want %+v", reloaded, cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeFile(t, `
[engine]
max_suggestions = 5
ranking = "bounded"
cache_size = 0

[corpus]
path = "corpus.txt"

[cli]
show_frequency = false
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.MaxSuggestions != 5 || cfg.Engine.Ranking != suggest.RankBounded || cfg.Engine.CacheSize != 0 {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Engine.MaxSentenceLength != 200 || !cfg.Engine.EnforceMaxLength {
		t.Errorf("unset engine keys lost their defaults: %+v", cfg.Engine)
	}
	if cfg.Corpus.Path != "corpus.txt" || cfg.CLI.ShowFrequency {
		t.Errorf("corpus/cli = %+v / %+v", cfg.Corpus, cfg.CLI)
	}

	opts := cfg.SessionOptions()
	if opts.MaxSuggestions != 5 || opts.Ranking != suggest.RankBounded {
		t.Errorf("SessionOptions = %+v", opts)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeFile(t, `
[engine]
max_suggestions = "three"
ranking = "bounded"

[server]
max_prefix = 40
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.MaxSuggestions != suggest.MaxSuggestions {
		t.Errorf("bad value kept: %d", cfg.Engine.MaxSuggestions)
	}
	if cfg.Engine.Ranking != suggest.RankBounded || cfg.Server.MaxPrefix != 40 {
		t.Errorf("valid values dropped: %+v %+v", cfg.Engine, cfg.Server)
	}
}

func TestLoadConfigSanitizes(t *testing.T) {
	path := writeFile(t, `
[engine]
max_suggestions = 0
max_sentence_length = -1
ranking = "random"
cache_size = -5
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig().Engine
	want.CacheSize = 0
	if cfg.Engine != want {
		t.Errorf("engine = %+v, want %+v", cfg.Engine, want)
	}
}

func TestLoadConfigGarbageFallsBack(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "this is [[ not toml"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("garbage config = %+v, want defaults", cfg)
	}
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeFile(t, "[engine]\nmax_suggestions = 7\n")
	cfg, used, err := LoadConfigWithPriority(path)
	if err != nil {
		t.Fatal(err)
	}
	if used != path || cfg.Engine.MaxSuggestions != 7 {
		t.Errorf("LoadConfigWithPriority = %+v from %q", cfg.Engine, used)
	}
}
