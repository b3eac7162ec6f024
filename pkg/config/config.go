/*
Package config manages TOML config for HotServe services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/hotserve/internal/utils"
	"github.com/bastiangx/hotserve/pkg/suggest"
	"github.com/bastiangx/hotserve/pkg/trie"
	"github.com/charmbracelet/log"
)

// AppDir is the directory name used under the user config dir.
const AppDir = "hotserve"

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Corpus CorpusConfig `toml:"corpus"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig has session and ranking options.
type EngineConfig struct {
	MaxSuggestions    int    `toml:"max_suggestions"`
	MaxSentenceLength int    `toml:"max_sentence_length"`
	EnforceMaxLength  bool   `toml:"enforce_max_length"`
	Ranking           string `toml:"ranking"`
	CacheSize         int    `toml:"cache_size"`
}

// CorpusConfig points at the seed corpus.
type CorpusConfig struct {
	Path string `toml:"path"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxPrefix int `toml:"max_prefix"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowFrequency bool `toml:"show_frequency"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxSuggestions:    suggest.MaxSuggestions,
			MaxSentenceLength: trie.MaxSentenceLength,
			EnforceMaxLength:  true,
			Ranking:           suggest.RankBucket,
			CacheSize:         suggest.DefaultCacheSize,
		},
		Server: ServerConfig{
			MaxPrefix: trie.MaxSentenceLength,
		},
		CLI: CliConfig{
			ShowFrequency: true,
		},
	}
}

// SessionOptions converts the engine section into session options.
func (c *Config) SessionOptions() suggest.Options {
	return suggest.Options{
		MaxSuggestions:    c.Engine.MaxSuggestions,
		MaxSentenceLength: c.Engine.MaxSentenceLength,
		EnforceMaxLength:  c.Engine.EnforceMaxLength,
		Ranking:           c.Engine.Ranking,
		CacheSize:         c.Engine.CacheSize,
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/hotserve
// 2. ~/Library/Application Support/hotserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", AppDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", AppDir)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/hotserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values outside their valid range are
// replaced by defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse keeps every section that still decodes
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		if val, ok := utils.ExtractString(section, "path"); ok {
			config.Corpus.Path = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractInt64(section, "max_prefix"); ok {
			config.Server.MaxPrefix = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "show_frequency"); ok {
			config.CLI.ShowFrequency = val
		}
	}
	config.sanitize()
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		engine.MaxSuggestions = val
	}
	if val, ok := utils.ExtractInt64(data, "max_sentence_length"); ok {
		engine.MaxSentenceLength = val
	}
	if val, ok := utils.ExtractBool(data, "enforce_max_length"); ok {
		engine.EnforceMaxLength = val
	}
	if val, ok := utils.ExtractString(data, "ranking"); ok {
		engine.Ranking = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
}

func (c *Config) sanitize() {
	defaults := DefaultConfig()
	if c.Engine.MaxSuggestions < 1 {
		log.Warnf("max_suggestions=%d is invalid, using %d", c.Engine.MaxSuggestions, defaults.Engine.MaxSuggestions)
		c.Engine.MaxSuggestions = defaults.Engine.MaxSuggestions
	}
	if c.Engine.MaxSentenceLength < 1 {
		log.Warnf("max_sentence_length=%d is invalid, using %d", c.Engine.MaxSentenceLength, defaults.Engine.MaxSentenceLength)
		c.Engine.MaxSentenceLength = defaults.Engine.MaxSentenceLength
	}
	if _, err := suggest.NewRanker(c.Engine.Ranking); err != nil {
		log.Warnf("%v, using %q", err, defaults.Engine.Ranking)
		c.Engine.Ranking = defaults.Engine.Ranking
	}
	if c.Engine.CacheSize < 0 {
		c.Engine.CacheSize = 0
	}
	if c.Server.MaxPrefix < 1 {
		c.Server.MaxPrefix = defaults.Server.MaxPrefix
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}
