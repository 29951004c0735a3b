// Package config loads the clipkeeper configuration file. The config
// is read once at startup into an explicit struct and passed by
// reference into each component; nothing reads ambient globals.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where the config file lives unless --config overrides it.
const DefaultPath = "clipkeeper.toml"

// YouTube holds upload API settings.
type YouTube struct {
	ClientSecretsFile string `toml:"client_secrets_file"`
	TokenFile         string `toml:"token_file"`
	ChunkSizeMiB      int    `toml:"chunk_size_mib"`
}

// Clip holds defaults for the clip-preference prompts.
type Clip struct {
	DefaultTitle       string   `toml:"default_title"`
	DefaultDescription string   `toml:"default_description"`
	DefaultTags        []string `toml:"default_tags"`
	DefaultPrivacy     string   `toml:"default_privacy"`
	DefaultThreads     int      `toml:"default_threads"`
	MaxThreads         int      `toml:"max_threads"`
}

// Dirs holds the watched, clip output, and archive locations.
type Dirs struct {
	Videos     string   `toml:"videos"`
	Clips      string   `toml:"clips"`
	Archive    string   `toml:"archive"`
	LedgerFile string   `toml:"ledger_file"`
	Extensions []string `toml:"extensions"`
}

// Archive holds the downsampling caps for compressed copies.
type Archive struct {
	MaxFPS    float64 `toml:"max_fps"`
	MaxHeight int     `toml:"max_height"`
}

// Preview holds how videos are opened for previewing.
type Preview struct {
	Command string `toml:"command"`
}

type Config struct {
	YouTube YouTube `toml:"youtube"`
	Clip    Clip    `toml:"clip"`
	Dirs    Dirs    `toml:"dirs"`
	Archive Archive `toml:"archive"`
	Preview Preview `toml:"preview"`
}

// PrivacyStatuses are the values YouTube accepts for status.privacyStatus.
var PrivacyStatuses = []string{"unlisted", "private", "public"}

func Default() Config {
	return Config{
		YouTube: YouTube{
			ClientSecretsFile: "client_secrets.json",
			TokenFile:         "token.json",
			ChunkSizeMiB:      8,
		},
		Clip: Clip{
			DefaultTitle:       "Default Title",
			DefaultDescription: "No description given.\n\nUploaded with clipkeeper.",
			DefaultTags:        []string{"Gaming"},
			DefaultPrivacy:     "unlisted",
			DefaultThreads:     4,
			MaxThreads:         4,
		},
		Dirs: Dirs{
			Videos:     "videos",
			Clips:      "clips",
			Archive:    "archive",
			LedgerFile: "watchlist.ledger",
		},
		Archive: Archive{
			MaxFPS:    30,
			MaxHeight: 720,
		},
	}
}

// Load reads path, layering the file over built-in defaults, and
// validates the result. A missing or invalid value is fatal here so
// every later component can trust the struct.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the invariants startup depends on.
func (c *Config) Validate() error {
	if c.Dirs.Videos == "" {
		return errors.New("dirs.videos is required")
	}
	if err := requireDir(c.Dirs.Videos, "dirs.videos"); err != nil {
		return err
	}
	if c.Dirs.Clips == "" {
		return errors.New("dirs.clips is required")
	}
	if c.Dirs.Archive == "" {
		return errors.New("dirs.archive is required")
	}
	if c.Dirs.LedgerFile == "" {
		return errors.New("dirs.ledger_file is required")
	}
	if !validPrivacy(c.Clip.DefaultPrivacy) {
		return fmt.Errorf("clip.default_privacy %q is not one of unlisted, private, public", c.Clip.DefaultPrivacy)
	}
	if c.Clip.MaxThreads < 1 {
		return fmt.Errorf("clip.max_threads must be at least 1, got %d", c.Clip.MaxThreads)
	}
	if c.Clip.DefaultThreads < 1 || c.Clip.DefaultThreads > c.Clip.MaxThreads {
		return fmt.Errorf("clip.default_threads %d is outside [1, %d]", c.Clip.DefaultThreads, c.Clip.MaxThreads)
	}
	if c.Archive.MaxFPS <= 0 {
		return fmt.Errorf("archive.max_fps must be positive, got %v", c.Archive.MaxFPS)
	}
	if c.Archive.MaxHeight <= 0 {
		return fmt.Errorf("archive.max_height must be positive, got %d", c.Archive.MaxHeight)
	}
	if c.YouTube.ClientSecretsFile == "" {
		return errors.New("youtube.client_secrets_file is required")
	}
	if c.YouTube.TokenFile == "" {
		return errors.New("youtube.token_file is required")
	}
	if c.YouTube.ChunkSizeMiB < 1 {
		return fmt.Errorf("youtube.chunk_size_mib must be at least 1, got %d", c.YouTube.ChunkSizeMiB)
	}
	return nil
}

// LedgerPath resolves the ledger file relative to the videos dir when
// it is not absolute, so the ledger travels with the watched folder.
func (c *Config) LedgerPath() string {
	if filepath.IsAbs(c.Dirs.LedgerFile) {
		return c.Dirs.LedgerFile
	}
	return filepath.Join(c.Dirs.Videos, c.Dirs.LedgerFile)
}

func validPrivacy(v string) bool {
	for _, p := range PrivacyStatuses {
		if v == p {
			return true
		}
	}
	return false
}

func requireDir(path, key string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %s is not a directory", key, path)
	}
	return nil
}
