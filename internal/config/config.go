package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "SHOWCASE_"
	maxConfigFileSize = 1024 * 1024
)

// VCS modes for timestamp resolution.
const (
	VCSAuto  = "auto"
	VCSGit   = "git"
	VCSGoGit = "go-git"
	VCSNone  = "none"
)

// Config holds the unified application configuration
type Config struct {
	Root           string        `koanf:"root"`
	Output         string        `koanf:"output"`
	MetaFile       string        `koanf:"meta_file"`
	EntryFile      string        `koanf:"entry_file"`
	DirSuffix      string        `koanf:"dir_suffix"`
	DefaultTag     string        `koanf:"default_tag"`
	VCS            string        `koanf:"vcs"`
	GitTimeout     time.Duration `koanf:"git_timeout"`
	Manifest       string        `koanf:"manifest"`
	SeedFile       string        `koanf:"seed_file"`
	Addr           string        `koanf:"addr"`
	AllowedOrigins string        `koanf:"allowed_origins"`
	LogDir         string        `koanf:"log_dir"`
	LogLevel       string        `koanf:"log_level"`
}

// CLIFlags holds parsed CLI flags. Zero values mean "not set".
type CLIFlags struct {
	ConfigPath string
	Root       string
	Output     string
	MetaFile   string
	VCS        string
	GitTimeout time.Duration
	Manifest   string
	SeedFile   string
	Addr       string
	LogDir     string
	LogLevel   string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Root:           ".",
		Output:         "data.json",
		MetaFile:       "meta.json",
		EntryFile:      "index.html",
		DirSuffix:      "-main",
		DefaultTag:     "HTML",
		VCS:            VCSAuto,
		GitTimeout:     5 * time.Second,
		Addr:           ":8080",
		AllowedOrigins: "*",
		LogLevel:       "info",
	}
}

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	configPath := flags.ConfigPath
	if configPath == "" {
		if p, err := getConfigPath(); err == nil {
			configPath = p
		}
	}
	if configPath != "" {
		content, err := readConfigFile(expandPath(configPath))
		if err != nil {
			return nil, err
		}
		if content != nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	// SHOWCASE_GIT_TIMEOUT -> git_timeout
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyFlags(cfg, flags)

	cfg.Root = expandPath(cfg.Root)
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.SeedFile = expandPath(cfg.SeedFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *Config, flags CLIFlags) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Root, flags.Root)
	set(&cfg.Output, flags.Output)
	set(&cfg.MetaFile, flags.MetaFile)
	set(&cfg.VCS, flags.VCS)
	set(&cfg.Manifest, flags.Manifest)
	set(&cfg.SeedFile, flags.SeedFile)
	set(&cfg.Addr, flags.Addr)
	set(&cfg.LogDir, flags.LogDir)
	set(&cfg.LogLevel, flags.LogLevel)
	if flags.GitTimeout > 0 {
		cfg.GitTimeout = flags.GitTimeout
	}
}

// Validate checks the values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.VCS {
	case VCSAuto, VCSGit, VCSGoGit, VCSNone:
	default:
		return fmt.Errorf("unknown vcs mode %q (want auto, git, go-git or none)", c.VCS)
	}
	if c.GitTimeout <= 0 {
		return fmt.Errorf("git_timeout must be positive, got %s", c.GitTimeout)
	}
	if c.EntryFile == "" {
		return errors.New("entry_file must not be empty")
	}
	if c.Root == "" {
		return errors.New("root must not be empty")
	}
	return nil
}

// OutputPath returns the manifest output path, resolved against Root.
func (c *Config) OutputPath() string {
	return c.resolve(c.Output)
}

// MetaPath returns the sidecar metadata path, resolved against Root.
func (c *Config) MetaPath() string {
	return c.resolve(c.MetaFile)
}

// ManifestSource returns where the gallery reads the manifest from: an
// explicit path or URL, or the generator's output file.
func (c *Config) ManifestSource() string {
	if c.Manifest != "" {
		if strings.HasPrefix(c.Manifest, "http://") || strings.HasPrefix(c.Manifest, "https://") {
			return c.Manifest
		}
		return expandPath(c.Manifest)
	}
	return c.OutputPath()
}

// Origins returns the CORS allowed origins.
func (c *Config) Origins() []string {
	origins := ParseCommaSeparated(c.AllowedOrigins)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (c *Config) resolve(p string) string {
	p = expandPath(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// LoadDotenv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "showcase", "config.yaml"), nil
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	return io.ReadAll(f)
}

// ParseCommaSeparated splits a comma-separated string into a slice
func ParseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
