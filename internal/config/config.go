package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jts/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	// Subject settings
	Subject     string        `yaml:"subject"`
	Timeout     time.Duration `yaml:"timeout"`
	CrashPolicy string        `yaml:"crash_policy"`

	// Corpus directories, processed in order
	Dirs []string `yaml:"dirs"`
	Sort bool     `yaml:"sort"`

	// Output settings
	DumpDir        string `yaml:"dump_dir"`
	DumpPrefix     string `yaml:"dump_prefix"`
	DumpCollision  string `yaml:"dump_collision"`
	OutputJSONFile string `yaml:"output_json_file"`
	OutputJSONDir  string `yaml:"output_json_dir"`

	// Execution settings
	Processors int  `yaml:"processors"`
	Strict     bool `yaml:"strict"`

	// Optional run history database, e.g. sqlite://.jts/history.db
	HistoryDSN string `yaml:"history_dsn"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Flags holds command-line flags
type Flags struct {
	Subject      string
	Dirs         []string
	Processors   int
	Timeout      time.Duration
	TimeoutSet   bool // Timeout was given explicitly; 0 then disables it
	CrashPolicy  string
	NameFilter   string
	DumpDir      string
	HistoryDSN   string
	NoSort       bool
	Strict       bool
	FailFast     bool
	OnlyFailed   bool
	Progress     bool
	OpenFailures bool
	Verbose      bool
	Limit        int
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		Subject:        DefaultSubject,
		Timeout:        DefaultTimeout,
		CrashPolicy:    DefaultCrashPolicy,
		Sort:           true,
		DumpDir:        DefaultDumpDir,
		DumpPrefix:     DefaultDumpPrefix,
		DumpCollision:  DefaultDumpCollision,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Processors:     DefaultProcessors,
	}
	// Copy default corpus dirs
	cfg.Dirs = make([]string, len(DefaultCorpusDirs))
	copy(cfg.Dirs, DefaultCorpusDirs)
	return cfg
}

// Load reads the YAML file at path over the defaults, then applies .env and
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnvOverrides(DefaultEnvFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides loads envFile (if present) into the process environment
// and applies JTS_* variables.
func (c *Config) applyEnvOverrides(envFile string) error {
	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(envFile)

	if v := os.Getenv("JTS_SUBJECT"); v != "" {
		c.Subject = v
	}
	if v := os.Getenv("JTS_DIRS"); v != "" {
		c.Dirs = filepath.SplitList(v)
	}
	if v := os.Getenv("JTS_DUMP_DIR"); v != "" {
		c.DumpDir = v
	}
	if v := os.Getenv("JTS_CRASH_POLICY"); v != "" {
		c.CrashPolicy = v
	}
	if v := os.Getenv("JTS_HISTORY_DSN"); v != "" {
		c.HistoryDSN = v
	}
	if v := os.Getenv("JTS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JTS_TIMEOUT %q: %w", v, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("JTS_PROCESSORS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JTS_PROCESSORS %q: %w", v, err)
		}
		c.Processors = n
	}
	return nil
}

// ApplyFlags stores flags on the config and lets explicitly set values win
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags

	if flags.Subject != "" {
		c.Subject = flags.Subject
	}
	if len(flags.Dirs) > 0 {
		c.Dirs = append([]string(nil), flags.Dirs...)
	}
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.TimeoutSet || flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.CrashPolicy != "" {
		c.CrashPolicy = flags.CrashPolicy
	}
	if flags.DumpDir != "" {
		c.DumpDir = flags.DumpDir
	}
	if flags.HistoryDSN != "" {
		c.HistoryDSN = flags.HistoryDSN
	}
	if flags.NoSort {
		c.Sort = false
	}
	if flags.Strict {
		c.Strict = true
	}
}

// Validate checks the effective configuration before a run
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return errors.New("subject executable is not configured")
	}
	if len(c.GetDirs()) == 0 {
		return errors.New("no corpus directories configured")
	}
	if c.Processors < 1 {
		return fmt.Errorf("processors must be at least 1, got %d", c.Processors)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := c.GetCrashPolicy(); err != nil {
		return err
	}
	switch c.DumpCollision {
	case CollisionNext, CollisionOverwrite, CollisionError:
	default:
		return fmt.Errorf("unknown dump collision policy %q", c.DumpCollision)
	}
	return nil
}

// GetDirs returns the configured corpus directories with blanks removed
func (c *Config) GetDirs() []string {
	dirs := make([]string, 0, len(c.Dirs))
	for _, d := range c.Dirs {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// GetCrashPolicy parses the configured crash policy
func (c *Config) GetCrashPolicy() (domain.CrashPolicy, error) {
	return domain.ParseCrashPolicy(c.CrashPolicy)
}

// GetDumpDir returns the directory dump files are written to
func (c *Config) GetDumpDir() string {
	if c.DumpDir == "" {
		return DefaultDumpDir
	}
	return c.DumpDir
}

// GetOutputPath returns the full path to the JSON report.
// Resolves to an absolute path so run and failures always read/write the same file.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
