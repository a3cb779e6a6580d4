package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by Defaults via Merge.
type Config struct {
	Addr          string   `json:"addr" yaml:"addr" toml:"addr"`
	DBPath        string   `json:"db_path" yaml:"db_path" toml:"db_path"`
	SeedFile      string   `json:"seed_file" yaml:"seed_file" toml:"seed_file"`
	DefaultSlots  int      `json:"default_slots" yaml:"default_slots" toml:"default_slots"`
	LockTimeoutMS int      `json:"lock_timeout_ms" yaml:"lock_timeout_ms" toml:"lock_timeout_ms"`
	BusBuffer     int      `json:"bus_buffer" yaml:"bus_buffer" toml:"bus_buffer"`
	ClientBuffer  int      `json:"client_buffer" yaml:"client_buffer" toml:"client_buffer"`
	WriteWaitMS   int      `json:"write_wait_ms" yaml:"write_wait_ms" toml:"write_wait_ms"`
	PongWaitMS    int      `json:"pong_wait_ms" yaml:"pong_wait_ms" toml:"pong_wait_ms"`
	MaxBodyBytes  int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogLevel      string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat     string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	CORSOrigins   []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		Addr:          ":8081",
		DBPath:        "vaxslots.db",
		DefaultSlots:  10,
		LockTimeoutMS: 5000,
		BusBuffer:     256,
		ClientBuffer:  64,
		WriteWaitMS:   10000,
		PongWaitMS:    60000,
		MaxBodyBytes:  1 << 20,
		LogLevel:      "info",
		LogFormat:     "json",
		CORSOrigins:   []string{"*"},
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv reads VAXSLOTS_* variables. Unset or unparsable values stay zero.
func FromEnv() Config {
	var cfg Config
	cfg.Addr = os.Getenv("VAXSLOTS_ADDR")
	cfg.DBPath = os.Getenv("VAXSLOTS_DB_PATH")
	cfg.SeedFile = os.Getenv("VAXSLOTS_SEED_FILE")
	cfg.DefaultSlots = envInt("VAXSLOTS_DEFAULT_SLOTS")
	cfg.LockTimeoutMS = envInt("VAXSLOTS_LOCK_TIMEOUT_MS")
	cfg.BusBuffer = envInt("VAXSLOTS_BUS_BUFFER")
	cfg.ClientBuffer = envInt("VAXSLOTS_CLIENT_BUFFER")
	cfg.WriteWaitMS = envInt("VAXSLOTS_WRITE_WAIT_MS")
	cfg.PongWaitMS = envInt("VAXSLOTS_PONG_WAIT_MS")
	cfg.MaxBodyBytes = int64(envInt("VAXSLOTS_MAX_BODY_BYTES"))
	cfg.LogLevel = os.Getenv("VAXSLOTS_LOG_LEVEL")
	cfg.LogFormat = os.Getenv("VAXSLOTS_LOG_FORMAT")
	if v := os.Getenv("VAXSLOTS_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	return cfg
}

// Merge returns base with every non-zero field of over applied on top.
func Merge(base, over Config) Config {
	if over.Addr != "" {
		base.Addr = over.Addr
	}
	if over.DBPath != "" {
		base.DBPath = over.DBPath
	}
	if over.SeedFile != "" {
		base.SeedFile = over.SeedFile
	}
	if over.DefaultSlots != 0 {
		base.DefaultSlots = over.DefaultSlots
	}
	if over.LockTimeoutMS != 0 {
		base.LockTimeoutMS = over.LockTimeoutMS
	}
	if over.BusBuffer != 0 {
		base.BusBuffer = over.BusBuffer
	}
	if over.ClientBuffer != 0 {
		base.ClientBuffer = over.ClientBuffer
	}
	if over.WriteWaitMS != 0 {
		base.WriteWaitMS = over.WriteWaitMS
	}
	if over.PongWaitMS != 0 {
		base.PongWaitMS = over.PongWaitMS
	}
	if over.MaxBodyBytes != 0 {
		base.MaxBodyBytes = over.MaxBodyBytes
	}
	if over.LogLevel != "" {
		base.LogLevel = over.LogLevel
	}
	if over.LogFormat != "" {
		base.LogFormat = over.LogFormat
	}
	if len(over.CORSOrigins) > 0 {
		base.CORSOrigins = append([]string(nil), over.CORSOrigins...)
	}
	return base
}

// Validate rejects values the service cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.DefaultSlots < 0 {
		return fmt.Errorf("default_slots must be >= 0, got %d", c.DefaultSlots)
	}
	if c.LockTimeoutMS < 0 || c.WriteWaitMS < 0 || c.PongWaitMS < 0 {
		return fmt.Errorf("timeouts must be >= 0")
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("unsupported log_format: %s", c.LogFormat)
	}
	return nil
}

func (c Config) LockTimeout() time.Duration { return ms(c.LockTimeoutMS) }
func (c Config) WriteWait() time.Duration   { return ms(c.WriteWaitMS) }
func (c Config) PongWait() time.Duration    { return ms(c.PongWaitMS) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func envInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
