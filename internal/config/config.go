package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sweets9/SOC-ThreatViz/internal/fs"
	"github.com/sweets9/SOC-ThreatViz/internal/util"

	"gopkg.in/yaml.v3"
)

// Cfg is the top-level configuration for the threat map backend.
// It is loaded once at startup and threaded into the components that need it,
// never kept as package state, so tests can run against temp store paths.
type Cfg struct {
	Server   ServerConfig   `yaml:"server"`
	Security SecurityConfig `yaml:"security"`
	Data     DataConfig     `yaml:"data"`
	Audit    AuditConfig    `yaml:"audit"`
}

type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout,omitempty"`  // seconds
	WriteTimeout int    `yaml:"write_timeout,omitempty"` // seconds
}

type SecurityConfig struct {
	// APIToken is the clear bearer token producers present on webhook calls.
	// APITokenHash, when set, takes precedence: an argon2id encoded digest of
	// the token so the clear value never has to live in the config file.
	APIToken     string   `yaml:"api_token"`
	APITokenHash string   `yaml:"api_token_hash,omitempty"`
	JWTSecret    string   `yaml:"jwt_secret,omitempty"`
	AllowedIPs   []string `yaml:"allowed_ips"`
}

type DataConfig struct {
	CSVPath        string           `yaml:"csv_path"`
	ExtendedSchema bool             `yaml:"extended_schema,omitempty"`
	Timeframes     map[string]int64 `yaml:"timeframes"` // name -> milliseconds
}

type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path,omitempty"`
}

// Store modes. The test and live datasets are fully independent stores that
// only differ by file path.
const (
	ModeTest = "test"
	ModeLive = "live"

	DefaultTimeframe = "24h"
)

// LoadConfig loads the configuration from the given path
func LoadConfig(path string) (*Cfg, error) {
	file, err := fs.GetFile(path)
	if err != nil {
		util.PrintErrorf("Failed to load configuration file: %s", path)
		return nil, err
	}
	defer file.Close()

	buf, err := os.ReadFile(file.Name())
	if err != nil {
		return nil, err
	}

	var cfg Cfg
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	util.PrintSuccess(fmt.Sprintf("Loaded configuration file: %s", path))
	return &cfg, nil
}

func (c *Cfg) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Data.CSVPath == "" {
		c.Data.CSVPath = "./data/threat_data.csv"
	}
	if len(c.Data.Timeframes) == 0 {
		c.Data.Timeframes = map[string]int64{
			"1h":  3600000,
			"24h": 86400000,
			"7d":  604800000,
		}
	}
	if len(c.Security.AllowedIPs) == 0 {
		c.Security.AllowedIPs = []string{"127.0.0.1", "::1"}
	}
	if c.Audit.Enabled && c.Audit.DBPath == "" {
		c.Audit.DBPath = "./data/audit.db"
	}
}

// StorePath maps a dataset mode to its CSV file path. The test and live
// stores hang off the configured base path, e.g. threat_data_test.csv.
// An unknown mode falls back to the base path.
func (d DataConfig) StorePath(mode string) string {
	switch mode {
	case ModeTest:
		return withSuffix(d.CSVPath, "_test")
	case ModeLive:
		return withSuffix(d.CSVPath, "_live")
	default:
		return d.CSVPath
	}
}

func withSuffix(path, suffix string) string {
	if strings.HasSuffix(path, ".csv") {
		return strings.TrimSuffix(path, ".csv") + suffix + ".csv"
	}
	return path + suffix
}

// Timeframe resolves a symbolic timeframe name ("1h", "24h", "7d") to a
// duration. Unknown names fall back to the 24h window, matching what the
// visualization client expects when it sends nothing useful.
func (d DataConfig) Timeframe(name string) time.Duration {
	if ms, ok := d.Timeframes[name]; ok {
		return time.Duration(ms) * time.Millisecond
	}
	if ms, ok := d.Timeframes[DefaultTimeframe]; ok {
		return time.Duration(ms) * time.Millisecond
	}
	return 24 * time.Hour
}

// ListenAddr returns the host:port string the server binds to
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WriteConfig serializes the configuration back to disk
func WriteConfig(cfg *Cfg, path string) error {
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}
