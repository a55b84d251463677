package shared

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./astrolift.db"
	} `yaml:"database"`

	Project struct {
		Exclude []string `yaml:"exclude"` // extra dir names skipped during scans
	} `yaml:"project"`

	Rules struct {
		SeverityThreshold string   `yaml:"severity_threshold"` // "low" (default) | "medium" | "high"
		Disabled          []string `yaml:"disabled"`
		Packs             []string `yaml:"packs"` // YAML rule pack files
	} `yaml:"rules"`

	Transform struct {
		BackupDir    string `yaml:"backup_dir"` // ".astrolift-backups"
		IncludeRisky bool   `yaml:"include_risky"`
	} `yaml:"transform"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Server struct {
		Addr              string   `yaml:"addr"` // ":8787"
		AllowedOrigins    []string `yaml:"allowed_origins"`
		SessionTTLMinutes int      `yaml:"session_ttl_minutes"`
	} `yaml:"server"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./astrolift.db"
	c.Rules.SeverityThreshold = "low"
	c.Transform.BackupDir = ".astrolift-backups"
	c.Reporting.OutDir = "./reports"
	c.Server.Addr = ":8787"
	c.Server.SessionTTLMinutes = 720
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("ASTROLIFT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("ASTROLIFT_BACKUP_DIR"); v != "" {
		c.Transform.BackupDir = v
	}
	if v := os.Getenv("ASTROLIFT_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("ASTROLIFT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("ASTROLIFT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return c, nil
}
