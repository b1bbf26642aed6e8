// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/database"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Snapshot backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config is the full process configuration.
type Config struct {
	Addr            string `env:"GREENWAVE_ADDR" envDefault:"127.0.0.1:8080"`
	DataDir         string `env:"GREENWAVE_DATA_DIR" envDefault:"./data"`
	SnapshotBackend string `env:"GREENWAVE_SNAPSHOT_BACKEND" envDefault:"file"`
	SnapshotCodec   string `env:"GREENWAVE_SNAPSHOT_CODEC" envDefault:"json"`

	Database database.Config

	AdminEmail        string `env:"GREENWAVE_ADMIN_EMAIL" envDefault:"admin"`
	AdminPassword     string `env:"GREENWAVE_ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"GREENWAVE_ADMIN_PASSWORD_HASH"`

	SessionSecret string        `env:"GREENWAVE_SESSION_SECRET"`
	SessionTTL    time.Duration `env:"GREENWAVE_SESSION_TTL" envDefault:"12h"`
	BcryptCost    int           `env:"GREENWAVE_BCRYPT_COST" envDefault:"10"`

	PriceStandard      string `env:"GREENWAVE_PRICE_STANDARD" envDefault:"200"`
	PriceAllAccess     string `env:"GREENWAVE_PRICE_ALL_ACCESS" envDefault:"500"`
	PriceAddExhibition string `env:"GREENWAVE_PRICE_ADD_EXHIBITION" envDefault:"150"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv sets variables from an env file without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

// Load reads the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks values env parsing cannot.
func (c Config) Validate() error {
	switch c.SnapshotBackend {
	case BackendFile, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.SnapshotBackend)
	}
	switch c.SnapshotCodec {
	case "json", "cbor":
	default:
		return fmt.Errorf("unknown snapshot codec %q", c.SnapshotCodec)
	}
	if c.SnapshotBackend == BackendFile && c.DataDir == "" {
		return fmt.Errorf("data directory is required for the file backend")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31")
	}
	return nil
}

// AdminEnabled reports whether an admin credential is configured.
func (c Config) AdminEnabled() bool {
	return c.AdminEmail != "" && (c.AdminPassword != "" || c.AdminPasswordHash != "")
}
