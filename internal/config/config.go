package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	insecureJWTSecret = "supersecretkey"

	// DefaultMaxUploadBytes is the largest accepted profile photo.
	DefaultMaxUploadBytes = 16 << 20
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	UploadDir      string        `yaml:"upload_dir"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	BcryptCost     int           `yaml:"bcrypt_cost"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	Admin          AdminConfig   `yaml:"admin"`
}

// AdminConfig describes the account promoted to administrator at startup.
// An empty Username disables the bootstrap.
type AdminConfig struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("SKILLSWAP_ADDR", ":8080"),
		JWTSecret:      getEnv("SKILLSWAP_JWT_SECRET", insecureJWTSecret),
		APITimeout:     15 * time.Second,
		DatabasePath:   getEnv("SKILLSWAP_DATABASE_PATH", "skillswap.db"),
		TokenDuration:  7 * 24 * time.Hour,
		UploadDir:      getEnv("SKILLSWAP_UPLOAD_DIR", "uploads"),
		MaxUploadBytes: DefaultMaxUploadBytes,
		BcryptCost:     bcrypt.DefaultCost,
		MigrateOnStart: true,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether SKILLSWAP_ENV selects the development environment.
func IsDevelopment() bool {
	env := strings.ToLower(os.Getenv("SKILLSWAP_ENV"))
	return env == "development" || env == "dev"
}

// Validate checks the configuration and fills in zero-valued optional fields.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret must not be empty"))
	} else if c.JWTSecret == insecureJWTSecret && !IsDevelopment() {
		errs = append(errs, errors.New("jwt_secret uses the insecure default; set SKILLSWAP_JWT_SECRET"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.APITimeout))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("token_duration must be positive, got %s", c.TokenDuration))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path must not be empty"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("upload_dir must not be empty"))
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Admin.Username != "" && (c.Admin.Password == "" || c.Admin.Email == "") {
		errs = append(errs, errors.New("admin.email and admin.password are required when admin.username is set"))
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
