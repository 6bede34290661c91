package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/skillswap/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:          ":8080",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "skillswap.db",
		TokenDuration: time.Hour,
		UploadDir:     "uploads",
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	t.Setenv("SKILLSWAP_ENV", "production")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("SKILLSWAP_ENV", "development")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}
	if cfg.MaxUploadBytes != config.DefaultMaxUploadBytes {
		t.Fatalf("expected MaxUploadBytes default, got %d", cfg.MaxUploadBytes)
	}
	if cfg.BcryptCost != bcrypt.DefaultCost {
		t.Fatalf("expected BcryptCost default, got %d", cfg.BcryptCost)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }},
		{"empty secret", func(c *config.Config) { c.JWTSecret = "" }},
		{"zero timeout", func(c *config.Config) { c.APITimeout = 0 }},
		{"negative token duration", func(c *config.Config) { c.TokenDuration = -time.Minute }},
		{"empty database path", func(c *config.Config) { c.DatabasePath = "" }},
		{"empty upload dir", func(c *config.Config) { c.UploadDir = "" }},
		{"bcrypt cost too high", func(c *config.Config) { c.BcryptCost = bcrypt.MaxCost + 1 }},
		{"admin without password", func(c *config.Config) {
			c.Admin = config.AdminConfig{Username: "admin", Email: "admin@example.com"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SKILLSWAP_ADDR", "")
	t.Setenv("SKILLSWAP_JWT_SECRET", "")
	t.Setenv("SKILLSWAP_DATABASE_PATH", "")
	t.Setenv("SKILLSWAP_UPLOAD_DIR", "")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != "supersecretkey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "supersecretkey")
	}
	if cfg.DatabasePath != "skillswap.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "skillswap.db")
	}
	if cfg.UploadDir != "uploads" {
		t.Fatalf("unexpected UploadDir: got %q", cfg.UploadDir)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if cfg.TokenDuration != 168*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 168*time.Hour)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected MigrateOnStart default true")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SKILLSWAP_ADDR", ":7070")
	t.Setenv("SKILLSWAP_DATABASE_PATH", "env.db")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.DatabasePath != "env.db" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("addr: \":9090\"\njwt_secret: \"filekey\"\ntimeout: \"30s\"\ndatabase_path: \"test.db\"\ntoken_duration: \"2h\"\nmigrate_on_start: false\nadmin:\n  username: root\n  email: root@example.com\n  password: pw\n  name: Root\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "filekey")
	}
	if cfg.DatabasePath != "test.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "test.db")
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if cfg.MigrateOnStart {
		t.Fatalf("expected migrate_on_start false from file")
	}
	if cfg.Admin.Username != "root" || cfg.Admin.Name != "Root" {
		t.Fatalf("unexpected admin section: %+v", cfg.Admin)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}
