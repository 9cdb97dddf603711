package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"all empty", []string{"", "   "}, ""},
		{"first non empty", []string{"foo", "bar"}, "foo"},
		{"skips whitespace", []string{"   ", "bar"}, "bar"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := firstNonEmpty(tt.values...); got != tt.want {
				t.Fatalf("firstNonEmpty(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestParseIntWithDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		def   int
		want  int
	}{
		{"blank returns default", "", 7, 7},
		{"invalid returns default", "abc", 3, 3},
		{"valid parses value", "42", 0, 42},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseIntWithDefault(tt.value, tt.def); got != tt.want {
				t.Fatalf("parseIntWithDefault(%q, %d) = %d, want %d", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestParseDurationWithDefault(t *testing.T) {
	t.Parallel()

	def := 5 * time.Second
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"blank returns default", "", def},
		{"invalid returns default", "nonsense", def},
		{"valid parses", "2m", 2 * time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseDurationWithDefault(tt.value, def); got != tt.want {
				t.Fatalf("parseDurationWithDefault(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseBoolWithDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		def   bool
		want  bool
	}{
		{"blank returns default", "", true, true},
		{"invalid returns default", "nope", false, false},
		{"valid parses", "true", false, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parseBoolWithDefault(tt.value, tt.def); got != tt.want {
				t.Fatalf("parseBoolWithDefault(%q, %t) = %t, want %t", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDR", "ADDR", "DATABASE_URL", "DB_URL",
		"DATABASE_MAX_IDLE_CONNS", "DATABASE_MAX_OPEN_CONNS", "DATABASE_CONN_MAX_LIFETIME",
		"DATABASE_CONN_MAX_IDLE_TIME", "DATABASE_USE_MOCK", "LOG_LEVEL", "LOG_FORMAT",
		"IMPORT_BOOK", "LOCALE", "LEGACY_JSON_PATH", "WIPE_CODE_HASH", "WIPE_CODE",
		"SESSION_LIFETIME", "SESSION_COOKIE_NAME", "SESSION_COOKIE_DOMAIN", "SESSION_COOKIE_SECURE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadUsesEnvironmentDefaults(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("DATABASE_MAX_IDLE_CONNS", "10")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "100")
	t.Setenv("DATABASE_CONN_MAX_LIFETIME", "1h")
	t.Setenv("DATABASE_CONN_MAX_IDLE_TIME", "30m")
	t.Setenv("DATABASE_USE_MOCK", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("IMPORT_BOOK", "DATA2026")
	t.Setenv("LOCALE", "TH")
	t.Setenv("SESSION_LIFETIME", "45m")
	t.Setenv("SESSION_COOKIE_NAME", "custom_session")
	t.Setenv("SESSION_COOKIE_SECURE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Database.URL != "postgres://example" {
		t.Fatalf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Database.MaxIdleConns != 10 || cfg.Database.MaxOpenConns != 100 {
		t.Fatalf("Database pool = %d/%d", cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxLifetime != time.Hour {
		t.Fatalf("Database.ConnMaxLifetime = %s", cfg.Database.ConnMaxLifetime)
	}
	if cfg.Database.ConnMaxIdleTime != 30*time.Minute {
		t.Fatalf("Database.ConnMaxIdleTime = %s", cfg.Database.ConnMaxIdleTime)
	}
	if !cfg.Database.UseMock {
		t.Fatalf("Database.UseMock = %t, want true", cfg.Database.UseMock)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("Logging = %+v", cfg.Logging)
	}
	if cfg.Import.Book != "DATA2026" || cfg.Import.Locale != "th" {
		t.Fatalf("Import = %+v", cfg.Import)
	}
	if cfg.Admin.WipeCodeHash != "" {
		t.Fatalf("expected wipe to be disabled, got hash %q", cfg.Admin.WipeCodeHash)
	}
	if cfg.Session.Lifetime != 45*time.Minute || cfg.Session.CookieName != "custom_session" || cfg.Session.CookieSecure {
		t.Fatalf("Session = %+v", cfg.Session)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnvironment(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != DefaultDatabaseURL {
		t.Fatalf("Database.URL = %q, want %q", cfg.Database.URL, DefaultDatabaseURL)
	}
	if cfg.Import.Book != DefaultBook || cfg.Import.Locale != DefaultLocale {
		t.Fatalf("Import = %+v", cfg.Import)
	}
	if !cfg.Session.CookieSecure || cfg.Session.Lifetime != 12*time.Hour {
		t.Fatalf("Session = %+v", cfg.Session)
	}
}

func TestLoadPrefersServerAddr(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("ADDR", ":7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("Server.Addr = %q, want %q", cfg.Server.Addr, "127.0.0.1:9000")
	}
}

func TestLoadLayersEnvironmentOverFile(t *testing.T) {
	clearEnvironment(t)

	path := filepath.Join(t.TempDir(), "colorledger.yaml")
	content := []byte(`server:
  addr: ":9100"
database:
  url: ledger.sqlite
  max_open_conns: 4
  conn_max_lifetime: 10m
import:
  book: BOOK-A
  locale: th
session:
  cookie_secure: false
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("IMPORT_BOOK", "BOOK-B")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9100" || cfg.Database.URL != "ledger.sqlite" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Database.MaxOpenConns != 4 || cfg.Database.ConnMaxLifetime != 10*time.Minute {
		t.Fatalf("file pool values not applied: %+v", cfg.Database)
	}
	if cfg.Import.Book != "BOOK-B" {
		t.Fatalf("environment should win over file, got %q", cfg.Import.Book)
	}
	if cfg.Import.Locale != "th" || cfg.Session.CookieSecure {
		t.Fatalf("unexpected import/session config: %+v %+v", cfg.Import, cfg.Session)
	}
}

func TestLoadRejectsUnreadableConfigFile(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadHashesPlainWipeCode(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("WIPE_CODE", "2568")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cfg.Admin.WipeCodeHash), []byte("2568")); err != nil {
		t.Fatalf("wipe code hash does not match: %v", err)
	}
}

func TestLoadRejectsInvalidWipeCodeHash(t *testing.T) {
	clearEnvironment(t)
	t.Setenv("WIPE_CODE_HASH", "not-a-hash")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid wipe code hash")
	}
}
