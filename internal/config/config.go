package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Import   ImportConfig
	Admin    AdminConfig
	Session  SessionConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings. URLs starting
// with postgres:// or postgresql:// select the postgres driver; anything else
// is handed to sqlite as a DSN or file path.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// ImportConfig controls spreadsheet imports.
type ImportConfig struct {
	// Book labels every formula created by an import.
	Book string
	// Locale selects the language of user-facing messages.
	Locale string
	// LegacyJSON names a db.json file migrated into the store at startup.
	LegacyJSON string
}

// AdminConfig guards destructive maintenance operations.
type AdminConfig struct {
	// WipeCodeHash is the bcrypt hash of the code that confirms a wipe.
	// Wiping is disabled when empty.
	WipeCodeHash string
}

// SessionConfig controls the dashboard session cookie.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

const (
	DefaultDatabaseURL = "colorledger.db"
	DefaultBook        = "DATA2025"
	DefaultLocale      = "en"
)

// fileConfig mirrors the optional YAML configuration file.
type fileConfig struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		URL             string `yaml:"url"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		ConnMaxIdleTime string `yaml:"conn_max_idle_time"`
		UseMock         bool   `yaml:"use_mock"`
	} `yaml:"database"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Import struct {
		Book       string `yaml:"book"`
		Locale     string `yaml:"locale"`
		LegacyJSON string `yaml:"legacy_json"`
	} `yaml:"import"`
	Admin struct {
		WipeCodeHash string `yaml:"wipe_code_hash"`
	} `yaml:"admin"`
	Session struct {
		Lifetime     string `yaml:"lifetime"`
		CookieName   string `yaml:"cookie_name"`
		CookieDomain string `yaml:"cookie_domain"`
		CookieSecure *bool  `yaml:"cookie_secure"`
	} `yaml:"session"`
}

// Load inspects the environment, layered over the YAML file named by
// CONFIG_FILE when set, and builds a Config value.
func Load() (Config, error) {
	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			file.Server.Addr,
			":8080",
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			file.Database.URL,
			DefaultDatabaseURL,
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), file.Database.MaxIdleConns),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), file.Database.MaxOpenConns),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), parseDurationWithDefault(file.Database.ConnMaxLifetime, 0)),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), parseDurationWithDefault(file.Database.ConnMaxIdleTime, 0)),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), file.Database.UseMock),
	}

	cfg.Logging = LoggingConfig{
		Level:  firstNonEmpty(os.Getenv("LOG_LEVEL"), file.Logging.Level, "info"),
		Format: firstNonEmpty(os.Getenv("LOG_FORMAT"), file.Logging.Format, "text"),
	}

	cfg.Import = ImportConfig{
		Book:       strings.TrimSpace(firstNonEmpty(os.Getenv("IMPORT_BOOK"), file.Import.Book, DefaultBook)),
		Locale:     strings.ToLower(strings.TrimSpace(firstNonEmpty(os.Getenv("LOCALE"), file.Import.Locale, DefaultLocale))),
		LegacyJSON: firstNonEmpty(os.Getenv("LEGACY_JSON_PATH"), file.Import.LegacyJSON),
	}

	wipeHash, err := resolveWipeCodeHash(
		firstNonEmpty(os.Getenv("WIPE_CODE_HASH"), file.Admin.WipeCodeHash),
		os.Getenv("WIPE_CODE"),
	)
	if err != nil {
		return Config{}, err
	}
	cfg.Admin = AdminConfig{WipeCodeHash: wipeHash}

	secureDefault := true
	if file.Session.CookieSecure != nil {
		secureDefault = *file.Session.CookieSecure
	}
	cfg.Session = SessionConfig{
		Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), parseDurationWithDefault(file.Session.Lifetime, 12*time.Hour)),
		CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), file.Session.CookieName, "colorledger_session"),
		CookieDomain: firstNonEmpty(os.Getenv("SESSION_COOKIE_DOMAIN"), file.Session.CookieDomain),
		CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), secureDefault),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}
	if cfg.Import.Book == "" {
		return Config{}, fmt.Errorf("import book label must not be empty")
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if strings.TrimSpace(path) == "" {
		return file, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return file, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, nil
}

func resolveWipeCodeHash(hash, plain string) (string, error) {
	hash = strings.TrimSpace(hash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return "", fmt.Errorf("wipe code hash is not a bcrypt hash: %w", err)
		}
		return hash, nil
	}

	plain = strings.TrimSpace(plain)
	if plain == "" {
		return "", nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("wipe code is too long")
		}
		return "", fmt.Errorf("hash wipe code: %w", err)
	}
	return string(hashed), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}
