// Package config loads service settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	TokenKey    string
	ListenAddr  string
	TLSCert     string
	TLSKey      string

	LogLevel string
	LogDir   string

	ProfilesDir  string
	BatchWorkers int

	RateLimit float64
	RateBurst int

	ProfileCacheSize int

	// Admins may write aircraft profiles.
	Admins []string
}

// Load reads files (".env" when none are given) into the environment without
// overriding variables already set, then builds the Config. Missing files are
// not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c := Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		TokenKey:         os.Getenv("TOKEN_KEY"),
		ListenAddr:       getenv("LISTEN_ADDR", ":443"),
		TLSCert:          getenv("TLS_CERT", "server.crt"),
		TLSKey:           getenv("TLS_KEY", "server.key"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogDir:           os.Getenv("LOG_DIR"),
		ProfilesDir:      os.Getenv("PROFILES_DIR"),
		BatchWorkers:     4,
		RateLimit:        1,
		RateBurst:        3,
		ProfileCacheSize: 64,
	}
	if v := os.Getenv("ADMIN_LOGINS"); v != "" {
		c.Admins = strings.Split(v, ",")
	}
	var err error
	if c.BatchWorkers, err = intEnv("BATCH_WORKERS", c.BatchWorkers); err != nil {
		return Config{}, err
	}
	if c.RateBurst, err = intEnv("RATE_BURST", c.RateBurst); err != nil {
		return Config{}, err
	}
	if c.ProfileCacheSize, err = intEnv("PROFILE_CACHE_SIZE", c.ProfileCacheSize); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if c.RateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return Config{}, fmt.Errorf("RATE_LIMIT: %w", err)
		}
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.TokenKey == "" {
		return errors.New("TOKEN_KEY environment variable is not set")
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("BATCH_WORKERS should be positive, got %d", c.BatchWorkers)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return errors.New("RATE_LIMIT and RATE_BURST should be positive")
	}
	if c.ProfileCacheSize <= 0 {
		return fmt.Errorf("PROFILE_CACHE_SIZE should be positive, got %d", c.ProfileCacheSize)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
