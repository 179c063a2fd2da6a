package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

var (
	TLS_DOMAINS        = ""    // e.g. "example.com,example2.com"
	MYSQL_DSN          = ""    // MySQL will be used if this is set
	SQLITE_FILE        = ""    // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS       = ""    // e.g. "0.0.0.0:8080"
	DEFAULT_BUCKET_DIR = ""    // Used for creating the initial (disk) bucket
	DEBUG_MODE         = false // Adds error diagnostics to responses and enables pprof
	LOG_LEVEL          = ""
	SESSION_KEY        = ""
	THUMB_SIZE         uint    // Max width/height of generated photo thumbnails
	STICKER_CACHE_TTL  time.Duration
	CORS_ORIGINS       []string
)

type properties struct {
	TLSDomains       string        `env:"TLS_DOMAINS"`
	MySQLDSN         string        `env:"MYSQL_DSN"`
	SQLiteFile       string        `env:"SQLITE_FILE" envDefault:"cafe-passport.db"`
	BindAddress      string        `env:"BIND_ADDRESS" envDefault:"0.0.0.0:8080"`
	DefaultBucketDir string        `env:"DEFAULT_BUCKET_DIR" envDefault:"media"`
	DebugMode        bool          `env:"DEBUG_MODE" envDefault:"true"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	SessionKey       string        `env:"SESSION_KEY" envDefault:"change me in production, please"`
	ThumbSize        uint          `env:"THUMB_SIZE" envDefault:"640"`
	StickerCacheTTL  time.Duration `env:"STICKER_CACHE_TTL" envDefault:"10m"`
	CorsOrigins      []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

func init() {
	if err := Load(); err != nil {
		panic(err)
	}
}

// Load (re)reads all settings from the environment
func Load() error {
	p := properties{}
	if err := env.Parse(&p); err != nil {
		return fmt.Errorf("read config error: %w", err)
	}
	TLS_DOMAINS = p.TLSDomains
	MYSQL_DSN = p.MySQLDSN
	SQLITE_FILE = p.SQLiteFile
	BIND_ADDRESS = p.BindAddress
	DEFAULT_BUCKET_DIR = p.DefaultBucketDir
	DEBUG_MODE = p.DebugMode
	LOG_LEVEL = p.LogLevel
	SESSION_KEY = p.SessionKey
	THUMB_SIZE = p.ThumbSize
	STICKER_CACHE_TTL = p.StickerCacheTTL
	CORS_ORIGINS = p.CorsOrigins
	return nil
}
