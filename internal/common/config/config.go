package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	BodyLimitMB  int

	// пустой AnnotatorURL включает встроенный backbone-аннотатор
	AnnotatorURL      string
	AnnotatorTimeout  int
	AsyncInteractions bool

	JournalDBPath  string
	MigrationsPath string

	LogLevel  string
	LogFormat string

	// пусто = разрешены все источники
	CORSOrigins []string
}

var defaults = map[string]any{
	"port":               "3000",
	"env":                "development",
	"read_timeout":       10,
	"write_timeout":      10,
	"body_limit_mb":      50,
	"annotator_url":      "",
	"annotator_timeout":  30,
	"async_interactions": true,
	"journal_db_path":    "./data/uploads.db",
	"migrations_path":    "./migrations/001_init_uploads.sql",
	"log_level":          "info",
	"log_format":         "json",
	"cors_origins":       "",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	return v
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	v := newViper()
	return &Config{
		Port:              v.GetString("port"),
		Environment:       v.GetString("env"),
		ReadTimeout:       v.GetInt("read_timeout"),
		WriteTimeout:      v.GetInt("write_timeout"),
		BodyLimitMB:       v.GetInt("body_limit_mb"),
		AnnotatorURL:      v.GetString("annotator_url"),
		AnnotatorTimeout:  v.GetInt("annotator_timeout"),
		AsyncInteractions: v.GetBool("async_interactions"),
		JournalDBPath:     v.GetString("journal_db_path"),
		MigrationsPath:    v.GetString("migrations_path"),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
		CORSOrigins:       splitList(v.GetString("cors_origins")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) AnnotatorTimeoutDuration() time.Duration {
	return time.Duration(c.AnnotatorTimeout) * time.Second
}

func (c *Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}
