package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the exporter.
type Config struct {
	ListenAddr        string
	Namespace         string
	MountNaming       string
	IncludeZeroUsable bool
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	LogLevel          string
	LogFormat         string
}

// Mount naming schemes accepted by the -mount-naming flag.
const (
	MountNamingDevice = "device"
	MountNamingPath   = "path"
)

// Load parses CLI flags and environment variables into a Config. A .env file
// in the working directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	flag.StringVar(&cfg.ListenAddr, "listen-addr", valueOr(os.Getenv("SYSGAUGES_LISTEN_ADDR"), ":9822"), "Address to serve metrics on")
	flag.StringVar(&cfg.Namespace, "namespace", valueOr(os.Getenv("SYSGAUGES_NAMESPACE"), "system"), "Prefix applied to every exported metric name")
	flag.StringVar(&cfg.MountNaming, "mount-naming", valueOr(os.Getenv("SYSGAUGES_MOUNT_NAMING"), MountNamingDevice), "How filesystem gauges are named: device or path")
	flag.BoolVar(&cfg.IncludeZeroUsable, "include-zero-usable", boolFromEnv("SYSGAUGES_INCLUDE_ZERO_USABLE", false), "Export gauges for mounts reporting zero usable space")
	flag.DurationVar(&cfg.ReadTimeout, "read-timeout", durationFromEnv("SYSGAUGES_READ_TIMEOUT", 15*time.Second), "HTTP read timeout")
	flag.DurationVar(&cfg.WriteTimeout, "write-timeout", durationFromEnv("SYSGAUGES_WRITE_TIMEOUT", 15*time.Second), "HTTP write timeout")
	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", durationFromEnv("SYSGAUGES_SHUTDOWN_TIMEOUT", 10*time.Second), "Maximum time to wait for in-flight scrapes on shutdown")
	flag.StringVar(&cfg.LogLevel, "log-level", valueOr(os.Getenv("SYSGAUGES_LOG_LEVEL"), "info"), "Log level: debug, info, warn or error")
	flag.StringVar(&cfg.LogFormat, "log-format", os.Getenv("SYSGAUGES_LOG_FORMAT"), "Log format: text or json; defaults by terminal detection")
	flag.Parse()

	if cfg.MountNaming != MountNamingDevice && cfg.MountNaming != MountNamingPath {
		return Config{}, fmt.Errorf("unknown mount naming scheme %q", cfg.MountNaming)
	}
	return cfg, nil
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return time.Duration(n) * time.Second
}
func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
func boolFromEnv(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}
