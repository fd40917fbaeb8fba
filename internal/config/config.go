package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"
)

// DefaultStationsURL is the published MOSMIX station catalog.
const DefaultStationsURL = "https://www.dwd.de/DE/leistungen/met_verfahren_mosmix/mosmix_stationskatalog.cfg?view=nasPublication"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream DWD open-data configuration.
	DWDBaseURL      string
	DWDStationsURL  string
	UpstreamTimeout time.Duration

	DecodeWorkers    int
	CacheSize        int
	ForecastCacheTTL time.Duration
	StationsCacheTTL time.Duration
	ReportCacheTTL   time.Duration

	// Publishing is disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string

	ConfigFile string
}

// PublishEnabled reports whether decoded snapshots are written to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
// When CONFIG_FILE names a YAML file, its entries fill variables the
// environment leaves unset.
func Load() (*Config, error) {
	configFile := os.Getenv("CONFIG_FILE")
	src, err := newSource(configFile)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := src.shutdownTimeout()
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := src.duration("UPSTREAM_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	forecastTTL, err := src.duration("FORECAST_CACHE_TTL", "1000s")
	if err != nil {
		return nil, err
	}
	stationsTTL, err := src.duration("STATIONS_CACHE_TTL", "604800s")
	if err != nil {
		return nil, err
	}
	reportTTL, err := src.duration("REPORT_CACHE_TTL", "60s")
	if err != nil {
		return nil, err
	}
	workers, err := src.intInRange("DECODE_WORKERS", 4, 1, 256)
	if err != nil {
		return nil, err
	}
	cacheSize, err := src.intInRange("CACHE_SIZE", 500, 1, 1_000_000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        src.get("HTTP_ADDR", ":8080"),
		LogLevel:        src.get("LOG_LEVEL", "info"),
		LogFormat:       src.get("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DWDBaseURL:      strings.TrimRight(src.get("DWD_BASE_URL", "https://opendata.dwd.de"), "/"),
		DWDStationsURL:  src.get("DWD_STATIONS_URL", DefaultStationsURL),
		UpstreamTimeout: upstreamTimeout,

		DecodeWorkers:    workers,
		CacheSize:        cacheSize,
		ForecastCacheTTL: forecastTTL,
		StationsCacheTTL: stationsTTL,
		ReportCacheTTL:   reportTTL,

		KafkaBrokers: parseBrokers(src.get("KAFKA_BROKERS", "")),
		KafkaTopic:   src.get("KAFKA_TOPIC", "dwd-decoded"),

		ConfigFile: configFile,
	}

	if err := validateURL("DWD_BASE_URL", cfg.DWDBaseURL); err != nil {
		return nil, err
	}
	if err := validateURL("DWD_STATIONS_URL", cfg.DWDStationsURL); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", cfg.LogFormat)
	}
	if cfg.PublishEnabled() && cfg.KafkaTopic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// source resolves a setting from the environment first, then the overlay file.
type source struct {
	file map[string]string
}

func newSource(path string) (source, error) {
	if path == "" {
		return source{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return source{}, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	file := make(map[string]string, len(raw))
	for k, v := range raw {
		file[strings.ToUpper(k)] = v
	}
	return source{file: file}, nil
}

func (s source) get(key, def string) string {
	if v, ok := s.file[key]; ok {
		def = v
	}
	return sharedcfg.EnvOrDefault(key, def)
}

func (s source) shutdownTimeout() (time.Duration, error) {
	if _, inEnv := os.LookupEnv("SHUTDOWN_TIMEOUT"); inEnv {
		return sharedcfg.ParseShutdownTimeout()
	}
	if _, inFile := s.file["SHUTDOWN_TIMEOUT"]; inFile {
		return s.duration("SHUTDOWN_TIMEOUT", "10s")
	}
	return sharedcfg.ParseShutdownTimeout()
}

func (s source) duration(key, def string) (time.Duration, error) {
	v := s.get(key, def)
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, v)
	}
	return d, nil
}

func (s source) intInRange(key string, def, lo, hi int) (int, error) {
	v := s.get(key, strconv.Itoa(def))
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s %q: must be an integer in [%d, %d]", key, v, lo, hi)
	}
	return n, nil
}

func parseBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(raw)
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute URL", key, raw)
	}
	return nil
}
