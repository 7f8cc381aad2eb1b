package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	RiskAPIBaseURL string
	RiskAPITimeout time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Location enrichment.
	DebounceInterval time.Duration
	LookupTimeout    time.Duration

	// Reverse-geocoding provider.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Elevation provider.
	ElevationURL     string
	ElevationTimeout time.Duration

	// ResultFencing rejects risk responses from calls older than the one
	// whose response is already displayed. Off by default: the source
	// behavior is last-received-wins.
	ResultFencing bool

	// Assessment audit stream.
	KafkaBrokers      []string
	KafkaAuditTopic   string
	KafkaAuditEnabled bool
}

// placeholderTokens are sentinel values that mean "no credential": template
// files and onboarding docs ship them, and they must degrade to fallback
// enrichment rather than produce failing API calls.
var placeholderTokens = map[string]bool{
	"YOUR_API_KEY":      true,
	"YOUR_MAPBOX_TOKEN": true,
	"changeme":          true,
	"placeholder":       true,
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	riskTimeout, err := parseDuration("RISK_API_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	debounce, err := parseDuration("DEBOUNCE_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}
	lookupTimeout, err := parseDuration("LOOKUP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	elevationTimeout, err := parseDuration("ELEVATION_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	if placeholderTokens[mapboxToken] {
		mapboxToken = ""
	}
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	auditEnabled := os.Getenv("KAFKA_AUDIT_ENABLED") == "true"

	cfg := &Config{
		RiskAPIBaseURL:  strings.TrimRight(envOrDefault("RISK_API_BASE_URL", ""), "/"),
		RiskAPITimeout:  riskTimeout,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DebounceInterval: debounce,
		LookupTimeout:    lookupTimeout,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseCacheSize(),

		ElevationURL:     envOrDefault("ELEVATION_URL", "https://api.open-elevation.com/api/v1/lookup"),
		ElevationTimeout: elevationTimeout,

		ResultFencing: os.Getenv("RESULT_FENCING") == "true",

		KafkaBrokers:      parseBrokers(envOrDefault("KAFKA_BROKERS", "")),
		KafkaAuditTopic:   envOrDefault("KAFKA_AUDIT_TOPIC", "risk-assessments"),
		KafkaAuditEnabled: auditEnabled,
	}

	if cfg.RiskAPIBaseURL == "" {
		return nil, errors.New("RISK_API_BASE_URL is required")
	}
	if cfg.DebounceInterval <= 0 {
		return nil, errors.New("DEBOUNCE_INTERVAL must be positive")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaAuditEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_AUDIT_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
