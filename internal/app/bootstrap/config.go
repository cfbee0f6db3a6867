package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID             string
	HTTPPort              int
	GRPCPort              int
	PublicBaseURL         string
	DatabaseURL           string
	DBMaxConns            int
	RedisURL              string
	KafkaBrokers          []string
	DefaultCommissionRate float64
	DefaultMinimumPayout  float64
	AttributionWindow     time.Duration
	DedupWindow           time.Duration
	TierVolumeWindow      time.Duration
	OutboxFlushInterval   time.Duration
	OutboxFlushBatchSize  int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Affiliate struct {
		PublicBaseURL         string  `yaml:"public_base_url"`
		DefaultCommissionRate float64 `yaml:"default_commission_rate"`
		DefaultMinimumPayout  float64 `yaml:"default_minimum_payout"`
	} `yaml:"affiliate"`
	Storage struct {
		DatabaseURL string `yaml:"database_url"`
		DBMaxConns  int    `yaml:"db_max_conns"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"storage"`
	Events struct {
		KafkaBrokers         []string `yaml:"kafka_brokers"`
		OutboxFlushSeconds   int      `yaml:"outbox_flush_seconds"`
		OutboxFlushBatchSize int      `yaml:"outbox_flush_batch_size"`
	} `yaml:"events"`
	Runtime struct {
		AttributionWindowDays int `yaml:"attribution_window_days"`
		DedupWindowMinutes    int `yaml:"dedup_window_minutes"`
		TierVolumeWindowDays  int `yaml:"tier_volume_window_days"`
	} `yaml:"runtime"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "Affiliate-Engine",
		HTTPPort:              8080,
		GRPCPort:              9090,
		PublicBaseURL:         "https://links.platform.com",
		DBMaxConns:            20,
		DefaultCommissionRate: 10,
		DefaultMinimumPayout:  50,
		AttributionWindow:     30 * 24 * time.Hour,
		DedupWindow:           time.Hour,
		TierVolumeWindow:      30 * 24 * time.Hour,
		OutboxFlushInterval:   2 * time.Second,
		OutboxFlushBatchSize:  100,
	}
	if raw, err := os.ReadFile(path); err == nil {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Affiliate.PublicBaseURL != "" {
			cfg.PublicBaseURL = f.Affiliate.PublicBaseURL
		}
		if f.Affiliate.DefaultCommissionRate > 0 {
			cfg.DefaultCommissionRate = f.Affiliate.DefaultCommissionRate
		}
		if f.Affiliate.DefaultMinimumPayout > 0 {
			cfg.DefaultMinimumPayout = f.Affiliate.DefaultMinimumPayout
		}
		if f.Storage.DatabaseURL != "" {
			cfg.DatabaseURL = f.Storage.DatabaseURL
		}
		if f.Storage.DBMaxConns > 0 {
			cfg.DBMaxConns = f.Storage.DBMaxConns
		}
		if f.Storage.RedisURL != "" {
			cfg.RedisURL = f.Storage.RedisURL
		}
		if len(f.Events.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Events.KafkaBrokers
		}
		if f.Events.OutboxFlushSeconds > 0 {
			cfg.OutboxFlushInterval = time.Duration(f.Events.OutboxFlushSeconds) * time.Second
		}
		if f.Events.OutboxFlushBatchSize > 0 {
			cfg.OutboxFlushBatchSize = f.Events.OutboxFlushBatchSize
		}
		if f.Runtime.AttributionWindowDays > 0 {
			cfg.AttributionWindow = time.Duration(f.Runtime.AttributionWindowDays) * 24 * time.Hour
		}
		if f.Runtime.DedupWindowMinutes > 0 {
			cfg.DedupWindow = time.Duration(f.Runtime.DedupWindowMinutes) * time.Minute
		}
		if f.Runtime.TierVolumeWindowDays > 0 {
			cfg.TierVolumeWindow = time.Duration(f.Runtime.TierVolumeWindowDays) * 24 * time.Hour
		}
	}
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.PublicBaseURL = envString("PUBLIC_BASE_URL", cfg.PublicBaseURL)
	cfg.DatabaseURL = envString("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBMaxConns = envInt("DB_MAX_CONNS", cfg.DBMaxConns)
	cfg.RedisURL = envString("REDIS_URL", cfg.RedisURL)
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers := make([]string, 0)
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.KafkaBrokers = brokers
	}
	cfg.DefaultCommissionRate = envFloat("DEFAULT_COMMISSION_RATE", cfg.DefaultCommissionRate)
	cfg.DefaultMinimumPayout = envFloat("DEFAULT_MINIMUM_PAYOUT", cfg.DefaultMinimumPayout)
	cfg.AttributionWindow = time.Duration(envInt("ATTRIBUTION_WINDOW_DAYS", int(cfg.AttributionWindow.Hours()/24))) * 24 * time.Hour
	cfg.DedupWindow = time.Duration(envInt("DEDUP_WINDOW_MINUTES", int(cfg.DedupWindow.Minutes()))) * time.Minute
	cfg.TierVolumeWindow = time.Duration(envInt("TIER_VOLUME_WINDOW_DAYS", int(cfg.TierVolumeWindow.Hours()/24))) * 24 * time.Hour
	cfg.OutboxFlushInterval = time.Duration(envInt("OUTBOX_FLUSH_SECONDS", int(cfg.OutboxFlushInterval.Seconds()))) * time.Second
	cfg.OutboxFlushBatchSize = envInt("OUTBOX_FLUSH_BATCH_SIZE", cfg.OutboxFlushBatchSize)
	return cfg, nil
}

func envInt(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

func envString(name, fallback string) string {
	if raw := os.Getenv(name); raw != "" {
		return raw
	}
	return fallback
}
