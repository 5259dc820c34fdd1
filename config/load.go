package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"etf-autotrader/infrastructure/logger"
	"etf-autotrader/infrastructure/monitor"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env       string          `yaml:"env" validate:"required,oneof=dev sim prod"`
	Log       logger.Config   `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Exchange  ExchangeConfig  `yaml:"exchange"`
	Engine    EngineConfig    `yaml:"engine"`
	HotReload HotReloadConfig `yaml:"hotReload"`
}

type MetricsConfig struct {
	Enabled bool           `yaml:"enabled"`
	Addr    string         `yaml:"addr" validate:"required_if=Enabled true"`
	Monitor monitor.Config `yaml:"monitor"`
}

// ExchangeConfig 交易所连接参数；团队名与密钥通常由环境变量覆盖。
type ExchangeConfig struct {
	URL         string        `yaml:"url" validate:"required,url"`
	TeamName    string        `yaml:"teamName" validate:"required"`
	Secret      string        `yaml:"secret" validate:"required"`
	DialTimeout time.Duration `yaml:"dialTimeout" validate:"gte=0"`
}

type HotReloadConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Cooldown time.Duration `yaml:"cooldown" validate:"gte=0"`
}

// EngineConfig 报价引擎全部可调参数。价格单位为交易所最小价格单位，数量单位为手。
type EngineConfig struct {
	QuoteInstrument string `yaml:"quoteInstrument" validate:"oneof=etf future"`
	FairValueMode   string `yaml:"fairValueMode" validate:"oneof=mean vwap"`

	TickSize       int64   `yaml:"tickSize" validate:"gt=0"`
	MinSpread      float64 `yaml:"minSpread" validate:"gt=0"`
	SpreadWeight   float64 `yaml:"spreadWeight" validate:"gte=0"`
	ReturnStrength float64 `yaml:"returnStrength" validate:"gte=0"`

	MinPressure   int `yaml:"minPressure"`
	MaxPressure   int `yaml:"maxPressure"`
	CalmPressure  int `yaml:"calmPressure"`
	ResetInterval int `yaml:"resetInterval" validate:"gte=0"`

	BaseVolume  int64 `yaml:"baseVolume" validate:"gt=0"`
	HighVolume  int64 `yaml:"highVolume" validate:"gt=0"`
	TierSize    int64 `yaml:"tierSize" validate:"gt=0"`
	DropPerTier int64 `yaml:"dropPerTier" validate:"gte=0"`

	MaxSideOrders   int   `yaml:"maxSideOrders" validate:"gt=0"`
	MaxOpenOrders   int   `yaml:"maxOpenOrders" validate:"gt=0"`
	MaxActiveVolume int64 `yaml:"maxActiveVolume" validate:"gt=0"`

	HighPosition    int64   `yaml:"highPosition" validate:"gt=0"`
	ThreshPosition  int64   `yaml:"threshPosition" validate:"gt=0"`
	ResistanceScale float64 `yaml:"resistanceScale" validate:"gte=0"`
	ResistanceCap   float64 `yaml:"resistanceCap" validate:"gte=0"`
	DumpPosition    int64   `yaml:"dumpPosition" validate:"gt=0"`
	PositionLimit   int64   `yaml:"positionLimit" validate:"gt=0"`

	MessageLimit  int           `yaml:"messageLimit" validate:"gt=0"`
	MessageWindow time.Duration `yaml:"messageWindow" validate:"gt=0"`

	TrendEnabled   bool    `yaml:"trendEnabled"`
	TrendWindow    int     `yaml:"trendWindow" validate:"gte=2"`
	TrendMinR2     float64 `yaml:"trendMinR2" validate:"gte=0,lte=1"`
	TrendLookahead int     `yaml:"trendLookahead" validate:"gte=0"`

	StatusLogInterval int `yaml:"statusLogInterval" validate:"gte=0"`

	BenignErrors   []string `yaml:"benignErrors"`
	CapacityErrors []string `yaml:"capacityErrors"`
}

// DefaultEngineConfig returns the tuning the autotrader ships with.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		QuoteInstrument:   "etf",
		FairValueMode:     "mean",
		TickSize:          100,
		MinSpread:         50,
		SpreadWeight:      50,
		ReturnStrength:    10,
		MinPressure:       0,
		MaxPressure:       10,
		CalmPressure:      4,
		ResetInterval:     100,
		BaseVolume:        10,
		HighVolume:        20,
		TierSize:          15,
		DropPerTier:       1,
		MaxSideOrders:     4,
		MaxOpenOrders:     10,
		MaxActiveVolume:   200,
		HighPosition:      10,
		ThreshPosition:    70,
		ResistanceScale:   400,
		ResistanceCap:     200,
		DumpPosition:      100,
		PositionLimit:     100,
		MessageLimit:      20,
		MessageWindow:     time.Second,
		TrendEnabled:      false,
		TrendWindow:       20,
		TrendMinR2:        0.8,
		TrendLookahead:    1,
		StatusLogInterval: 10,
		BenignErrors:      []string{"cross", "self-trade"},
		CapacityErrors:    []string{"order count", "active volume"},
	}
}

// Default returns a complete config with every default applied.
func Default() AppConfig {
	return AppConfig{
		Env: "dev",
		Log: logger.DefaultConfig(),
		Metrics: MetricsConfig{
			Addr:    ":9102",
			Monitor: monitor.DefaultConfig(),
		},
		Exchange: ExchangeConfig{DialTimeout: 5 * time.Second},
		Engine:   DefaultEngineConfig(),
		HotReload: HotReloadConfig{
			Enabled:  true,
			Cooldown: time.Second,
		},
	}
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(raw []byte) (AppConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Load reads YAML config from path and validates it.
func Load(path string) (AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from env
// vars if present. envFiles are loaded first (default ".env" when it exists);
// variables already set in the process environment win.
func LoadWithEnvOverrides(path string, envFiles ...string) (AppConfig, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("load env file: %w", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, Validate(cfg)
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("MM_EXCHANGE_URL"); v != "" {
		cfg.Exchange.URL = v
	}
	if v := os.Getenv("MM_TEAM_NAME"); v != "" {
		cfg.Exchange.TeamName = v
	}
	if v := os.Getenv("MM_SECRET"); v != "" {
		cfg.Exchange.Secret = v
	}
	if v := os.Getenv("MM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
