package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"gp_planner/internal/domain/service/analyzer"
	"gp_planner/internal/domain/service/strategy"
)

type Config struct {
	App      App
	HTTP     HTTP
	Probe    Probe
	Metrics  Metrics
	Postgres Postgres
	Redis    Redis
	Asynq    Asynq
	Planner  Planner
}

type App struct {
	Name     string     `env:"APP_NAME" envDefault:"gp-planner"`
	Version  string     `env:"APP_VERSION" envDefault:"dev"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	NoColor  bool       `env:"LOG_NO_COLOR" envDefault:"false"`
}

type HTTP struct {
	ListenAddress     string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogFieldMaxLen    int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
	AllowedOrigins    []string      `env:"HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Asynq struct {
	Queue           string        `env:"ASYNQ_QUEUE" envDefault:"goal_plans"`
	Concurrency     int           `env:"ASYNQ_CONCURRENCY" envDefault:"4"`
	ShutdownTimeout time.Duration `env:"ASYNQ_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	// UniqueTTL bounds how long a queued regeneration blocks another one.
	UniqueTTL       time.Duration `env:"ASYNQ_UNIQUE_TTL" envDefault:"2m"`
}

// Planner tunes the analysis pipeline.
type Planner struct {
	CandidatePoolSize           int           `env:"PLANNER_CANDIDATE_POOL_SIZE" envDefault:"100"`
	SecondsPerUnit              float64       `env:"PLANNER_SECONDS_PER_UNIT" envDefault:"1.2"`
	DailyActiveHours            float64       `env:"PLANNER_DAILY_ACTIVE_HOURS" envDefault:"4"`
	ConservativeMinMargin       float64       `env:"PLANNER_CONSERVATIVE_MIN_MARGIN" envDefault:"3"`
	StrictConservativeMinMargin float64       `env:"PLANNER_STRICT_CONSERVATIVE_MIN_MARGIN" envDefault:"5"`
	LockTTL                     time.Duration `env:"PLANNER_LOCK_TTL" envDefault:"2m"`
	RiskCacheTTL                time.Duration `env:"PLANNER_RISK_CACHE_TTL" envDefault:"30m"`
}

// AnalyzerConfig overrides the analyzer defaults with configured values.
func (p Planner) AnalyzerConfig() analyzer.Config {
	cfg := analyzer.DefaultConfig()
	cfg.CandidatePoolSize = p.CandidatePoolSize
	cfg.SecondsPerUnit = p.SecondsPerUnit
	cfg.DailyActiveHours = p.DailyActiveHours

	return cfg
}

func (p Planner) StrategyConfig() strategy.Config {
	return strategy.Config{
		ConservativeMinMargin:       p.ConservativeMinMargin,
		StrictConservativeMinMargin: p.StrictConservativeMinMargin,
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Planner.validate(); err != nil {
		return Config{}, fmt.Errorf("planner: %w", err)
	}

	if config.Asynq.UniqueTTL < time.Second {
		return Config{}, fmt.Errorf("asynq: unique ttl must be at least 1s, got %v", config.Asynq.UniqueTTL)
	}

	return config, nil
}

func (p Planner) validate() error {
	switch {
	case p.CandidatePoolSize <= 0:
		return fmt.Errorf("candidate pool size must be positive, got %d", p.CandidatePoolSize)
	case p.SecondsPerUnit <= 0:
		return fmt.Errorf("seconds per unit must be positive, got %v", p.SecondsPerUnit)
	case p.DailyActiveHours <= 0 || p.DailyActiveHours > 24:
		return fmt.Errorf("daily active hours must be in (0, 24], got %v", p.DailyActiveHours)
	case p.LockTTL <= 0:
		return fmt.Errorf("lock ttl must be positive, got %v", p.LockTTL)
	}

	return nil
}
