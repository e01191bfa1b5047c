package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Config представляет конфигурацию приложения
type Config struct {
	SecurityDistance float64       `yaml:"security_distance"`
	SeatDim          float64       `yaml:"seat_dim"`
	TimeBudget       time.Duration `yaml:"time_budget"`
	Workers          int           `yaml:"workers"`
	MaxSolutions     int           `yaml:"max_solutions"`
	TieWarning       int           `yaml:"tie_warning"`
	Save             bool          `yaml:"save"`
	Render           bool          `yaml:"render"`
	OutputDir        string        `yaml:"output_dir"`
	LogLevel         string        `yaml:"log_level"`
	LogFile          string        `yaml:"log_file"`
	Cache            CacheConfig   `yaml:"cache"`
}

// CacheConfig описывает хранилище готовых результатов
type CacheConfig struct {
	Backend   string        `yaml:"backend"`
	Dir       string        `yaml:"dir"`
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Validate rejects configuration values the solver cannot work with.
func (c *Config) Validate() error {
	if math.IsNaN(c.SecurityDistance) || math.IsInf(c.SecurityDistance, 0) || c.SecurityDistance < 0 {
		return fmt.Errorf("%w: security_distance must be a finite non-negative number, got %v", ErrInvalidConfig, c.SecurityDistance)
	}
	if math.IsNaN(c.SeatDim) || math.IsInf(c.SeatDim, 0) || c.SeatDim <= 0 {
		return fmt.Errorf("%w: seat_dim must be positive, got %v", ErrInvalidConfig, c.SeatDim)
	}
	if c.TimeBudget < 0 {
		return fmt.Errorf("%w: time_budget must not be negative, got %s", ErrInvalidConfig, c.TimeBudget)
	}
	if c.MaxSolutions < 0 {
		return fmt.Errorf("%w: max_solutions must not be negative, got %d", ErrInvalidConfig, c.MaxSolutions)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	switch c.Cache.Backend {
	case "", CacheNone, CacheFile, CacheRedis:
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	return nil
}

// LayoutOverrides хранит параметры, заданные прямо в файле раскладки.
// Nil означает, что значение в файле отсутствует.
type LayoutOverrides struct {
	SecurityDistance *float64
	SeatDim          *float64
	TimeBudget       *time.Duration
	// Render соответствует ключу save: в файле раскладки он означает карту в PNG
	Render *bool
}

// Apply переносит заданные в файле значения в конфигурацию
func (o *LayoutOverrides) Apply(c *Config) {
	if o == nil {
		return
	}
	if o.SecurityDistance != nil {
		c.SecurityDistance = *o.SecurityDistance
	}
	if o.SeatDim != nil {
		c.SeatDim = *o.SeatDim
	}
	if o.TimeBudget != nil {
		c.TimeBudget = *o.TimeBudget
	}
	if o.Render != nil {
		c.Render = *o.Render
	}
}

// SeatStatus состояние одного места в решении
type SeatStatus struct {
	ID     SeatID
	Usable bool
}

// SeatPlan одно оптимальное решение
type SeatPlan struct {
	Seats []SeatStatus
}

// Usable returns the number of usable seats in the plan.
func (p SeatPlan) Usable() int {
	n := 0
	for _, s := range p.Seats {
		if s.Usable {
			n++
		}
	}
	return n
}

// String formats the plan as "1-1=1 1-2=0 ...".
func (p SeatPlan) String() string {
	parts := make([]string, len(p.Seats))
	for i, s := range p.Seats {
		if s.Usable {
			parts[i] = s.ID.String() + "=1"
		} else {
			parts[i] = s.ID.String() + "=0"
		}
	}
	return strings.Join(parts, " ")
}

// PlanResult представляет результат расчета рассадки
type PlanResult struct {
	RunID      string
	Score      int
	Exhaustive bool
	Ties       int
	Truncated  bool
	Cached     bool
	Nodes      int64
	Elapsed    time.Duration
	Solutions  []SeatPlan
}

var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrInvalidLayout     = errors.New("invalid layout")
	ErrInvalidFileFormat = errors.New("invalid file format")
)
