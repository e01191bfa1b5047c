package infrastructure

import (
	"math"
	"os"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"restaurant-seating/internal/domain"
)

const (
	defaultSecurityDistance = 1.0
	defaultSeatDim          = 0.5
	defaultTieWarning       = 1000
	defaultOutputDir        = "output"
	defaultCacheDir         = ".seating-cache"
	defaultRedisAddr        = "localhost:6379"
)

type YAMLConfigReader struct {
	logger *zap.Logger
}

func NewYAMLConfigReader(logger *zap.Logger) *YAMLConfigReader {
	return &YAMLConfigReader{logger: logger}
}

// ReadConfig loads the YAML file at path and fills unset fields with
// defaults. An empty path yields the defaults alone.
func (r *YAMLConfigReader) ReadConfig(path string) (*domain.Config, error) {
	config := domain.Config{SecurityDistance: math.NaN(), SeatDim: math.NaN()}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
		r.logger.Debug("Config loaded", zap.String("path", path))
	}

	// Устанавливаем значения по умолчанию
	r.setDefaults(&config)

	return &config, nil
}

func (r *YAMLConfigReader) setDefaults(config *domain.Config) {
	// NaN означает, что ключ не задан: 0 допустим и отключает ограничения
	if math.IsNaN(config.SecurityDistance) {
		config.SecurityDistance = defaultSecurityDistance
	}
	// явный 0 оставляем, его отклонит Validate
	if math.IsNaN(config.SeatDim) {
		config.SeatDim = defaultSeatDim
	}
	if config.Workers == 0 {
		config.Workers = max(1, runtime.NumCPU()-1)
	}
	if config.TieWarning == 0 {
		config.TieWarning = defaultTieWarning
	}
	if config.OutputDir == "" {
		config.OutputDir = defaultOutputDir
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Cache.Backend == "" {
		config.Cache.Backend = domain.CacheNone
	}
	if config.Cache.Dir == "" {
		config.Cache.Dir = defaultCacheDir
	}
	if config.Cache.RedisAddr == "" {
		config.Cache.RedisAddr = defaultRedisAddr
	}
}
