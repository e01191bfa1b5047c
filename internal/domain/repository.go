package domain

import (
	"context"
	"time"
)

// LayoutReader интерфейс для чтения раскладки зала
type LayoutReader interface {
	ReadLayout(path string) (*Layout, *LayoutOverrides, error)
}

// SolutionWriter интерфейс для записи результатов
type SolutionWriter interface {
	WriteSolutions(dir string, result *PlanResult) error
}

// SolutionRenderer рисует решения в виде изображений
type SolutionRenderer interface {
	RenderSolutions(dir string, layout *Layout, seatDim float64, result *PlanResult) error
}

// ConfigReader интерфейс для чтения конфигурации
type ConfigReader interface {
	ReadConfig(path string) (*Config, error)
}

// ResultCache хранит закодированные результаты расчета по ключу
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}
