package domain

import "context"

// PlanningService сервис расчета рассадки
type PlanningService interface {
	Plan(ctx context.Context, layout *Layout) (*PlanResult, error)
}
