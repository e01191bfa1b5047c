package infrastructure

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"restaurant-seating/internal/domain"
)

const (
	colorBackground = "#ffffff"
	colorTable      = "#42B2E6"
	colorUsable     = "#B3B3B3"
	colorUnusable   = "#D9D9D9"
	colorLabel      = "#ffffff"

	defaultScale  = 100.0
	labelOffset   = 5.0
	maxCanvasSide = 8192.0
)

// PNGRenderer draws each solution as a floor plan: tables in blue, usable
// seats dark grey, unusable seats light grey.
type PNGRenderer struct {
	logger *zap.Logger
	scale  float64
}

func NewPNGRenderer(logger *zap.Logger) *PNGRenderer {
	return &PNGRenderer{logger: logger, scale: defaultScale}
}

// RenderSolutions writes <run>-<idx>.png for every solution.
func (r *PNGRenderer) RenderSolutions(dir string, layout *domain.Layout, seatDim float64, result *domain.PlanResult) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	scale := r.scaleFor(layout, seatDim)
	if scale < r.scale {
		r.logger.Warn("Layout too large for the canvas, drawing scaled down",
			zap.Float64("scale", scale),
			zap.Float64("max_side", maxCanvasSide))
	}

	for idx, plan := range result.Solutions {
		dc := r.draw(layout, seatDim, scale, plan)
		filename := filepath.Join(dir, fmt.Sprintf("%s-%d.png", result.RunID, idx))
		if err := dc.SavePNG(filename); err != nil {
			return fmt.Errorf("render %s: %w", filename, err)
		}
		r.logger.Debug("Solution rendered", zap.String("file", filename))
	}

	r.logger.Info("Solutions rendered",
		zap.String("dir", dir),
		zap.Int("count", len(result.Solutions)))
	return nil
}

func (r *PNGRenderer) draw(layout *domain.Layout, seatDim, scale float64, plan domain.SeatPlan) *gg.Context {
	maxX, maxY := extent(layout, seatDim)
	width, height := canvasSide(maxX*scale), canvasSide(maxY*scale)
	dc := gg.NewContext(width, height)
	dc.SetHexColor(colorBackground)
	dc.Clear()

	for _, t := range layout.Tables() {
		rect(dc, scale, t.Position.X, t.Position.Y, t.Width, t.Height, strconv.Itoa(t.ID), colorTable)
	}

	for _, s := range plan.Seats {
		seat, ok := layout.Seat(s.ID)
		if !ok {
			r.logger.Warn("Seat missing from layout", zap.Stringer("seat", s.ID))
			continue
		}
		color := colorUnusable
		if s.Usable {
			color = colorUsable
		}
		rect(dc, scale, seat.Position.X, seat.Position.Y, seatDim, seatDim, strconv.Itoa(s.ID.Seat), color)
	}
	return dc
}

func rect(dc *gg.Context, scale, x, y, w, h float64, name, color string) {
	x1, y1 := x*scale, y*scale
	dc.SetHexColor(color)
	dc.DrawRectangle(x1, y1, w*scale, h*scale)
	dc.Fill()

	dc.SetHexColor(colorLabel)
	dc.DrawStringAnchored(name, x1+labelOffset, y1+labelOffset, 0, 1)
}

// scaleFor keeps the default scale unless the layout would need a canvas
// side above maxCanvasSide pixels.
func (r *PNGRenderer) scaleFor(layout *domain.Layout, seatDim float64) float64 {
	maxX, maxY := extent(layout, seatDim)
	side := math.Max(maxX, maxY) * r.scale
	if side <= maxCanvasSide {
		return r.scale
	}
	return r.scale * maxCanvasSide / side
}

// extent is the far corner of every table and seat, in layout units.
func extent(layout *domain.Layout, seatDim float64) (float64, float64) {
	maxX, maxY := 0.0, 0.0
	for _, t := range layout.Tables() {
		maxX = math.Max(maxX, t.Position.X+t.Width)
		maxY = math.Max(maxY, t.Position.Y+t.Height)
		for _, s := range t.Seats() {
			maxX = math.Max(maxX, s.Position.X+seatDim)
			maxY = math.Max(maxY, s.Position.Y+seatDim)
		}
	}
	return maxX, maxY
}

func canvasSide(pixels float64) int {
	return int(math.Min(maxCanvasSide, math.Max(1, math.Ceil(pixels))))
}
