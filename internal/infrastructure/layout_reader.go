package infrastructure

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"restaurant-seating/internal/domain"
)

// layoutFile mirrors the input format; JSON files are read by the YAML decoder.
type layoutFile struct {
	SeatDim     *float64     `yaml:"seat_dim"`
	TimeLimit   *int         `yaml:"time_limit"`
	SecurityDis *float64     `yaml:"security_dis"`
	Save        *bool        `yaml:"save"`
	Tables      []tableEntry `yaml:"tables"`
}

type tableEntry struct {
	XPos  float64     `yaml:"x_pos"`
	YPos  float64     `yaml:"y_pos"`
	XDim  float64     `yaml:"x_dim"`
	YDim  float64     `yaml:"y_dim"`
	Seats []seatEntry `yaml:"seats"`
}

type seatEntry struct {
	XPos float64 `yaml:"x_pos"`
	YPos float64 `yaml:"y_pos"`
}

type LayoutFileReader struct {
	logger *zap.Logger
}

func NewLayoutFileReader(logger *zap.Logger) *LayoutFileReader {
	return &LayoutFileReader{logger: logger}
}

// ReadLayout parses a JSON or YAML layout. Settings found next to the tables
// are returned as overrides; time_limit is given in minutes.
func (r *LayoutFileReader) ReadLayout(path string) (*domain.Layout, *domain.LayoutOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return r.parse(path, data)
}

func (r *LayoutFileReader) parse(path string, data []byte) (*domain.Layout, *domain.LayoutOverrides, error) {
	var file layoutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidFileFormat, path, err)
	}
	if file.Tables == nil {
		return nil, nil, fmt.Errorf("%w: %s: no tables", domain.ErrInvalidFileFormat, path)
	}

	layout := domain.NewLayout()
	for _, t := range file.Tables {
		table := layout.AddTable(t.XPos, t.YPos, t.XDim, t.YDim)
		for _, s := range t.Seats {
			table.AddSeat(s.XPos, s.YPos)
		}
	}

	overrides := &domain.LayoutOverrides{
		SecurityDistance: file.SecurityDis,
		SeatDim:          file.SeatDim,
		Render:           file.Save,
	}
	if file.TimeLimit != nil {
		budget := time.Duration(*file.TimeLimit) * time.Minute
		overrides.TimeBudget = &budget
	}

	r.logger.Info("Layout loaded",
		zap.String("file", path),
		zap.Int("tables", len(layout.Tables())),
		zap.Int("seats", layout.SeatCount()))

	return layout, overrides, nil
}
