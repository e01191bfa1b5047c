package infrastructure

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"restaurant-seating/internal/domain"
)

type TXTSolutionWriter struct {
	logger *zap.Logger
}

func NewTXTSolutionWriter(logger *zap.Logger) *TXTSolutionWriter {
	return &TXTSolutionWriter{logger: logger}
}

// WriteSolutions writes <run>-<idx>.txt for every solution and a
// <run>-summary.txt with the score and completeness of the run.
func (w *TXTSolutionWriter) WriteSolutions(dir string, result *domain.PlanResult) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for idx, plan := range result.Solutions {
		filename := filepath.Join(dir, fmt.Sprintf("%s-%d.txt", result.RunID, idx))
		if err := writePlan(filename, plan); err != nil {
			return fmt.Errorf("write %s: %w", filename, err)
		}
		w.logger.Debug("Solution written", zap.String("file", filename))
	}

	summary := filepath.Join(dir, result.RunID+"-summary.txt")
	if err := writeSummary(summary, result); err != nil {
		return fmt.Errorf("write %s: %w", summary, err)
	}

	w.logger.Info("Solutions written",
		zap.String("dir", dir),
		zap.Int("count", len(result.Solutions)))
	return nil
}

func writePlan(filename string, plan domain.SeatPlan) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	// Заголовок и по одной строке на место
	fmt.Fprintf(writer, "Seat\tUsable\n")
	for _, s := range plan.Seats {
		usable := 0
		if s.Usable {
			usable = 1
		}
		fmt.Fprintf(writer, "%s\t%d\n", s.ID, usable)
	}

	return writer.Flush()
}

func writeSummary(filename string, result *domain.PlanResult) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "run\t%s\n", result.RunID)
	fmt.Fprintf(writer, "score\t%d\n", result.Score)
	fmt.Fprintf(writer, "solutions\t%d\n", len(result.Solutions))
	fmt.Fprintf(writer, "ties\t%d\n", result.Ties)
	fmt.Fprintf(writer, "exhaustive\t%t\n", result.Exhaustive)
	fmt.Fprintf(writer, "truncated\t%t\n", result.Truncated)

	return writer.Flush()
}
