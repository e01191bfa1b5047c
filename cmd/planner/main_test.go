package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-seating/internal/domain"
)

func TestApplyFlags_OnlyChangedFlags(t *testing.T) {
	var opts options
	cmd := &cobra.Command{Use: "planner"}
	bindFlags(cmd, &opts)
	require.NoError(t, cmd.ParseFlags([]string{
		"--security-distance", "0",
		"--workers", "3",
		"--time-budget", "5s",
		"--save",
	}))

	config := &domain.Config{SecurityDistance: 1.5, Workers: 7, MaxSolutions: 4, OutputDir: "out"}
	applyFlags(cmd, &opts, config)

	assert.Zero(t, config.SecurityDistance)
	assert.Equal(t, 3, config.Workers)
	assert.Equal(t, 5*time.Second, config.TimeBudget)
	assert.True(t, config.Save)
	assert.Equal(t, 4, config.MaxSolutions, "unchanged flag must keep file value")
	assert.Equal(t, "out", config.OutputDir)
}

func TestRootCmd_WritesSolutions(t *testing.T) {
	dir := t.TempDir()
	layout := filepath.Join(dir, "layout.json")
	require.NoError(t, os.WriteFile(layout, []byte(`{
  "security_dis": 1,
  "tables": [
    {"x_pos": 0, "y_pos": 0, "x_dim": 1, "y_dim": 1, "seats": [{"x_pos": 1, "y_pos": 0}]},
    {"x_pos": 2, "y_pos": 0, "x_dim": 1, "y_dim": 1, "seats": [{"x_pos": 1.5, "y_pos": 0}]}
  ]
}`), 0644))
	out := filepath.Join(dir, "out")

	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--layout", layout,
	})
	assert.Error(t, cmd.Execute(), "explicit config path must exist")

	cmd = newRootCmd()
	cmd.SetArgs([]string{
		"--layout", layout,
		"--workers", "1",
		"--log-level", "error",
		"--output-dir", out,
		"--save",
	})
	require.NoError(t, cmd.Execute())

	summaries, err := filepath.Glob(filepath.Join(out, "*-summary.txt"))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	data, err := os.ReadFile(summaries[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "score\t1\n")
	assert.Contains(t, string(data), "solutions\t2\n")
}

func TestRootCmd_LayoutSaveRendersUnlessFlagDisables(t *testing.T) {
	dir := t.TempDir()
	layout := filepath.Join(dir, "layout.json")
	require.NoError(t, os.WriteFile(layout, []byte(`{
  "save": true,
  "tables": [
    {"x_pos": 0, "y_pos": 0, "x_dim": 1, "y_dim": 1, "seats": [{"x_pos": 1, "y_pos": 0}]}
  ]
}`), 0644))

	rendered := filepath.Join(dir, "rendered")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--layout", layout, "--log-level", "error", "--output-dir", rendered})
	require.NoError(t, cmd.Execute())

	images, err := filepath.Glob(filepath.Join(rendered, "*.png"))
	require.NoError(t, err)
	assert.Len(t, images, 1)

	plain := filepath.Join(dir, "plain")
	cmd = newRootCmd()
	cmd.SetArgs([]string{"--layout", layout, "--log-level", "error", "--output-dir", plain, "--render=false"})
	require.NoError(t, cmd.Execute())

	images, err = filepath.Glob(filepath.Join(plain, "*.png"))
	require.NoError(t, err)
	assert.Empty(t, images, "explicit flag beats the layout file")
}

func TestRootCmd_UnwritableLogFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	logfile := filepath.Join(dir, "missing", "sub", "planner.log")
	require.NoError(t, os.WriteFile(config, []byte("log_file: "+logfile+"\n"), 0644))
	layout := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(layout, []byte("tables:\n  - {x_pos: 0, y_pos: 0, x_dim: 1, y_dim: 1}\n"), 0644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", config, "--layout", layout})

	var err error
	require.NotPanics(t, func() { err = cmd.Execute() })
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestInitLogger(t *testing.T) {
	logfile := filepath.Join(t.TempDir(), "planner.log")

	logger, err := initLogger("warn", logfile)
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept")
	_ = logger.Sync()

	data, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")

	_, err = initLogger("info", filepath.Join(t.TempDir(), "missing", "planner.log"))
	assert.Error(t, err)
}
