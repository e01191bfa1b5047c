package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"restaurant-seating/internal/app"
	"restaurant-seating/internal/domain"
	"restaurant-seating/internal/infrastructure"
	"restaurant-seating/pkg/optimization"
)

type options struct {
	configPath       string
	layoutPath       string
	securityDistance float64
	workers          int
	timeBudget       time.Duration
	maxSolutions     int
	logLevel         string
	outputDir        string
	cacheBackend     string
	save             bool
	render           bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "planner",
		Short:        "Finds every seat arrangement with the most usable seats",
		Long:         `planner disables seats so that usable seats of different tables keep the security distance, and reports every arrangement with the highest number of usable seats.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts)
		},
	}

	bindFlags(cmd, &opts)
	_ = cmd.MarkFlagRequired("layout")

	return cmd
}

func bindFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to config file")
	f.StringVarP(&opts.layoutPath, "layout", "l", "", "path to layout file (JSON or YAML)")
	f.Float64Var(&opts.securityDistance, "security-distance", 0, "minimum distance between usable seats of different tables")
	f.IntVar(&opts.workers, "workers", 0, "number of search workers")
	f.DurationVar(&opts.timeBudget, "time-budget", 0, "stop the search after this long (0 = no limit)")
	f.IntVar(&opts.maxSolutions, "max-solutions", 0, "keep at most this many tied solutions (0 = all)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for written solutions")
	f.StringVar(&opts.cacheBackend, "cache", "", "result cache backend (none, file, redis)")
	f.BoolVar(&opts.save, "save", false, "write solutions as text files")
	f.BoolVar(&opts.render, "render", false, "render solutions as PNG images")
}

func run(cmd *cobra.Command, opts *options) error {
	// Инициализация логгера
	logger, err := initLogger("info")
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Чтение конфигурации
	var configReader domain.ConfigReader = infrastructure.NewYAMLConfigReader(logger)
	configPath := opts.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(configPath); err != nil {
			configPath = ""
		}
	}
	config, err := configReader.ReadConfig(configPath)
	if err != nil {
		logger.Error("Failed to read config", zap.String("file", configPath), zap.Error(err))
		return err
	}

	var layoutReader domain.LayoutReader = infrastructure.NewLayoutFileReader(logger)
	layout, overrides, err := layoutReader.ReadLayout(opts.layoutPath)
	if err != nil {
		logger.Error("Failed to read layout", zap.String("file", opts.layoutPath), zap.Error(err))
		return err
	}
	overrides.Apply(config)
	applyFlags(cmd, opts, config)

	// Обновляем уровень логирования
	logger, err = initLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return fmt.Errorf("%w: log_file %q: %v", domain.ErrInvalidConfig, config.LogFile, err)
	}
	defer logger.Sync()

	cache, err := infrastructure.NewResultCache(config.Cache, logger)
	if err != nil {
		logger.Error("Failed to open result cache", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("Starting seat planning",
		zap.Int("tables", len(layout.Tables())),
		zap.Int("seats", layout.SeatCount()),
		zap.Float64("security_distance", config.SecurityDistance),
		zap.Int("workers", config.Workers),
		zap.Duration("time_budget", config.TimeBudget))

	var planner domain.PlanningService = app.NewSeatPlanner(logger, config, cache)
	result, err := planner.Plan(ctx, layout)
	if errors.Is(err, optimization.ErrEmptySolutionSet) {
		logger.Fatal("Solver returned no arrangement", zap.Error(err))
	}
	if err != nil {
		logger.Error("Planning failed", zap.Error(err))
		return err
	}

	printSolutions(result)

	if config.Save {
		var writer domain.SolutionWriter = infrastructure.NewTXTSolutionWriter(logger)
		if err := writer.WriteSolutions(config.OutputDir, result); err != nil {
			logger.Error("Failed to write solutions", zap.Error(err))
			return err
		}
	}
	if config.Render {
		var renderer domain.SolutionRenderer = infrastructure.NewPNGRenderer(logger)
		if err := renderer.RenderSolutions(config.OutputDir, layout, config.SeatDim, result); err != nil {
			logger.Error("Failed to render solutions", zap.Error(err))
			return err
		}
	}

	logger.Info("Seat planning completed",
		zap.String("run", result.RunID),
		zap.Int("score", result.Score),
		zap.Bool("exhaustive", result.Exhaustive),
		zap.Bool("cached", result.Cached))
	return nil
}

// applyFlags copies explicitly set flags over file configuration.
func applyFlags(cmd *cobra.Command, opts *options, config *domain.Config) {
	f := cmd.Flags()
	if f.Changed("security-distance") {
		config.SecurityDistance = opts.securityDistance
	}
	if f.Changed("workers") {
		config.Workers = opts.workers
	}
	if f.Changed("time-budget") {
		config.TimeBudget = opts.timeBudget
	}
	if f.Changed("max-solutions") {
		config.MaxSolutions = opts.maxSolutions
	}
	if f.Changed("log-level") {
		config.LogLevel = opts.logLevel
	}
	if f.Changed("output-dir") {
		config.OutputDir = opts.outputDir
	}
	if f.Changed("cache") {
		config.Cache.Backend = opts.cacheBackend
	}
	if f.Changed("save") {
		config.Save = opts.save
	}
	if f.Changed("render") {
		config.Render = opts.render
	}
}

func printSolutions(result *domain.PlanResult) {
	note := ""
	if !result.Exhaustive {
		note = ", search stopped early"
	}
	fmt.Printf("\nTop solutions (score=%d%s):\n", result.Score, note)
	for _, plan := range result.Solutions {
		fmt.Println(plan)
	}
	if result.Truncated {
		fmt.Printf("... %d more tied solutions not shown\n", result.Ties-len(result.Solutions))
	}
}

// initLogger initializes the logger with the specified level and log file name.
func initLogger(level string, logfileName ...string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputPath := []string{"stderr"}
	for _, item := range logfileName {
		if item != "" {
			outputPath = append(outputPath, item)
		}
	}

	config.OutputPaths = outputPath
	config.ErrorOutputPaths = outputPath
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	return config.Build()
}
