package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/schedule-engine/internal/calendar"
	"github.com/username/schedule-engine/internal/config"
	"github.com/username/schedule-engine/internal/schedule"
	"github.com/username/schedule-engine/internal/worktime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	appConfig  *config.Config
	logger     = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "schedule-engine",
		Short:         "Project schedule calculator",
		Long:          "Compute project end dates, phase calendars and work hours over a national holiday calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			appConfig = cfg

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml, $HOME/.schedule-engine, /etc/schedule-engine)")

	rootCmd.AddCommand(computeCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(templatesCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// initializeEngine assembles the holiday calendar, classifier and engine from config
func initializeEngine(cfg *config.Config) (*schedule.Engine, error) {
	var members []calendar.HolidayCalendar

	if cfg.Calendar.Builtin {
		table := calendar.DefaultTable()
		logger.Debug("Using built-in holiday table", zap.String("version", table.Version()))
		members = append(members, table)
	}

	if cfg.Calendar.HolidaysFile != "" {
		fileCal := calendar.NewFileCalendar(cfg.Calendar.HolidaysFile, logger)
		if err := fileCal.Load(); err != nil {
			logger.Warn("Failed to load holidays file, continuing without it",
				zap.String("file", cfg.Calendar.HolidaysFile),
				zap.Error(err))
		} else {
			members = append(members, fileCal)
		}
	}

	weekend, err := cfg.Calendar.GetWeekendDays()
	if err != nil {
		return nil, err
	}

	holidays := calendar.NewCompositeCalendar(logger, members...)
	classifier := calendar.NewClassifier(holidays, weekend...)

	return schedule.NewEngine(classifier, worktime.DefaultRegistry(), cfg.Schedule.MonthConversion(), cfg.Schedule.MaxTotalDays, logger), nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if err := config.Level.UnmarshalText([]byte(level)); err != nil {
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
