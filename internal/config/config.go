package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/username/schedule-engine/internal/calendar"
	"github.com/username/schedule-engine/internal/schedule"
	"github.com/username/schedule-engine/pkg/dateutil"
)

// EnvPrefix is the prefix of environment variables overriding config keys
const EnvPrefix = "SCHEDULE_ENGINE"

// Config represents application configuration
type Config struct {
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// ScheduleConfig holds the month-to-days conversion constants and the schedule length cap
type ScheduleConfig struct {
	CalendarDaysPerMonth int    `mapstructure:"calendar_days_per_month"`
	BusinessDaysPerMonth int    `mapstructure:"business_days_per_month"`
	MaxTotalDays         int    `mapstructure:"max_total_days"`
	DefaultTemplate      string `mapstructure:"default_template"`
}

// CalendarConfig represents holiday calendar configuration
type CalendarConfig struct {
	Builtin      bool     `mapstructure:"builtin"`       // Use the compiled-in national table
	HolidaysFile string   `mapstructure:"holidays_file"` // Optional extra holidays, one per line
	WeekendDays  []string `mapstructure:"weekend_days"`
}

// ServerConfig represents HTTP API configuration
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	Mode            string `mapstructure:"mode"` // gin mode: debug, release or test
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from file, environment and an optional .env file.
// With an empty configPath a missing config file is not an error.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.schedule-engine")
		v.AddConfigPath("/etc/schedule-engine")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment is present
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schedule.calendar_days_per_month", schedule.DefaultMonthConversion.CalendarDaysPerMonth)
	v.SetDefault("schedule.business_days_per_month", schedule.DefaultMonthConversion.BusinessDaysPerMonth)
	v.SetDefault("schedule.max_total_days", schedule.DefaultMaxTotalDays)
	v.SetDefault("schedule.default_template", "oficina")
	v.SetDefault("calendar.builtin", true)
	v.SetDefault("calendar.holidays_file", "")
	v.SetDefault("calendar.weekend_days", []string{"saturday", "sunday"})
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Schedule config
	if err := c.Schedule.MonthConversion().Validate(); err != nil {
		return err
	}
	if c.Schedule.MaxTotalDays <= 0 || c.Schedule.MaxTotalDays > schedule.MaxTotalDaysCeiling {
		return fmt.Errorf("schedule.max_total_days must be between 1 and %d, got %d",
			schedule.MaxTotalDaysCeiling, c.Schedule.MaxTotalDays)
	}
	if c.Schedule.DefaultTemplate == "" {
		return fmt.Errorf("schedule.default_template is required")
	}

	// Validate Calendar config
	weekend, err := c.Calendar.GetWeekendDays()
	if err != nil {
		return err
	}
	if len(weekend) >= 7 {
		return fmt.Errorf("calendar.weekend_days must leave at least one workday")
	}

	// Validate Server config
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be 'debug', 'release' or 'test', got '%s'", c.Server.Mode)
	}

	// Validate Log config
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level)
	}

	return nil
}

// MonthConversion returns the configured month-to-days constants
func (c *ScheduleConfig) MonthConversion() schedule.MonthConversion {
	return schedule.MonthConversion{
		CalendarDaysPerMonth: c.CalendarDaysPerMonth,
		BusinessDaysPerMonth: c.BusinessDaysPerMonth,
	}
}

// GetWeekendDays parses the configured weekend day names. Default: Saturday and Sunday
func (c *CalendarConfig) GetWeekendDays() ([]time.Weekday, error) {
	if len(c.WeekendDays) == 0 {
		return calendar.DefaultWeekend(), nil
	}

	seen := make(map[time.Weekday]bool)
	days := make([]time.Weekday, 0, len(c.WeekendDays))
	for _, name := range c.WeekendDays {
		wd, err := dateutil.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("calendar.weekend_days: %w", err)
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		days = append(days, wd)
	}
	return days, nil
}

// GetShutdownTimeout returns the graceful shutdown timeout. Default: 10s
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	if c.ShutdownTimeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || duration <= 0 {
		return 10 * time.Second
	}
	return duration
}

// ExpandEnvVars expands environment variables in path settings
func (c *Config) ExpandEnvVars() {
	c.Calendar.HolidaysFile = os.ExpandEnv(c.Calendar.HolidaysFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
