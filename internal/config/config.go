package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Schedule      ScheduleConfig      `toml:"schedule"`
	AuthService   IntegrationConfig   `toml:"authservice"`
	NotifyService IntegrationConfig   `toml:"notifyservice"`
	Cron          CronConfig          `toml:"cron"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig рабочие часы и шаг сетки слотов
type ScheduleConfig struct {
	OpenTime    string `toml:"open_time"`    // "09:00"
	CloseTime   string `toml:"close_time"`   // "17:00"
	StepMinutes int    `toml:"step_minutes"` // шаг сетки слотов
}

// ToDomain конвертирует конфигурацию расписания в доменную модель
func (s *ScheduleConfig) ToDomain() (domain.Schedule, error) {
	open, err := types.NewTimeStringFromString(s.OpenTime)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("config: invalid schedule.open_time: %w", err)
	}
	closeTime, err := types.NewTimeStringFromString(s.CloseTime)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("config: invalid schedule.close_time: %w", err)
	}
	if !open.IsBefore(closeTime) {
		return domain.Schedule{}, fmt.Errorf("config: schedule.open_time %s must be before close_time %s", open, closeTime)
	}
	if s.StepMinutes <= 0 {
		return domain.Schedule{}, fmt.Errorf("config: schedule.step_minutes must be positive, got %d", s.StepMinutes)
	}
	return domain.Schedule{
		OpenTime:    open,
		CloseTime:   closeTime,
		StepMinutes: s.StepMinutes,
	}, nil
}

// IntegrationConfig настройки HTTP клиента внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// CronConfig настройки батч-задачи напоминаний
type CronConfig struct {
	Enabled         bool   `toml:"enabled"`
	RemindersSpec   string `toml:"reminders_spec"`   // cron-выражение, например "0 9 * * *"
	RemindersSecret string `toml:"reminders_secret"` // shared secret для HTTP триггера
}

// Load загружает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Schedule.OpenTime == "" {
		cfg.Schedule.OpenTime = domain.DefaultOpenTime
	}
	if cfg.Schedule.CloseTime == "" {
		cfg.Schedule.CloseTime = domain.DefaultCloseTime
	}
	if cfg.Schedule.StepMinutes == 0 {
		cfg.Schedule.StepMinutes = domain.DefaultStepMinutes
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		return fmt.Errorf("config: database.host and database.dbname are required")
	}
	if _, err := cfg.Schedule.ToDomain(); err != nil {
		return err
	}
	if cfg.Cron.Enabled && cfg.Cron.RemindersSecret == "" {
		return fmt.Errorf("config: cron.reminders_secret is required when cron is enabled")
	}
	return nil
}
