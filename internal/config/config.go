package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type SeedDoctor struct {
	Name           string `mapstructure:"name"`
	Specialization string `mapstructure:"specialization"`
}

type SeedUser struct {
	FullName  string `mapstructure:"full_name"`
	Phone     string `mapstructure:"phone"`
	Gender    string `mapstructure:"gender"`
	BirthDate string `mapstructure:"birth_date"`
}

// SeedConfig holds the fixed reference data applied on every start.
type SeedConfig struct {
	Doctors []SeedDoctor `mapstructure:"doctors"`
	Times   []string     `mapstructure:"times"`
	User    *SeedUser    `mapstructure:"user"`
}

type OutboxConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	Channel       string        `mapstructure:"channel"`
	RetentionDays int           `mapstructure:"retention_days"`
}

// DefaultSeed is the reference catalog the clinic opened with.
func DefaultSeed() SeedConfig {
	return SeedConfig{
		Doctors: []SeedDoctor{
			{Name: "Иванов И.И.", Specialization: "Терапевт"},
			{Name: "Петров П.П.", Specialization: "Хирург"},
			{Name: "Сидорова С.С.", Specialization: "Офтальмолог"},
		},
		Times: []string{"08:00", "10:00", "12:00", "14:00", "16:00", "18:00", "20:00"},
		User: &SeedUser{
			FullName:  "Тестовый Пользователь",
			Phone:     "+79990001122",
			Gender:    "Мужской",
			BirthDate: "1980-01-01",
		},
	}
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.Seed.Doctors) == 0 {
		config.Seed = DefaultSeed()
	}
	if config.Outbox.BatchSize <= 0 {
		config.Outbox.BatchSize = 50
	}
	if config.Outbox.PollInterval <= 0 {
		config.Outbox.PollInterval = 5 * time.Second
	}
	if config.Outbox.Channel == "" {
		config.Outbox.Channel = "booking-events"
	}

	return &config, nil
}

// WorkerConfig is the env-only configuration of the outbox worker binary.
type WorkerConfig struct {
	DatabaseHost     string        `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int           `envconfig:"DB_PORT" default:"5432"`
	DatabaseUser     string        `envconfig:"DB_USER" default:"postgres"`
	DatabasePassword string        `envconfig:"DB_PASSWORD" default:""`
	DatabaseName     string        `envconfig:"DB_NAME" default:"polyclinic"`
	DatabaseSSLMode  string        `envconfig:"DB_SSLMODE" default:"disable"`
	RedisURL         string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	BatchSize        int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval     time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	Channel          string        `envconfig:"OUTBOX_CHANNEL" default:"booking-events"`
	RetentionDays    int           `envconfig:"OUTBOX_RETENTION_DAYS" default:"7"`
}

func LoadWorkerConfig() (*WorkerConfig, error) {
	var cfg WorkerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process worker config: %w", err)
	}
	return &cfg, nil
}

// Database returns the DatabaseConfig equivalent of the worker env settings.
func (c *WorkerConfig) Database() DatabaseConfig {
	return DatabaseConfig{
		Host:     c.DatabaseHost,
		Port:     c.DatabasePort,
		User:     c.DatabaseUser,
		Password: c.DatabasePassword,
		Name:     c.DatabaseName,
		SSLMode:  c.DatabaseSSLMode,
	}
}
