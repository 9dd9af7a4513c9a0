package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Server   ServerConfig   `yaml:"server"`
	Email    EmailConfig    `yaml:"email"`
	Payments PaymentConfig  `yaml:"payments"`
	Features FeatureConfig  `yaml:"features"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Expiry string `yaml:"expiry"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	Host        string   `yaml:"host"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type EmailConfig struct {
	MailerSendAPIKey string `yaml:"mailersend_api_key"`
	ResendAPIKey     string `yaml:"resend_api_key"`
	FromEmail        string `yaml:"from_email"`
	FromName         string `yaml:"from_name"`
}

type PaymentConfig struct {
	// SuccessRate is the simulated settlement approval probability.
	SuccessRate float64 `yaml:"success_rate"`
	// SettlementTimeout bounds one settlement attempt, e.g. "5s".
	SettlementTimeout string `yaml:"settlement_timeout"`
	// SettlementDelay is the simulated gateway latency, e.g. "150ms".
	SettlementDelay string `yaml:"settlement_delay"`
	// ReconcileInterval is how often the outbox sweep runs, e.g. "1m".
	ReconcileInterval string `yaml:"reconcile_interval"`
}

type FeatureConfig struct {
	EnableNotifications bool `yaml:"enable_notifications"`
	EnableEmail         bool `yaml:"enable_email"`
}

var AppConfig *Config

func LoadConfig() error {
	// Try to find config file in different locations
	configPaths := []string{
		"secret/app.yaml",
		"app.yaml",
		"config/app.yaml",
		"./app.yaml",
	}

	var configPath string
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			configPath = path
			break
		}
	}

	if configPath == "" {
		return fmt.Errorf("config file not found in any of the expected locations: %v", configPaths)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", configPath, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %v", err)
	}

	setDefaults(config)

	AppConfig = config
	return nil
}

func setDefaults(config *Config) {
	// Database defaults
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Database.User == "" {
		config.Database.User = "gym_user"
	}
	if config.Database.Password == "" {
		config.Database.Password = "gym_password"
	}
	if config.Database.Name == "" {
		config.Database.Name = "gym_db"
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = "disable"
	}

	// JWT defaults
	if config.JWT.Secret == "" {
		config.JWT.Secret = "gym-management-jwt-secret-change-in-production"
	}
	if config.JWT.Expiry == "" {
		config.JWT.Expiry = "24h"
	}

	// Server defaults
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if len(config.Server.CORSOrigins) == 0 {
		config.Server.CORSOrigins = []string{"http://localhost:3000"}
	}

	// Email defaults
	if config.Email.FromEmail == "" {
		config.Email.FromEmail = "billing@gym.example.com"
	}
	if config.Email.FromName == "" {
		config.Email.FromName = "Gym Management"
	}

	// Payment defaults
	if config.Payments.SuccessRate == 0 {
		config.Payments.SuccessRate = 0.90
	}
	if config.Payments.SettlementTimeout == "" {
		config.Payments.SettlementTimeout = "5s"
	}
	if config.Payments.SettlementDelay == "" {
		config.Payments.SettlementDelay = "150ms"
	}
	if config.Payments.ReconcileInterval == "" {
		config.Payments.ReconcileInterval = "1m"
	}

	// Feature defaults
	config.Features.EnableNotifications = true
}

func GetConfig() *Config {
	if AppConfig == nil {
		// Try to load config if not already loaded
		if err := LoadConfig(); err != nil {
			// If loading fails, create a default config
			config := &Config{}
			setDefaults(config)
			AppConfig = config
		}
	}
	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	config := GetConfig()

	switch key {
	case "DB_HOST":
		return config.Database.Host
	case "DB_PORT":
		return fmt.Sprintf("%d", config.Database.Port)
	case "DB_USER":
		return config.Database.User
	case "DB_PASSWORD":
		return config.Database.Password
	case "DB_NAME":
		return config.Database.Name
	case "DB_SSLMODE":
		return config.Database.SSLMode
	case "JWT_SECRET":
		return config.JWT.Secret
	case "JWT_EXPIRY":
		return config.JWT.Expiry
	case "PORT":
		return fmt.Sprintf("%d", config.Server.Port)
	default:
		return defaultValue
	}
}
