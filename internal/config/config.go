package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the POS service
type Config struct {
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Orders   OrdersConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type HTTPConfig struct {
	Port int
}

// AuthConfig controls session tokens and password hashing
type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	BcryptCost  int
}

type OrdersConfig struct {
	Timezone string
}

var sections = []string{"database", "rabbitmq", "http", "auth", "orders"}

// envKeys are the variables picked up from the process environment. Other
// variables sharing a section prefix (HTTP_PROXY) are ignored.
var envKeys = []string{
	"DATABASE_HOST", "DATABASE_PORT", "DATABASE_USER", "DATABASE_PASSWORD", "DATABASE_NAME",
	"RABBITMQ_HOST", "RABBITMQ_PORT", "RABBITMQ_USER", "RABBITMQ_PASSWORD",
	"HTTP_PORT",
	"AUTH_TOKEN_SECRET", "AUTH_TOKEN_TTL", "AUTH_BCRYPT_COST",
	"ORDERS_TIMEZONE",
}

// Default returns a configuration for a local development stack
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "pos", Name: "pos"},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, User: "guest", Password: "guest"},
		HTTP:     HTTPConfig{Port: 3000},
		Auth:     AuthConfig{TokenTTL: 12 * time.Hour, BcryptCost: 12},
		Orders:   OrdersConfig{Timezone: "Europe/Warsaw"},
	}
}

// Load reads configuration from a dotenv file and lets the process environment
// override any key. An empty filename reads the environment only.
func Load(filename string) (*Config, error) {
	values := map[string]string{}
	if filename != "" {
		fileValues, err := godotenv.Read(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		values = fileValues
	}

	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}

	config := Default()
	for key, value := range values {
		section := sectionOf(key)
		if section == "" {
			continue
		}
		field := strings.ToLower(strings.TrimPrefix(key, strings.ToUpper(section)+"_"))
		if err := config.setValue(section, field, strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("failed to set config value %s: %w", key, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func sectionOf(key string) string {
	for _, s := range sections {
		if strings.HasPrefix(key, strings.ToUpper(s)+"_") {
			return s
		}
	}
	return ""
}

// setValue sets a configuration value based on section and key
func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "database":
		return c.setDatabaseValue(key, value)
	case "rabbitmq":
		return c.setRabbitMQValue(key, value)
	case "http":
		return c.setHTTPValue(key, value)
	case "auth":
		return c.setAuthValue(key, value)
	case "orders":
		return c.setOrdersValue(key, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) setDatabaseValue(key, value string) error {
	switch key {
	case "host":
		c.Database.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Database.Port = port
	case "user":
		c.Database.User = value
	case "password":
		c.Database.Password = value
	case "name":
		c.Database.Name = value
	default:
		return fmt.Errorf("unknown database key: %s", key)
	}
	return nil
}

func (c *Config) setRabbitMQValue(key, value string) error {
	switch key {
	case "host":
		c.RabbitMQ.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.RabbitMQ.Port = port
	case "user":
		c.RabbitMQ.User = value
	case "password":
		c.RabbitMQ.Password = value
	default:
		return fmt.Errorf("unknown rabbitmq key: %s", key)
	}
	return nil
}

func (c *Config) setHTTPValue(key, value string) error {
	switch key {
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.HTTP.Port = port
	default:
		return fmt.Errorf("unknown http key: %s", key)
	}
	return nil
}

func (c *Config) setAuthValue(key, value string) error {
	switch key {
	case "token_secret":
		c.Auth.TokenSecret = value
	case "token_ttl":
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid token ttl: %w", err)
		}
		c.Auth.TokenTTL = ttl
	case "bcrypt_cost":
		cost, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid bcrypt cost: %w", err)
		}
		c.Auth.BcryptCost = cost
	default:
		return fmt.Errorf("unknown auth key: %s", key)
	}
	return nil
}

func (c *Config) setOrdersValue(key, value string) error {
	switch key {
	case "timezone":
		c.Orders.Timezone = value
	default:
		return fmt.Errorf("unknown orders key: %s", key)
	}
	return nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("AUTH_TOKEN_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone used for daily order numbering
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Orders.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDERS_TIMEZONE %q: %w", c.Orders.Timezone, err)
	}
	return loc, nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
