// Package config loads service settings from the environment and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string

	StoreDriver      string
	PendingLogDriver string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisHost string
	RedisPort int
	CacheTTL  time.Duration

	RabbitMQHost     string
	RabbitMQPort     int
	RabbitMQUser     string
	RabbitMQPassword string

	ConsulHost  string
	ConsulPort  int
	ServiceName string
	ServiceID   string
	ServicePort int

	ReadRetryMax     int
	ReadRetryInitial time.Duration
	NotifyTimeout    time.Duration
}

// source resolves a setting: environment first, then the optional config file.
type source map[string]string

func (s source) getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s[key]; v != "" {
		return v
	}
	return def
}

func (s source) atoienv(key string, def int) int {
	v := s.getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s source) durenvms(key string, defMs int) time.Duration {
	return time.Duration(s.atoienv(key, defMs)) * time.Millisecond
}

func (s source) durenvs(key string, defSec int) time.Duration {
	return time.Duration(s.atoienv(key, defSec)) * time.Second
}

// portOf extracts the numeric port from an address such as ":8082".
func portOf(addr string, def int) int {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return def
	}
	n, err := strconv.Atoi(addr[i+1:])
	if err != nil {
		return def
	}
	return n
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return source(nil).load()
}

// LoadFile reads a YAML file of settings keyed by their environment variable
// names. Environment variables still take precedence over the file.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Load(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	s := make(source, len(raw))
	for k, v := range raw {
		if v != nil {
			s[strings.ToUpper(k)] = fmt.Sprint(v)
		}
	}
	return s.load(), nil
}

func (s source) load() Config {
	addr := s.getenv("HTTP_ADDR", ":8082")
	name := s.getenv("SERVICE_NAME", "marketplace-core")
	return Config{
		HTTPAddr:        addr,
		ShutdownTimeout: s.durenvs("SHUTDOWN_TIMEOUT", 15),
		LogLevel:        strings.ToLower(s.getenv("LOG_LEVEL", "info")),

		StoreDriver:      strings.ToLower(s.getenv("STORE_DRIVER", DriverPostgres)),
		PendingLogDriver: strings.ToLower(s.getenv("PENDING_LOG_DRIVER", DriverMemory)),

		PostgresHost:     s.getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     s.atoienv("POSTGRES_PORT", 5432),
		PostgresUser:     s.getenv("POSTGRES_USER", "minisys"),
		PostgresPassword: s.getenv("POSTGRES_PASSWORD", "minisys123"),
		PostgresDB:       s.getenv("POSTGRES_DB", "minisys"),

		RedisHost: s.getenv("REDIS_HOST", "localhost"),
		RedisPort: s.atoienv("REDIS_PORT", 6379),
		CacheTTL:  s.durenvs("CACHE_TTL_SECONDS", 300),

		RabbitMQHost:     s.getenv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     s.atoienv("RABBITMQ_PORT", 5672),
		RabbitMQUser:     s.getenv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: s.getenv("RABBITMQ_PASSWORD", "guest"),

		ConsulHost:  s.getenv("CONSUL_HOST", "localhost"),
		ConsulPort:  s.atoienv("CONSUL_PORT", 8500),
		ServiceName: name,
		ServiceID:   s.getenv("SERVICE_ID", name+"-1"),
		ServicePort: portOf(addr, 8082),

		ReadRetryMax:     s.atoienv("READ_RETRY_MAX", 3),
		ReadRetryInitial: s.durenvms("READ_RETRY_INITIAL_MS", 100),
		NotifyTimeout:    s.durenvms("NOTIFY_TIMEOUT_MS", 5000),
	}
}
