package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pos-terminal/internal/pricing"
)

type Config struct {
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Terminal TerminalConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type TerminalConfig struct {
	Operator         string
	StoredOrderTTL   time.Duration
	OnboardingCredit float64
}

// Load reads the sectioned key:value config file and then applies
// environment overrides (POS_DB_HOST, POS_DB_PORT, ...). A missing file is
// not fatal when the environment carries the connection settings.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "localhost", Port: 5432},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, VHost: "/"},
		Terminal: TerminalConfig{
			Operator:         "terminal",
			StoredOrderTTL:   30 * time.Minute,
			OnboardingCredit: pricing.DefaultOnboardingCredit,
		},
	}

	if err := readFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	applyEnv(cfg)

	if cfg.Database.Database == "" {
		return nil, fmt.Errorf("config: database name is required")
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, ":") {
			section = strings.TrimSuffix(line, ":")
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		switch section {
		case "database":
			switch key {
			case "host":
				cfg.Database.Host = value
			case "port":
				cfg.Database.Port, _ = strconv.Atoi(value)
			case "user":
				cfg.Database.User = value
			case "password":
				cfg.Database.Password = value
			case "database":
				cfg.Database.Database = value
			}
		case "rabbitmq":
			switch key {
			case "host":
				cfg.RabbitMQ.Host = value
			case "port":
				cfg.RabbitMQ.Port, _ = strconv.Atoi(value)
			case "user":
				cfg.RabbitMQ.User = value
			case "password":
				cfg.RabbitMQ.Password = value
			case "vhost":
				cfg.RabbitMQ.VHost = value
			}
		case "terminal":
			switch key {
			case "operator":
				cfg.Terminal.Operator = value
			case "stored_order_ttl_minutes":
				if n, err := strconv.Atoi(value); err == nil && n > 0 {
					cfg.Terminal.StoredOrderTTL = time.Duration(n) * time.Minute
				}
			case "onboarding_credit":
				if f, err := strconv.ParseFloat(value, 64); err == nil {
					cfg.Terminal.OnboardingCredit = f
				}
			}
		}
	}
	return scanner.Err()
}

func applyEnv(cfg *Config) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setStr(&cfg.Database.Host, "POS_DB_HOST")
	setInt(&cfg.Database.Port, "POS_DB_PORT")
	setStr(&cfg.Database.User, "POS_DB_USER")
	setStr(&cfg.Database.Password, "POS_DB_PASSWORD")
	setStr(&cfg.Database.Database, "POS_DB_NAME")
	setStr(&cfg.RabbitMQ.Host, "POS_RABBITMQ_HOST")
	setInt(&cfg.RabbitMQ.Port, "POS_RABBITMQ_PORT")
	setStr(&cfg.RabbitMQ.User, "POS_RABBITMQ_USER")
	setStr(&cfg.RabbitMQ.Password, "POS_RABBITMQ_PASSWORD")
	setStr(&cfg.RabbitMQ.VHost, "POS_RABBITMQ_VHOST")
	setStr(&cfg.Terminal.Operator, "POS_OPERATOR")
}
