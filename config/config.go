package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 11211
	DefaultTimeout     = time.Second
	DefaultMaxDatagram = 4096
	DefaultLogLevel    = "info"

	// smallest reply that can be decoded, largest UDP payload over IPv4
	minDatagram = 36
	maxDatagram = 65507
)

// Server configures the development responder run by the daemon.
type Server struct {
	Listen   string `yaml:"listen"`
	Workload string `yaml:"workload"` // optional loadgen output to preload
}

// Config holds the client and daemon settings.
type Config struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxDatagram int           `yaml:"max_datagram"`
	LogLevel    string        `yaml:"log_level"`
	Server      Server        `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		Timeout:     DefaultTimeout,
		MaxDatagram: DefaultMaxDatagram,
		LogLevel:    DefaultLogLevel,
		Server: Server{
			Listen: fmt.Sprintf("%s:%d", DefaultHost, DefaultPort),
		},
	}
}

// LoadConfig reads the YAML file at path on top of Default and validates
// the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig is LoadConfig for in-memory YAML.
func ParseConfig(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxDatagram < minDatagram || c.MaxDatagram > maxDatagram {
		return fmt.Errorf("config: max_datagram %d not in [%d, %d]", c.MaxDatagram, minDatagram, maxDatagram)
	}
	return nil
}
