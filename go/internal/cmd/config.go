package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/wordarena/go/internal/arena"
	"github.com/mcdev12/wordarena/go/internal/bridge"
	"github.com/mcdev12/wordarena/go/internal/countdown"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		HTTPURL    string `yaml:"http_url"`
		GatewayURL string `yaml:"gateway_url"`
	} `yaml:"server"`

	Timing struct {
		HeartbeatInterval    time.Duration `yaml:"heartbeat_interval"`
		RevealDelayPerLetter time.Duration `yaml:"reveal_delay_per_letter"`
		countdown.Budgets    `yaml:",inline"`
	} `yaml:"timing"`

	Session struct {
		Channel string `yaml:"channel"`
		Room    int    `yaml:"room"`
	} `yaml:"session"`

	Bridge struct {
		NATSURL string `yaml:"nats_url"`
	} `yaml:"bridge"`

	Inspect struct {
		Addr string `yaml:"addr"`
	} `yaml:"inspect"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func defaultConfig() *Config {
	runtime := arena.DefaultConfig()

	var config Config
	config.Server.HTTPURL = "http://localhost:8000"
	config.Server.GatewayURL = runtime.Gateway.URL
	config.Timing.HeartbeatInterval = runtime.Gateway.HeartbeatInterval
	config.Timing.RevealDelayPerLetter = runtime.RevealDelayPerLetter
	config.Timing.Budgets = runtime.Budgets
	config.Log.Level = "info"
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads the YAML file over the defaults. A missing file is not an
// error. Environment variables win over both.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.HTTPURL = getEnv("ARENA_HTTP_URL", c.Server.HTTPURL)
	c.Server.GatewayURL = getEnv("ARENA_GATEWAY_URL", c.Server.GatewayURL)
	c.Session.Channel = getEnv("ARENA_CHANNEL", c.Session.Channel)
	c.Session.Room = getEnvAsInt("ARENA_ROOM", c.Session.Room)
	c.Bridge.NATSURL = getEnv("NATS_URL", c.Bridge.NATSURL)
	c.Inspect.Addr = getEnv("INSPECT_ADDR", c.Inspect.Addr)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) runtimeConfig() arena.Config {
	runtime := arena.DefaultConfig()
	runtime.Gateway.URL = c.Server.GatewayURL
	runtime.Gateway.HeartbeatInterval = c.Timing.HeartbeatInterval
	runtime.RevealDelayPerLetter = c.Timing.RevealDelayPerLetter
	runtime.Budgets = c.Timing.Budgets
	return runtime
}

func (c *Config) bridgeConfig() bridge.Config {
	config := bridge.DefaultConfig()
	config.URL = c.Bridge.NATSURL
	return config
}

func (c *Config) logLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
