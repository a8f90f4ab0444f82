package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	WebSocket WebSocketConfig `toml:"websocket"`
	API       APIConfig       `toml:"api"`
	Matching  MatchingConfig  `toml:"matching"`
	Logging   LoggingConfig   `toml:"logging"`
}

type WebSocketConfig struct {
	Addr string `toml:"addr"`
}

type APIConfig struct {
	URL     string        `toml:"url"`     // room-creation endpoint on the central server
	Timeout time.Duration `toml:"timeout"` // 0 = no client timeout
}

type MatchingConfig struct {
	TickInterval time.Duration `toml:"tick_interval"`
	ArenasFile   string        `toml:"arenas_file"` // optional YAML preset list, empty = none
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		WebSocket: WebSocketConfig{
			Addr: "[::]:12310",
		},
		API: APIConfig{
			URL: "http://localhost:8081/customAddStage",
		},
		Matching: MatchingConfig{
			TickInterval: time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
