// Package config holds the REST gateway's configuration. The gateway is
// a thin facade, so the file stays small: where to listen and where the
// JSON-RPC backend lives.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Port       string `toml:"port"`
	HandleCORS bool   `toml:"handle_cors"`
	PrettyLog  bool   `toml:"pretty_log"`
	LogLevel   string `toml:"log_level"`
}

type BackendConfig struct {
	Endpoint string `toml:"endpoint"`
	Timeout  string `toml:"timeout"`
}

type ConfigParam struct {
	Server  ServerConfig  `toml:"server"`
	Backend BackendConfig `toml:"backend"`
}

var cfg *ConfigParam

func Config() *ConfigParam {
	return cfg
}

func LoadConfig(filename string) error {
	if filename == "" {
		cfg = defaultConfig()
		return nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	cp := defaultConfig()
	if _, err := toml.Decode(string(content), cp); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}
	cfg = cp
	return nil
}

func defaultConfig() *ConfigParam {
	return &ConfigParam{
		Server: ServerConfig{
			Port:       "8190",
			HandleCORS: true,
			PrettyLog:  false,
			LogLevel:   "info",
		},
		Backend: BackendConfig{
			Endpoint: "http://localhost:8180",
			Timeout:  "30s",
		},
	}
}

// RPCEndpoint is the backend's JSON-RPC URL.
func (c *ConfigParam) RPCEndpoint() string {
	return strings.TrimSuffix(c.Backend.Endpoint, "/") + "/jsonrpc"
}

// HealthEndpoint is the backend's health URL, probed by the gateway's
// own health handler.
func (c *ConfigParam) HealthEndpoint() string {
	return strings.TrimSuffix(c.Backend.Endpoint, "/") + "/health"
}

// BackendTimeout returns the parsed per-request bound on backend calls.
func (c *ConfigParam) BackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func init() {
	if err := LoadConfig(""); err != nil {
		panic(err)
	}
}
