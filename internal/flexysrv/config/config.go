package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Port       string `toml:"port"`
	HandleCORS bool   `toml:"handle_cors"`
	PrettyLog  bool   `toml:"pretty_log"`
	LogLevel   string `toml:"log_level"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	ControlDBName   string `toml:"control_db_name"`
	AdminDBName     string `toml:"admin_db_name"`
	SSLMode         string `toml:"ssl_mode"`
	MaxConns        int    `toml:"max_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
}

type TenantConfig struct {
	DBPrefix         string `toml:"db_prefix"`
	LockTimeout      string `toml:"lock_timeout"`
	ProvisionTimeout string `toml:"provision_timeout"`
}

type ConfigParam struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Tenant   TenantConfig   `toml:"tenant"`
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
			Port:       "8180",
			HandleCORS: true,
			PrettyLog:  false,
			LogLevel:   "info",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "flexy",
			Password:        "abc@123",
			ControlDBName:   "flexy_control",
			AdminDBName:     "postgres",
			SSLMode:         "disable",
			MaxConns:        10,
			MaxIdleConns:    5,
			ConnMaxLifetime: "30m",
		},
		Tenant: TenantConfig{
			DBPrefix:         "flexy_tenant_",
			LockTimeout:      "30s",
			ProvisionTimeout: "60s",
		},
	}
}

// LockTimeout returns the parsed per-tenant lock acquisition bound.
func (c *ConfigParam) LockTimeout() time.Duration {
	return parseDuration(c.Tenant.LockTimeout, 30*time.Second)
}

// ProvisionTimeout bounds a single provision-and-migrate sequence.
func (c *ConfigParam) ProvisionTimeout() time.Duration {
	return parseDuration(c.Tenant.ProvisionTimeout, 60*time.Second)
}

// ConnMaxLifetime returns the parsed pooled-connection lifetime.
func (c *ConfigParam) ConnMaxLifetime() time.Duration {
	return parseDuration(c.Database.ConnMaxLifetime, 30*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// TestInit points the loaded config at the test control database so tests
// never touch a real deployment. The tenant prefix is distinct for the
// same reason: suite cleanup drops every database matching it.
func TestInit() {
	cfg = defaultConfig()
	cfg.Database.ControlDBName = "flexy_control_test"
	cfg.Tenant.DBPrefix = "flexy_tenant_test_"
	if h := os.Getenv("FLEXY_TEST_DB_HOST"); h != "" {
		cfg.Database.Host = h
	}
	if u := os.Getenv("FLEXY_TEST_DB_USER"); u != "" {
		cfg.Database.User = u
	}
	if p := os.Getenv("FLEXY_TEST_DB_PASSWORD"); p != "" {
		cfg.Database.Password = p
	}
}

func init() {
	err := LoadConfig("")
	if err != nil {
		panic(err)
	}
}
