package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Workdir string `yaml:"workdir" json:"workdir"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
	// JwtSecret is only ever supplied through the JWT_SECRET environment
	// variable; it is never read from or written to the config file.
	JwtSecret string `yaml:"-" json:"-"`
}

type DatabaseConfig struct {
	Type string `yaml:"type" json:"type"` // postgres or sqlite
	Dsn  string `yaml:"dsn" json:"dsn"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// AppConfig is built once at startup and passed by reference into the
// components that need it. It is never mutated after LoadConfig returns.
type AppConfig struct {
	System   SystemConfig   `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Logger   LoggerConfig   `yaml:"logger" json:"logger"`
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		System: SystemConfig{
			Workdir: ".",
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Database: DatabaseConfig{
			Type: "postgres",
			Dsn:  "host=127.0.0.1 user=postgres password=postgres dbname=stationery port=5432 sslmode=disable",
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "stationery.log",
		},
	}
}

// LoadConfig reads the YAML config file when it exists, applies environment
// overrides and validates startup requirements. A missing JWT secret is a
// hard failure: the process must refuse to start without it.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config file %s", cfile)
			}
		}
	}

	setEnvString("STATIONERY_WORKDIR", &cfg.System.Workdir)
	setEnvString("STATIONERY_DB_TYPE", &cfg.Database.Type)
	setEnvString("DATABASE_URL", &cfg.Database.Dsn)
	setEnvString("STATIONERY_LOG_MODE", &cfg.Logger.Mode)
	setEnvInt("PORT", &cfg.Web.Port)

	cfg.Web.JwtSecret = os.Getenv("JWT_SECRET")
	if cfg.Web.JwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not defined, refusing to start")
	}

	return cfg, nil
}

// ListenAddr returns the host:port the web server binds to.
func (c *AppConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

// PublicDir is the root of the statically served file tree.
func (c *AppConfig) PublicDir() string {
	return filepath.Join(c.System.Workdir, "public", "uploads")
}

// UploadDir is where product image uploads are written.
func (c *AppConfig) UploadDir() string {
	return filepath.Join(c.System.Workdir, "public", "uploads", "products")
}

func setEnvString(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvInt(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*val = n
		}
	}
}
