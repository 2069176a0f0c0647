package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Backend drivers.
const (
	DriverREST     = "rest"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Backend  BackendConfig  `yaml:"backend"`
	AI       AIConfig       `yaml:"ai"`
	Auth     AuthConfig     `yaml:"auth"`
	Field    FieldConfig    `yaml:"field"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type BackendConfig struct {
	Driver   string         `yaml:"driver"`
	REST     RESTConfig     `yaml:"rest"`
	Database DatabaseConfig `yaml:"database"`
}

type RESTConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type AIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenDays int    `yaml:"token_days"`
}

type FieldConfig struct {
	DefaultProjectID string `yaml:"default_project_id"`
	Timezone         string `yaml:"timezone"`
	OrderedUploads   bool   `yaml:"ordered_uploads"`
}

type ScheduleConfig struct {
	Refresh  string `yaml:"refresh"`
	Briefing string `yaml:"briefing"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 9871},
		Log:     LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Backend: BackendConfig{
			Driver:   DriverREST,
			REST:     RESTConfig{TimeoutSeconds: 15},
			Database: DatabaseConfig{Port: 3306, Name: "chenghui", SSLMode: "disable"},
		},
		AI:       AIConfig{Model: "qwen-plus"},
		Auth:     AuthConfig{JWTSecret: "chenghui-supervision-secret", TokenDays: 7},
		Field:    FieldConfig{DefaultProjectID: "P001", Timezone: "Asia/Shanghai"},
		Schedule: ScheduleConfig{Refresh: "@every 5m"},
	}
}

func Load(configFile string) *Config {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	c := Default()
	paths := []string{"etc/config.yaml", "/etc/chenghui/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	c.applyEnv()
	return c
}

func (c *Config) applyEnv() {
	envOverride(&c.Backend.Driver, "BACKEND_DRIVER")
	envOverride(&c.Backend.REST.BaseURL, "SUPABASE_URL")
	envOverride(&c.Backend.REST.APIKey, "SUPABASE_KEY")
	envOverride(&c.Backend.Database.Host, "DB_HOST")
	envOverride(&c.Backend.Database.User, "DB_USER")
	envOverride(&c.Backend.Database.Password, "DB_PASS")
	envOverride(&c.Backend.Database.Name, "DB_NAME")
	envOverride(&c.AI.BaseURL, "AI_BASE_URL")
	envOverride(&c.AI.APIKey, "AI_API_KEY")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Field.Timezone, "TZ_NAME")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Backend.Database.Port, "DB_PORT")
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Location resolves the field timezone used for "today"; falls back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Field.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Field.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) RESTTimeout() time.Duration {
	if c.Backend.REST.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Backend.REST.TimeoutSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	days := c.Auth.TokenDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	d := c.Backend.Database

	switch c.Backend.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
		return gorm.Open(postgres.Open(dsn), gcfg)
	case DriverMySQL:
		cfg := gomysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
		cfg.DBName = d.Name
		cfg.ParseTime = true

		connector, err := gomysql.NewConnector(cfg)
		if err != nil {
			return nil, fmt.Errorf("create connector: %w", err)
		}
		sqlDB := sql.OpenDB(connector)
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("ping db: %w", err)
		}
		return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)
	default:
		return nil, fmt.Errorf("driver %q has no database connection", c.Backend.Driver)
	}
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
