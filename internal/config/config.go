package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	HTTPPort      int           `yaml:"http_port"`
	JwtAccessTTL  time.Duration `yaml:"jwt_access_ttl"`
	JwtRefreshTTL time.Duration `yaml:"jwt_refresh_ttl"`
	LogLevel      string        `yaml:"log_level"`
	LogJSON       bool          `yaml:"log_json"`
	SMTPTimeout   int           `yaml:"smtp_timeout"` // seconds
	AI            AI            `yaml:"ai"`
	// RecruiterStore selects the recruiter persistence backend:
	// "pg" (default) or "csv" for the file-snapshot legacy store.
	RecruiterStore string `yaml:"recruiter_store"`
	CSVPath        string `yaml:"csv_path"`
}

type AI struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	Timeout  int    `yaml:"timeout"` // seconds
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	Pg            Pg     `yaml:"pg"`
	JwtAccessKey  string `yaml:"jwt_access_key"`
	JwtRefreshKey string `yaml:"jwt_refresh_key"`
}

func (s *Config) JwtAccessKey() string {
	return s.private.JwtAccessKey
}

func (s *Config) JwtRefreshKey() string {
	return s.private.JwtRefreshKey
}

func (s *Config) Pg() Pg {
	return s.private.Pg
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	// secrets may be supplied via environment instead of private.yaml
	if v := os.Getenv("JWT_ACCESS_KEY"); v != "" {
		private.JwtAccessKey = v
	}
	if v := os.Getenv("JWT_REFRESH_KEY"); v != "" {
		private.JwtRefreshKey = v
	}

	cfg := &Config{public, private}
	cfg.applyDefaults()
	if cfg.private.JwtAccessKey == "" || cfg.private.JwtRefreshKey == "" {
		panic("jwt keys must be configured")
	}
	return cfg
}

func (s *Config) applyDefaults() {
	if s.Public.HTTPPort == 0 {
		s.Public.HTTPPort = 8080
	}
	if s.Public.JwtAccessTTL == 0 {
		s.Public.JwtAccessTTL = time.Hour
	}
	if s.Public.JwtRefreshTTL == 0 {
		s.Public.JwtRefreshTTL = 7 * 24 * time.Hour
	}
	if s.Public.LogLevel == "" {
		s.Public.LogLevel = "info"
	}
	if s.Public.SMTPTimeout == 0 {
		s.Public.SMTPTimeout = 10
	}
	if s.Public.RecruiterStore == "" {
		s.Public.RecruiterStore = "pg"
	}
	if s.Public.CSVPath == "" {
		s.Public.CSVPath = "recruiters.csv"
	}
	if s.Public.AI.Model == "" {
		s.Public.AI.Model = "mistral-nemo-instruct-2407"
	}
	if s.Public.AI.Timeout == 0 {
		s.Public.AI.Timeout = 30
	}
}
