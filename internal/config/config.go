package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the buildflow binary.
type Config struct {
	DB       DBConfig       `yaml:"db"`
	Model    ModelConfig    `yaml:"model"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Estimate EstimateConfig `yaml:"estimate"`
	Train    TrainConfig    `yaml:"train"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type ModelConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

type EstimateConfig struct {
	// Concurrency bounds how many projects `estimate --all` scores at once.
	Concurrency int `yaml:"concurrency"`
	// DefaultWeather is applied to projects created without a weather value.
	DefaultWeather string `yaml:"default_weather"`
}

type TrainConfig struct {
	CSV   string `yaml:"csv"`
	Trees int    `yaml:"trees"`
	Seed  int64  `yaml:"seed"`
}

// DefaultConfig places state under ~/.buildflow, or ./.buildflow when the home
// directory cannot be determined.
func DefaultConfig() Config {
	base := ".buildflow"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".buildflow")
	}
	return Config{
		DB:       DBConfig{Path: filepath.Join(base, "buildflow.db")},
		Model:    ModelConfig{Path: filepath.Join(base, "models", "delay_model.json")},
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Log:      LogConfig{Dir: filepath.Join(base, "logs")},
		Estimate: EstimateConfig{Concurrency: 4, DefaultWeather: string(domain.WeatherFair)},
		Train:    TrainConfig{Trees: 200, Seed: 42},
	}
}

// Load resolves configuration as defaults, then the YAML file named by
// BUILDFLOW_CONFIG, then BUILDFLOW_* environment variables. A .env file in the
// working directory is read first and never overrides variables already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path := os.Getenv("BUILDFLOW_CONFIG"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("db path must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Estimate.Concurrency <= 0 {
		return fmt.Errorf("estimate concurrency must be positive, got %d", c.Estimate.Concurrency)
	}
	if _, err := domain.ParseWeather(c.Estimate.DefaultWeather); err != nil {
		return fmt.Errorf("default weather: %w", err)
	}
	if c.Train.Trees <= 0 {
		return fmt.Errorf("train trees must be positive, got %d", c.Train.Trees)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("BUILDFLOW_DB"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("BUILDFLOW_MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("BUILDFLOW_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if err := envInt("BUILDFLOW_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if v := os.Getenv("BUILDFLOW_LOG_DIR"); v != "" {
		cfg.Log.Dir = v
	}
	if v := os.Getenv("BUILDFLOW_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid BUILDFLOW_VERBOSE: %w", err)
		}
		cfg.Log.Verbose = b
	}
	if err := envInt("BUILDFLOW_ESTIMATE_CONCURRENCY", &cfg.Estimate.Concurrency); err != nil {
		return err
	}
	if v := os.Getenv("BUILDFLOW_DEFAULT_WEATHER"); v != "" {
		cfg.Estimate.DefaultWeather = v
	}
	if v := os.Getenv("BUILDFLOW_TRAIN_CSV"); v != "" {
		cfg.Train.CSV = v
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = n
	return nil
}
