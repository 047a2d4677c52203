package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	API      APIConfig      `yaml:"api"`
	Polls    PollsConfig    `yaml:"polls"`
	Voting   VotingConfig   `yaml:"voting"`
	Comments CommentsConfig `yaml:"comments"`
	DevAPI   DevAPIConfig   `yaml:"dev_api"`
}

type APIConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:8080/api/v1.
	BaseURL string `yaml:"base_url" env:"POLLBOARD_API_URL" env-required:"true"`
	// Timeout of zero leaves requests without a client-side deadline.
	Timeout time.Duration `yaml:"timeout" env:"POLLBOARD_API_TIMEOUT" env-default:"0s"`
}

type PollsConfig struct {
	PageSize int `yaml:"page_size" env-default:"20"`
}

type VotingConfig struct {
	SuccessDisplay time.Duration `yaml:"success_display" env-default:"3s"`
}

type CommentsConfig struct {
	// RefreshInterval of zero disables periodic re-fetching.
	RefreshInterval time.Duration `yaml:"refresh_interval" env-default:"0s"`
}

type DevAPIConfig struct {
	Port            int           `yaml:"port" env:"DEVAPI_PORT" env-default:"8080"`
	Secret          string        `yaml:"secret" env:"DEVAPI_SECRET" env-default:"dev-secret"`
	AccessTokenTTL  time.Duration `yaml:"access_ttl" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_ttl" env-default:"720h"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env-default:"http://localhost:3000"`
	Seed            int           `yaml:"seed" env:"DEVAPI_SEED" env-default:"0"`
}

// Load reads the config file at path and applies env overrides. It exits
// the process when the config cannot be read.
func Load(path string) *Config {
	cfg, err := Read(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Read is Load without the exit; an empty path reads env only.
func Read(path string) (*Config, error) {
	const op = "config.Read"

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: config file does not exist: %w", op, err)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// FetchPath resolves the config path from the -config flag or CONFIG_PATH.
// It parses the given flag set, so call it once flags are registered.
func FetchPath(fs *flag.FlagSet, args []string) (string, error) {
	var path string
	fs.StringVar(&path, "config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path, nil
}
