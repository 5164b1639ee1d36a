package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"admintui/internal/viewmodel"
)

const (
	backendHTTP     = "http"
	backendDynamoDB = "dynamodb"
)

type Config struct {
	Theme       string `json:"theme"`
	APIBaseURL  string `json:"api_base_url"`
	PageSize    int    `json:"page_size"`
	Backend     string `json:"backend"`
	Region      string `json:"region"`
	TablePrefix string `json:"table_prefix,omitempty"`
	LogFile     string `json:"log_file,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Theme:      "Dark",
		APIBaseURL: "http://localhost:3031",
		PageSize:   viewmodel.DefaultPageSize,
		Backend:    backendHTTP,
		Region:     "us-east-1",
	}
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "admintui"), nil
}

func defaultConfigPath() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overlays ADMINTUI_* variables. Call loadDotEnv first; variables already
// set in the environment win over .env.
func (c Config) applyEnv(getenv func(string) string) Config {
	if v := getenv("ADMINTUI_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := getenv("ADMINTUI_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := getenv("ADMINTUI_REGION"); v != "" {
		c.Region = v
	}
	if v := getenv("ADMINTUI_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
	if v := getenv("ADMINTUI_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	return c
}

func loadDotEnv() {
	// .env is optional
	_ = godotenv.Load()
}

// applyFlags overlays the command-line flags that were set.
func (c Config) applyFlags(o options) Config {
	if o.api != "" {
		c.APIBaseURL = o.api
	}
	if o.backend != "" {
		c.Backend = o.backend
	}
	if o.region != "" {
		c.Region = o.region
	}
	return c
}

func (c Config) validate() error {
	switch c.Backend {
	case backendHTTP:
		if strings.TrimSpace(c.APIBaseURL) == "" {
			return errors.New("api base url is empty; set api_base_url, ADMINTUI_API_BASE_URL or --api")
		}
	case backendDynamoDB:
		if c.Region == "" {
			return errors.New("dynamodb backend needs a region")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, backendHTTP, backendDynamoDB)
	}
	if !viewmodel.ValidPageSize(c.PageSize) {
		return fmt.Errorf("page_size %d not one of %v", c.PageSize, viewmodel.PageSizes)
	}
	return nil
}

// resolveConfig layers file, .env/environment and flags, in increasing precedence.
func resolveConfig(o options) (Config, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return Config{}, err
	}
	loadDotEnv()
	cfg = cfg.applyEnv(os.Getenv).applyFlags(o)
	if cfg.LogFile == "" {
		dir, err := getConfigDir()
		if err != nil {
			return Config{}, err
		}
		cfg.LogFile = filepath.Join(dir, "admintui.log")
	}
	return cfg, cfg.validate()
}

func sessionPath() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}
