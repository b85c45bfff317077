package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/matchbook/go/internal/matches"
	"github.com/mcdev12/matchbook/go/internal/storage"
)

type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		AllowedOrigins  []string      `yaml:"allowed_origins"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Store struct {
		Location string      `yaml:"location"` // IANA zone used for calendar days
		Language string      `yaml:"language"`
		Slots    SlotsConfig `yaml:"slots"`
	} `yaml:"store"`

	Storage struct {
		Driver  string                      `yaml:"driver"`
		Drivers map[string]storage.Settings `yaml:"drivers"`
	} `yaml:"storage"`

	Events struct {
		NATS struct {
			Enabled       bool   `yaml:"enabled"`
			URL           string `yaml:"url"`
			SubjectPrefix string `yaml:"subject_prefix"`
		} `yaml:"nats"`
	} `yaml:"events"`
}

// SlotsConfig selects the bookable times. List wins over First/Last.
type SlotsConfig struct {
	Mode  string   `yaml:"mode"` // fixed or free
	First string   `yaml:"first"`
	Last  string   `yaml:"last"`
	List  []string `yaml:"list"`
}

func defaultConfig() *Config {
	var config Config
	config.Server.Port = "8080"
	config.Server.AllowedOrigins = []string{"*"}
	config.Server.ShutdownTimeout = 10 * time.Second
	config.Store.Location = "America/Sao_Paulo"
	config.Store.Language = "pt-BR"
	config.Store.Slots = SlotsConfig{Mode: string(matches.SlotModeFixed), First: "07:00", Last: "22:30"}
	config.Storage.Driver = "file"
	config.Events.NATS.SubjectPrefix = "matchbook.events"
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// loadConfig reads path over the defaults and applies environment overrides.
// A missing file is not an error.
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

	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.Store.Location = getEnv("MATCHBOOK_LOCATION", config.Store.Location)
	config.Store.Language = getEnv("MATCHBOOK_LANGUAGE", config.Store.Language)
	config.Storage.Driver = getEnv("STORAGE_DRIVER", config.Storage.Driver)
	if url := os.Getenv("NATS_URL"); url != "" {
		config.Events.NATS.URL = url
		config.Events.NATS.Enabled = true
	}
	config.Events.NATS.Enabled = getEnvAsBool("EVENTS_NATS_ENABLED", config.Events.NATS.Enabled)

	return config, nil
}

func (c *Config) location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Store.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid store location %q: %w", c.Store.Location, err)
	}
	return loc, nil
}

func (c *Config) slotPolicy() (*matches.SlotPolicy, error) {
	slots := c.Store.Slots
	switch matches.SlotMode(slots.Mode) {
	case matches.SlotModeFree:
		return matches.FreeSlots(), nil
	case matches.SlotModeFixed, "":
		if len(slots.List) > 0 {
			return matches.NewFixedSlots(slots.List)
		}
		list, err := matches.HalfHourSlots(slots.First, slots.Last)
		if err != nil {
			return nil, fmt.Errorf("invalid slot range: %w", err)
		}
		return matches.NewFixedSlots(list)
	default:
		return nil, fmt.Errorf("unknown slot mode %q", slots.Mode)
	}
}

func (c *Config) driverSettings() storage.Settings {
	return c.Storage.Drivers[c.Storage.Driver]
}
