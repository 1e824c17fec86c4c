package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driven"
	"github.com/custodia-labs/simple-storage/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyDataDir       = "storage.data_dir"
	KeyBusyTimeoutMS = "storage.busy_timeout_ms"
	KeyVerbose       = "log.verbose"
	KeyMCPRate       = "mcp.requests_per_second"
	KeyMCPBurst      = "mcp.burst"
)

// SettingKeys lists the keys accepted by Set, in display order.
var SettingKeys = []string{KeyDataDir, KeyBusyTimeoutMS, KeyVerbose, KeyMCPRate, KeyMCPBurst}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. Missing or out-of-range values fall back
// to the defaults.
func (s *SettingsService) Get() (*domain.StorageSettings, error) {
	defaults := domain.DefaultStorageSettings()

	settings := &domain.StorageSettings{
		DataDir:     s.configStore.GetString(KeyDataDir),
		BusyTimeout: s.getBusyTimeout(defaults.BusyTimeout),
		Verbose:     s.configStore.GetBool(KeyVerbose),
		MCP: domain.MCPSettings{
			RequestsPerSecond: s.getPositiveFloat(KeyMCPRate, defaults.MCP.RequestsPerSecond),
			Burst:             s.getPositiveInt(KeyMCPBurst, defaults.MCP.Burst),
		},
	}

	return settings, nil
}

// Set parses and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	parsed, err := parseSetting(key, value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// ConfigPath returns the location of the configuration file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func parseSetting(key, value string) (any, error) {
	switch key {
	case KeyDataDir:
		return value, nil
	case KeyBusyTimeoutMS:
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return ms, nil
	case KeyVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return b, nil
	case KeyMCPRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		return f, nil
	case KeyMCPBurst:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

func (s *SettingsService) getBusyTimeout(defaultVal time.Duration) time.Duration {
	if _, ok := s.configStore.Get(KeyBusyTimeoutMS); !ok {
		return defaultVal
	}
	ms := s.configStore.GetInt(KeyBusyTimeoutMS)
	if ms < 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	if f := s.configStore.GetFloat(key); f > 0 {
		return f
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if n := s.configStore.GetInt(key); n > 0 {
		return n
	}
	return defaultVal
}
