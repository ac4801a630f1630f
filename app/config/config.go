package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"CounterPOS/app/security"
)

// AppConfig holds all application configuration.
type AppConfig struct {
	Backend BackendConfig `json:"backend"`
	Polling PollingConfig `json:"polling"`
	Device  DeviceConfig  `json:"device"`
	Display DisplayConfig `json:"display"`
	Sheets  SheetsConfig  `json:"sheets"`
	Locale  LocaleConfig  `json:"locale"`
}

// BackendConfig points at the POS backend that owns cart, orders,
// catalog and the camera.
type BackendConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// PollingConfig holds the refresh cadences in milliseconds.
type PollingConfig struct {
	CartMs    int `json:"cart_ms"`
	BarcodeMs int `json:"barcode_ms"`
	ClockMs   int `json:"clock_ms"`
}

// CartInterval returns the cart refresh cadence.
func (p PollingConfig) CartInterval() time.Duration {
	return time.Duration(p.CartMs) * time.Millisecond
}

// BarcodeInterval returns the barcode poll cadence.
func (p PollingConfig) BarcodeInterval() time.Duration {
	return time.Duration(p.BarcodeMs) * time.Millisecond
}

// ClockInterval returns the wall-clock tick cadence.
func (p PollingConfig) ClockInterval() time.Duration {
	return time.Duration(p.ClockMs) * time.Millisecond
}

// DeviceConfig holds camera settings. Mode selects the capture device
// on the backend; zero uses the backend default.
type DeviceConfig struct {
	Mode int `json:"mode"`
}

// DisplayConfig holds the customer display server settings. PINHash is
// a bcrypt hash of the pairing PIN.
type DisplayConfig struct {
	Enabled     bool   `json:"enabled"`
	Port        int    `json:"port"`
	ServiceName string `json:"service_name"`
	EnableMDNS  bool   `json:"enable_mdns"`
	PINHash     string `json:"pin_hash"`
}

// SheetsConfig holds the optional Google Sheets export settings.
// CredentialsJSON is a service account key, encrypted at rest.
type SheetsConfig struct {
	Enabled         bool   `json:"enabled"`
	SpreadsheetID   string `json:"spreadsheet_id"`
	SheetName       string `json:"sheet_name"`
	CredentialsJSON string `json:"credentials_json"`
}

// LocaleConfig controls money and timestamp rendering.
type LocaleConfig struct {
	Tag           string `json:"tag"`
	CurrencyGlyph string `json:"currency_glyph"`
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		appData = filepath.Join(homeDir, ".config")
	}

	configDir := filepath.Join(appData, "CounterPOS")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads configuration from config.json, decrypts sensitive
// fields and applies environment overrides.
func LoadConfig() (*AppConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	if err := cfg.decryptSensitiveFields(); err != nil {
		return nil, fmt.Errorf("could not decrypt sensitive fields: %w", err)
	}

	cfg.applyEnvOverrides()
	return &cfg, nil
}

// SaveConfig saves configuration to config.json after encrypting
// sensitive fields.
func SaveConfig(cfg *AppConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	cfgCopy := *cfg
	if err := cfgCopy.encryptSensitiveFields(); err != nil {
		return fmt.Errorf("could not encrypt sensitive fields: %w", err)
	}

	data, err := json.MarshalIndent(&cfgCopy, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}

	return nil
}

// ConfigExists checks if the config file exists.
func ConfigExists() (bool, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateDefaultConfig creates and persists a default configuration.
func CreateDefaultConfig() (*AppConfig, error) {
	cfg := DefaultConfig()
	if err := SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the defaults for a fresh install.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 10,
		},
		Polling: PollingConfig{
			CartMs:    2000,
			BarcodeMs: 1000,
			ClockMs:   1000,
		},
		Device: DeviceConfig{
			Mode: 0,
		},
		Display: DisplayConfig{
			Enabled:     false,
			Port:        8080,
			ServiceName: "CounterPOS Display",
			EnableMDNS:  true,
		},
		Sheets: SheetsConfig{
			Enabled:   false,
			SheetName: "Orders",
		},
		Locale: LocaleConfig{
			Tag:           "vi",
			CurrencyGlyph: "₫",
		},
	}
}

// applyEnvOverrides lets .env values win over config.json during
// development.
func (cfg *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("DISPLAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Display.Port = port
		}
	}
}

func (cfg *AppConfig) encryptSensitiveFields() error {
	var err error
	if cfg.Sheets.CredentialsJSON != "" {
		cfg.Sheets.CredentialsJSON, err = security.Encrypt(cfg.Sheets.CredentialsJSON)
		if err != nil {
			return fmt.Errorf("could not encrypt sheets credentials: %w", err)
		}
	}
	return nil
}

func (cfg *AppConfig) decryptSensitiveFields() error {
	if cfg.Sheets.CredentialsJSON != "" {
		decrypted, err := security.Decrypt(cfg.Sheets.CredentialsJSON)
		if err != nil {
			// Plain text credentials are accepted in development.
			decrypted = cfg.Sheets.CredentialsJSON
		}
		cfg.Sheets.CredentialsJSON = decrypted
	}
	return nil
}
