package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// Sensor backend selection: "hcsr04", "tfluna", or "mock"
	SensorBackend string

	// HC-SR04 (GPIO) backend
	HCSR04TriggerPin string
	HCSR04EchoPin    string
	HCSR04TimeoutMS  int // echo wait timeout, milliseconds

	// TF-Luna (UART) backend
	TFLunaSerialPort string
	TFLunaBaudRate   int

	// Timing
	SampleIntervalMS int // milliseconds between readings

	// Display (optional SSD1306 live readout)
	DisplayEnabled          bool
	DisplayUpdateIntervalMS int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for initialization,
//     read lock for Get() allows multiple concurrent readers.
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Sensor
	case "SENSOR_BACKEND":
		c.SensorBackend = value

	// HC-SR04
	case "HCSR04_TRIGGER_PIN":
		c.HCSR04TriggerPin = value
	case "HCSR04_ECHO_PIN":
		c.HCSR04EchoPin = value
	case "HCSR04_TIMEOUT":
		timeout, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid HCSR04_TIMEOUT %q: %w", value, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("HCSR04_TIMEOUT must be positive, got %d", timeout)
		}
		c.HCSR04TimeoutMS = timeout

	// TF-Luna
	case "TFLUNA_SERIAL_PORT":
		c.TFLunaSerialPort = value
	case "TFLUNA_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TFLUNA_BAUD_RATE %q: %w", value, err)
		}
		c.TFLunaBaudRate = rate

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("SAMPLE_INTERVAL must be positive, got %d", interval)
		}
		c.SampleIntervalMS = interval

	// Display
	case "DISPLAY_ENABLED":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_ENABLED %q: %w", value, err)
		}
		c.DisplayEnabled = enabled
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateIntervalMS = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	switch c.SensorBackend {
	case "hcsr04":
		if c.HCSR04TriggerPin == "" {
			return fmt.Errorf("HCSR04_TRIGGER_PIN is required for the hcsr04 backend")
		}
		if c.HCSR04EchoPin == "" {
			return fmt.Errorf("HCSR04_ECHO_PIN is required for the hcsr04 backend")
		}
	case "tfluna":
		if c.TFLunaSerialPort == "" {
			return fmt.Errorf("TFLUNA_SERIAL_PORT is required for the tfluna backend")
		}
		if c.TFLunaBaudRate == 0 {
			return fmt.Errorf("TFLUNA_BAUD_RATE is required for the tfluna backend")
		}
	case "mock":
		// no hardware configuration needed
	case "":
		return fmt.Errorf("SENSOR_BACKEND is required")
	default:
		return fmt.Errorf("unknown SENSOR_BACKEND %q (want hcsr04, tfluna, or mock)", c.SensorBackend)
	}

	if c.SampleIntervalMS == 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.DisplayEnabled && c.DisplayUpdateIntervalMS == 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL is required when DISPLAY_ENABLED is set")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
