package sensors

import (
	"fmt"

	"github.com/relabs-tech/range_logger/internal/config"
	"github.com/relabs-tech/range_logger/internal/ranging"
)

// New opens the range sensor backend selected in the configuration.
func New() (ranging.Source, error) {
	cfg := config.Get()
	switch cfg.SensorBackend {
	case "hcsr04":
		return NewHCSR04()
	case "tfluna":
		return NewTFLuna()
	case "mock":
		return NewMockSource(), nil
	default:
		return nil, fmt.Errorf("unknown sensor backend %q", cfg.SensorBackend)
	}
}
