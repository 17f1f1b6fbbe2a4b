package app

import (
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/range_logger/internal/config"
)

// Display is an optional SSD1306 live readout showing the current distance
// and elapsed time while logging.
type Display struct {
	dev *ssd1306.Dev
	bus i2c.BusCloser
}

func OpenDisplay() (*Display, error) {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized on %s, updating every %dms", bus, cfg.DisplayUpdateIntervalMS)

	d := &Display{dev: dev, bus: bus}
	if err := d.showSplash(); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}
	return d, nil
}

// Update redraws the readout page with the latest sample.
func (d *Display) Update(distance float64, elapsed time.Duration) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(0, 13)
	drawer.DrawBytes([]byte(fmt.Sprintf("t: %8.2fs", elapsed.Seconds())))

	drawer.Dot = fixed.P(0, 33)
	drawer.DrawBytes([]byte("Distance:"))

	drawer.Dot = fixed.P(0, 52)
	drawer.DrawBytes([]byte(fmt.Sprintf("%8.1f cm", distance)))

	return d.dev.Draw(d.dev.Bounds(), img, image.Point{})
}

func (d *Display) showSplash() error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("range_logger"))

	drawer.Dot = fixed.P(5, 43)
	drawer.DrawBytes([]byte("Waiting for"))

	drawer.Dot = fixed.P(25, 56)
	drawer.DrawBytes([]byte("samples"))

	return d.dev.Draw(d.dev.Bounds(), img, image.Point{})
}

func (d *Display) Close() error {
	return d.bus.Close()
}
