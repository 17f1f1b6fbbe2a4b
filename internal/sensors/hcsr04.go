// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/range_logger/internal/config"
	"github.com/relabs-tech/range_logger/internal/ranging"
)

// Speed of sound at room temperature, in cm/s. The echo pulse covers the
// round trip, so distance = pulse width * speed / 2.
const speedOfSoundCmPerSec = 34300.0

const defaultEchoTimeout = 100 * time.Millisecond

type hcsr04Source struct {
	trig    gpio.PinOut
	echo    gpio.PinIn
	timeout time.Duration
}

// NewHCSR04 initializes the HC-SR04 ultrasonic sensor on the configured GPIO pins.
func NewHCSR04() (ranging.Source, error) {
	cfg := config.Get()
	timeout := defaultEchoTimeout
	if cfg.HCSR04TimeoutMS > 0 {
		timeout = time.Duration(cfg.HCSR04TimeoutMS) * time.Millisecond
	}
	return newHCSR04(cfg.HCSR04TriggerPin, cfg.HCSR04EchoPin, timeout)
}

func newHCSR04(trigPin, echoPin string, timeout time.Duration) (ranging.Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("hcsr04: periph host init: %w", err)
	}

	trig := gpioreg.ByName(trigPin)
	if trig == nil {
		return nil, fmt.Errorf("hcsr04: trigger pin %q not found", trigPin)
	}
	echo := gpioreg.ByName(echoPin)
	if echo == nil {
		return nil, fmt.Errorf("hcsr04: echo pin %q not found", echoPin)
	}

	if err := trig.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("hcsr04: trigger pin setup: %w", err)
	}
	if err := echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("hcsr04: echo pin setup: %w", err)
	}

	log.Printf("hcsr04: initialized (trigger=%s echo=%s timeout=%s)", trigPin, echoPin, timeout)

	return &hcsr04Source{trig: trig, echo: echo, timeout: timeout}, nil
}

// ReadDistance fires a 10µs trigger pulse and times the echo pulse.
// The echo line must be quiescent low between measurements.
func (s *hcsr04Source) ReadDistance() (float64, error) {
	if err := s.trig.Out(gpio.High); err != nil {
		return 0, fmt.Errorf("hcsr04: trigger high: %w", err)
	}
	time.Sleep(10 * time.Microsecond)
	if err := s.trig.Out(gpio.Low); err != nil {
		return 0, fmt.Errorf("hcsr04: trigger low: %w", err)
	}

	// Rising edge marks the start of the echo pulse.
	if !s.echo.WaitForEdge(s.timeout) {
		return 0, fmt.Errorf("hcsr04: timeout waiting for echo start")
	}
	start := time.Now()

	// Falling edge marks the end.
	if !s.echo.WaitForEdge(s.timeout) {
		return 0, fmt.Errorf("hcsr04: timeout waiting for echo end")
	}
	width := time.Since(start)

	return width.Seconds() * speedOfSoundCmPerSec / 2, nil
}

func (s *hcsr04Source) Close() error {
	return s.echo.Halt()
}
