// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/relabs-tech/range_logger/internal/config"
	"github.com/relabs-tech/range_logger/internal/logfile"
	"github.com/relabs-tech/range_logger/internal/ranging"
	"github.com/relabs-tech/range_logger/internal/sensors"
)

// RunLogger prompts for a log file, opens the configured range sensor, and
// appends timestamped distance rows until interrupted.
func RunLogger() error {
	cfg := config.Get()
	in := bufio.NewReader(os.Stdin)

	path, appendTo, err := chooseLogFile(in)
	if err != nil {
		return err
	}

	src, err := sensors.New()
	if err != nil {
		return fmt.Errorf("sensor init: %w", err)
	}
	defer src.Close()
	log.Printf("connected to %s range sensor", cfg.SensorBackend)

	w, err := logfile.Open(path, appendTo)
	if err != nil {
		return err
	}
	defer w.Close()

	var disp *Display
	if cfg.DisplayEnabled {
		disp, err = OpenDisplay()
		if err != nil {
			log.Printf("WARNING: display unavailable, continuing without it: %v", err)
			disp = nil
		} else {
			defer disp.Close()
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	log.Println("logging, press Ctrl-C to stop")

	interval := time.Duration(cfg.SampleIntervalMS) * time.Millisecond
	displayInterval := time.Duration(cfg.DisplayUpdateIntervalMS) * time.Millisecond
	return runLoop(src, w, disp, interval, displayInterval, stop)
}

// chooseLogFile prompts for a filename, sanitizes it, and when the file
// already exists asks whether to append or overwrite. Invalid answers
// re-prompt.
func chooseLogFile(in *bufio.Reader) (path string, appendTo bool, err error) {
	for {
		fmt.Print("Enter log filename: ")
		raw, err := in.ReadString('\n')
		if err != nil {
			return "", false, fmt.Errorf("failed to read filename: %w", err)
		}

		path, err = logfile.CleanName(raw)
		if err != nil {
			fmt.Println("Invalid name; try again.")
			continue
		}

		if _, statErr := os.Stat(path); statErr != nil {
			if !errors.Is(statErr, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %s: %w", path, statErr)
			}
			fmt.Printf("Creating new file: %q\n", path)
			return path, false, nil
		}

		appendTo, err = promptAppendOrOverwrite(in, path)
		if err != nil {
			return "", false, err
		}
		return path, appendTo, nil
	}
}

func promptAppendOrOverwrite(in *bufio.Reader, path string) (bool, error) {
	for {
		fmt.Printf("%q exists. [a]ppend or [o]verwrite? ", path)
		resp, err := in.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(resp)) {
		case "a", "append":
			fmt.Printf("Appending to %q\n", path)
			return true, nil
		case "o", "overwrite":
			fmt.Printf("Overwriting %q\n", path)
			return false, nil
		default:
			fmt.Println("Please answer a or o.")
		}
	}
}

// runLoop is the sampling loop: one blocking sensor read per tick, one row
// per read, flushed immediately. The clock starts at the first sample.
func runLoop(src ranging.Source, w *logfile.Writer, disp *Display, interval, displayInterval time.Duration, stop <-chan os.Signal) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var start time.Time
	var lastDraw time.Time
	rows := 0

	for {
		select {
		case <-stop:
			log.Printf("logging stopped, %d readings written", rows)
			return nil
		case <-ticker.C:
			dist, err := src.ReadDistance()
			if err != nil {
				return fmt.Errorf("sensor read: %w", err)
			}

			if start.IsZero() {
				start = time.Now()
			}
			elapsed := time.Since(start)

			r := ranging.Reading{T: elapsed.Seconds(), Distance: dist}
			if err := w.WriteReading(r); err != nil {
				return err
			}
			rows++

			log.Printf("%7.2fs  distance=%6.1f cm", r.T, r.Distance)

			if disp != nil && time.Since(lastDraw) >= displayInterval {
				if err := disp.Update(dist, elapsed); err != nil {
					log.Printf("display update error: %v", err)
				}
				lastDraw = time.Now()
			}
		}
	}
}
