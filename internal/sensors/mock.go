// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/range_logger/internal/ranging"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock range source that generates a smooth
// oscillating distance, for running the logger without hardware.
func NewMockSource() ranging.Source {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) ReadDistance() (float64, error) {
	elapsed := time.Since(m.start).Seconds()
	return 100 + 40*math.Sin(elapsed/2), nil
}

func (m *mockSource) Close() error { return nil }
