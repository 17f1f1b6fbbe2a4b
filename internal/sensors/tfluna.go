package sensors

import (
	"bufio"
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/range_logger/internal/config"
	"github.com/relabs-tech/range_logger/internal/ranging"
)

// TF-Luna data frame: 0x59 0x59 DistL DistH StrengthL StrengthH TempL TempH Checksum.
// The checksum is the low byte of the sum of the first eight bytes.
const (
	tflunaFrameLen  = 9
	tflunaFrameHead = 0x59
)

type tflunaSource struct {
	port   io.ReadWriteCloser
	reader *bufio.Reader
}

// NewTFLuna opens the TF-Luna lidar on the configured serial port.
func NewTFLuna() (ranging.Source, error) {
	cfg := config.Get()

	serialOpts := serial.OpenOptions{
		PortName:              cfg.TFLunaSerialPort,
		BaudRate:              uint(cfg.TFLunaBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("tfluna: open serial port %s: %w", cfg.TFLunaSerialPort, err)
	}
	log.Printf("tfluna: serial port opened on %s at %d baud", cfg.TFLunaSerialPort, cfg.TFLunaBaudRate)

	return &tflunaSource{
		port:   port,
		reader: bufio.NewReader(port),
	}, nil
}

// ReadDistance blocks until the next complete frame arrives on the wire.
func (s *tflunaSource) ReadDistance() (float64, error) {
	frame, err := readFrame(s.reader)
	if err != nil {
		return 0, fmt.Errorf("tfluna: %w", err)
	}
	return decodeFrame(frame)
}

func (s *tflunaSource) Close() error {
	return s.port.Close()
}

// readFrame scans the stream for the two-byte frame header and returns the
// full 9-byte frame. Garbage between frames is discarded.
func readFrame(r *bufio.Reader) ([]byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read frame header: %w", err)
		}
		if b != tflunaFrameHead {
			continue
		}
		next, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read frame header: %w", err)
		}
		if next != tflunaFrameHead {
			continue
		}

		frame := make([]byte, tflunaFrameLen)
		frame[0] = tflunaFrameHead
		frame[1] = tflunaFrameHead
		if _, err := io.ReadFull(r, frame[2:]); err != nil {
			return nil, fmt.Errorf("read frame body: %w", err)
		}
		return frame, nil
	}
}

// decodeFrame validates the checksum and extracts the distance in centimeters.
func decodeFrame(frame []byte) (float64, error) {
	if len(frame) != tflunaFrameLen {
		return 0, fmt.Errorf("bad frame length %d", len(frame))
	}
	if frame[0] != tflunaFrameHead || frame[1] != tflunaFrameHead {
		return 0, fmt.Errorf("bad frame header % X", frame[:2])
	}

	var sum byte
	for _, b := range frame[:tflunaFrameLen-1] {
		sum += b
	}
	if sum != frame[tflunaFrameLen-1] {
		return 0, fmt.Errorf("checksum mismatch: computed 0x%02X, frame has 0x%02X", sum, frame[tflunaFrameLen-1])
	}

	dist := uint16(frame[2]) | uint16(frame[3])<<8
	return float64(dist), nil
}
