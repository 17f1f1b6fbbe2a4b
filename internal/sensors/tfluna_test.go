package sensors

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildFrame assembles a valid TF-Luna frame for a distance in centimeters.
func buildFrame(distCm uint16) []byte {
	frame := []byte{
		tflunaFrameHead, tflunaFrameHead,
		byte(distCm), byte(distCm >> 8),
		0x10, 0x02, // strength
		0x20, 0x01, // temperature
		0,
	}
	var sum byte
	for _, b := range frame[:8] {
		sum += b
	}
	frame[8] = sum
	return frame
}

func TestDecodeFrame(t *testing.T) {
	dist, err := decodeFrame(buildFrame(123))
	require.NoError(t, err)
	require.Equal(t, 123.0, dist)

	dist, err = decodeFrame(buildFrame(1200))
	require.NoError(t, err)
	require.Equal(t, 1200.0, dist)
}

func TestDecodeFrameBadChecksum(t *testing.T) {
	frame := buildFrame(123)
	frame[8]++
	_, err := decodeFrame(frame)
	require.Error(t, err)
	require.Contains(t, err.Error(), "checksum")
}

func TestDecodeFrameBadLength(t *testing.T) {
	_, err := decodeFrame(buildFrame(123)[:5])
	require.Error(t, err)
}

func TestReadFrameSkipsGarbage(t *testing.T) {
	var stream bytes.Buffer
	stream.Write([]byte{0x00, 0xFF, 0x59, 0x12}) // noise, including a lone header byte
	stream.Write(buildFrame(250))

	frame, err := readFrame(bufio.NewReader(&stream))
	require.NoError(t, err)

	dist, err := decodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, 250.0, dist)
}

func TestReadFrameTruncatedStream(t *testing.T) {
	stream := bytes.NewReader(buildFrame(250)[:4])
	_, err := readFrame(bufio.NewReader(stream))
	require.Error(t, err)
}
