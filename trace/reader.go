package trace

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ReadText parses one sample per line. Blank lines, lines starting with '#'
// and a single header row before the first sample are skipped. Comma,
// semicolon or whitespace separated rows are accepted and the last column is
// taken, so "time,value" exports load directly.
func ReadText(r io.Reader) ([]float64, error) {
	var samples []float64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	header := false
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			// one header row is allowed before the first sample
			if len(samples) == 0 && !header {
				header = true
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// ReadFloat64LE reads a raw stream of little-endian float64 samples. A
// trailing partial sample is dropped.
func ReadFloat64LE(r io.Reader) ([]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytesToFloat64(data), nil
}

// bytesToFloat64 converts raw float64 bytes to []float64
func bytesToFloat64(data []byte) []float64 {
	if len(data)%8 != 0 {
		data = data[:len(data)-(len(data)%8)]
	}

	samples := make([]float64, len(data)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}
	return samples
}

// Decoder runs ffmpeg to turn audio containers (wav, flac, ...) into mono
// float64 samples, for waveforms exported as audio.
type Decoder struct {
	FFmpegPath string
	SampleRate int // output rate, 0 keeps the source rate
	Timeout    time.Duration
}

// DefaultDecoder returns a decoder using ffmpeg from PATH.
func DefaultDecoder() *Decoder {
	return &Decoder{
		FFmpegPath: "ffmpeg",
		Timeout:    30 * time.Second,
	}
}

// buildArgs returns the ffmpeg arguments for decoding filename to f64le on stdout.
func (d *Decoder) buildArgs(filename string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-i", filename, "-ac", "1"}
	if d.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(d.SampleRate))
	}
	return append(args, "-f", "f64le", "-")
}

// DecodeFile decodes filename with ffmpeg.
func (d *Decoder) DecodeFile(ctx context.Context, filename string) ([]float64, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.FFmpegPath, d.buildArgs(filename)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w: %s", filename, err, strings.TrimSpace(stderr.String()))
	}

	samples := bytesToFloat64(stdout.Bytes())
	if len(samples) == 0 {
		return nil, fmt.Errorf("ffmpeg decode %s: no samples decoded", filename)
	}
	return samples, nil
}

// Load reads the samples of path, choosing the reader from the extension:
// .f64/.bin are raw little-endian float64, .txt/.csv/.dat/.asc are text and
// anything else is decoded with ffmpeg.
func Load(ctx context.Context, path string) ([]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".f64", ".bin":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadFloat64LE(f)
	case ".txt", ".csv", ".dat", ".asc", "":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadText(f)
	default:
		return DefaultDecoder().DecodeFile(ctx, path)
	}
}
