// Package media loads audio files through ffprobe and adapts them to the
// host.Source port. Probe results are memoized so watch-mode rescans do not
// re-probe unchanged files.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultFFprobe is the binary probed when no explicit path is configured.
const DefaultFFprobe = "ffprobe"

// ProbeResult is the subset of ffprobe output the importer needs.
type ProbeResult struct {
	// Duration is the container duration in seconds.
	Duration float64
	// FormatName is ffprobe's short format name, e.g. "wav".
	FormatName string
	// SampleRate is the first audio stream's sample rate in Hz (0 if none).
	SampleRate int
	// Channels is the first audio stream's channel count (0 if none).
	Channels int
}

// Probe runs a single ffprobe JSON call against path and returns the parsed
// result.
func Probe(ctx context.Context, ffprobePath, path string) (*ProbeResult, error) {
	if ffprobePath == "" {
		ffprobePath = DefaultFFprobe
	}
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// Version reports the first line of the ffprobe build banner, for
// diagnostics.
func Version(ctx context.Context, ffprobePath string) (string, error) {
	if ffprobePath == "" {
		ffprobePath = DefaultFFprobe
	}
	out, err := exec.CommandContext(ctx, ffprobePath, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to run %s -version: %w", ffprobePath, err)
	}
	return firstLine(string(out)), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ParseJSON converts raw ffprobe JSON output into a ProbeResult.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*ProbeResult, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	pr := &ProbeResult{
		Duration:   parseFloat(raw.Format.Duration),
		FormatName: raw.Format.FormatName,
	}
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "audio" {
			continue
		}
		pr.SampleRate = parseInt(s.SampleRate)
		pr.Channels = s.Channels
		// Recorder files carry a single audio stream; duration sometimes
		// lives on the stream instead of the container.
		if pr.Duration == 0 {
			pr.Duration = parseFloat(s.Duration)
		}
		break
	}
	return pr, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
