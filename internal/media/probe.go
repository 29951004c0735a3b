package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StreamInfo is the subset of ffprobe output the tool acts on.
type StreamInfo struct {
	Duration float64
	FPS      float64
	Height   int
}

type probeOutput struct {
	Streams []struct {
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe inspects the first video stream of path.
func Probe(ctx context.Context, path string) (StreamInfo, error) {
	out, err := output(ctx, "ffprobe", []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=height,avg_frame_rate,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	})
	if err != nil {
		return StreamInfo{}, fmt.Errorf("probe %s: %w", path, err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return StreamInfo{}, fmt.Errorf("probe %s: parse ffprobe output: %w", path, err)
	}
	if len(parsed.Streams) == 0 {
		return StreamInfo{}, fmt.Errorf("probe %s: no video stream found", path)
	}

	info := StreamInfo{Height: parsed.Streams[0].Height}
	if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	rate := parsed.Streams[0].AvgFrameRate
	if rate == "" || rate == "0/0" {
		rate = parsed.Streams[0].RFrameRate
	}
	fps, err := parseFrameRate(rate)
	if err != nil {
		return StreamInfo{}, fmt.Errorf("probe %s: %w", path, err)
	}
	info.FPS = fps
	return info, nil
}

// parseFrameRate converts ffprobe's fractional rate ("60/1",
// "30000/1001") into frames per second.
func parseFrameRate(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty frame rate")
	}
	num, den, found := strings.Cut(raw, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("frame rate %q: %w", raw, err)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("frame rate %q: %w", raw, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("frame rate %q has zero denominator", raw)
	}
	return n / d, nil
}
