package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Compress writes a space-saving copy of src into dstDir under the
// same file name, downsampling frame rate and resolution only when
// they exceed the given caps. When the recording is already within
// both caps the streams are copied without re-encoding.
func Compress(ctx context.Context, src, dstDir string, maxFPS float64, maxHeight int) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive directory %s: %w", dstDir, err)
	}

	info, err := Probe(ctx, src)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(dstDir, filepath.Base(src))
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", src}
	args = append(args, compressArgs(info, maxFPS, maxHeight)...)
	args = append(args, outPath)

	if err := run(ctx, "ffmpeg", args); err != nil {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("compress %s: %w", src, err)
	}
	return outPath, nil
}

// compressArgs picks the ffmpeg arguments for the downsample decision.
func compressArgs(info StreamInfo, maxFPS float64, maxHeight int) []string {
	var filters []string
	if maxFPS > 0 && info.FPS > maxFPS {
		filters = append(filters, fmt.Sprintf("fps=%g", maxFPS))
	}
	if maxHeight > 0 && info.Height > maxHeight {
		// -2 keeps the width even for the encoder.
		filters = append(filters, fmt.Sprintf("scale=-2:%d", maxHeight))
	}
	if len(filters) == 0 {
		return []string{"-c", "copy"}
	}
	return []string{"-vf", strings.Join(filters, ","), "-c:v", "libx264", "-preset", "slow", "-c:a", "copy"}
}
