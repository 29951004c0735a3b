package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ClipOptions describes one clip render.
type ClipOptions struct {
	SourcePath string
	OutputDir  string
	// SecondsFromEnd trims the clip to the final N seconds of the
	// recording; 0 renders the whole file.
	SecondsFromEnd int
	Threads        int
	// BaseName becomes the output file name (without extension).
	BaseName string
}

// RenderClip cuts the upload clip out of the recording and returns the
// rendered file path.
func RenderClip(ctx context.Context, opts ClipOptions) (string, error) {
	if opts.SourcePath == "" {
		return "", fmt.Errorf("clip source path is required")
	}
	if opts.OutputDir == "" {
		return "", fmt.Errorf("clip output directory is required")
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create clips directory %s: %w", opts.OutputDir, err)
	}

	base := strings.TrimSpace(opts.BaseName)
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(opts.SourcePath), filepath.Ext(opts.SourcePath))
	}
	outPath := filepath.Join(opts.OutputDir, base+".mp4")

	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if opts.SecondsFromEnd > 0 {
		args = append(args, "-sseof", fmt.Sprintf("-%d", opts.SecondsFromEnd))
	}
	args = append(args, "-i", opts.SourcePath)
	if opts.Threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", opts.Threads))
	}
	args = append(args, "-c:v", "libx264", "-preset", "fast", "-c:a", "aac", outPath)

	if err := run(ctx, "ffmpeg", args); err != nil {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("render clip from %s: %w", opts.SourcePath, err)
	}
	return outPath, nil
}

// Preview opens the recording with the configured command, or the
// platform opener when none is set.
func Preview(ctx context.Context, path, command string) error {
	bin, args := previewCommand(command, path)
	if err := run(ctx, bin, args); err != nil {
		return fmt.Errorf("preview %s: %w", path, err)
	}
	return nil
}
