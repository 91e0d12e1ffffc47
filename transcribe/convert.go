package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrFFmpegNotFound is returned when the ffmpeg binary is not on PATH.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

// ConvertToMP3 normalizes an audio container to mp3, the format the
// transcription collaborator accepts. Recorders upload 3gp; conversion is
// delegated to ffmpeg.
func ConvertToMP3(ctx context.Context, inputPath, outputPath string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFFmpegNotFound
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", inputPath,
		"-acodec", "libmp3lame",
		"-ar", "16000",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %s: %w", lastLine(output), err)
	}

	return nil
}

// lastLine extracts the final non-empty line of tool output, which is where
// ffmpeg reports its error.
func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
