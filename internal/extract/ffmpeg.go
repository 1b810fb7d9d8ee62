package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg decodes video by running the ffprobe and ffmpeg executables.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"}
}

type probeOutput struct {
	Streams []struct {
		NbFrames string `json:"nb_frames"`
	} `json:"streams"`
}

// FrameCount reports the container's frame count for the first video stream.
func (f *FFmpeg) FrameCount(ctx context.Context, path string) (int, error) {
	out, err := f.run(ctx, f.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_frames",
		"-of", "json",
		path,
	)
	if err != nil {
		return 0, err
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, fmt.Errorf("parsing ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return 0, errors.New("no video stream")
	}
	n, err := strconv.Atoi(probe.Streams[0].NbFrames)
	if err != nil {
		return 0, fmt.Errorf("nb_frames %q: %w", probe.Streams[0].NbFrames, err)
	}
	return n, nil
}

// DecodeFrame seeks to frame index and decodes it as a PNG piped on stdout.
func (f *FFmpeg) DecodeFrame(ctx context.Context, path string, index int) (image.Image, error) {
	out, err := f.run(ctx, f.FFmpegPath,
		"-v", "error",
		"-i", path,
		"-vf", fmt.Sprintf(`select=eq(n\,%d)`, index),
		"-fps_mode", "passthrough",
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no frame at index %d", index)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decoding frame %d: %w", index, err)
	}
	return img, nil
}

func (f *FFmpeg) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}
