package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Codec shells out to ffmpeg for transcoding between encoded audio and the
// in-memory PCM representation.
type Codec struct {
	binary      string
	sampleRate  int
	bitrateKbps int
}

// NewCodec builds a codec targeting the given sample rate and bitrate.
func NewCodec(binary string, sampleRate, bitrateKbps int) *Codec {
	return &Codec{binary: binary, sampleRate: sampleRate, bitrateKbps: bitrateKbps}
}

// DecodeBytes decodes encoded audio (any format ffmpeg understands) into a
// mono clip at the codec's sample rate.
func (c *Codec) DecodeBytes(ctx context.Context, encoded []byte) (Clip, error) {
	return c.decode(ctx, "pipe:0", bytes.NewReader(encoded))
}

// DecodeFile decodes an audio file into a mono clip at the codec's sample rate.
func (c *Codec) DecodeFile(ctx context.Context, path string) (Clip, error) {
	return c.decode(ctx, path, nil)
}

func (c *Codec) decode(ctx context.Context, input string, stdin *bytes.Reader) (Clip, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-f", "s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(c.sampleRate),
		"pipe:1",
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Clip{}, fmt.Errorf("ffmpeg decode: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return clipFromPCM(stdout.Bytes(), c.sampleRate), nil
}

// EncodeMP3 writes the clip to dest as a constant-bitrate mono MP3,
// overwriting any existing file.
func (c *Codec) EncodeMP3(ctx context.Context, clip Clip, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(clip.SampleRate),
		"-i", "pipe:0",
		"-c:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", c.bitrateKbps),
		"-ac", "1",
		"-ar", strconv.Itoa(c.sampleRate),
		dest,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(pcmFromClip(clip))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg encode: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func clipFromPCM(raw []byte, sampleRate int) Clip {
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return Clip{Samples: samples, SampleRate: sampleRate}
}

func pcmFromClip(clip Clip) []byte {
	raw := make([]byte, len(clip.Samples)*2)
	for i, sample := range clip.Samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(sample))
	}
	return raw
}
