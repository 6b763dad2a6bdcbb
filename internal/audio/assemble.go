package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"briefcast/internal/config"
	"briefcast/internal/failure"
	"briefcast/internal/logging"
	"briefcast/internal/tts"
)

const (
	introFadeIn  = 1 * time.Second
	introFadeOut = 2 * time.Second
	outroFadeIn  = 2 * time.Second
	outroFadeOut = 2 * time.Second
	musicOverlap = 1 * time.Second

	testModeMaxDuration = 2 * time.Minute
)

// Artifact describes the produced episode file.
type Artifact struct {
	Path      string
	Duration  time.Duration
	CreatedAt time.Time
}

// Assembler concatenates synthesized segments into one episode, inserting
// silence at speaker turns and mixing optional music beds.
type Assembler struct {
	codec      *Codec
	outputDir  string
	silenceGap time.Duration
	introPath  string
	outroPath  string
	sampleRate int
	testMode   bool
	logger     *slog.Logger

	// Codec hooks, swappable in tests so no ffmpeg binary is needed.
	decode     func(ctx context.Context, encoded []byte) (Clip, error)
	decodeFile func(ctx context.Context, path string) (Clip, error)
	encode     func(ctx context.Context, clip Clip, dest string) error
}

// NewAssembler builds an assembler from configuration.
func NewAssembler(cfg *config.Config, logger *slog.Logger) *Assembler {
	codec := NewCodec(cfg.FFmpegBinary(), cfg.Audio.SampleRate, cfg.Audio.BitrateKbps)
	return &Assembler{
		codec:      codec,
		decode:     codec.DecodeBytes,
		decodeFile: codec.DecodeFile,
		encode:     codec.EncodeMP3,
		outputDir:  cfg.Paths.AudioOutputDir,
		silenceGap: time.Duration(cfg.Audio.SilenceGapMS) * time.Millisecond,
		introPath:  cfg.Audio.IntroMusicPath,
		outroPath:  cfg.Audio.OutroMusicPath,
		sampleRate: cfg.Audio.SampleRate,
		testMode:   cfg.Audio.TestMode,
		logger:     logging.NewComponentLogger(logger, "audio"),
	}
}

// Assemble produces the date-stamped episode file from the synthesized
// segments. Re-running on the same date overwrites the previous file.
func (a *Assembler) Assemble(ctx context.Context, date time.Time, segments []tts.Result) (Artifact, error) {
	if len(segments) == 0 {
		return Artifact{}, failure.Wrap(failure.ErrAssemblyFailed, "assembly", "", "no segments to assemble", nil)
	}

	episode, err := a.buildEpisode(ctx, segments)
	if err != nil {
		return Artifact{}, err
	}
	episode, err = a.addMusic(ctx, episode)
	if err != nil {
		return Artifact{}, err
	}

	if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
		return Artifact{}, failure.Wrap(failure.ErrAssemblyFailed, "assembly", "mkdir", a.outputDir, err)
	}
	dest := filepath.Join(a.outputDir, fmt.Sprintf("digest-%s.mp3", date.Format("2006-01-02")))
	if err := a.encode(ctx, episode, dest); err != nil {
		return Artifact{}, failure.Wrap(failure.ErrAssemblyFailed, "assembly", "encode", dest, err)
	}

	artifact := Artifact{Path: dest, Duration: episode.Duration(), CreatedAt: time.Now()}
	a.logger.Info("episode assembled",
		logging.String("path", dest),
		logging.Duration("duration", artifact.Duration),
		logging.Int("segments", len(segments)),
	)
	return artifact, nil
}

func (a *Assembler) buildEpisode(ctx context.Context, segments []tts.Result) (Clip, error) {
	combined := Clip{SampleRate: a.sampleRate}
	gap := Silence(a.silenceGap, a.sampleRate)

	prevSpeaker := ""
	for _, segment := range segments {
		clip, err := a.decode(ctx, segment.MP3)
		if err != nil {
			return Clip{}, failure.Wrap(failure.ErrAssemblyFailed, "assembly", "decode",
				fmt.Sprintf("segment %d", segment.Index), err)
		}
		if prevSpeaker != "" && segment.Speaker != prevSpeaker {
			combined = combined.Append(gap)
		}
		combined = combined.Append(clip)
		prevSpeaker = segment.Speaker

		if a.testMode && combined.Duration() >= testModeMaxDuration {
			a.logger.Info("test mode: truncating episode",
				logging.Int(logging.FieldSegment, segment.Index),
				logging.Duration("duration", combined.Duration()),
			)
			break
		}
	}
	return combined, nil
}

func (a *Assembler) addMusic(ctx context.Context, episode Clip) (Clip, error) {
	if intro, ok, err := a.loadMusic(ctx, a.introPath, "intro"); err != nil {
		return Clip{}, err
	} else if ok {
		intro = intro.FadeIn(introFadeIn).FadeOut(introFadeOut)
		episode = intro.CrossfadeAppend(episode, musicOverlap)
	}
	if outro, ok, err := a.loadMusic(ctx, a.outroPath, "outro"); err != nil {
		return Clip{}, err
	} else if ok {
		outro = outro.FadeIn(outroFadeIn).FadeOut(outroFadeOut)
		episode = episode.CrossfadeAppend(outro, musicOverlap)
	}
	return episode, nil
}

// loadMusic decodes an optional music bed. An unset or missing path is
// skipped; a configured file that fails to decode fails the assembly.
func (a *Assembler) loadMusic(ctx context.Context, path, label string) (Clip, bool, error) {
	if path == "" {
		return Clip{}, false, nil
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		a.logger.Warn("music file not found, skipping",
			logging.String("kind", label),
			logging.String("path", path),
		)
		return Clip{}, false, nil
	}
	clip, err := a.decodeFile(ctx, path)
	if err != nil {
		return Clip{}, false, failure.Wrap(failure.ErrAssemblyFailed, "assembly", label, path, err)
	}
	return clip, true, nil
}
