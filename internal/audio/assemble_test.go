package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"briefcast/internal/failure"
	"briefcast/internal/logging"
	"briefcast/internal/script"
	"briefcast/internal/tts"
)

const testRate = 1000

// fakeDecode treats the segment payload as a sample count and returns a clip
// of non-zero samples so silence gaps are distinguishable.
func fakeDecode(_ context.Context, encoded []byte) (Clip, error) {
	n, err := strconv.Atoi(string(encoded))
	if err != nil {
		return Clip{}, err
	}
	return constantClip(500, n, testRate), nil
}

func newTestAssembler(t *testing.T) (*Assembler, *Clip, *string) {
	t.Helper()
	var encoded Clip
	var encodedPath string
	assembler := &Assembler{
		outputDir:  t.TempDir(),
		silenceGap: 300 * time.Millisecond,
		sampleRate: testRate,
		logger:     logging.NewNop(),
		decode:     fakeDecode,
		decodeFile: func(_ context.Context, path string) (Clip, error) {
			return constantClip(200, 2*testRate, testRate), nil
		},
		encode: func(_ context.Context, clip Clip, dest string) error {
			encoded = clip
			encodedPath = dest
			return nil
		},
	}
	return assembler, &encoded, &encodedPath
}

func segmentResult(index int, speaker string, samples int) tts.Result {
	return tts.Result{Index: index, Speaker: speaker, MP3: []byte(fmt.Sprint(samples))}
}

func TestAssembleInsertsGapOnlyAtSpeakerTurns(t *testing.T) {
	assembler, encoded, _ := newTestAssembler(t)
	segments := []tts.Result{
		segmentResult(0, script.SpeakerHostA, 1000),
		segmentResult(1, script.SpeakerHostA, 1000),
		segmentResult(2, script.SpeakerHostB, 1000),
	}

	_, err := assembler.Assemble(context.Background(), time.Now(), segments)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// Three 1s segments, one speaker change, one 300ms gap.
	wantSamples := 3000 + 300
	if len(encoded.Samples) != wantSamples {
		t.Fatalf("expected %d samples, got %d", wantSamples, len(encoded.Samples))
	}
	// The gap sits between the second and third segments.
	gap := encoded.Samples[2000:2300]
	for i, sample := range gap {
		if sample != 0 {
			t.Fatalf("gap sample %d is %d, want silence", i, sample)
		}
	}
	if encoded.Samples[1999] == 0 || encoded.Samples[2300] == 0 {
		t.Fatal("speech samples around the gap must be non-zero")
	}
}

func TestAssembleOutputPathIsDateStamped(t *testing.T) {
	assembler, _, encodedPath := newTestAssembler(t)
	date := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	artifact, err := assembler.Assemble(context.Background(), date, []tts.Result{segmentResult(0, "Alex", 100)})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := filepath.Join(assembler.outputDir, "digest-2026-09-01.mp3")
	if artifact.Path != want || *encodedPath != want {
		t.Fatalf("artifact path = %q, want %q", artifact.Path, want)
	}
	if artifact.Duration != 100*time.Millisecond {
		t.Fatalf("unexpected duration %s", artifact.Duration)
	}
	if artifact.CreatedAt.IsZero() {
		t.Fatal("artifact must carry a creation time")
	}
}

func TestAssembleTestModeTruncates(t *testing.T) {
	assembler, encoded, _ := newTestAssembler(t)
	assembler.testMode = true

	// Each segment is 90s; the second pushes past the 2 minute cap and the
	// rest must be dropped.
	segments := []tts.Result{
		segmentResult(0, "Alex", 90*testRate),
		segmentResult(1, "Alex", 90*testRate),
		segmentResult(2, "Alex", 90*testRate),
		segmentResult(3, "Alex", 90*testRate),
	}
	_, err := assembler.Assemble(context.Background(), time.Now(), segments)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if got := encoded.Duration(); got != 180*time.Second {
		t.Fatalf("expected truncation after 180s, got %s", got)
	}
}

func TestAssembleAddsMusicBeds(t *testing.T) {
	assembler, encoded, _ := newTestAssembler(t)
	intro := filepath.Join(t.TempDir(), "intro.mp3")
	outro := filepath.Join(t.TempDir(), "outro.mp3")
	writeFile(t, intro)
	writeFile(t, outro)
	assembler.introPath = intro
	assembler.outroPath = outro

	_, err := assembler.Assemble(context.Background(), time.Now(), []tts.Result{segmentResult(0, "Alex", 3 * testRate)})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// 2s intro + 3s speech + 2s outro, minus two 1s crossfade overlaps.
	if got := encoded.Duration(); got != 5*time.Second {
		t.Fatalf("expected 5s with music beds, got %s", got)
	}
}

func TestAssembleSkipsMissingMusic(t *testing.T) {
	assembler, encoded, _ := newTestAssembler(t)
	assembler.introPath = filepath.Join(t.TempDir(), "nope.mp3")

	_, err := assembler.Assemble(context.Background(), time.Now(), []tts.Result{segmentResult(0, "Alex", testRate)})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if got := encoded.Duration(); got != time.Second {
		t.Fatalf("missing intro should be skipped, got %s", got)
	}
}

func TestAssembleClassifiesDecodeFailure(t *testing.T) {
	assembler, _, _ := newTestAssembler(t)
	assembler.decode = func(context.Context, []byte) (Clip, error) {
		return Clip{}, errors.New("corrupt mp3")
	}

	_, err := assembler.Assemble(context.Background(), time.Now(), []tts.Result{segmentResult(0, "Alex", 10)})
	if !errors.Is(err, failure.ErrAssemblyFailed) {
		t.Fatalf("expected assembly failure, got %v", err)
	}
	if failure.Classify(err) != failure.KindAssemblyFailed {
		t.Fatalf("unexpected classification %q", failure.Classify(err))
	}
}

func TestAssembleRejectsEmptyInput(t *testing.T) {
	assembler, _, _ := newTestAssembler(t)
	if _, err := assembler.Assemble(context.Background(), time.Now(), nil); !errors.Is(err, failure.ErrAssemblyFailed) {
		t.Fatalf("expected assembly failure for empty input, got %v", err)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("fake-music"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
