package audio

import (
	"testing"
	"time"
)

func constantClip(value int16, n, rate int) Clip {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = value
	}
	return Clip{Samples: samples, SampleRate: rate}
}

func TestSilenceDuration(t *testing.T) {
	clip := Silence(300*time.Millisecond, 44100)
	if len(clip.Samples) != 13230 {
		t.Fatalf("300ms at 44.1kHz should be 13230 samples, got %d", len(clip.Samples))
	}
	if clip.Duration() != 300*time.Millisecond {
		t.Fatalf("unexpected duration %s", clip.Duration())
	}
	for _, sample := range clip.Samples {
		if sample != 0 {
			t.Fatal("silence must be all zero samples")
		}
	}
}

func TestAppendConcatenates(t *testing.T) {
	a := constantClip(100, 10, 1000)
	b := constantClip(200, 5, 1000)
	got := a.Append(b)
	if len(got.Samples) != 15 {
		t.Fatalf("expected 15 samples, got %d", len(got.Samples))
	}
	if got.Samples[9] != 100 || got.Samples[10] != 200 {
		t.Fatal("samples not concatenated in order")
	}
}

func TestFadeInRampsFromSilence(t *testing.T) {
	clip := constantClip(1000, 1000, 1000).FadeIn(500 * time.Millisecond)
	if clip.Samples[0] != 0 {
		t.Fatalf("first sample should be silent, got %d", clip.Samples[0])
	}
	if clip.Samples[250] >= clip.Samples[499] {
		t.Fatal("fade should increase monotonically")
	}
	if clip.Samples[999] != 1000 {
		t.Fatalf("samples past the fade must be untouched, got %d", clip.Samples[999])
	}
}

func TestFadeOutRampsToSilence(t *testing.T) {
	clip := constantClip(1000, 1000, 1000).FadeOut(500 * time.Millisecond)
	if clip.Samples[0] != 1000 {
		t.Fatalf("samples before the fade must be untouched, got %d", clip.Samples[0])
	}
	if last := clip.Samples[999]; last > 5 {
		t.Fatalf("final sample should be near silent, got %d", last)
	}
}

func TestCrossfadeAppendOverlaps(t *testing.T) {
	a := constantClip(1000, 1000, 1000)
	b := constantClip(-1000, 1000, 1000)
	got := a.CrossfadeAppend(b, 200*time.Millisecond)

	wantLen := 1000 + 1000 - 200
	if len(got.Samples) != wantLen {
		t.Fatalf("expected %d samples after overlap, got %d", wantLen, len(got.Samples))
	}
	// Midway through the overlap the ramps roughly cancel.
	mid := got.Samples[900]
	if mid < -200 || mid > 200 {
		t.Fatalf("overlap midpoint should be near zero, got %d", mid)
	}
}

func TestCrossfadeAppendZeroOverlapFallsBackToAppend(t *testing.T) {
	a := constantClip(1, 10, 1000)
	b := constantClip(2, 10, 1000)
	if got := a.CrossfadeAppend(b, 0); len(got.Samples) != 20 {
		t.Fatalf("expected plain append, got %d samples", len(got.Samples))
	}
}

func TestClampSample(t *testing.T) {
	if clampSample(40000) != 32767 || clampSample(-40000) != -32768 {
		t.Fatal("summed samples must clamp at the int16 bounds")
	}
}

func TestPCMRoundTrip(t *testing.T) {
	clip := Clip{Samples: []int16{0, 1, -1, 32767, -32768}, SampleRate: 44100}
	got := clipFromPCM(pcmFromClip(clip), 44100)
	if len(got.Samples) != len(clip.Samples) {
		t.Fatalf("length mismatch: %d vs %d", len(got.Samples), len(clip.Samples))
	}
	for i := range clip.Samples {
		if got.Samples[i] != clip.Samples[i] {
			t.Fatalf("sample %d: %d != %d", i, got.Samples[i], clip.Samples[i])
		}
	}
}
