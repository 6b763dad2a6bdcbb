// Package audio assembles synthesized segments into the final episode file.
// Clip math runs on decoded mono PCM in memory; decoding and encoding shell
// out to ffmpeg.
package audio

import "time"

// Clip is a decoded mono PCM buffer (signed 16-bit samples).
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Duration returns the clip's play time.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// Silence returns a clip of the given duration.
func Silence(d time.Duration, sampleRate int) Clip {
	n := int(d * time.Duration(sampleRate) / time.Second)
	if n < 0 {
		n = 0
	}
	return Clip{Samples: make([]int16, n), SampleRate: sampleRate}
}

// Append concatenates another clip onto this one. Both clips must share a
// sample rate; the caller decodes everything at the target rate.
func (c Clip) Append(other Clip) Clip {
	samples := make([]int16, 0, len(c.Samples)+len(other.Samples))
	samples = append(samples, c.Samples...)
	samples = append(samples, other.Samples...)
	return Clip{Samples: samples, SampleRate: c.SampleRate}
}

// FadeIn applies a linear ramp from silence over the given duration.
func (c Clip) FadeIn(d time.Duration) Clip {
	n := c.fadeSamples(d)
	out := Clip{Samples: append([]int16(nil), c.Samples...), SampleRate: c.SampleRate}
	for i := 0; i < n; i++ {
		out.Samples[i] = int16(float64(out.Samples[i]) * float64(i) / float64(n))
	}
	return out
}

// FadeOut applies a linear ramp to silence over the final given duration.
func (c Clip) FadeOut(d time.Duration) Clip {
	n := c.fadeSamples(d)
	out := Clip{Samples: append([]int16(nil), c.Samples...), SampleRate: c.SampleRate}
	start := len(out.Samples) - n
	for i := 0; i < n; i++ {
		out.Samples[start+i] = int16(float64(out.Samples[start+i]) * float64(n-i) / float64(n))
	}
	return out
}

// CrossfadeAppend overlaps the tail of this clip with the head of the next:
// the tail ramps out while the head ramps in, summed with clamping.
func (c Clip) CrossfadeAppend(other Clip, overlap time.Duration) Clip {
	n := c.fadeSamples(overlap)
	if n > len(other.Samples) {
		n = len(other.Samples)
	}
	if n == 0 {
		return c.Append(other)
	}

	total := len(c.Samples) + len(other.Samples) - n
	samples := make([]int16, 0, total)
	samples = append(samples, c.Samples[:len(c.Samples)-n]...)

	tail := c.Samples[len(c.Samples)-n:]
	for i := 0; i < n; i++ {
		out := float64(tail[i])*float64(n-i)/float64(n) + float64(other.Samples[i])*float64(i)/float64(n)
		samples = append(samples, clampSample(out))
	}
	samples = append(samples, other.Samples[n:]...)
	return Clip{Samples: samples, SampleRate: c.SampleRate}
}

func (c Clip) fadeSamples(d time.Duration) int {
	n := int(d * time.Duration(c.SampleRate) / time.Second)
	if n > len(c.Samples) {
		n = len(c.Samples)
	}
	if n < 0 {
		n = 0
	}
	return n
}

func clampSample(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
