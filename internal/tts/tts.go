// Package tts converts script segments to encoded audio, preferring the
// premium backend and falling back per segment when it fails.
package tts

import "context"

// Backend synthesizes one piece of dialogue with one voice. Implementations
// are all-or-nothing: a non-nil error means no usable audio was produced.
type Backend interface {
	Name() string
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Result is one synthesized segment, MP3-encoded, tagged with its position
// in the script so assembly can preserve order.
type Result struct {
	Index   int
	Speaker string
	Backend string
	MP3     []byte
}
