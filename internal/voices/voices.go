// Package voices selects the day's host voices from the configured pools.
// Selection is a pure function of the calendar date, so every run on a given
// day (including retries) lands on the same pair.
package voices

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"briefcast/internal/config"
	"briefcast/internal/failure"
)

// Assignment is the voice pair chosen for one broadcast date.
type Assignment struct {
	Date  string
	HostA config.Voice
	HostB config.Voice

	// PinnedA/PinnedB report whether the slot came from an operator pin
	// rather than rotation.
	PinnedA bool
	PinnedB bool
}

// Assign picks voices for both hosts on the given date. Pinned slots bypass
// rotation entirely; rotated slots are derived from a hash of the date and
// the host role, and the two hosts are guaranteed distinct voice IDs unless
// pins force them together.
func Assign(date time.Time, poolA, poolB []config.Voice, pins config.VoicePins) (Assignment, error) {
	day := date.Format("2006-01-02")
	assignment := Assignment{Date: day}

	if pins.HostA != "" {
		assignment.HostA = pinnedVoice(pins.HostA, poolA)
		assignment.PinnedA = true
	} else {
		voice, err := rotate(day, "host_a", poolA)
		if err != nil {
			return Assignment{}, err
		}
		assignment.HostA = voice
	}

	if pins.HostB != "" {
		assignment.HostB = pinnedVoice(pins.HostB, poolB)
		assignment.PinnedB = true
		return assignment, nil
	}

	voice, err := rotate(day, "host_b", poolB)
	if err != nil {
		return Assignment{}, err
	}
	if voice.ID == assignment.HostA.ID {
		voice, err = nextDistinct(day, "host_b", poolB, assignment.HostA.ID)
		if err != nil {
			return Assignment{}, err
		}
	}
	assignment.HostB = voice
	return assignment, nil
}

// pinnedVoice resolves a pin against the pool so the display name survives
// when the operator pinned a known voice; unknown IDs are still honored.
func pinnedVoice(id string, pool []config.Voice) config.Voice {
	for _, voice := range pool {
		if voice.ID == id || voice.Name == id {
			return voice
		}
	}
	return config.Voice{Name: id, ID: id}
}

func rotate(day, role string, pool []config.Voice) (config.Voice, error) {
	if len(pool) == 0 {
		return config.Voice{}, failure.Wrap(failure.ErrInsufficientVoicePool,
			"voices", role, fmt.Sprintf("no voices configured for %s", role), nil)
	}
	return pool[rotationIndex(day, role, len(pool))], nil
}

// nextDistinct walks forward from the hashed index until it finds a voice
// with a different ID. A pool where every entry collides with the other host
// cannot produce a two-voice show.
func nextDistinct(day, role string, pool []config.Voice, taken string) (config.Voice, error) {
	start := rotationIndex(day, role, len(pool))
	for offset := 1; offset < len(pool); offset++ {
		candidate := pool[(start+offset)%len(pool)]
		if candidate.ID != taken {
			return candidate, nil
		}
	}
	return config.Voice{}, failure.Wrap(failure.ErrInsufficientVoicePool,
		"voices", role, "voice pool has no voice distinct from the other host", nil)
}

func rotationIndex(day, role string, poolSize int) int {
	sum := sha256.Sum256([]byte(day + "|" + role))
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(poolSize))
}
