// Package audio owns the platform audio output. It plays one sample buffer
// at a time through a lazily created context and releases every resource on
// stop, replacement, or teardown.
package audio

import "io"

// Context abstracts the platform audio context so the engine can run
// against real hardware (oto) or a mock in tests.
type Context interface {
	// NewPlayer creates a player that consumes PCM16LE bytes from r.
	NewPlayer(r io.Reader) Player

	// Close releases the context. Further NewPlayer calls are invalid.
	Close() error

	// SampleRate returns the rate the context was created with.
	SampleRate() int

	// ChannelCount returns the channel count the context was created with.
	ChannelCount() int
}

// Player abstracts a single sound source within a Context.
type Player interface {
	// Play starts or resumes output.
	Play()

	// Pause halts output without releasing the source.
	Pause()

	// IsPlaying reports whether the source is producing output. It returns
	// false once the underlying reader is exhausted.
	IsPlaying() bool

	// Close releases the source. Safe to call more than once.
	Close() error
}

// ContextFactory creates a Context for the given format. The engine calls
// it lazily, with the sample rate and channel count of the buffer about to
// be played.
type ContextFactory func(sampleRate, channels int) (Context, error)
