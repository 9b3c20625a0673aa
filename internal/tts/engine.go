// Package tts dispatches synthesis requests to a cloud model or the
// platform's built-in speech engine and normalizes both into one result
// shape for the session controller.
package tts

import (
	"context"

	"github.com/voicelab/voicestudio/internal/pcm"
)

// EngineType selects the synthesis backend.
type EngineType string

const (
	// EngineCloud is the network AI synthesis backend.
	EngineCloud EngineType = "cloud"

	// EngineLocal is the platform's built-in speech engine.
	EngineLocal EngineType = "local"
)

// Request is one synthesis call: a script, an engine selector, and the
// voice for that engine (persona name for cloud, platform voice identifier
// for local).
type Request struct {
	Script string
	Engine EngineType
	Voice  string
}

// Result is the outcome of a successful dispatch. Exactly one field is
// set: Buffer for the cloud engine (the caller plays it), Handle for the
// local engine (the platform plays it and reports lifecycle events).
type Result struct {
	Buffer *pcm.SampleBuffer
	Handle *Handle
}

// Synthesizer is the cloud backend: script plus persona name in, complete
// decoded audio out.
type Synthesizer interface {
	Synthesize(ctx context.Context, script, voice string) (*pcm.SampleBuffer, error)
}

// Speaker is the local backend. It manages its own playback and reports
// start/end/error asynchronously through the returned Handle.
type Speaker interface {
	Speak(ctx context.Context, script, voice string) (*Handle, error)
	Available() bool
}

// CapabilityProvider gates the cloud engine on an authentication
// credential.
type CapabilityProvider interface {
	// HasCredential reports whether a credential is already present.
	HasCredential() bool

	// RequestCredential attempts to acquire a credential interactively or
	// from the environment and reports whether one is now present.
	RequestCredential() bool
}

// EventType identifies a local-engine lifecycle notification.
type EventType int

const (
	// EventStart signals the platform engine began speaking.
	EventStart EventType = iota
	// EventEnd signals the platform engine finished speaking.
	EventEnd
	// EventError signals the platform engine failed.
	EventError
)

// Event is one local-engine lifecycle notification.
type Event struct {
	Type EventType
	Err  error
}

// Handle represents an in-flight local speech session. Events delivers
// lifecycle notifications; Cancel halts the platform engine immediately.
type Handle struct {
	events chan Event
	cancel context.CancelFunc
}

// NewHandle creates a handle wired to cancel. Intended for Speaker
// implementations.
func NewHandle(cancel context.CancelFunc) *Handle {
	return &Handle{
		events: make(chan Event, 4),
		cancel: cancel,
	}
}

// Events returns the lifecycle notification channel. It is closed after
// the terminal event (end or error).
func (h *Handle) Events() <-chan Event {
	return h.events
}

// Cancel halts the platform engine. Safe to call more than once.
func (h *Handle) Cancel() {
	if h.cancel != nil {
		h.cancel()
	}
}

// Emit delivers an event without blocking a slow consumer.
func (h *Handle) Emit(ev Event) {
	select {
	case h.events <- ev:
	default:
	}
}

// CloseEvents marks the event stream finished.
func (h *Handle) CloseEvents() {
	close(h.events)
}
