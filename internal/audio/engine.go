package audio

import (
	"bytes"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/voicelab/voicestudio/internal/pcm"
)

// ErrEngineClosed is returned by operations issued after Close.
var ErrEngineClosed = errors.New("audio engine is closed")

// completionPollInterval is how often the session watcher checks whether
// the player has drained its buffer.
const completionPollInterval = 25 * time.Millisecond

// Engine plays one SampleBuffer at a time. The context is created lazily
// with the format of the first buffer played and recreated whenever a
// buffer with a different format arrives.
type Engine struct {
	factory ContextFactory

	mu      sync.Mutex
	ctx     Context
	session *Session
	closed  bool
}

// Session is a single live playback. At most one session exists per engine;
// starting a new one tears down the old one first.
type Session struct {
	ID     string
	player Player

	live       atomic.Bool
	onComplete func()
}

// NewEngine creates an engine backed by the given context factory. Pass
// NewOtoContext for real output or a mock factory in tests.
func NewEngine(factory ContextFactory) *Engine {
	return &Engine{factory: factory}
}

// Play stops any active session, ensures a context matching the buffer's
// format, and starts a new session. onComplete fires once, from a watcher
// goroutine, when playback drains naturally; it does not fire after Stop
// or Close.
func (e *Engine) Play(buf *pcm.SampleBuffer, onComplete func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	e.stopLocked()

	if err := e.ensureContextLocked(buf.SampleRate, buf.NumChannels()); err != nil {
		return err
	}

	data := pcm.BufferToBytes(buf)
	player := e.ctx.NewPlayer(bytes.NewReader(data))

	s := &Session{
		ID:         uuid.NewString(),
		player:     player,
		onComplete: onComplete,
	}
	s.live.Store(true)
	e.session = s

	player.Play()
	go e.watchCompletion(s)

	log.Debug("playback started",
		"session", s.ID,
		"frames", buf.Frames(),
		"sample_rate", buf.SampleRate,
		"duration", buf.Duration())

	return nil
}

// Stop halts the active session, if any. Idempotent; stopping an engine
// with no session is a no-op. The session's onComplete will not fire.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// IsPlaying reports whether a session is active.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// Close stops any session and releases the audio context. The engine must
// not be used afterwards. Teardown errors are swallowed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true

	e.stopLocked()
	if e.ctx != nil {
		_ = e.ctx.Close()
		e.ctx = nil
	}
}

// stopLocked tears down the active session. Caller holds e.mu.
func (e *Engine) stopLocked() {
	s := e.session
	if s == nil {
		return
	}

	s.live.Store(false)
	s.player.Pause()
	_ = s.player.Close()
	e.session = nil

	log.Debug("playback stopped", "session", s.ID)
}

// ensureContextLocked creates or recreates the context so it matches the
// requested format. On real hardware the factory shares one process-wide
// context and refuses a format change; that error surfaces to the caller.
// Caller holds e.mu.
func (e *Engine) ensureContextLocked(sampleRate, channels int) error {
	if e.ctx != nil && e.ctx.SampleRate() == sampleRate && e.ctx.ChannelCount() == channels {
		return nil
	}

	if e.ctx != nil {
		_ = e.ctx.Close()
		e.ctx = nil
	}

	ctx, err := e.factory(sampleRate, channels)
	if err != nil {
		return err
	}
	e.ctx = ctx
	return nil
}

// watchCompletion polls the player until it drains, then clears the
// session and fires onComplete. A session stopped or superseded in the
// meantime is ignored.
func (e *Engine) watchCompletion(s *Session) {
	ticker := time.NewTicker(completionPollInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !s.live.Load() {
			return
		}
		if s.player.IsPlaying() {
			continue
		}

		// Drained. Claim completion only if this session is still the
		// engine's active one.
		e.mu.Lock()
		if e.session != s || !s.live.Load() {
			e.mu.Unlock()
			return
		}
		s.live.Store(false)
		_ = s.player.Close()
		e.session = nil
		e.mu.Unlock()

		log.Debug("playback complete", "session", s.ID)
		if s.onComplete != nil {
			s.onComplete()
		}
		return
	}
}
