package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/voicelab/voicestudio/internal/pcm"
	"github.com/voicelab/voicestudio/internal/tts"
)

// Dispatcher routes one synthesis request. Satisfied by *tts.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, req tts.Request) (*tts.Result, error)
}

// Player plays one buffer at a time. Satisfied by *audio.Engine.
type Player interface {
	Play(buf *pcm.SampleBuffer, onComplete func()) error
	Stop()
	Close()
}

// Controller owns one synthesis session. It serializes dispatches through
// the Loading phase, auto-plays cloud results, follows local engine
// lifecycle events, and retains the last cloud buffer for download.
//
// All exported methods are safe for concurrent use. Stale completions
// from superseded dispatches or playback sessions are discarded by a
// generation token that advances on every new dispatch and every stop.
type Controller struct {
	dispatcher Dispatcher
	player     Player

	mu      sync.Mutex
	machine *Machine
	errMsg  string
	gen     uint64
	cancel  context.CancelFunc

	engine tts.EngineType
	voice  string

	buffer      *pcm.SampleBuffer
	bufferVoice string
	handle      *tts.Handle

	msgs chan Msg
}

// NewController wires a controller to its dispatcher and player with the
// initial engine and voice selection.
func NewController(d Dispatcher, p Player, engine tts.EngineType, voice string) *Controller {
	return &Controller{
		dispatcher: d,
		player:     p,
		machine:    NewMachine(),
		engine:     engine,
		voice:      voice,
		msgs:       make(chan Msg, 16),
	}
}

// Msgs returns the lifecycle notification channel. Messages are dropped
// rather than blocking when the consumer falls behind.
func (c *Controller) Msgs() <-chan Msg {
	return c.msgs
}

// Phase returns the current session phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// ErrMessage returns the message carried by the Error phase, or "".
func (c *Controller) ErrMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Engine returns the selected synthesis engine.
func (c *Controller) Engine() tts.EngineType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

// Voice returns the selected voice.
func (c *Controller) Voice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voice
}

// SetEngine switches the synthesis backend. Any active playback stops
// first so the two engines never produce sound together.
func (c *Controller) SetEngine(engine tts.EngineType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if engine == c.engine {
		return
	}
	if c.machine.Current() == PhasePlaying || c.machine.Current() == PhaseLoading {
		c.stopLocked()
	}
	c.engine = engine
}

// SetVoice selects the voice for subsequent dispatches.
func (c *Controller) SetVoice(voice string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voice = voice
}

// CanGenerate reports whether a generate request for script would be
// acted on right now.
func (c *Controller) CanGenerate(script string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine.Current() == PhaseLoading {
		return false
	}
	return strings.TrimSpace(script) != "" && tts.CountWords(script) <= tts.MaxScriptWords
}

// CanDownload reports whether a retained cloud buffer is available.
func (c *Controller) CanDownload() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer != nil
}

// Generate starts a dispatch for script. While Loading the request is
// dropped, not queued. While Playing it acts as a toggle and stops
// playback instead.
func (c *Controller) Generate(ctx context.Context, script string) {
	c.mu.Lock()

	switch c.machine.Current() {
	case PhaseLoading:
		log.Debug("generate ignored, dispatch already in flight")
		c.mu.Unlock()
		return
	case PhasePlaying:
		c.stopLocked()
		c.mu.Unlock()
		return
	}

	c.transitionLocked(PhaseLoading)
	c.gen++
	token := c.gen
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	req := tts.Request{Script: script, Engine: c.engine, Voice: c.voice}
	c.mu.Unlock()

	go c.run(runCtx, token, req)
}

// Stop aborts any in-flight dispatch, discards its eventual result, and
// halts playback. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Close stops the session and releases the player. The controller must
// not be used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
	c.player.Close()
}

// Download encodes the retained buffer as WAV and writes it to dir under
// the name voice-gen-<voice>.wav. It never re-synthesizes.
func (c *Controller) Download(dir string) (string, error) {
	c.mu.Lock()
	buf := c.buffer
	voice := c.bufferVoice
	c.mu.Unlock()

	if buf == nil {
		return "", fmt.Errorf("no synthesized audio to download")
	}

	path := filepath.Join(dir, fmt.Sprintf("voice-gen-%s.wav", voice))
	if err := os.WriteFile(path, pcm.EncodeWAV(buf), 0o644); err != nil { //nolint:gosec
		return "", fmt.Errorf("unable to write WAV file: %w", err)
	}

	log.Debug("wrote WAV file", "path", path, "frames", buf.Frames())
	return path, nil
}

// run completes a dispatch off the caller's goroutine. Results for a
// superseded token are discarded.
func (c *Controller) run(ctx context.Context, token uint64, req tts.Request) {
	res, err := c.dispatcher.Dispatch(ctx, req)

	c.mu.Lock()
	if token != c.gen {
		c.mu.Unlock()
		log.Debug("discarding stale dispatch result")
		return
	}

	if err != nil {
		// Download is offered only while the last cloud synthesis
		// succeeded; a failed one invalidates any retained buffer.
		if req.Engine == tts.EngineCloud {
			c.buffer = nil
			c.bufferVoice = ""
		}
		c.cancelLocked()
		c.errMsg = err.Error()
		c.transitionLocked(PhaseError)
		c.mu.Unlock()
		c.emit(GenerateFailedMsg{Err: err, Recoverable: tts.IsRecoverable(err)})
		return
	}

	c.errMsg = ""

	switch {
	case res.Buffer != nil:
		c.buffer = res.Buffer
		c.bufferVoice = req.Voice
		c.cancelLocked()
		if err := c.player.Play(res.Buffer, c.completeFunc(token)); err != nil {
			c.errMsg = err.Error()
			c.transitionLocked(PhaseError)
			c.mu.Unlock()
			c.emit(GenerateFailedMsg{Err: err, Recoverable: false})
			return
		}
		c.transitionLocked(PhasePlaying)
		c.mu.Unlock()
		c.emit(PlaybackStartedMsg{Engine: req.Engine, Voice: req.Voice})

	case res.Handle != nil:
		c.handle = res.Handle
		c.transitionLocked(PhasePlaying)
		c.mu.Unlock()
		c.emit(PlaybackStartedMsg{Engine: req.Engine, Voice: req.Voice})
		go c.followHandle(token, res.Handle)

	default:
		c.cancelLocked()
		c.transitionLocked(PhaseIdle)
		c.mu.Unlock()
	}
}

// followHandle consumes a local engine's lifecycle events until the
// terminal one.
func (c *Controller) followHandle(token uint64, h *tts.Handle) {
	for ev := range h.Events() {
		switch ev.Type {
		case tts.EventEnd:
			c.complete(token)
			return
		case tts.EventError:
			c.fail(token, ev.Err)
			return
		case tts.EventStart:
			// Already in PhasePlaying.
		}
	}
	c.complete(token)
}

// completeFunc builds an onComplete callback bound to token.
func (c *Controller) completeFunc(token uint64) func() {
	return func() { c.complete(token) }
}

// complete handles natural end of playback for the given dispatch.
func (c *Controller) complete(token uint64) {
	c.mu.Lock()
	if token != c.gen || c.machine.Current() != PhasePlaying {
		c.mu.Unlock()
		return
	}
	c.handle = nil
	c.cancelLocked()
	c.transitionLocked(PhaseIdle)
	c.mu.Unlock()
	c.emit(PlaybackFinishedMsg{Stopped: false})
}

// fail moves the session to the Error phase for the given dispatch.
func (c *Controller) fail(token uint64, err error) {
	c.mu.Lock()
	if token != c.gen {
		c.mu.Unlock()
		return
	}
	c.handle = nil
	c.cancelLocked()
	if err == nil {
		err = fmt.Errorf("playback failed")
	}
	c.errMsg = err.Error()
	c.transitionLocked(PhaseError)
	c.mu.Unlock()
	c.emit(GenerateFailedMsg{Err: err, Recoverable: tts.IsRecoverable(err)})
}

// cancelLocked releases the current dispatch context. Caller holds c.mu.
func (c *Controller) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// stopLocked invalidates outstanding completions, aborts any in-flight
// dispatch, and halts playback. Caller holds c.mu.
func (c *Controller) stopLocked() {
	c.gen++
	c.cancelLocked()

	if c.handle != nil {
		c.handle.Cancel()
		c.handle = nil
	}
	c.player.Stop()

	switch c.machine.Current() {
	case PhasePlaying:
		c.transitionLocked(PhaseIdle)
		c.emit(PlaybackFinishedMsg{Stopped: true})
	case PhaseLoading:
		c.transitionLocked(PhaseIdle)
	}
}

// transitionLocked moves the machine and publishes the change. Caller
// holds c.mu.
func (c *Controller) transitionLocked(to Phase) {
	prev := c.machine.Current()
	if !c.machine.Transition(to) {
		log.Warn("invalid phase transition", "from", prev, "to", to)
		return
	}
	c.emit(PhaseChangedMsg{Prev: prev, Phase: to})
}

// emit publishes a message without blocking a slow consumer.
func (c *Controller) emit(msg Msg) {
	select {
	case c.msgs <- msg:
	default:
	}
}
