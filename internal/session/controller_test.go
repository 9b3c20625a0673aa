package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/voicelab/voicestudio/internal/pcm"
	"github.com/voicelab/voicestudio/internal/tts"
)

type stubDispatcher struct {
	mu      sync.Mutex
	calls   int
	result  *tts.Result
	err     error
	entered chan struct{} // receives one value per Dispatch call
	release chan struct{} // when non-nil, Dispatch blocks until it closes
}

func (d *stubDispatcher) Dispatch(_ context.Context, _ tts.Request) (*tts.Result, error) {
	d.mu.Lock()
	d.calls++
	entered, release := d.entered, d.release
	d.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.result, d.err
}

func (d *stubDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type stubPlayer struct {
	mu         sync.Mutex
	playCalls  int
	stopCalls  int
	closeCalls int
	onComplete func()
}

func (p *stubPlayer) Play(_ *pcm.SampleBuffer, onComplete func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playCalls++
	p.onComplete = onComplete
	return nil
}

func (p *stubPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCalls++
	p.onComplete = nil
}

func (p *stubPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeCalls++
}

func (p *stubPlayer) finish() {
	p.mu.Lock()
	fn := p.onComplete
	p.onComplete = nil
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (p *stubPlayer) counts() (play, stop int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playCalls, p.stopCalls
}

func testBuffer() *pcm.SampleBuffer {
	return &pcm.SampleBuffer{
		SampleRate: 24000,
		Channels:   [][]float32{{0, 0.1, 0.2, 0.3}},
	}
}

func waitPhase(t *testing.T, c *Controller, want Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Phase() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("phase = %v, want %v", c.Phase(), want)
}

func TestGenerateCloudAutoPlays(t *testing.T) {
	d := &stubDispatcher{result: &tts.Result{Buffer: testBuffer()}}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Zephyr")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)

	if play, _ := p.counts(); play != 1 {
		t.Fatalf("play calls = %d, want 1", play)
	}
	if !c.CanDownload() {
		t.Error("CanDownload false after cloud synthesis")
	}

	p.finish()
	waitPhase(t, c, PhaseIdle)
}

func TestGenerateIgnoredWhileLoading(t *testing.T) {
	d := &stubDispatcher{
		result:  &tts.Result{Buffer: testBuffer()},
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Zephyr")

	c.Generate(context.Background(), "first")
	<-d.entered

	if c.Phase() != PhaseLoading {
		t.Fatalf("phase = %v, want loading", c.Phase())
	}
	if c.CanGenerate("second") {
		t.Error("CanGenerate true while loading")
	}

	// Dropped, not queued.
	c.Generate(context.Background(), "second")
	if got := d.callCount(); got != 1 {
		t.Fatalf("dispatch calls = %d, want 1", got)
	}

	close(d.release)
	waitPhase(t, c, PhasePlaying)
	if got := d.callCount(); got != 1 {
		t.Errorf("dispatch calls after release = %d, want 1", got)
	}
}

func TestGenerateTogglesWhilePlaying(t *testing.T) {
	d := &stubDispatcher{result: &tts.Result{Buffer: testBuffer()}}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Zephyr")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)

	// Second activation stops instead of restarting.
	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhaseIdle)

	if got := d.callCount(); got != 1 {
		t.Errorf("dispatch calls = %d, want 1", got)
	}
	if _, stop := p.counts(); stop == 0 {
		t.Error("player was not stopped")
	}
}

func TestGenerateFailureEntersError(t *testing.T) {
	d := &stubDispatcher{err: tts.ErrSynthesisFailed}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Zephyr")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhaseError)

	if c.ErrMessage() == "" {
		t.Error("error phase carries no message")
	}
	if play, _ := p.counts(); play != 0 {
		t.Errorf("player invoked on failure: %d calls", play)
	}

	// The next successful generate clears the error.
	d.mu.Lock()
	d.err = nil
	d.result = &tts.Result{Buffer: testBuffer()}
	d.mu.Unlock()

	c.Generate(context.Background(), "Hello again")
	waitPhase(t, c, PhasePlaying)
	if c.ErrMessage() != "" {
		t.Errorf("error message not cleared: %q", c.ErrMessage())
	}
}

func TestStopDiscardsStaleResult(t *testing.T) {
	d := &stubDispatcher{
		result:  &tts.Result{Buffer: testBuffer()},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Zephyr")

	c.Generate(context.Background(), "Hello world")
	<-d.entered

	c.Stop()
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after stop = %v, want idle", c.Phase())
	}

	// The dispatch completes after the stop; its result must be dropped.
	close(d.release)
	time.Sleep(50 * time.Millisecond)

	if c.Phase() != PhaseIdle {
		t.Errorf("stale result resurrected session: phase = %v", c.Phase())
	}
	if play, _ := p.counts(); play != 0 {
		t.Errorf("stale result was played: %d calls", play)
	}
}

func TestLocalHandleLifecycle(t *testing.T) {
	handle := tts.NewHandle(func() {})
	d := &stubDispatcher{result: &tts.Result{Handle: handle}}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineLocal, "Alex")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)

	if play, _ := p.counts(); play != 0 {
		t.Errorf("local path invoked the buffer player: %d calls", play)
	}

	handle.Emit(tts.Event{Type: tts.EventEnd})
	handle.CloseEvents()
	waitPhase(t, c, PhaseIdle)
}

func TestLocalHandleError(t *testing.T) {
	handle := tts.NewHandle(func() {})
	d := &stubDispatcher{result: &tts.Result{Handle: handle}}
	c := NewController(d, &stubPlayer{}, tts.EngineLocal, "Alex")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)

	handle.Emit(tts.Event{Type: tts.EventError, Err: errors.New("speech binary crashed")})
	handle.CloseEvents()
	waitPhase(t, c, PhaseError)

	if !strings.Contains(c.ErrMessage(), "crashed") {
		t.Errorf("error message = %q", c.ErrMessage())
	}
}

func TestSetEngineStopsPlayback(t *testing.T) {
	d := &stubDispatcher{result: &tts.Result{Buffer: testBuffer()}}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Zephyr")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)

	c.SetEngine(tts.EngineLocal)
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after engine switch = %v, want idle", c.Phase())
	}
	if _, stop := p.counts(); stop == 0 {
		t.Error("prior engine's playback was not stopped")
	}
	if c.Engine() != tts.EngineLocal {
		t.Errorf("engine = %v, want local", c.Engine())
	}
}

func TestCanGenerate(t *testing.T) {
	c := NewController(&stubDispatcher{}, &stubPlayer{}, tts.EngineCloud, "Zephyr")

	if c.CanGenerate("") || c.CanGenerate("   ") {
		t.Error("CanGenerate true for blank script")
	}
	if !c.CanGenerate("Hello world") {
		t.Error("CanGenerate false for a valid script")
	}

	over := strings.Repeat("word ", tts.MaxScriptWords+1)
	if c.CanGenerate(over) {
		t.Error("CanGenerate true past the word limit")
	}
}

func TestDownload(t *testing.T) {
	d := &stubDispatcher{result: &tts.Result{Buffer: testBuffer()}}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Kore")

	if _, err := c.Download(t.TempDir()); err == nil {
		t.Fatal("Download succeeded with no buffer")
	}

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)
	p.finish()
	waitPhase(t, c, PhaseIdle)

	dir := t.TempDir()
	path, err := c.Download(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "voice-gen-Kore.wav" {
		t.Errorf("filename = %q, want voice-gen-Kore.wav", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 44+4*2 {
		t.Errorf("file size = %d, want %d", len(data), 44+4*2)
	}
	if string(data[0:4]) != "RIFF" {
		t.Errorf("file does not start with RIFF: %q", data[0:4])
	}
}

func TestDownloadDisabledAfterFailedSynthesis(t *testing.T) {
	d := &stubDispatcher{result: &tts.Result{Buffer: testBuffer()}}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Kore")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)
	p.finish()
	waitPhase(t, c, PhaseIdle)

	if !c.CanDownload() {
		t.Fatal("CanDownload false after successful cloud synthesis")
	}

	d.mu.Lock()
	d.result = nil
	d.err = tts.ErrSynthesisFailed
	d.mu.Unlock()

	c.Generate(context.Background(), "Hello again")
	waitPhase(t, c, PhaseError)

	if c.CanDownload() {
		t.Error("CanDownload true after the last cloud synthesis failed")
	}
	if _, err := c.Download(t.TempDir()); err == nil {
		t.Error("Download served stale audio after a failed cloud synthesis")
	}
}

func TestLocalFailureKeepsCloudDownload(t *testing.T) {
	d := &stubDispatcher{result: &tts.Result{Buffer: testBuffer()}}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Kore")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)
	p.finish()
	waitPhase(t, c, PhaseIdle)

	// A failed local dispatch does not touch the retained cloud buffer.
	c.SetEngine(tts.EngineLocal)
	d.mu.Lock()
	d.result = nil
	d.err = tts.ErrSynthesisFailed
	d.mu.Unlock()

	c.Generate(context.Background(), "Hello again")
	waitPhase(t, c, PhaseError)

	if !c.CanDownload() {
		t.Error("CanDownload false although the last cloud synthesis succeeded")
	}
}

// cancelDispatcher blocks until its context is cancelled and reports the
// observed error.
type cancelDispatcher struct {
	entered chan struct{}
	errs    chan error
}

func (d *cancelDispatcher) Dispatch(ctx context.Context, _ tts.Request) (*tts.Result, error) {
	d.entered <- struct{}{}
	<-ctx.Done()
	d.errs <- ctx.Err()
	return nil, ctx.Err()
}

func TestStopCancelsInFlightDispatch(t *testing.T) {
	d := &cancelDispatcher{
		entered: make(chan struct{}, 1),
		errs:    make(chan error, 1),
	}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Zephyr")

	c.Generate(context.Background(), "Hello world")
	<-d.entered

	c.Stop()

	select {
	case err := <-d.errs:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("dispatch context error = %v, want canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch context not cancelled by Stop")
	}

	if c.Phase() != PhaseIdle {
		t.Errorf("phase after stop = %v, want idle", c.Phase())
	}
	if play, _ := p.counts(); play != 0 {
		t.Errorf("cancelled dispatch reached the player: %d calls", play)
	}
}

func TestMsgsPublished(t *testing.T) {
	d := &stubDispatcher{result: &tts.Result{Buffer: testBuffer()}}
	p := &stubPlayer{}
	c := NewController(d, p, tts.EngineCloud, "Zephyr")

	c.Generate(context.Background(), "Hello world")
	waitPhase(t, c, PhasePlaying)
	p.finish()
	waitPhase(t, c, PhaseIdle)

	var started, finished bool
	for {
		select {
		case msg := <-c.Msgs():
			switch m := msg.(type) {
			case PlaybackStartedMsg:
				started = true
				if m.Voice != "Zephyr" {
					t.Errorf("started voice = %q", m.Voice)
				}
			case PlaybackFinishedMsg:
				finished = true
				if m.Stopped {
					t.Error("natural completion reported as stopped")
				}
			}
		default:
			if !started {
				t.Error("no PlaybackStartedMsg published")
			}
			if !finished {
				t.Error("no PlaybackFinishedMsg published")
			}
			return
		}
	}
}

func TestClose(t *testing.T) {
	p := &stubPlayer{}
	c := NewController(&stubDispatcher{}, p, tts.EngineCloud, "Zephyr")
	c.Close()
	if p.closeCalls != 1 {
		t.Errorf("player close calls = %d, want 1", p.closeCalls)
	}
}
