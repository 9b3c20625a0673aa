package audio

import (
	"io"
	"sync"
)

// MockContext implements Context for tests. Playback never makes sound;
// tests drive completion by calling FinishPlayback on the mock player.
type MockContext struct {
	mu         sync.Mutex
	sampleRate int
	channels   int
	closed     bool
	players    []*MockPlayer
}

// NewMockContext creates a mock context with the given format.
func NewMockContext(sampleRate, channels int) *MockContext {
	return &MockContext{sampleRate: sampleRate, channels: channels}
}

// MockFactory returns a ContextFactory producing mock contexts and records
// each created context in *created.
func MockFactory(created *[]*MockContext) ContextFactory {
	var mu sync.Mutex
	return func(sampleRate, channels int) (Context, error) {
		ctx := NewMockContext(sampleRate, channels)
		mu.Lock()
		*created = append(*created, ctx)
		mu.Unlock()
		return ctx, nil
	}
}

func (c *MockContext) NewPlayer(r io.Reader) Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := &MockPlayer{reader: r}
	c.players = append(c.players, p)
	return p
}

func (c *MockContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *MockContext) SampleRate() int   { return c.sampleRate }
func (c *MockContext) ChannelCount() int { return c.channels }

// Closed reports whether Close was called.
func (c *MockContext) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Players returns every player created on this context.
func (c *MockContext) Players() []*MockPlayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*MockPlayer, len(c.players))
	copy(out, c.players)
	return out
}

// MockPlayer implements Player with test-controlled completion.
type MockPlayer struct {
	mu       sync.Mutex
	reader   io.Reader
	playing  bool
	finished bool
	closed   bool
}

func (p *MockPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed && !p.finished {
		p.playing = true
	}
}

func (p *MockPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *MockPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && !p.finished && !p.closed
}

func (p *MockPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.playing = false
	return nil
}

// FinishPlayback simulates the source draining its buffer.
func (p *MockPlayer) FinishPlayback() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
	p.playing = false
}

// IsClosed reports whether Close was called.
func (p *MockPlayer) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
