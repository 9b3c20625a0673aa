//go:build !nocgo
// +build !nocgo

package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// otoReadyTimeout bounds how long we wait for the platform audio device.
const otoReadyTimeout = 5 * time.Second

// oto permits one context per process, so the underlying handle is
// created once and shared by every OtoContext. A request for a different
// format after initialization fails.
var (
	otoMu         sync.Mutex
	otoShared     *oto.Context
	otoRate       int
	otoChans      int
	otoNewContext = oto.NewContext
)

// OtoContext implements Context on real audio hardware via oto.
type OtoContext struct {
	ctx        *oto.Context
	sampleRate int
	channels   int

	mu     sync.Mutex
	closed bool
}

// NewOtoContext returns a Context for 16-bit little-endian PCM at the
// given format. The first call initializes the process-wide oto context
// and waits until the device is ready; later calls reuse it, and a call
// with a different format fails.
func NewOtoContext(sampleRate, channels int) (Context, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid audio format: rate=%d channels=%d", sampleRate, channels)
	}

	otoMu.Lock()
	defer otoMu.Unlock()

	if otoShared != nil {
		if sampleRate != otoRate || channels != otoChans {
			return nil, fmt.Errorf(
				"audio context already initialized at rate=%d channels=%d, cannot reopen at rate=%d channels=%d",
				otoRate, otoChans, sampleRate, channels)
		}
		return &OtoContext{
			ctx:        otoShared,
			sampleRate: sampleRate,
			channels:   channels,
		}, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := otoNewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(otoReadyTimeout):
		return nil, fmt.Errorf("audio context not ready after %v", otoReadyTimeout)
	}

	otoShared = ctx
	otoRate = sampleRate
	otoChans = channels

	log.Debug("audio context ready", "sample_rate", sampleRate, "channels", channels)

	return &OtoContext{
		ctx:        ctx,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// NewPlayer creates an oto player reading PCM16LE bytes from r.
func (c *OtoContext) NewPlayer(r io.Reader) Player {
	return &otoPlayer{player: c.ctx.NewPlayer(r)}
}

// Close marks the context released. oto v3 contexts have no Close; the
// handle is dropped and reclaimed by the garbage collector.
func (c *OtoContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.ctx = nil
	return nil
}

// SampleRate returns the context sample rate.
func (c *OtoContext) SampleRate() int { return c.sampleRate }

// ChannelCount returns the context channel count.
func (c *OtoContext) ChannelCount() int { return c.channels }

// otoPlayer adapts *oto.Player to the Player interface.
type otoPlayer struct {
	player *oto.Player

	mu     sync.Mutex
	closed bool
}

func (p *otoPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.player.Play()
	}
}

func (p *otoPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.player.Pause()
	}
}

func (p *otoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	return p.player.IsPlaying()
}

func (p *otoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.player.Close()
}
