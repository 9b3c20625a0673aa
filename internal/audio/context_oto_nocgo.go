//go:build nocgo
// +build nocgo

package audio

import (
	"errors"
	"io"
)

// Stub implementations for static analysis and builds without CGO

// OtoContext stub for nocgo builds.
type OtoContext struct {
	sampleRate int
	channels   int
}

// NewOtoContext creates a stub audio context.
func NewOtoContext(sampleRate, channels int) (Context, error) {
	return nil, errors.New("audio not available in nocgo build")
}

func (c *OtoContext) NewPlayer(r io.Reader) Player {
	return &otoPlayer{}
}

func (c *OtoContext) Close() error {
	return nil
}

func (c *OtoContext) SampleRate() int {
	return c.sampleRate
}

func (c *OtoContext) ChannelCount() int {
	return c.channels
}

// otoPlayer stub for nocgo builds.
type otoPlayer struct{}

func (p *otoPlayer) Play() {}

func (p *otoPlayer) Pause() {}

func (p *otoPlayer) IsPlaying() bool {
	return false
}

func (p *otoPlayer) Close() error {
	return nil
}
