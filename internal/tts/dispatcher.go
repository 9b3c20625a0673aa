package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Dispatcher routes synthesis requests to the cloud or local backend after
// validating the script and, for the cloud path, the credential gate.
type Dispatcher struct {
	cloud Synthesizer
	local Speaker
	caps  CapabilityProvider
}

// NewDispatcher wires a dispatcher to its backends and credential gate.
func NewDispatcher(cloud Synthesizer, local Speaker, caps CapabilityProvider) *Dispatcher {
	return &Dispatcher{cloud: cloud, local: local, caps: caps}
}

// Dispatch validates req and invokes the selected backend. Preconditions
// run in order - script non-empty, word count within MaxScriptWords, then
// cloud credential - and no backend is contacted when any fails. The cloud
// path returns a Result carrying a SampleBuffer; the local path returns a
// Result carrying a lifecycle Handle.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Script) == "" {
		return nil, ErrEmptyScript
	}

	if words := CountWords(req.Script); words > MaxScriptWords {
		return nil, fmt.Errorf("%w: %d words (limit %d)", ErrLimitExceeded, words, MaxScriptWords)
	}

	switch req.Engine {
	case EngineCloud:
		if !d.caps.HasCredential() && !d.caps.RequestCredential() {
			return nil, ErrAuthRequired
		}
		buf, err := d.cloud.Synthesize(ctx, req.Script, req.Voice)
		if err != nil {
			return nil, err
		}
		return &Result{Buffer: buf}, nil

	case EngineLocal:
		if !d.local.Available() {
			return nil, ErrPlatformUnsupported
		}
		handle, err := d.local.Speak(ctx, req.Script, req.Voice)
		if err != nil {
			return nil, err
		}
		return &Result{Handle: handle}, nil

	default:
		log.Warn("dispatch with unknown engine", "engine", req.Engine)
		return nil, fmt.Errorf("%w: %q", ErrInvalidEngine, req.Engine)
	}
}
