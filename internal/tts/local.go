package tts

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
)

// LocalSpeaker implements Speaker on top of the platform speech binary:
// `say` on macOS, otherwise espeak-ng, espeak, or flite. The binary plays
// through the system output itself; we only track its lifecycle.
type LocalSpeaker struct {
	binary string
}

// NewLocalSpeaker probes the platform for a speech binary. The returned
// speaker reports Available() == false when none was found; Speak then
// fails with ErrPlatformUnsupported.
func NewLocalSpeaker() *LocalSpeaker {
	s := &LocalSpeaker{}
	for _, candidate := range speechBinaries() {
		if path, err := exec.LookPath(candidate); err == nil {
			s.binary = path
			log.Debug("local speech engine found", "binary", path)
			break
		}
	}
	return s
}

// speechBinaries lists candidate binaries in preference order for the
// current platform.
func speechBinaries() []string {
	if runtime.GOOS == "darwin" {
		return []string{"say", "espeak-ng", "espeak", "flite"}
	}
	return []string{"espeak-ng", "espeak", "flite"}
}

// Available reports whether a speech binary was found.
func (s *LocalSpeaker) Available() bool {
	return s.binary != ""
}

// Speak starts the platform engine on script with the given voice
// identifier and returns a cancelable handle. Start, end, and error arrive
// asynchronously on the handle's event channel; cancellation kills the
// process immediately.
func (s *LocalSpeaker) Speak(ctx context.Context, script, voice string) (*Handle, error) {
	if !s.Available() {
		return nil, ErrPlatformUnsupported
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, s.binary, s.args(script, voice)...)

	handle := NewHandle(cancel)

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start local speech engine: %w", err)
	}

	handle.Emit(Event{Type: EventStart})
	log.Debug("local speech started", "binary", s.binary, "voice", voice)

	go func() {
		defer handle.CloseEvents()
		err := cmd.Wait()
		switch {
		case runCtx.Err() != nil:
			// Canceled; the kill error is expected and not surfaced.
			handle.Emit(Event{Type: EventEnd})
		case err != nil:
			handle.Emit(Event{Type: EventError, Err: fmt.Errorf("local speech engine failed: %w", err)})
		default:
			handle.Emit(Event{Type: EventEnd})
		}
	}()

	return handle, nil
}

// args builds the invocation for the discovered binary.
func (s *LocalSpeaker) args(script, voice string) []string {
	switch {
	case endsWith(s.binary, "say"):
		if voice != "" {
			return []string{"-v", voice, script}
		}
		return []string{script}
	case endsWith(s.binary, "flite"):
		if voice != "" {
			return []string{"-voice", voice, "-t", script}
		}
		return []string{"-t", script}
	default: // espeak-ng, espeak
		if voice != "" {
			return []string{"-v", voice, script}
		}
		return []string{script}
	}
}

func endsWith(path, name string) bool {
	if len(path) < len(name) {
		return false
	}
	tail := path[len(path)-len(name):]
	return tail == name && (len(path) == len(name) || path[len(path)-len(name)-1] == '/')
}
