package session

import "github.com/voicelab/voicestudio/internal/tts"

// Msg is a session lifecycle notification published to the UI. The set of
// implementations is closed.
type Msg interface {
	sessionMsg()
}

// PhaseChangedMsg reports every phase transition.
type PhaseChangedMsg struct {
	Prev  Phase
	Phase Phase
}

// PlaybackStartedMsg reports that audio output began.
type PlaybackStartedMsg struct {
	Engine tts.EngineType
	Voice  string
}

// PlaybackFinishedMsg reports that audio output ended, either naturally
// or by an explicit stop.
type PlaybackFinishedMsg struct {
	Stopped bool // true when the user stopped playback
}

// GenerateFailedMsg reports a failed dispatch.
type GenerateFailedMsg struct {
	Err         error
	Recoverable bool
}

func (PhaseChangedMsg) sessionMsg()     {}
func (PlaybackStartedMsg) sessionMsg()  {}
func (PlaybackFinishedMsg) sessionMsg() {}
func (GenerateFailedMsg) sessionMsg()   {}
