package tts

import "errors"

// Common TTS errors.
var (
	// ErrEmptyScript indicates the script had no content to synthesize.
	ErrEmptyScript = errors.New("script is empty")

	// ErrLimitExceeded indicates the script is over the word limit.
	ErrLimitExceeded = errors.New("script exceeds the word limit")

	// ErrAuthRequired indicates the cloud engine has no credential.
	ErrAuthRequired = errors.New("cloud synthesis requires an API key")

	// ErrSynthesisFailed indicates the backend returned no usable audio.
	// The backend does not distinguish rejected input from input that is
	// too long, so the message stays generic.
	ErrSynthesisFailed = errors.New("synthesis returned no audio - try a shorter script")

	// ErrPlatformUnsupported indicates no local speech engine is available.
	ErrPlatformUnsupported = errors.New("no local speech engine found on this system")

	// ErrInvalidEngine indicates an unknown engine selector.
	ErrInvalidEngine = errors.New("invalid TTS engine specified")

	// ErrVoiceNotFound indicates the requested voice is not in the catalog.
	ErrVoiceNotFound = errors.New("requested voice not found")
)

// IsRecoverable reports whether the user can recover from err by editing
// the script, supplying a credential, or switching engines. Recoverable
// errors leave the session in its error state until the next generate.
func IsRecoverable(err error) bool {
	switch {
	case errors.Is(err, ErrLimitExceeded),
		errors.Is(err, ErrAuthRequired),
		errors.Is(err, ErrSynthesisFailed),
		errors.Is(err, ErrPlatformUnsupported),
		errors.Is(err, ErrEmptyScript):
		return true
	}
	return false
}
