// Package pcm converts between the synthesis backend's base64-encoded
// 16-bit little-endian PCM payloads and normalized float sample buffers,
// and serializes sample buffers into WAV containers.
package pcm

import (
	"encoding/base64"
	"fmt"
	"time"
)

// Errors reported by the codec.
var (
	// ErrDecode indicates a malformed base64 or PCM payload.
	ErrDecode = fmt.Errorf("malformed audio payload")

	// ErrFormat indicates invalid channel or sample-rate parameters.
	ErrFormat = fmt.Errorf("invalid audio format parameters")
)

// SampleBuffer holds decoded audio as normalized float samples, one slice
// per channel. All channels have equal length (the frame count). Buffers
// are never mutated after creation; transforms must copy.
type SampleBuffer struct {
	SampleRate int
	Channels   [][]float32
}

// NumChannels returns the channel count.
func (b *SampleBuffer) NumChannels() int {
	return len(b.Channels)
}

// Frames returns the per-channel sample count.
func (b *SampleBuffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback duration of the buffer.
func (b *SampleBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// DecodeBase64 decodes a standard base64 payload into raw bytes.
func DecodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

// BytesToBuffer interprets b as interleaved little-endian signed 16-bit PCM
// and de-interleaves it into a normalized SampleBuffer. A trailing partial
// frame is silently dropped. Samples are scaled by 1/32768, so the result
// range is [-1.0, 0.99997).
func BytesToBuffer(b []byte, sampleRate, channels int) (*SampleBuffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrFormat, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrFormat, sampleRate)
	}

	samples := len(b) / 2
	frames := samples / channels

	buf := &SampleBuffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for ch := range buf.Channels {
		buf.Channels[ch] = make([]float32, frames)
	}

	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channels; ch++ {
			i := (frame*channels + ch) * 2
			v := int16(uint16(b[i]) | uint16(b[i+1])<<8)
			buf.Channels[ch][frame] = float32(v) / 32768.0
		}
	}

	return buf, nil
}

// BufferToBytes serializes a SampleBuffer to interleaved little-endian
// signed 16-bit PCM. Each sample is clamped to [-1.0, 1.0] and scaled
// asymmetrically (negative values by 32768, non-negative by 32767),
// matching the backend's convention. Positive quantized samples may lose
// one LSB through an encode pass; negative and zero samples are exact.
func BufferToBytes(buf *SampleBuffer) []byte {
	channels := buf.NumChannels()
	frames := buf.Frames()

	out := make([]byte, frames*channels*2)
	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channels; ch++ {
			s := buf.Channels[ch][frame]
			if s < -1.0 {
				s = -1.0
			} else if s > 1.0 {
				s = 1.0
			}

			var v int16
			if s < 0 {
				v = int16(s * 32768)
			} else {
				v = int16(s * 32767)
			}

			i := (frame*channels + ch) * 2
			out[i] = byte(uint16(v))
			out[i+1] = byte(uint16(v) >> 8)
		}
	}

	return out
}
