package pcm

import (
	"bytes"
	"encoding/binary"
)

const (
	wavHeaderSize = 44
	bitsPerSample = 16
)

// EncodeWAV serializes a SampleBuffer into a canonical 44-byte-header
// RIFF/WAVE container with 16-bit PCM data. All multi-byte fields are
// little-endian.
func EncodeWAV(buf *SampleBuffer) []byte {
	data := BufferToBytes(buf)

	channels := buf.NumChannels()
	byteRate := buf.SampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	out := &bytes.Buffer{}
	out.Grow(wavHeaderSize + len(data))

	out.WriteString("RIFF")
	_ = binary.Write(out, binary.LittleEndian, uint32(wavHeaderSize-8+len(data)))
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	_ = binary.Write(out, binary.LittleEndian, uint32(16))
	_ = binary.Write(out, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(out, binary.LittleEndian, uint16(channels))
	_ = binary.Write(out, binary.LittleEndian, uint32(buf.SampleRate))
	_ = binary.Write(out, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(out, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(out, binary.LittleEndian, uint16(bitsPerSample))

	out.WriteString("data")
	_ = binary.Write(out, binary.LittleEndian, uint32(len(data)))
	out.Write(data)

	return out.Bytes()
}
