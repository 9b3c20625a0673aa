package pcm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-audio/wav"
)

func TestEncodeWAVHeader(t *testing.T) {
	buf := &SampleBuffer{
		SampleRate: 24000,
		Channels:   [][]float32{{0, 0.5, -0.5, 0.25}},
	}
	out := EncodeWAV(buf)

	if len(out) != 44+8 {
		t.Fatalf("len = %d, want %d", len(out), 44+8)
	}
	if string(out[0:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Fatalf("bad container magic: %q %q", out[0:4], out[8:12])
	}
	if got := binary.LittleEndian.Uint32(out[4:8]); got != uint32(len(out)-8) {
		t.Errorf("RIFF size = %d, want %d", got, len(out)-8)
	}
	if string(out[12:16]) != "fmt " {
		t.Fatalf("missing fmt chunk, got %q", out[12:16])
	}
	if got := binary.LittleEndian.Uint32(out[16:20]); got != 16 {
		t.Errorf("fmt chunk size = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint16(out[20:22]); got != 1 {
		t.Errorf("format code = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(out[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(out[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:32]); got != 48000 {
		t.Errorf("byte rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint16(out[32:34]); got != 2 {
		t.Errorf("block align = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(out[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if string(out[36:40]) != "data" {
		t.Fatalf("missing data chunk, got %q", out[36:40])
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 8 {
		t.Errorf("data size = %d, want 8", got)
	}
}

func TestEncodeWAVStereoRates(t *testing.T) {
	buf := &SampleBuffer{
		SampleRate: 44100,
		Channels: [][]float32{
			{0.1, 0.2, 0.3},
			{-0.1, -0.2, -0.3},
		},
	}
	out := EncodeWAV(buf)

	if got := binary.LittleEndian.Uint16(out[22:24]); got != 2 {
		t.Errorf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(out[28:32]); got != 44100*2*2 {
		t.Errorf("byte rate = %d, want %d", got, 44100*2*2)
	}
	if got := binary.LittleEndian.Uint16(out[32:34]); got != 4 {
		t.Errorf("block align = %d, want 4", got)
	}
	if got := binary.LittleEndian.Uint32(out[40:44]); got != 12 {
		t.Errorf("data size = %d, want 12", got)
	}
}

func TestEncodeWAVDecodes(t *testing.T) {
	buf := &SampleBuffer{
		SampleRate: 24000,
		Channels:   [][]float32{{-1.0, -0.5, 0, 0.5}},
	}
	out := EncodeWAV(buf)

	dec := wav.NewDecoder(bytes.NewReader(out))
	pcmBuf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decoding own output: %v", err)
	}
	if !dec.IsValidFile() {
		t.Fatal("decoder rejects encoded file")
	}
	if dec.SampleRate != 24000 {
		t.Errorf("decoded sample rate = %d, want 24000", dec.SampleRate)
	}
	if dec.NumChans != 1 {
		t.Errorf("decoded channels = %d, want 1", dec.NumChans)
	}
	if dec.BitDepth != 16 {
		t.Errorf("decoded bit depth = %d, want 16", dec.BitDepth)
	}

	want := []int{-32768, -16384, 0, 16383}
	if len(pcmBuf.Data) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(pcmBuf.Data), len(want))
	}
	for i, w := range want {
		if pcmBuf.Data[i] != w {
			t.Errorf("sample %d = %d, want %d", i, pcmBuf.Data[i], w)
		}
	}
}
