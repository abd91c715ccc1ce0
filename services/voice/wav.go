package voice

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	MaxDurationSeconds = 60
	MaxAudioBytes      = 5 * 1024 * 1024
	pcmFormat          = 1
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

// parseWaveHeader reads the canonical 44 byte RIFF header and checks the
// audio is mono 16-bit PCM no longer than MaxDurationSeconds.
func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, fmt.Errorf("%w: header too short", ErrInvalidAudio)
	}
	var h waveHeader
	if err := binary.Read(bytes.NewReader(data[:44]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	if string(h.RiffTag[:]) != "RIFF" || string(h.WaveTag[:]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidAudio)
	}
	if h.AudioFormat != pcmFormat || h.BitsPerSample != 16 {
		return nil, fmt.Errorf("%w: expected 16-bit PCM", ErrInvalidAudio)
	}
	if h.NumChannels != 1 {
		return nil, fmt.Errorf("%w: expected mono audio, got %d channels", ErrInvalidAudio, h.NumChannels)
	}
	if h.ByteRate > 0 && h.DataSize/h.ByteRate > MaxDurationSeconds {
		return nil, fmt.Errorf("%w: longer than %d seconds", ErrInvalidAudio, MaxDurationSeconds)
	}
	return &h, nil
}
