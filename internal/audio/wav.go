package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrNotWAV is returned when the data does not start with a RIFF/WAVE header.
var ErrNotWAV = errors.New("not a RIFF/WAVE stream")

// Format describes linear PCM audio.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// BytesPerFrame returns the size of one sample across all channels.
func (f Format) BytesPerFrame() int {
	return f.BitDepth / 8 * f.Channels
}

// Duration returns the playing time of n bytes of PCM in this format.
func (f Format) Duration(n int) time.Duration {
	if f.SampleRate == 0 || f.BytesPerFrame() == 0 {
		return 0
	}
	frames := n / f.BytesPerFrame()
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

const wavFormatPCM = 1

// DecodeWAV walks the RIFF chunks of a WAV file and returns the fmt
// parameters together with the data chunk. espeak writes a streaming header
// with an unknown data size when piping to stdout, so a data chunk that
// claims more bytes than are present is cut to what is available.
func DecodeWAV(b []byte) (Format, []byte, error) {
	var f Format
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return f, nil, ErrNotWAV
	}

	haveFmt := false
	pos := 12
	for pos+8 <= len(b) {
		id := string(b[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		body := pos + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(b) {
				return f, nil, fmt.Errorf("truncated fmt chunk (%d bytes)", size)
			}
			if tag := binary.LittleEndian.Uint16(b[body:]); tag != wavFormatPCM {
				return f, nil, fmt.Errorf("unsupported WAV encoding %d", tag)
			}
			f.Channels = int(binary.LittleEndian.Uint16(b[body+2:]))
			f.SampleRate = int(binary.LittleEndian.Uint32(b[body+4:]))
			f.BitDepth = int(binary.LittleEndian.Uint16(b[body+14:]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return f, nil, errors.New("data chunk before fmt chunk")
			}
			end := body + size
			if size < 0 || end > len(b) || end < body {
				end = len(b)
			}
			data := b[body:end]
			if bpf := f.BytesPerFrame(); bpf > 0 {
				data = data[:len(data)-len(data)%bpf]
			}
			return f, data, nil
		}

		// chunks are word aligned
		pos = body + size + size%2
		if pos < body {
			break
		}
	}

	if !haveFmt {
		return f, nil, errors.New("missing fmt chunk")
	}
	return f, nil, errors.New("missing data chunk")
}

// EncodeWAV wraps PCM samples in a canonical 44-byte WAV header.
func EncodeWAV(f Format, pcm []byte) []byte {
	out := make([]byte, 44+len(pcm))
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+len(pcm))) //nolint:gosec
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], wavFormatPCM)
	binary.LittleEndian.PutUint16(out[22:], uint16(f.Channels))                     //nolint:gosec
	binary.LittleEndian.PutUint32(out[24:], uint32(f.SampleRate))                   //nolint:gosec
	binary.LittleEndian.PutUint32(out[28:], uint32(f.SampleRate*f.BytesPerFrame())) //nolint:gosec
	binary.LittleEndian.PutUint16(out[32:], uint16(f.BytesPerFrame()))              //nolint:gosec
	binary.LittleEndian.PutUint16(out[34:], uint16(f.BitDepth))                     //nolint:gosec
	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(len(pcm))) //nolint:gosec
	copy(out[44:], pcm)
	return out
}
