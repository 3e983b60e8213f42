// Package frame implements the fixed-size wire framing used to carry wire
// events across the Unix-domain socket between daemon and client: a
// 16384-byte Frame and the split/join functions that turn an arbitrary
// byte payload into an ordered frame sequence and back.
//
// Frames are encoded and decoded byte-by-byte with encoding/binary; the
// layout is part of the wire contract and never depends on in-memory
// struct layout.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// FrameSize is the fixed size of every frame on the wire.
const FrameSize = 16384

// headerSize is size(2) + seq(1) + total(1).
const headerSize = 4

// DataSize is the maximum payload a single frame can carry.
const DataSize = FrameSize - headerSize

// ErrOutOfOrder is returned by Join/Reassembler when a frame's sequence
// number does not follow the previous one.
var ErrOutOfOrder = errors.New("frame: frame received out of order")

// ErrTotalMismatch is returned when a frame disagrees with the sequence
// total established by the first frame, or when fewer frames than Total
// were supplied to Join.
var ErrTotalMismatch = errors.New("frame: total frame count mismatch")

// ErrDeserializeFailed is returned when a raw 16384-byte buffer cannot be
// decoded into a well-formed Frame, or when a FrameSequence's bytes cannot
// be deserialized into the expected value.
var ErrDeserializeFailed = errors.New("frame: deserialize failed")

// Frame is one 16384-byte unit of the wire protocol: a 2-byte little-endian
// payload size, a 1-byte sequence number (1-based), a 1-byte sequence total,
// and up to DataSize bytes of payload.
type Frame struct {
	Size  uint16
	Seq   byte
	Total byte
	Data  [DataSize]byte
}

// Encode renders f as its FrameSize-byte wire representation.
func (f Frame) Encode() []byte {
	buf := make([]byte, FrameSize)
	binary.LittleEndian.PutUint16(buf[0:2], f.Size)
	buf[2] = f.Seq
	buf[3] = f.Total
	copy(buf[headerSize:], f.Data[:])
	return buf
}

// Decode parses a FrameSize-byte buffer into a Frame.
func Decode(buf []byte) (Frame, error) {
	if len(buf) != FrameSize {
		return Frame{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrDeserializeFailed, FrameSize, len(buf))
	}
	var f Frame
	f.Size = binary.LittleEndian.Uint16(buf[0:2])
	f.Seq = buf[2]
	f.Total = buf[3]
	if int(f.Size) > DataSize {
		return Frame{}, fmt.Errorf("%w: declared size %d exceeds frame capacity", ErrDeserializeFailed, f.Size)
	}
	copy(f.Data[:], buf[headerSize:])
	return f, nil
}

// Split breaks payload into a FrameSequence of frames, each holding up to
// DataSize bytes. An empty payload still produces a single frame with
// Size 0. Split fails if payload needs more than 255 frames.
func Split(payload []byte) ([]Frame, error) {
	total := (len(payload) + DataSize - 1) / DataSize
	if total == 0 {
		total = 1
	}
	if total > 255 {
		return nil, fmt.Errorf("frame: payload of %d bytes needs %d frames, max 255", len(payload), total)
	}

	frames := make([]Frame, 0, total)
	for i := 0; i < total; i++ {
		start := i * DataSize
		end := start + DataSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[start:end]

		var f Frame
		f.Size = uint16(len(chunk))
		f.Seq = byte(i + 1)
		f.Total = byte(total)
		copy(f.Data[:], chunk)
		frames = append(frames, f)
	}
	return frames, nil
}

// Join reassembles a complete, in-order frame sequence back into the
// payload it was split from. frames must be exactly one full sequence, ordered
// by Seq starting at 1, all sharing the same Total.
func Join(frames []Frame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: empty frame sequence", ErrDeserializeFailed)
	}
	total := frames[0].Total
	if len(frames) != int(total) {
		return nil, ErrTotalMismatch
	}

	out := make([]byte, 0, int(total)*DataSize)
	for i, f := range frames {
		if f.Total != total {
			return nil, ErrTotalMismatch
		}
		if f.Seq != byte(i+1) {
			return nil, ErrOutOfOrder
		}
		if int(f.Size) > DataSize {
			return nil, fmt.Errorf("%w: frame %d declares size %d", ErrDeserializeFailed, f.Seq, f.Size)
		}
		out = append(out, f.Data[:f.Size]...)
	}
	return out, nil
}
