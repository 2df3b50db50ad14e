// Package stream implements the frame splitter, primary frame parser, and
// outdoor-temperature scanner (spec components C2, C4, C5): turning a raw
// TCP byte stream into individual frames and then into datapoint emissions.
package stream

import "bytes"

// maxBufferSize bounds the splitter's internal buffer so a device that
// never sends a second marker can't grow it without limit (spec §5).
const maxBufferSize = 64 * 1024

var marker = []byte{0xFF, 0x01}

// minPayloadSize is the shortest frame payload worth handing to C4/C5
// (spec §3: "Frames of fewer than 5 bytes payload are discarded"). The
// payload excludes the leading 2-byte marker, so the total frame length
// threshold is minPayloadSize + len(marker).
const minPayloadSize = 5

// Splitter accumulates bytes fed via Feed and extracts complete frames
// delimited by the two-byte marker 0xFF 0x01 (spec §4.2). It is not safe
// for concurrent use; the decoder expects Push, which feeds it, to be
// called from a single goroutine.
type Splitter struct {
	buf []byte
}

// NewSplitter returns an empty Splitter.
func NewSplitter() *Splitter {
	return &Splitter{}
}

// Feed appends b to the internal buffer and returns every complete frame
// that can now be extracted, in order. A frame is the byte range from one
// marker occurrence up to (but not including) the next. Frames whose
// payload is shorter than minPayloadSize are discarded as noise.
func (s *Splitter) Feed(b []byte) [][]byte {
	s.buf = append(s.buf, b...)

	var frames [][]byte
	for {
		first := bytes.Index(s.buf, marker)
		if first < 0 {
			// No marker at all. Keep a single trailing 0xFF in case it's
			// the first half of a marker split across two Feed calls;
			// everything before it is unusable and can be dropped.
			if n := len(s.buf); n > 0 && s.buf[n-1] == 0xFF {
				s.buf = s.buf[n-1:]
			} else {
				s.buf = s.buf[:0]
			}
			break
		}
		if first > 0 {
			// Discard leading bytes before the first marker; they belong
			// to no frame.
			s.buf = s.buf[first:]
		}

		second := bytes.Index(s.buf[len(marker):], marker)
		if second < 0 {
			// Incomplete frame: wait for more bytes.
			break
		}
		second += len(marker)

		frame := make([]byte, second)
		copy(frame, s.buf[:second])
		s.buf = s.buf[second:]

		if len(frame)-len(marker) >= minPayloadSize {
			frames = append(frames, frame)
		}
	}

	if len(s.buf) > maxBufferSize {
		kept := make([]byte, len(s.buf)/2)
		copy(kept, s.buf[len(s.buf)/2:])
		s.buf = kept
	}

	return frames
}
