/*
NAME
  bitreader.go

DESCRIPTION
  bitreader.go provides a bit reader implementation that reads MSB-first
  bitfields from an in-memory byte buffer. Used to decode AAC
  AudioSpecificConfig fields out of an already-buffered tag payload.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides an MSB-first bit reader over a byte slice.
package bits

import "errors"

// ErrShortBuffer is returned when a read would run past the end of the
// underlying buffer.
var ErrShortBuffer = errors.New("bits: insufficient data")

// Reader reads bitfields of up to 64 bits at a time from a byte buffer,
// most-significant bit first.
type Reader struct {
	buf     []byte
	byteIdx int
	bitIdx  int // 0 == MSB of buf[byteIdx]
}

// NewReader returns a Reader over buf, starting at the first bit of the
// first byte.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Read returns the next n bits (0 <= n <= 64) as the least-significant
// bits of the result, advancing the cursor by n bits.
func (r *Reader) Read(n int) (uint64, error) {
	var v uint64
	for i := 0; i < n; i++ {
		if r.byteIdx >= len(r.buf) {
			return 0, ErrShortBuffer
		}
		bit := (r.buf[r.byteIdx] >> uint(7-r.bitIdx)) & 1
		v = v<<1 | uint64(bit)
		r.bitIdx++
		if r.bitIdx == 8 {
			r.bitIdx = 0
			r.byteIdx++
		}
	}
	return v, nil
}
