/*
NAME
  writer.go

DESCRIPTION
  writer.go provides an append-only byte accumulator mirroring Reader's
  repertoire of big-endian fixed-width encoders.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ioutil

import "math"

// Writer is an append-only byte accumulator. Its methods never fail.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterSize returns an empty Writer with its backing array pre-sized
// to at least n bytes, to avoid reallocation when the final length is
// known ahead of time.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n)}
}

// Bytes returns the accumulated bytes. The returned slice aliases the
// Writer's internal buffer and must not be retained across further writes.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// WriteUint8 appends an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends a big-endian unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

// WriteUint24 appends a big-endian unsigned 24-bit integer.
func (w *Writer) WriteUint24(v uint32) {
	w.buf = append(w.buf, byte(v>>16), byte(v>>8), byte(v))
}

// WriteUint32 appends a big-endian unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = append(w.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// WriteFloat64 appends a big-endian IEEE-754 double.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint32(uint32(math.Float64bits(v) >> 32))
	w.WriteUint32(uint32(math.Float64bits(v)))
}

// WriteString appends the raw bytes of s without a length prefix. Callers
// that need a length-prefixed string should WriteUint16(len(s)) themselves.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}
