/*
NAME
  amf.go

DESCRIPTION
  Action Message Format (AMF0) encoding/decoding of the dynamic value
  subset used by FLV onMetaData script tags: number, boolean, string, and
  ECMA array. See https://en.wikipedia.org/wiki/Action_Message_Format.

AUTHORS
  Dan Kortschak <dan@ausocean.org>
  Jake Lane <jake@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package amf implements a decoder and encoder for the subset of Action
// Message Format version 0 (AMF0) used by FLV script-data tags: number,
// boolean, string, and ECMA array. Strict arrays, typed objects, XML
// documents, dates, long strings, references and AMF3 are not supported;
// decoding any of those markers yields a best-effort placeholder value
// rather than failing, and the encoder never emits them.
package amf

import (
	"fmt"

	"github.com/oceanflux/flvtool/internal/ioutil"
)

// AMF0 type markers, per the AMF0 specification.
const (
	markerNumber    = 0x00
	markerBoolean   = 0x01
	markerString    = 0x02
	markerObject    = 0x03
	markerNull      = 0x05
	markerUndefined = 0x06
	markerReference = 0x07
	markerECMAArray = 0x08
	markerObjectEnd = 0x09
	markerStrict    = 0x0A
	markerDate      = 0x0B
	markerLongStr   = 0x0C
	markerUnsup     = 0x0D
	markerXMLDoc    = 0x0F
	markerTyped     = 0x10
)

// objectEndMarker is the 3-byte sequence that terminates an ECMA array:
// a zero-length key followed by the object-end type marker.
const objectEndMarker = 0x000009

// Errors defined by this package. ErrUnexpectedType is returned, wrapped,
// by Decode and EncodeMetaData. Errors caused by truncated input wrap
// ioutil.ErrShortBuffer; ErrShortBuffer wraps that same error but is not
// itself returned by any function in this package.
var (
	ErrShortBuffer    = fmt.Errorf("amf: %w", ioutil.ErrShortBuffer)
	ErrUnexpectedType = fmt.Errorf("amf: unexpected type")
)

// Kind identifies which field of a Value holds meaningful data.
type Kind uint8

const (
	KindNumber Kind = iota
	KindBoolean
	KindString
	KindECMAArray
	// KindUnsupported carries a diagnostic placeholder for a marker this
	// package does not decode into a native value.
	KindUnsupported
)

// Value is a dynamic AMF0 value: the sum of the four kinds this package
// supports, plus an unsupported-marker placeholder for diagnostics.
type Value struct {
	Kind Kind

	Number float64
	Bool   bool
	String string
	// Array holds the ECMA-array case. Order is preserved from the wire
	// but is not semantically significant.
	Array []Entry
}

// Entry is a single key/value pair of an ECMA array.
type Entry struct {
	Key   string
	Value Value
}

// Get returns the value associated with key in an ECMA-array Value, and
// whether it was found. Get on a non-array Value always reports false.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindECMAArray {
		return Value{}, false
	}
	for _, e := range v.Array {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Num constructs a numeric Value.
func Num(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Str constructs a string Value.
func Str(s string) Value { return Value{Kind: KindString, String: s} }

// Map constructs an ECMA-array Value from an ordered list of entries.
func Map(entries ...Entry) Value {
	return Value{Kind: KindECMAArray, Array: entries}
}

// Decode reads one AMF0 value from r, dispatching on its one-byte type
// marker. An unrecognized marker is not an error: it yields a
// KindUnsupported placeholder value without consuming further bytes,
// matching the source tool's tolerant behaviour for the rare alternate
// AMF0 marker found in the wild.
func Decode(r *ioutil.Reader) (Value, error) {
	marker, err := r.ReadUint8()
	if err != nil {
		return Value{}, fmt.Errorf("could not read type marker: %w", err)
	}

	switch marker {
	case markerNumber:
		n, err := r.ReadFloat64()
		if err != nil {
			return Value{}, fmt.Errorf("could not decode number: %w", err)
		}
		return Num(n), nil

	case markerBoolean:
		b, err := r.ReadUint8()
		if err != nil {
			return Value{}, fmt.Errorf("could not decode boolean: %w", err)
		}
		return Bool(b != 0), nil

	case markerString:
		s, err := decodeString(r)
		if err != nil {
			return Value{}, fmt.Errorf("could not decode string: %w", err)
		}
		return Str(s), nil

	case markerECMAArray:
		return decodeECMAArray(r)

	default:
		return Value{Kind: KindUnsupported, String: fmt.Sprintf("Unsupported AMF Type: %d", marker)}, nil
	}
}

// decodeString reads a 2-byte length prefix followed by that many UTF-8
// bytes.
func decodeString(r *ioutil.Reader) (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	return r.ReadString(int(n))
}

// decodeECMAArray reads the 4-byte (advisory) declared count, then that
// many key/value pairs, then unconditionally consumes the 3-byte
// terminator. The declared count is advisory only: well-formed FLV files
// always have it match the true number of entries, and this decoder does
// not attempt to recover from files that don't.
func decodeECMAArray(r *ioutil.Reader) (Value, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return Value{}, fmt.Errorf("could not decode ecma array count: %w", err)
	}

	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		key, err := decodeString(r)
		if err != nil {
			return Value{}, fmt.Errorf("could not decode ecma array key %d: %w", i, err)
		}
		val, err := Decode(r)
		if err != nil {
			return Value{}, fmt.Errorf("could not decode ecma array value %d: %w", i, err)
		}
		entries = append(entries, Entry{Key: key, Value: val})
	}

	term, err := r.ReadUint24()
	if err != nil {
		return Value{}, fmt.Errorf("could not read ecma array terminator: %w", err)
	}
	if term != objectEndMarker {
		return Value{}, fmt.Errorf("%w: bad ecma array terminator %#x", ErrUnexpectedType, term)
	}

	return Map(entries...), nil
}

// EncodeMetaData encodes the conventional onMetaData payload: the bare
// string "onMetaData" followed by m re-serialized as an ECMA array. This
// is the only encode entry point this package exposes, since the core's
// only write path is metadata replacement.
func EncodeMetaData(w *ioutil.Writer, m Value) error {
	encodeString(w, "onMetaData")
	return encodeECMAArray(w, m)
}

// encodeString writes a bare string value: marker, 2-byte length, bytes.
func encodeString(w *ioutil.Writer, s string) {
	w.WriteUint8(markerString)
	w.WriteUint16(uint16(len(s)))
	w.WriteString(s)
}

// encodeValue dispatches on v.Kind. Kinds this package cannot represent on
// the wire (only KindUnsupported, currently) write nothing; encodeECMAArray
// skips such entries entirely, so the caller is still guaranteed a
// well-formed container, per this package's documented limitation around
// round-tripping exotic AMF0 markers.
func encodeValue(w *ioutil.Writer, v Value) error {
	switch v.Kind {
	case KindBoolean:
		w.WriteUint8(markerBoolean)
		if v.Bool {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}
		return nil
	case KindNumber:
		w.WriteUint8(markerNumber)
		w.WriteFloat64(v.Number)
		return nil
	case KindString:
		encodeString(w, v.String)
		return nil
	case KindECMAArray:
		return encodeECMAArray(w, v)
	default:
		return nil
	}
}

// encodeECMAArray writes marker, 4-byte count, key/value pairs, then the
// 3-byte terminator. Entries whose value kind cannot be encoded are left
// out, and the count covers only the entries written.
func encodeECMAArray(w *ioutil.Writer, v Value) error {
	if v.Kind != KindECMAArray {
		return fmt.Errorf("%w: EncodeMetaData value must be an ecma array", ErrUnexpectedType)
	}
	entries := make([]Entry, 0, len(v.Array))
	for _, e := range v.Array {
		switch e.Value.Kind {
		case KindNumber, KindBoolean, KindString, KindECMAArray:
			entries = append(entries, e)
		}
	}
	w.WriteUint8(markerECMAArray)
	w.WriteUint32(uint32(len(entries)))
	for _, e := range entries {
		w.WriteUint16(uint16(len(e.Key)))
		w.WriteString(e.Key)
		if err := encodeValue(w, e.Value); err != nil {
			return fmt.Errorf("could not encode entry %q: %w", e.Key, err)
		}
	}
	w.WriteUint24(objectEndMarker)
	return nil
}
