/*
NAME
  rewrite.go

DESCRIPTION
  rewrite.go implements the two output transformations this package
  supports: verbatim repair (copy every fully-present tag, dropping a
  truncated trailing fragment) and metadata-replacing rewrite (splice a
  caller-supplied key/value map into the onMetaData script tag, copying
  every other tag byte-for-byte).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package flv

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/oceanflux/flvtool/amf"
	"github.com/oceanflux/flvtool/internal/ioutil"
)

// Repair returns a byte-exact copy of buf that preserves every recognized
// tag boundary, dropping any trailing fragment that isn't a complete tag.
// Repairing a structurally intact input is idempotent, and is a no-op
// (returns buf unchanged, bytewise) when every tag in buf is already fully
// present.
func Repair(buf []byte) ([]byte, error) {
	if len(buf) < headerLen+prevTagSizeLen {
		return nil, fmt.Errorf("%w: repair prefix", ErrDataTooShort)
	}

	w := ioutil.NewWriterSize(len(buf))
	w.WriteBytes(buf[:headerLen+prevTagSizeLen])

	r := ioutil.NewReader(buf)
	r.Seek(headerLen + prevTagSizeLen)

	for {
		header, err := r.Peek(tagHeaderLen)
		if err != nil {
			break
		}
		dataSize := uint32(header[1])<<16 | uint32(header[2])<<8 | uint32(header[3])
		total := tagHeaderLen + int(dataSize) + prevTagSizeLen

		block, err := peekAt(buf, r.Offset(), total)
		if err != nil {
			break
		}

		w.WriteBytes(block)
		if err := r.Advance(total); err != nil {
			break
		}
	}

	return w.Bytes(), nil
}

// peekAt returns a slice of n bytes of buf starting at off, or an error if
// that would run past the end of buf.
func peekAt(buf []byte, off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(buf) {
		return nil, ioutil.ErrShortBuffer
	}
	return buf[off : off+n], nil
}

// RewriteMetadata returns a new FLV buffer in which the onMetaData script
// tag found in buf is replaced by meta, re-serialized in AMF0. Every other
// tag is copied byte-for-byte. RewriteMetadata fails with
// ErrMetadataNotFound if buf contains no onMetaData tag.
func RewriteMetadata(buf []byte, meta map[string]interface{}) ([]byte, error) {
	if len(buf) < headerLen {
		return nil, fmt.Errorf("%w: header", ErrDataTooShort)
	}

	header, err := parseHeader(buf)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse header for rewrite")
	}

	w := ioutil.NewWriterSize(len(buf))
	w.WriteBytes(buf[:headerLen])
	if header.HeaderSize > headerLen {
		extra, err := peekAt(buf, headerLen, int(header.HeaderSize)-headerLen)
		if err != nil {
			return nil, errors.Wrap(err, "could not copy extended header")
		}
		w.WriteBytes(extra)
	}

	start := int(header.HeaderSize)
	pts0, err := peekAt(buf, start, prevTagSizeLen)
	if err != nil {
		return nil, fmt.Errorf("%w: PreviousTagSize0", ErrDataTooShort)
	}
	w.WriteBytes(pts0)

	r := ioutil.NewReader(buf)
	r.Seek(start + prevTagSizeLen)

	value := metadataValue(meta)
	found := false

	for {
		header, err := r.Peek(tagHeaderLen)
		if err != nil {
			break
		}
		tagType := header[0]
		dataSize := uint32(header[1])<<16 | uint32(header[2])<<8 | uint32(header[3])
		total := tagHeaderLen + int(dataSize) + prevTagSizeLen

		block, err := peekAt(buf, r.Offset(), total)
		if err != nil {
			break
		}

		if !found && tagType == TagTypeScript {
			data := block[tagHeaderLen : tagHeaderLen+int(dataSize)]
			sd := decodeScriptDetails(data)
			if sd.Name == onMetaDataName {
				writeScriptTag(w, value)
				found = true
				if err := r.Advance(total); err != nil {
					break
				}
				continue
			}
		}

		w.WriteBytes(block)
		if err := r.Advance(total); err != nil {
			break
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: no onMetaData script tag in tag stream", ErrMetadataNotFound)
	}

	return w.Bytes(), nil
}

// writeScriptTag appends a synthesized onMetaData script tag carrying
// value, using the canonical 11-byte tag header layout (1 byte type, 3
// byte data size, 3 byte timestamp-low + 1 byte timestamp-extended, 3
// byte stream id) with a zero timestamp and stream id, followed by the
// AMF0-encoded payload and a matching PreviousTagSize.
func writeScriptTag(w *ioutil.Writer, value amf.Value) {
	payload := ioutil.NewWriter()
	// EncodeMetaData only fails if value isn't an ECMA array; metadataValue
	// always builds one, so this error is unreachable in practice.
	_ = amf.EncodeMetaData(payload, value)
	data := payload.Bytes()

	w.WriteUint8(TagTypeScript)
	w.WriteUint24(uint32(len(data)))
	w.WriteUint24(0) // Timestamp low.
	w.WriteUint8(0)  // Timestamp extended.
	w.WriteUint24(0) // Stream id.
	w.WriteBytes(data)
	w.WriteUint32(uint32(tagHeaderLen + len(data)))
}

// metadataValue converts a host-supplied Go map into an amf.Value ECMA
// array, dispatching on each value's dynamic Go type. Every signed and
// unsigned integer width is accepted alongside float32/float64, since
// callers may hand in either encoding/json's float64-for-every-number
// result or a Go literal int. Any other type is skipped, mirroring
// amf.Value's own tolerance for kinds it cannot represent on the wire;
// see SPEC_FULL.md section 4.8 for the supported subset. Entries are
// emitted in ascending key order.
func metadataValue(meta map[string]interface{}) amf.Value {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]amf.Entry, 0, len(meta))
	for _, k := range keys {
		switch x := meta[k].(type) {
		case float64:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(x)})
		case float32:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case int:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case int8:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case int16:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case int32:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case int64:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case uint:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case uint8:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case uint16:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case uint32:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case uint64:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Num(float64(x))})
		case bool:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Bool(x)})
		case string:
			entries = append(entries, amf.Entry{Key: k, Value: amf.Str(x)})
		case amf.Value:
			entries = append(entries, amf.Entry{Key: k, Value: x})
		case map[string]interface{}:
			entries = append(entries, amf.Entry{Key: k, Value: metadataValue(x)})
		}
	}
	return amf.Map(entries...)
}
