/*
NAME
  testdata_test.go

DESCRIPTION
  testdata_test.go provides helpers for building well-formed FLV byte
  buffers in tests, without resorting to checked-in binary fixtures.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package flv

import (
	"testing"

	"github.com/oceanflux/flvtool/internal/ioutil"
)

// header13 returns the 9-byte FLV header plus the 4-byte PreviousTagSize0,
// with both audio and video flags set.
func header13() []byte {
	return []byte{'F', 'L', 'V', 0x01, 0x05, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x00}
}

// buildTag assembles a complete tag: 11-byte header, payload, and a
// trailing PreviousTagSize equal to 11+len(data).
func buildTag(tagType uint8, timestamp uint32, data []byte) []byte {
	w := ioutil.NewWriter()
	w.WriteUint8(tagType)
	w.WriteUint24(uint32(len(data)))
	w.WriteUint24(timestamp & 0xFFFFFF)
	w.WriteUint8(uint8(timestamp >> 24))
	w.WriteUint24(0) // Stream id.
	w.WriteBytes(data)
	w.WriteUint32(uint32(11 + len(data)))
	return w.Bytes()
}

// scriptPayload builds a raw onMetaData AMF0 payload (name + ECMA array).
func scriptPayload(t *testing.T, pairs ...[2]interface{}) []byte {
	t.Helper()
	w := ioutil.NewWriter()
	// name
	w.WriteUint8(0x02)
	w.WriteUint16(uint16(len("onMetaData")))
	w.WriteString("onMetaData")
	// ecma array
	w.WriteUint8(0x08)
	w.WriteUint32(uint32(len(pairs)))
	for _, p := range pairs {
		key := p[0].(string)
		w.WriteUint16(uint16(len(key)))
		w.WriteString(key)
		switch v := p[1].(type) {
		case float64:
			w.WriteUint8(0x00)
			w.WriteFloat64(v)
		case bool:
			w.WriteUint8(0x01)
			if v {
				w.WriteUint8(1)
			} else {
				w.WriteUint8(0)
			}
		case string:
			w.WriteUint8(0x02)
			w.WriteUint16(uint16(len(v)))
			w.WriteString(v)
		}
	}
	w.WriteUint24(0x000009)
	return w.Bytes()
}
