/*
NAME
  details_test.go

DESCRIPTION
  details_test.go provides testing for the codec-detail decoders in
  details.go, independent of the tag-walk machinery in parse.go.

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

	"github.com/oceanflux/flvtool/amf"
)

// TestDecodeAudioDetailsFallback checks the metadata fallback chain: a
// non-AAC tag defers to metadata "audiosamplerate"/"stereo" when present,
// and to the FLV flag-byte tables otherwise.
func TestDecodeAudioDetailsFallback(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		meta       amf.Value
		wantRate   string
		wantChan   string
	}{
		{
			name:     "no metadata uses flag byte",
			data:     []byte{0x2E}, // MP3(2), rate=3(44kHz), size=1, chan=0
			meta:     amf.Value{},
			wantRate: "44 kHz",
			wantChan: "Mono",
		},
		{
			name: "metadata overrides flag byte",
			data: []byte{0x20}, // MP3(2), rate=0, size=0, chan=0
			meta: amf.Map(
				amf.Entry{Key: "audiosamplerate", Value: amf.Num(48000)},
				amf.Entry{Key: "stereo", Value: amf.Bool(true)},
			),
			wantRate: "48000 Hz",
			wantChan: "Stereo",
		},
	}

	for _, test := range tests {
		got := decodeAudioDetails(test.data, test.meta)
		if got.SampleRate != test.wantRate {
			t.Errorf("%s: got sample rate %q, want %q", test.name, got.SampleRate, test.wantRate)
		}
		if got.Channels != test.wantChan {
			t.Errorf("%s: got channels %q, want %q", test.name, got.Channels, test.wantChan)
		}
	}
}

// TestDecodeAudioDetailsEmpty checks the empty-payload sentinel.
func TestDecodeAudioDetailsEmpty(t *testing.T) {
	got := decodeAudioDetails(nil, amf.Value{})
	if got.Format != "Empty" {
		t.Errorf("got format %q, want Empty", got.Format)
	}
}

// TestDecodeVideoDetailsEmpty checks the empty-payload sentinel.
func TestDecodeVideoDetailsEmpty(t *testing.T) {
	got := decodeVideoDetails(nil)
	if got.FrameType != "Empty" {
		t.Errorf("got frame type %q, want Empty", got.FrameType)
	}
}

// TestDecodeVideoDetailsUnknownCodec checks the numbered-unknown format
// for an unrecognized codec id.
func TestDecodeVideoDetailsUnknownCodec(t *testing.T) {
	got := decodeVideoDetails([]byte{0x1F}) // frameType=1, codec=15 (unassigned)
	want := "Unknown (15)"
	if got.Codec != want {
		t.Errorf("got codec %q, want %q", got.Codec, want)
	}
}

// TestDecodeScriptDetailsParseError checks that malformed script payload
// bytes collapse to the Parse Error sentinel rather than panicking.
func TestDecodeScriptDetailsParseError(t *testing.T) {
	got := decodeScriptDetails([]byte{0x02, 0x00, 0xFF}) // string marker claims 255 bytes, buffer has none
	if got.Name != "Parse Error" {
		t.Errorf("got name %q, want Parse Error", got.Name)
	}
}

// TestDecodeScriptDetailsNonStringName checks that a name marker other
// than string is coerced to a textual representation rather than
// collapsing to the empty string.
func TestDecodeScriptDetailsNonStringName(t *testing.T) {
	var buf []byte
	buf = append(buf, 0x00)                                      // number marker
	buf = append(buf, 0x40, 0x5E, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00) // 123.0, big-endian IEEE754
	buf = append(buf, 0x01, 0x01)                                // boolean marker, true

	got := decodeScriptDetails(buf)
	if got.Name != "123" {
		t.Errorf("got name %q, want %q", got.Name, "123")
	}
	if got.Value.Kind != 1 || !got.Value.Bool { // amf.KindBoolean == 1
		t.Errorf("got value %+v, want boolean true", got.Value)
	}
}
