/*
NAME
  amf_test.go

DESCRIPTION
  amf_test.go provides testing for functionality provided in amf.go.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package amf

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/oceanflux/flvtool/internal/ioutil"
)

// TestDecodeNumber checks that a simple number value decodes correctly.
func TestDecodeNumber(t *testing.T) {
	buf := []byte{0x00, 0x40, 0x3e, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00} // 30.0
	got, err := Decode(ioutil.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Num(30.0)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected value (-want +got):\n%s", diff)
	}
}

// TestDecodeBoolean checks that boolean values decode correctly.
func TestDecodeBoolean(t *testing.T) {
	tests := []struct {
		buf  []byte
		want Value
	}{
		{buf: []byte{0x01, 0x00}, want: Bool(false)},
		{buf: []byte{0x01, 0x01}, want: Bool(true)},
	}
	for _, test := range tests {
		got, err := Decode(ioutil.NewReader(test.buf))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("unexpected value (-want +got):\n%s", diff)
		}
	}
}

// TestDecodeString checks that a string value decodes correctly.
func TestDecodeString(t *testing.T) {
	buf := []byte{0x02, 0x00, 0x03, 'f', 'o', 'o'}
	got, err := Decode(ioutil.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Str("foo"), got); diff != "" {
		t.Errorf("unexpected value (-want +got):\n%s", diff)
	}
}

// TestDecodeUnsupportedMarker checks that an unrecognized marker decodes
// into a diagnostic placeholder rather than failing.
func TestDecodeUnsupportedMarker(t *testing.T) {
	buf := []byte{0x0B} // markerDate, unsupported.
	got, err := Decode(ioutil.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KindUnsupported {
		t.Errorf("expected KindUnsupported, got %v", got.Kind)
	}
	want := "Unsupported AMF Type: 11"
	if got.String != want {
		t.Errorf("got %q, want %q", got.String, want)
	}
}

// TestDecodeShortBuffer checks that truncated input surfaces a short
// buffer error rather than panicking.
func TestDecodeShortBuffer(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x02} // number marker, but too few bytes.
	_, err := Decode(ioutil.NewReader(buf))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestECMAArrayRoundTrip checks that encoding and then decoding an ECMA
// array produces the original key/value pairs.
func TestECMAArrayRoundTrip(t *testing.T) {
	in := Map(
		Entry{Key: "duration", Value: Num(12.5)},
		Entry{Key: "canSeekToEnd", Value: Bool(true)},
		Entry{Key: "encoder", Value: Str("flvtool")},
	)

	w := ioutil.NewWriter()
	if err := EncodeMetaData(w, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := ioutil.NewReader(w.Bytes())
	name, err := Decode(r)
	if err != nil {
		t.Fatalf("unexpected error decoding name: %v", err)
	}
	if name.Kind != KindString || name.String != "onMetaData" {
		t.Fatalf("unexpected name value: %+v", name)
	}

	got, err := Decode(r)
	if err != nil {
		t.Fatalf("unexpected error decoding value: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("unexpected round-trip (-want +got):\n%s", diff)
	}
}

// TestECMAArrayTerminator checks that the fixed 3-byte terminator
// 0x00 0x00 0x09 is always emitted, regardless of the declared count.
func TestECMAArrayTerminator(t *testing.T) {
	w := ioutil.NewWriter()
	if err := EncodeMetaData(w, Map()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := w.Bytes()
	term := b[len(b)-3:]
	want := []byte{0x00, 0x00, 0x09}
	if !cmp.Equal(term, want) {
		t.Errorf("unexpected terminator: got %v, want %v", term, want)
	}
}

// TestEncodeUnsupportedKindSkipped checks that a value of an unsupported
// kind is silently omitted from the entry list rather than breaking the
// container's framing.
func TestEncodeUnsupportedKindSkipped(t *testing.T) {
	in := Map(Entry{Key: "x", Value: Value{Kind: KindUnsupported}})
	w := ioutil.NewWriter()
	if err := EncodeMetaData(w, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := ioutil.NewReader(w.Bytes())
	if _, err := Decode(r); err != nil {
		t.Fatalf("unexpected error decoding name: %v", err)
	}
	got, err := Decode(r)
	if err != nil {
		t.Fatalf("unexpected error decoding value: %v", err)
	}
	if diff := cmp.Diff(Map(), got); diff != "" {
		t.Errorf("unexpected value (-want +got):\n%s", diff)
	}
	if r.Len() != 0 {
		t.Errorf("got %d trailing bytes after the ecma array, want 0", r.Len())
	}
}
