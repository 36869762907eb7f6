/*
NAME
  types.go

DESCRIPTION
  types.go defines the data model produced by Parse/ParseVerbose: the
  FLVFile aggregate, its header, its ordered tag sequence, and the
  per-tag-type decoded detail records.

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

import "github.com/oceanflux/flvtool/amf"

// Header holds the 9 bytes of an FLV file header.
type Header struct {
	Signature  string // Always "FLV" on a successfully parsed file.
	Version    uint8
	HasAudio   bool
	HasVideo   bool
	HeaderSize uint32
}

// File is the top-level aggregate returned by Parse. It is immutable
// after construction except for the per-tag Analysis field, which the
// analyzer pass sets exactly once on video tags.
type File struct {
	Source   string // Caller-supplied opaque identifier, for diagnostics.
	Header   Header
	Metadata amf.Value // KindECMAArray, or the zero Value if no onMetaData tag was found.
	Tags     []*Tag
}

// HasMetadata reports whether an onMetaData script tag was found during
// parsing.
func (f *File) HasMetadata() bool {
	return f.Metadata.Kind == amf.KindECMAArray
}

// TagKind identifies which of Tag's detail fields is populated.
type TagKind uint8

const (
	KindAudio TagKind = iota
	KindVideo
	KindScript
	KindUnknown
)

// Tag is a single parsed FLV tag: its framing fields plus decoded,
// human-meaningful detail for its payload.
type Tag struct {
	Offset    int // Byte offset in the source buffer where this tag's header begins.
	Type      uint8
	DataSize  uint32
	Timestamp uint32 // Milliseconds, assembled from the 3+1 byte timestamp fields.
	StreamID  uint32

	Kind   TagKind
	Audio  AudioDetails
	Video  VideoDetails
	Script ScriptDetails

	// Analysis holds a human-readable note set by the timestamp-gap
	// analyzer. Only ever populated on video tags.
	Analysis string
}

// AudioDetails is the decoded, human-meaningful content of an audio tag's
// payload.
type AudioDetails struct {
	Format      string
	SampleRate  string
	SampleSize  string
	Channels    string
	AACPacket   string // Only set for AAC (format id 10) tags.
	AACObjectType string // Only set for AAC sequence header tags.
}

// VideoDetails is the decoded, human-meaningful content of a video tag's
// payload.
type VideoDetails struct {
	FrameType       string
	Codec           string
	AVCPacket       string // Only set for AVC (codec id 7) tags.
	HasComposition  bool
	CompositionTime int32 // Sign-extended 24-bit composition time offset, AVC only.
}

// ScriptDetails is the decoded content of a script-data tag: an AMF0
// name/value pair. On decode failure, Name is "Parse Error" and Value is
// a diagnostic string.
type ScriptDetails struct {
	Name  string
	Value amf.Value
}

// ParseStats summarizes a ParseVerbose run: tag counts by kind, total
// bytes consumed by the walk, and whether the walk stopped due to a
// truncated trailing tag rather than exhausting the buffer cleanly.
type ParseStats struct {
	Audio     int
	Video     int
	Script    int
	Unknown   int
	BytesRead int
	Truncated bool
}

// Total returns the total number of tags counted.
func (s ParseStats) Total() int {
	return s.Audio + s.Video + s.Script + s.Unknown
}
