/*
NAME
  parse.go

DESCRIPTION
  parse.go implements FLV header parsing and the two-pass tag walk: pass
  one locates the onMetaData script tag so pass two's audio detail
  decoding can consult its "audiosamplerate"/"stereo" fields; pass two
  builds the full ordered Tag sequence.

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

	"github.com/oceanflux/flvtool/amf"
	"github.com/oceanflux/flvtool/internal/ioutil"
)

const (
	headerLen       = 9
	prevTagSizeLen  = 4
	tagHeaderLen    = 11
	onMetaDataName  = "onMetaData"
)

// Parse decodes buf as an FLV file, returning the header, the onMetaData
// metadata map (if any), and the full ordered tag sequence with all
// detail and analysis fields populated. id is an opaque caller-supplied
// identifier retained on the result for diagnostics; it is not
// interpreted.
func Parse(buf []byte, id string) (*File, error) {
	f, _, err := ParseVerbose(buf, id)
	return f, err
}

// ParseVerbose is Parse plus a ParseStats summary of the walk (tag counts
// by kind, bytes consumed, and whether the walk stopped due to
// truncation), for host-facing reporting such as the flvtool CLI's
// inspect subcommand.
func ParseVerbose(buf []byte, id string) (*File, ParseStats, error) {
	header, err := parseHeader(buf)
	if err != nil {
		return nil, ParseStats{}, err
	}

	start := int(header.HeaderSize) + prevTagSizeLen

	meta := locateMetadata(buf, start)

	tags, stats := walkTags(buf, start, meta)

	f := &File{
		Source:   id,
		Header:   header,
		Metadata: meta,
		Tags:     tags,
	}
	return f, stats, nil
}

// parseHeader reads and validates the 9-byte FLV file header.
func parseHeader(buf []byte) (Header, error) {
	// Check the signature bytes that are present before the length, so a
	// bad signature is reported as such however short the buffer is.
	n := len(buf)
	if n > 3 {
		n = 3
	}
	if string(buf[:n]) != "FLV"[:n] {
		return Header{}, fmt.Errorf("%w: got %q", ErrInvalidSignature, buf[:n])
	}
	if len(buf) < headerLen {
		return Header{}, fmt.Errorf("%w: header", ErrDataTooShort)
	}

	r := ioutil.NewReader(buf)
	sig, err := r.ReadString(3)
	if err != nil || sig != "FLV" {
		return Header{}, fmt.Errorf("%w: got %q", ErrInvalidSignature, sig)
	}

	version, err := r.ReadUint8()
	if err != nil {
		return Header{}, fmt.Errorf("%w: version", ErrDataTooShort)
	}

	flags, err := r.ReadUint8()
	if err != nil {
		return Header{}, fmt.Errorf("%w: flags", ErrDataTooShort)
	}

	size, err := r.ReadUint32()
	if err != nil {
		return Header{}, fmt.Errorf("%w: header size", ErrDataTooShort)
	}

	return Header{
		Signature:  sig,
		Version:    version,
		HasAudio:   flags&0x04 != 0,
		HasVideo:   flags&0x01 != 0,
		HeaderSize: size,
	}, nil
}

// locateMetadata runs pass 1 of the tag walk: it scans tags from start
// looking for the first onMetaData script tag and returns its decoded
// value, or the zero Value if none is found before the walk is stopped by
// a truncated tag or end of buffer.
func locateMetadata(buf []byte, start int) amf.Value {
	r := ioutil.NewReader(buf)
	r.Seek(start)

	for {
		header, err := r.Peek(tagHeaderLen)
		if err != nil {
			return amf.Value{}
		}
		tagType := header[0]
		dataSize := uint32(header[1])<<16 | uint32(header[2])<<8 | uint32(header[3])

		if err := r.Advance(tagHeaderLen); err != nil {
			return amf.Value{}
		}
		if r.Len() < int(dataSize)+prevTagSizeLen {
			return amf.Value{}
		}

		if tagType == TagTypeScript {
			data, err := r.ReadBytes(int(dataSize))
			if err != nil {
				return amf.Value{}
			}
			if err := r.Advance(prevTagSizeLen); err != nil {
				return amf.Value{}
			}
			sd := decodeScriptDetails(data)
			if sd.Name == onMetaDataName && sd.Value.Kind == amf.KindECMAArray {
				return sd.Value
			}
			continue
		}

		if err := r.Advance(int(dataSize) + prevTagSizeLen); err != nil {
			return amf.Value{}
		}
	}
}

// walkTags runs pass 2 of the tag walk: it builds the full ordered Tag
// sequence from start, decoding every tag's details (using meta for audio
// fallback), and accumulating ParseStats. The walk stops silently — not
// with an error — on the first tag that isn't fully present, per the
// truncation policy documented for this package.
func walkTags(buf []byte, start int, meta amf.Value) ([]*Tag, ParseStats) {
	var tags []*Tag
	var stats ParseStats

	r := ioutil.NewReader(buf)
	r.Seek(start)

	for {
		if r.Len() < tagHeaderLen+prevTagSizeLen {
			stats.Truncated = !r.Done()
			break
		}

		offset := r.Offset()
		header, err := r.ReadBytes(tagHeaderLen)
		if err != nil {
			stats.Truncated = true
			break
		}

		tagType := header[0]
		dataSize := uint32(header[1])<<16 | uint32(header[2])<<8 | uint32(header[3])
		timestamp := uint32(header[4])<<16 | uint32(header[5])<<8 | uint32(header[6]) | uint32(header[7])<<24
		streamID := uint32(header[8])<<16 | uint32(header[9])<<8 | uint32(header[10])

		if r.Len() < int(dataSize)+prevTagSizeLen {
			stats.Truncated = true
			break
		}

		data, err := r.ReadBytes(int(dataSize))
		if err != nil {
			stats.Truncated = true
			break
		}
		if err := r.Advance(prevTagSizeLen); err != nil {
			stats.Truncated = true
			break
		}

		tag := &Tag{
			Offset:    offset,
			Type:      tagType,
			DataSize:  dataSize,
			Timestamp: timestamp,
			StreamID:  streamID,
		}

		switch tagType {
		case TagTypeAudio:
			tag.Kind = KindAudio
			tag.Audio = decodeAudioDetails(data, meta)
			stats.Audio++
		case TagTypeVideo:
			tag.Kind = KindVideo
			tag.Video = decodeVideoDetails(data)
			stats.Video++
		case TagTypeScript:
			tag.Kind = KindScript
			tag.Script = decodeScriptDetails(data)
			stats.Script++
		default:
			tag.Kind = KindUnknown
			stats.Unknown++
		}

		tags = append(tags, tag)
	}

	stats.BytesRead = r.Offset()
	analyzeTimestamps(tags, meta)
	return tags, stats
}
