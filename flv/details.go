/*
NAME
  details.go

DESCRIPTION
  details.go derives human-meaningful fields from the first few bytes of
  an audio, video, or script tag's payload. These are the decode-direction
  counterparts of the bit layouts the source tool's VideoTag.Bytes and
  AudioTag.Bytes encode: FrameType<<4|Codec for video, and
  SoundFormat<<4|SoundRate<<2|SoundSize<<1|SoundType for audio.

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
	"strconv"

	"github.com/oceanflux/flvtool/amf"
	"github.com/oceanflux/flvtool/internal/ioutil"
	"github.com/oceanflux/flvtool/internal/ioutil/bits"
)

const (
	aacFormat = 10
	avcCodec  = 7
)

// decodeAudioDetails derives AudioDetails from an audio tag's payload,
// consulting meta (the file's onMetaData map, possibly the zero Value) for
// fallback sample-rate/channel values when the FLV flag byte alone isn't
// precise enough.
func decodeAudioDetails(data []byte, meta amf.Value) AudioDetails {
	if len(data) == 0 {
		return AudioDetails{Format: "Empty"}
	}

	b0 := data[0]
	formatID := b0 >> 4
	rateID := (b0 >> 2) & 0x3
	sizeID := (b0 >> 1) & 0x1
	chanID := b0 & 0x1

	d := AudioDetails{
		Format:     lookupNumbered(audioFormats, formatID),
		SampleRate: audioSampleRate(rateID, meta),
		SampleSize: lookup(audioBits, sizeID),
		Channels:   audioChannelString(chanID, meta),
	}

	if formatID != aacFormat || len(data) < 2 {
		return d
	}

	packetType := data[1]
	if packetType == 0 {
		d.AACPacket = "AAC sequence header"
	} else {
		d.AACPacket = "AAC raw"
	}

	if packetType == 0 && len(data) >= 4 {
		decodeAACSequenceHeader(data[2:], &d)
	}

	return d
}

// audioSampleRate implements the audio sample-rate fallback chain: global
// metadata "audiosamplerate" takes precedence over the FLV flag-byte enum.
// The AAC-derived value (set later by decodeAACSequenceHeader) takes
// precedence over both.
func audioSampleRate(rateID uint8, meta amf.Value) string {
	if v, ok := meta.Get("audiosamplerate"); ok && v.Kind == amf.KindNumber {
		return fmt.Sprintf("%d Hz", int(v.Number))
	}
	return lookup(audioRates, rateID)
}

// audioChannelString implements the channel-count fallback chain: global
// metadata "stereo" takes precedence over the FLV flag-byte enum.
func audioChannelString(chanID uint8, meta amf.Value) string {
	if v, ok := meta.Get("stereo"); ok && v.Kind == amf.KindBoolean {
		if v.Bool {
			return "Stereo"
		}
		return "Mono"
	}
	return lookup(audioChannels, chanID)
}

// decodeAACSequenceHeader extracts AudioSpecificConfig fields from an AAC
// sequence header's payload (following the format/packet-type bytes), and
// overrides d's sample-rate and channel strings with the more precise AAC
// values, per the metadata fallback chain's highest precedence tier.
func decodeAACSequenceHeader(data []byte, d *AudioDetails) {
	br := bits.NewReader(data)

	objType, err := br.Read(5)
	if err != nil {
		return
	}
	freqIdx, err := br.Read(4)
	if err != nil {
		return
	}
	chanCfg, err := br.Read(4)
	if err != nil {
		return
	}

	d.AACObjectType = lookup(aacAudioObjectTypes, uint8(objType))
	d.SampleRate = lookup(aacSamplingFrequencies, uint8(freqIdx))
	d.Channels = lookup(aacChannelConfigurations, uint8(chanCfg))
}

// decodeVideoDetails derives VideoDetails from a video tag's payload.
func decodeVideoDetails(data []byte) VideoDetails {
	if len(data) == 0 {
		return VideoDetails{FrameType: "Empty"}
	}

	b0 := data[0]
	frameType := b0 >> 4
	codecID := b0 & 0xF

	d := VideoDetails{
		FrameType: lookupNumbered(videoFrameTypes, frameType),
		Codec:     lookupNumbered(videoCodecs, codecID),
	}

	if codecID != avcCodec || len(data) < 5 {
		return d
	}

	packetType := data[1]
	if int(packetType) < len(avcPacketTypes) {
		d.AVCPacket = avcPacketTypes[packetType]
	} else {
		d.AVCPacket = fmt.Sprintf("Unknown (%d)", packetType)
	}

	ct := uint32(data[2])<<16 | uint32(data[3])<<8 | uint32(data[4])
	if ct&0x800000 != 0 {
		ct |= 0xFF000000
	}
	d.HasComposition = true
	d.CompositionTime = int32(ct)

	return d
}

// decodeScriptDetails invokes the AMF0 decoder twice against data: the
// first value is coerced to a name string, the second is retained as-is.
// Any decode failure collapses the result to the "Parse Error" sentinel.
func decodeScriptDetails(data []byte) ScriptDetails {
	r := ioutil.NewReader(data)

	name, err := amf.Decode(r)
	if err != nil {
		return ScriptDetails{Name: "Parse Error", Value: amf.Str(err.Error())}
	}
	nameStr := coerceToString(name)

	val, err := amf.Decode(r)
	if err != nil {
		return ScriptDetails{Name: "Parse Error", Value: amf.Str(err.Error())}
	}

	return ScriptDetails{Name: nameStr, Value: val}
}

// coerceToString renders any AMF0 value as a string, for the script tag's
// name field, which is conventionally a string marker but isn't
// guaranteed to be one on malformed input.
func coerceToString(v amf.Value) string {
	switch v.Kind {
	case amf.KindString:
		return v.String
	case amf.KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case amf.KindBoolean:
		return strconv.FormatBool(v.Bool)
	case amf.KindECMAArray:
		return "[object]"
	default:
		return "[unsupported]"
	}
}
