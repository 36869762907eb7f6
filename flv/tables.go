/*
NAME
  tables.go

DESCRIPTION
  tables.go provides the static lookup tables mapping the small integer
  enums found in FLV audio/video tag headers and AAC AudioSpecificConfig
  fields to human-readable display strings.

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

import "fmt"

// Tag type byte values, as they appear at offset 0 of an FLV tag header.
const (
	TagTypeAudio  = 8
	TagTypeVideo  = 9
	TagTypeScript = 18
)

// audioFormats maps the sound format enum (bits 7..4 of an audio tag's
// first payload byte) to a display name.
var audioFormats = map[uint8]string{
	0:  "Linear PCM, platform endian",
	1:  "ADPCM",
	2:  "MP3",
	3:  "Linear PCM, little endian",
	4:  "Nellymoser 16kHz mono",
	5:  "Nellymoser 8kHz mono",
	6:  "Nellymoser",
	7:  "G.711 A-law logarithmic PCM",
	8:  "G.711 mu-law logarithmic PCM",
	9:  "reserved",
	10: "AAC",
	11: "Speex",
	14: "MP3 8-Khz",
	15: "Device-specific sound",
}

// audioRates maps the sample rate enum (bits 3..2) to a display string.
var audioRates = map[uint8]string{
	0: "5.5 kHz",
	1: "11 kHz",
	2: "22 kHz",
	3: "44 kHz",
}

// audioBits maps the sample size enum (bit 1) to a display string.
var audioBits = map[uint8]string{
	0: "8-bit samples",
	1: "16-bit samples",
}

// audioChannels maps the channel enum (bit 0) to a display string.
var audioChannels = map[uint8]string{
	0: "Mono",
	1: "Stereo",
}

// videoFrameTypes maps the frame type enum (bits 7..4 of a video tag's
// first payload byte) to a display string.
var videoFrameTypes = map[uint8]string{
	1: "Key frame (for AVC, a seekable frame)",
	2: "Inter frame (for AVC, a non-seekable frame)",
	3: "Disposable inter frame (H.263 only)",
	4: "Generated key frame (reserved for server use only)",
	5: "Video info/command frame",
}

// videoCodecs maps the codec id enum (bits 3..0) to a display string.
var videoCodecs = map[uint8]string{
	2: "Sorenson H.263",
	3: "Screen video",
	4: "On2 VP6",
	5: "On2 VP6 with alpha channel",
	6: "Screen video version 2",
	7: "AVC (H.264)",
}

// avcPacketTypes indexes the AVC packet type byte directly (0, 1, 2).
var avcPacketTypes = [...]string{
	"AVC sequence header",
	"AVC NALU",
	"AVC end of sequence",
}

// aacAudioObjectTypes maps the 5-bit AudioSpecificConfig object type to a
// display string.
var aacAudioObjectTypes = map[uint8]string{
	1: "AAC Main",
	2: "AAC LC (Low Complexity)",
	3: "AAC SSR (Scalable Sample Rate)",
	4: "AAC LTP (Long Term Prediction)",
}

// aacSamplingFrequencies maps the 4-bit AudioSpecificConfig sampling
// frequency index to a display string.
var aacSamplingFrequencies = map[uint8]string{
	0:  "96000 Hz",
	1:  "88200 Hz",
	2:  "64000 Hz",
	3:  "48000 Hz",
	4:  "44100 Hz",
	5:  "32000 Hz",
	6:  "24000 Hz",
	7:  "22050 Hz",
	8:  "16000 Hz",
	9:  "12000 Hz",
	10: "11025 Hz",
	11: "8000 Hz",
	12: "7350 Hz",
}

// aacChannelConfigurations maps the 4-bit AudioSpecificConfig channel
// configuration to a display string.
var aacChannelConfigurations = map[uint8]string{
	1: "1 channel: Center front",
	2: "2 channels: Left, Right",
	3: "3 channels: Center, Left, Right",
	4: "4 channels: Center, Left, Right, Back",
	5: "5 channels: Center, Left, Right, Back Left, Back Right",
	6: "6 channels (5.1): Center, L, R, BL, BR, LFE",
	7: "8 channels (7.1): C, L, R, BL, BR, SL, SR, LFE",
}

// lookup returns table[key] if present, else "Unknown".
func lookup(table map[uint8]string, key uint8) string {
	if s, ok := table[key]; ok {
		return s
	}
	return "Unknown"
}

// lookupNumbered returns table[key] if present, else "Unknown (<key>)".
func lookupNumbered(table map[uint8]string, key uint8) string {
	if s, ok := table[key]; ok {
		return s
	}
	return fmt.Sprintf("Unknown (%d)", key)
}
