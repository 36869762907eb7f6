/*
NAME
  flvtool/main.go

DESCRIPTION
  flvtool is a headless batch front end for the flv package's parse,
  repair, and metadata-rewrite operations, standing in for the desktop GUI
  shell the core engine is designed to be embedded in. It provides three
  subcommands: inspect, repair, and rewrite.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command flvtool inspects, repairs, and rewrites the metadata of FLV
// files from the command line.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/oceanflux/flvtool/amf"
	"github.com/oceanflux/flvtool/flv"
	"github.com/oceanflux/flvtool/internal/flvlog"
)

// Logging related constants, mirroring the source tool's cmd/ programs'
// log-rotation configuration.
const (
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "inspect":
		runInspect(args)
	case "repair":
		runRepair(args)
	case "rewrite":
		runRewrite(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: flvtool <inspect|repair|rewrite> [flags]")
}

// newLogger returns a Logger writing JSON lines to logPath (rotated via
// lumberjack) if non-empty, else to stderr.
func newLogger(logPath string, verbose bool) flvlog.Logger {
	level := flvlog.Info
	if verbose {
		level = flvlog.Debug
	}
	if logPath == "" {
		return flvlog.NewStderrLogger(level)
	}
	return flvlog.NewJSONLogger(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}, level)
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	in := fs.String("in", "", "path to the FLV file to inspect")
	logPath := fs.String("log", "", "path to a log file (rotated); defaults to stderr")
	verbose := fs.Bool("v", false, "enable debug-level logging")
	fs.Parse(args)

	l := newLogger(*logPath, *verbose)
	if *in == "" {
		l.Fatal("inspect requires -in")
	}

	buf, err := os.ReadFile(*in)
	if err != nil {
		l.Fatal("could not read input file", "path", *in, "error", err.Error())
	}

	f, stats, err := flv.ParseVerbose(buf, *in)
	if err != nil {
		l.Fatal("could not parse FLV file", "path", *in, "error", err.Error())
	}

	fmt.Printf("signature=%s version=%d hasAudio=%v hasVideo=%v headerSize=%d\n",
		f.Header.Signature, f.Header.Version, f.Header.HasAudio, f.Header.HasVideo, f.Header.HeaderSize)
	fmt.Printf("tags: audio=%d video=%d script=%d unknown=%d truncated=%v\n",
		stats.Audio, stats.Video, stats.Script, stats.Unknown, stats.Truncated)

	if f.HasMetadata() {
		fmt.Println("metadata:")
		for _, e := range f.Metadata.Array {
			fmt.Printf("  %s = %s\n", e.Key, formatValue(e.Value))
		}
	}

	for _, t := range f.Tags {
		if t.Analysis != "" {
			fmt.Printf("  offset=%d %s\n", t.Offset, t.Analysis)
		}
	}
}

func runRepair(args []string) {
	fs := flag.NewFlagSet("repair", flag.ExitOnError)
	in := fs.String("in", "", "path to the FLV file to repair")
	out := fs.String("out", "", "path to write the repaired FLV file")
	logPath := fs.String("log", "", "path to a log file (rotated); defaults to stderr")
	verbose := fs.Bool("v", false, "enable debug-level logging")
	fs.Parse(args)

	l := newLogger(*logPath, *verbose)
	if *in == "" || *out == "" {
		l.Fatal("repair requires -in and -out")
	}

	buf, err := os.ReadFile(*in)
	if err != nil {
		l.Fatal("could not read input file", "path", *in, "error", err.Error())
	}

	repaired, err := flv.Repair(buf)
	if err != nil {
		l.Fatal("could not repair FLV file", "path", *in, "error", err.Error())
	}

	if err := os.WriteFile(*out, repaired, 0o644); err != nil {
		l.Fatal("could not write output file", "path", *out, "error", err.Error())
	}

	l.Info("repaired FLV file", "in", *in, "out", *out, "bytesWritten", len(repaired))
}

func runRewrite(args []string) {
	fs := flag.NewFlagSet("rewrite", flag.ExitOnError)
	in := fs.String("in", "", "path to the FLV file to rewrite")
	out := fs.String("out", "", "path to write the rewritten FLV file")
	meta := fs.String("meta", "", "comma-separated key=value pairs to replace onMetaData with")
	metaFile := fs.String("metafile", "", "path to a JSON file of metadata key/value pairs to replace onMetaData with")
	logPath := fs.String("log", "", "path to a log file (rotated); defaults to stderr")
	verbose := fs.Bool("v", false, "enable debug-level logging")
	fs.Parse(args)

	l := newLogger(*logPath, *verbose)
	if *in == "" || *out == "" {
		l.Fatal("rewrite requires -in and -out")
	}
	if *meta == "" && *metaFile == "" {
		l.Fatal("rewrite requires -meta or -metafile")
	}

	buf, err := os.ReadFile(*in)
	if err != nil {
		l.Fatal("could not read input file", "path", *in, "error", err.Error())
	}

	m, err := loadMeta(*meta, *metaFile)
	if err != nil {
		l.Fatal("could not load replacement metadata", "error", err.Error())
	}

	rewritten, err := flv.RewriteMetadata(buf, m)
	if err != nil {
		l.Fatal("could not rewrite FLV metadata", "path", *in, "error", err.Error())
	}

	if err := os.WriteFile(*out, rewritten, 0o644); err != nil {
		l.Fatal("could not write output file", "path", *out, "error", err.Error())
	}

	l.Info("rewrote FLV metadata", "in", *in, "out", *out, "bytesWritten", len(rewritten))
}

// loadMeta builds the replacement metadata map for the rewrite
// subcommand. If metaFile is non-empty, it is read and unmarshaled as a
// JSON object and used as the base map; spec (the -meta flag) is then
// parsed and overlaid on top, key by key, so an empty -metafile plus
// -meta, or the reverse, both work, and both together let -meta override
// individual keys from the file.
func loadMeta(spec, metaFile string) (map[string]interface{}, error) {
	m := make(map[string]interface{})

	if metaFile != "" {
		b, err := os.ReadFile(metaFile)
		if err != nil {
			return nil, fmt.Errorf("could not read -metafile %q: %w", metaFile, err)
		}
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("could not parse -metafile %q as a JSON object: %w", metaFile, err)
		}
	}

	overlay, err := parseMeta(spec)
	if err != nil {
		return nil, fmt.Errorf("could not parse -meta flag: %w", err)
	}
	for k, v := range overlay {
		m[k] = v
	}

	return m, nil
}

// parseMeta parses a comma-separated key=value list into a metadata map.
// Values that parse as floats or as "true"/"false" are stored as such;
// everything else is kept as a string. An empty spec yields an empty map.
func parseMeta(spec string) (map[string]interface{}, error) {
	m := make(map[string]interface{})
	if spec == "" {
		return m, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid -meta entry %q, want key=value", pair)
		}
		key, raw := kv[0], kv[1]
		switch raw {
		case "true":
			m[key] = true
		case "false":
			m[key] = false
		default:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				m[key] = f
			} else {
				m[key] = raw
			}
		}
	}
	return m, nil
}

// formatValue renders an amf.Value for the inspect subcommand's
// human-readable metadata listing.
func formatValue(v amf.Value) string {
	switch v.Kind {
	case amf.KindNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case amf.KindBoolean:
		return strconv.FormatBool(v.Bool)
	case amf.KindString:
		return v.String
	case amf.KindECMAArray:
		b, err := json.Marshal(ecmaArrayToMap(v))
		if err != nil {
			return "<unprintable>"
		}
		return string(b)
	default:
		return v.String
	}
}

func ecmaArrayToMap(v amf.Value) map[string]interface{} {
	m := make(map[string]interface{}, len(v.Array))
	for _, e := range v.Array {
		switch e.Value.Kind {
		case amf.KindNumber:
			m[e.Key] = e.Value.Number
		case amf.KindBoolean:
			m[e.Key] = e.Value.Bool
		case amf.KindString:
			m[e.Key] = e.Value.String
		case amf.KindECMAArray:
			m[e.Key] = ecmaArrayToMap(e.Value)
		default:
			m[e.Key] = e.Value.String
		}
	}
	return m
}
