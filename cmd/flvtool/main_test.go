/*
NAME
  main_test.go

DESCRIPTION
  main_test.go provides testing for the rewrite subcommand's metadata
  input parsing: the -meta flag, the -metafile JSON path, and their
  combination.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TestParseMeta checks the comma-separated key=value flag form, including
// its float/bool/string type inference.
func TestParseMeta(t *testing.T) {
	got, err := parseMeta("duration=20,author=x,live=true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["duration"] != 20.0 {
		t.Errorf("got duration %v, want 20.0", got["duration"])
	}
	if got["author"] != "x" {
		t.Errorf("got author %v, want \"x\"", got["author"])
	}
	if got["live"] != true {
		t.Errorf("got live %v, want true", got["live"])
	}
}

// TestParseMetaEmpty checks that an empty spec yields an empty, non-nil
// map rather than an error.
func TestParseMetaEmpty(t *testing.T) {
	got, err := parseMeta("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}

// TestParseMetaInvalid checks that a malformed entry (no "=") fails.
func TestParseMetaInvalid(t *testing.T) {
	_, err := parseMeta("noequalssign")
	if err == nil {
		t.Fatal("expected an error for a malformed -meta entry")
	}
}

// TestLoadMetaFromFile checks the JSON-file input path required by the
// rewrite subcommand's -metafile flag.
func TestLoadMetaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	src := map[string]interface{}{"duration": 30.0, "author": "file-author"}
	b, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("unexpected error marshaling fixture: %v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	got, err := loadMeta("", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["duration"] != 30.0 {
		t.Errorf("got duration %v, want 30.0", got["duration"])
	}
	if got["author"] != "file-author" {
		t.Errorf("got author %v, want \"file-author\"", got["author"])
	}
}

// TestLoadMetaFlagOverridesFile checks that -meta entries overlay, rather
// than replace, a -metafile base map.
func TestLoadMetaFlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	src := map[string]interface{}{"duration": 30.0, "author": "file-author"}
	b, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("unexpected error marshaling fixture: %v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	got, err := loadMeta("author=flag-author", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["duration"] != 30.0 {
		t.Errorf("got duration %v, want 30.0 (from file, untouched by flag)", got["duration"])
	}
	if got["author"] != "flag-author" {
		t.Errorf("got author %v, want \"flag-author\" (flag should override file)", got["author"])
	}
}

// TestLoadMetaMissingFile checks that a nonexistent -metafile path fails
// rather than silently yielding an empty map.
func TestLoadMetaMissingFile(t *testing.T) {
	_, err := loadMeta("", filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err == nil {
		t.Fatal("expected an error for a missing -metafile path")
	}
}
