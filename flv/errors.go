/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel errors surfaced by top-level flv
  operations (Parse, Repair, RewriteMetadata).

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

import "errors"

// Sentinel errors returned by Parse, Repair, and RewriteMetadata. Callers
// should use errors.Is against these rather than matching on message text,
// since every return is wrapped with call-site context via fmt.Errorf's
// %w verb.
var (
	// ErrInvalidSignature is returned when the first three bytes of the
	// input are not 'F', 'L', 'V'.
	ErrInvalidSignature = errors.New("flv: invalid signature")

	// ErrDataTooShort is returned when a required, bounds-checked field
	// (the file header, or the first 13 bytes for repair) cannot be read
	// because the buffer ends first.
	ErrDataTooShort = errors.New("flv: data too short")

	// ErrMetadataNotFound is returned by RewriteMetadata when no
	// onMetaData script tag is found before the tag stream is exhausted.
	ErrMetadataNotFound = errors.New("flv: onMetaData tag not found")
)
