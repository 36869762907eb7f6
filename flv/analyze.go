/*
NAME
  analyze.go

DESCRIPTION
  analyze.go cross-references per-frame video timestamps against the
  declared framerate to flag timestamp discontinuities that likely
  indicate dropped frames, in the same spirit as
  container/mts/discontinuity.go's continuity-counter check but driven by
  an expected timing interval rather than a wrapping counter.

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
	"fmt"
	"math"

	"github.com/oceanflux/flvtool/amf"
)

// analyzeTimestamps runs the dropped-frame analysis over tags in place,
// setting Analysis on video tags whose gap to the previous video tag
// exceeds twice the framerate-implied expected interval. It is a no-op
// unless meta contains a positive "framerate" number.
func analyzeTimestamps(tags []*Tag, meta amf.Value) {
	fr, ok := meta.Get("framerate")
	if !ok || fr.Kind != amf.KindNumber || fr.Number <= 0 {
		return
	}

	expected := 1000 / fr.Number // Expected per-frame interval, ms.
	threshold := 2 * expected

	var prev *Tag
	for _, t := range tags {
		if t.Kind != KindVideo {
			continue
		}
		if prev == nil {
			prev = t
			continue
		}

		// Widen to int64 before subtracting so a timestamp decrease
		// (an edited or spliced stream) yields a negative gap instead
		// of wrapping through uint32 arithmetic.
		gap := int64(t.Timestamp) - int64(prev.Timestamp)
		if float64(gap) > threshold {
			dropped := int(math.Round(float64(gap)/expected)) - 1
			if dropped > 0 {
				t.Analysis = fmt.Sprintf("Timestamp jump of %dms. Possible %d dropped frames.", gap, dropped)
			}
		}

		prev = t
	}
}
