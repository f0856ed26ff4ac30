package pipeline

import "math"

// stitchSegments maps each segment back to sample indices, slices the
// original buffer, and concatenates the slices in the given order. An empty
// segment list yields an empty buffer; callers must not treat that as
// failure.
func stitchSegments(buf Buffer, segments []Segment) Buffer {
	out := Buffer{Rate: buf.Rate}
	if len(segments) == 0 {
		return out
	}

	total := 0
	bounds := make([][2]int, 0, len(segments))
	for _, seg := range segments {
		start := int(math.Round(seg.Start * float64(buf.Rate)))
		end := int(math.Round(seg.End * float64(buf.Rate)))
		if start < 0 {
			start = 0
		}
		if end > len(buf.Samples) {
			end = len(buf.Samples)
		}
		if start >= end {
			continue
		}
		bounds = append(bounds, [2]int{start, end})
		total += end - start
	}

	out.Samples = make([]float64, 0, total)
	for _, b := range bounds {
		out.Samples = append(out.Samples, buf.Samples[b[0]:b[1]]...)
	}
	return out
}
