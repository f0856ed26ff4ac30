package pipeline

// normalizePeak rescales amplitude so the loudest sample reaches targetPeak.
// A silent or empty buffer passes through untouched; dividing by a zero peak
// is explicitly forbidden.
func normalizePeak(buf Buffer, targetPeak float64) Buffer {
	peak := buf.Peak()
	if peak == 0 || buf.Empty() {
		return buf
	}
	scaled := make([]float64, len(buf.Samples))
	factor := targetPeak / peak
	for i, s := range buf.Samples {
		scaled[i] = s * factor
	}
	return Buffer{Samples: scaled, Rate: buf.Rate}
}
