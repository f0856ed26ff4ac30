package pipeline

// spectralGateFunc lets tests force the gating computation to fail and
// verify the denoise fallback path end to end.
var spectralGateFunc = gateSpectrum

// encodeFramesFunc lets tests force the PCM write to fail and verify that
// no partial output file survives.
var encodeFramesFunc = encodeFrames
