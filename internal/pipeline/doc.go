// Package pipeline turns raw field recordings into analysis-ready mono
// waveforms.
//
// The Processor runs a fixed sequence of stages over one input file: decode
// to mono PCM, energy-based voice activity detection, speech segment
// stitching, noise profile estimation, spectral-gate denoising, peak
// normalization, resampling, and 16-bit WAV encoding with a sidecar
// provenance record. Decoding and encoding are the only stages allowed to
// fail the run; every enhancement stage degrades to a pass-through on fault
// so a usable clean waveform is always produced.
//
// Stages are pure functions over explicit buffers and parameters. Keep them
// that way: the test suite drives each one directly with synthetic signals.
package pipeline
