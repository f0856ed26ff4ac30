// Package ingest orchestrates the intake of one uploaded field recording:
// stage the upload, archive the raw bytes, run the audio-preparation
// pipeline, store the cleaned artifacts, and record the outcome in the
// catalog.
package ingest
