package pipeline

import "fmt"

// DecodeError is the fatal failure class for inputs that cannot be turned
// into a usable PCM buffer: unsupported or corrupt files, a missing ffmpeg
// binary, or a non-zero decode exit. Detail carries captured diagnostic
// output when the external tool produced any.
type DecodeError struct {
	Path   string
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s", e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError is the fatal failure class for output that cannot be written,
// such as an unwritable destination directory.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("encode %s", e.Path)
}

func (e *EncodeError) Unwrap() error { return e.Err }
