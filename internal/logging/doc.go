// Package logging builds the slog loggers used across Glossa.
//
// It provides a human-oriented console handler for interactive use, a JSON
// handler for machine consumption, and small attr helpers so call sites stay
// terse. Component loggers carry a "component" attribute that the console
// handler promotes into the message prefix.
package logging
