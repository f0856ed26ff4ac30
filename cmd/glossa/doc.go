// Command glossa is the command-line interface for the recording
// preparation service: configuration management, contributor and recording
// catalog operations, and daemon control.
package main
