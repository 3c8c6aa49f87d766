// Package io provides the output channels for the svm print_debug
// instruction. A channel accepts whole machine words; Tape renders them
// as decimal text and Temporary keeps them in a bounded buffer.
package io

// Channel defines the interface for all output channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single word to the channel.
	Send(value int64) error
}
