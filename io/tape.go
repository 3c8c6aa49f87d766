package io

import (
	"errors"
	"io"
	"strconv"
)

// Tape writes each word sent to it as a decimal integer followed by a
// newline.
type Tape struct {
	Output io.Writer

	Count int // Words written since the last rewind.

	buf []byte
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape; only the counter is reset.
func (tc *Tape) Rewind() {
	tc.Count = 0
}

// Send writes a word to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		err = ErrChannelWrite
		return
	}

	tc.buf = strconv.AppendInt(tc.buf[:0], value, 10)
	tc.buf = append(tc.buf, '\n')

	_, err = tc.Output.Write(tc.buf)
	if err != nil {
		err = errors.Join(ErrChannelWrite, err)
		return
	}

	tc.Count++

	return
}
