package io

import (
	"errors"

	"github.com/ezrec/svm/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull  = errors.New(f("channel full"))
	ErrChannelWrite = errors.New(f("channel write"))
)
