package io

import (
	"errors"

	"github.com/Santi-I-Guess/final-project/translate"
)

var f = translate.From

var (
	// Image errors
	ErrRomOddSize = errors.New(f("image is not a whole number of words"))
	ErrRomEmpty   = errors.New(f("image is empty"))
)

// ErrNotNumber is console input that is not a decimal integer.
type ErrNotNumber string

func (err ErrNotNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
