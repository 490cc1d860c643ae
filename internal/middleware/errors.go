package middleware

import "errors"

var ErrDecoderPanic = errors.New("паника при распаковке архива")
