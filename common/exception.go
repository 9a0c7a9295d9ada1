package common

import (
	"errors"
	"runtime"
)

// CurFuncName returns the name of the function that called it.
// It is used as the prefix of log lines.
func CurFuncName() string {
	pc := make([]uintptr, 1)
	runtime.Callers(2, pc)
	f := runtime.FuncForPC(pc[0])
	return f.Name()
}

// ErrorKind classifies every failure a fetch can end with.
// Concrete errors wrap a kind, so errors.Is(err, Truncated) works.
type ErrorKind int

const (
	UnknownError ErrorKind = iota
	InvalidKey
	SendFailed
	ReceiveTimeout
	ReceiveTooLarge
	ReceiveFailed
	Truncated
	CorrelationMismatch
	BadMagic
	BadOpcode
	Canceled
)

var ErrorKind2Str = []string{
	"unknown error",
	"invalid key",
	"send failed",
	"receive timeout",
	"receive too large",
	"receive failed",
	"truncated",
	"correlation mismatch",
	"bad magic",
	"bad opcode",
	"canceled",
}

func (k ErrorKind) Error() string {
	if k < 0 || int(k) >= len(ErrorKind2Str) {
		return ErrorKind2Str[UnknownError]
	}
	return ErrorKind2Str[k]
}

// KindOf returns the kind wrapped by err, or UnknownError.
func KindOf(err error) ErrorKind {
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return UnknownError
}
