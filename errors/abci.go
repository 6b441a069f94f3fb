package errors

import (
	"errors"
	"fmt"
	"reflect"
)

// SuccessABCICode is the code of a response that carries no error.
const SuccessABCICode = 0

// Errors without a registered code are reported under a single code and,
// outside of debug mode, without their message. They may carry file system
// paths or other node local details a client has no business seeing.
const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for given error.
//
// A registered error, or an error wrapping one, is reported with its code and
// full message. Anything else is an internal error with a generic log. In
// debug mode the full message, including the stack trace when present, is
// always returned.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the cause chain that
// declares one.
func abciCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	if err == nil {
		return SuccessABCICode
	}
	return internalABCICode
}

// errIsNil also recognizes a nil pointer stored in a non nil interface.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	val := reflect.ValueOf(err)
	return val.Kind() == reflect.Ptr && val.IsNil()
}

// Redact returns an error safe to expose to a client. Recovered panics and
// errors without a registered code are replaced by a generic internal error.
// In debug mode err is returned unchanged.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
