package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored. If no
// error was provided, nil is returned. Appending to an already merged error
// flattens the result.
//
// Use it to collect all validation failures of a message at once.
func Append(errs ...error) error {
	var collected []error
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(*multiErr); ok {
			collected = append(collected, m.errs...)
			continue
		}
		collected = append(collected, e)
	}
	if len(collected) == 0 {
		return nil
	}
	return &multiErr{errs: collected}
}

// multiErr is a group of errors. Its ABCI code is the code of the first
// error, so a client always receives the first failure.
type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	if len(m.errs) == 1 {
		return m.errs[0].Error()
	}
	msgs := make([]string, len(m.errs))
	for i, e := range m.errs {
		msgs[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m.errs), strings.Join(msgs, "\n\t"))
}

// Unpack returns all grouped errors.
func (m *multiErr) Unpack() []error {
	return m.errs
}

func (m *multiErr) ABCICode() uint32 {
	return abciCode(m.errs[0])
}

var (
	_ coder    = (*multiErr)(nil)
	_ unpacker = (*multiErr)(nil)
)
