package swap

import "github.com/iov-one/pairswap/errors"

// x/swap reserves 60 ~ 69.
var (
	// ErrWrongCounterparty is returned when the participants supplied with
	// a message do not match the swap record.
	ErrWrongCounterparty = errors.Register(60, "wrong counterparty")

	// ErrPartialExecution marks a swap where only one acceptance leg was
	// applied.
	ErrPartialExecution = errors.Register(61, "partial execution inconsistency")
)
