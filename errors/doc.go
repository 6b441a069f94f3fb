/*
Package errors implements the error handling used by all swap packages.

Reuse errors declared in this package whenever possible. An extension
declares its own root error with Register(code, description) only when the
failure is specific to it, for example a counterparty mismatch of a swap.
Code stands for ABCI error code, which allows to distinguish types of errors
on the client side and act accordingly.

Create errors with ErrXyz.New("...") or errors.Wrap(err, "...") at the point
of failure so a stack trace is attached. Only the innermost wrap records the
stack trace.

	%s is just the error message
	%+v is the full stack trace
*/
package errors
