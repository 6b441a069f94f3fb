/*
Package assert holds the few assertions the extension tests share. Every
assertion stops the test on failure. Error assertions understand the
registered error kinds of the errors package, including wrapped errors.
*/
package assert

import (
	"github.com/stretchr/testify/require"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	require.TestingT
	Helper()
}

// Nil fails the test unless value is nil. Typed nil pointers count as nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	// %+v prints the stack trace carried by wrapped errors.
	require.Nil(t, value, "want nil, got %+v", value)
}

// Equal fails the test unless both values are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	require.Equal(t, want, got)
}

// Panics fails the test unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	require.Panics(t, fn)
}

// IsErr fails the test unless got is of the kind of want. A nil want matches
// only a nil error.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	type kind interface {
		Is(error) bool
	}
	if k, ok := want.(kind); ok && k.Is(got) {
		return
	}
	require.FailNow(t, "unexpected error", "want %q, got %+v", want, got)
}
