package errors

import (
	"io"
	"testing"
)

func TestABCInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrNotFound,
			debug:    false,
			wantLog:  "not found",
			wantCode: ErrNotFound.code,
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrNotFound, "foo"), "bar"),
			debug:    false,
			wantLog:  "bar: foo: not found",
			wantCode: ErrNotFound.code,
		},
		"nil is empty message": {
			err:      nil,
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"nil registered error is not an error": {
			err:      (*Error)(nil),
			debug:    false,
			wantLog:  "",
			wantCode: 0,
		},
		"stdlib is generic message": {
			err:      io.EOF,
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib returns error message in debug mode": {
			err:      io.EOF,
			debug:    true,
			wantLog:  "EOF",
			wantCode: 1,
		},
		"typed nil wrapped is internal": {
			err:      Wrap((*customPtrErr)(nil), "vault"),
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
		"grouped errors use the first code": {
			err:      Append(nil, ErrAmount, ErrCurrency),
			debug:    false,
			wantLog:  "2 errors occurred:\n\t* invalid amount\n\t* invalid currency code",
			wantCode: ErrAmount.code,
		},
		"wrapped stdlib is only a generic message": {
			err:      Wrap(io.EOF, "cannot read file"),
			debug:    false,
			wantLog:  "internal error",
			wantCode: 1,
		},
		"wrapped stdlib is a full message in debug mode": {
			err:      Wrap(io.EOF, "cannot read file"),
			debug:    true,
			wantLog:  "cannot read file: EOF",
			wantCode: 1,
		},
		"custom error": {
			err:      customErr{},
			debug:    false,
			wantLog:  "custom",
			wantCode: 999,
		},
		"custom error in debug mode": {
			err:      customErr{},
			debug:    true,
			wantLog:  "custom",
			wantCode: 999,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

// customErr is a custom implementation of an error that provides an ABCICode
// method.
type customErr struct{}

func (customErr) ABCICode() uint32 { return 999 }

func (customErr) Error() string { return "custom" }

// customPtrErr is an error implemented on a pointer receiver, without a code.
type customPtrErr struct{}

func (*customPtrErr) Error() string { return "ptr" }

func TestRedact(t *testing.T) {
	if err := Redact(ErrPanic.New("secret path"), false); ErrPanic.Is(err) {
		t.Fatal("panic must be redacted")
	}
	if err := Redact(io.EOF, false); err.Error() != internalABCILog {
		t.Fatalf("stdlib error must be redacted, got %q", err)
	}
	if err := Redact(io.EOF, true); err != io.EOF {
		t.Fatal("debug mode must not redact")
	}
	wrapped := Wrap(ErrState, "settling")
	if err := Redact(wrapped, false); err != wrapped {
		t.Fatal("registered error must be left intact")
	}
}
