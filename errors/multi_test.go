package errors

import (
	"io"
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs     []error
		wantNil  bool
		wantCode uint32
		wantLen  int
	}{
		"no errors": {
			errs:    nil,
			wantNil: true,
		},
		"only nil errors": {
			errs:    []error{nil, nil},
			wantNil: true,
		},
		"single error keeps its code": {
			errs:     []error{nil, Wrap(ErrEmpty, "owner")},
			wantCode: ErrEmpty.code,
			wantLen:  1,
		},
		"first error code is used": {
			errs:     []error{ErrState, ErrNotFound},
			wantCode: ErrState.code,
			wantLen:  2,
		},
		"stdlib first is internal": {
			errs:     []error{io.EOF, ErrNotFound},
			wantCode: internalABCICode,
			wantLen:  2,
		},
		"nested groups are flattened": {
			errs:     []error{Append(ErrInput, ErrEmpty), ErrState},
			wantCode: ErrInput.code,
			wantLen:  3,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Append(tc.errs...)
			if tc.wantNil {
				if err != nil {
					t.Fatalf("want nil, got %+v", err)
				}
				return
			}
			if code := abciCode(err); code != tc.wantCode {
				t.Fatalf("want %d code, got %d", tc.wantCode, code)
			}
			if n := len(err.(*multiErr).Unpack()); n != tc.wantLen {
				t.Fatalf("want %d errors, got %d", tc.wantLen, n)
			}
		})
	}
}
