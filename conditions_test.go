package pairswap

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/swaptest/assert"
)

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    Condition
		wantExt string
		wantTyp string
		wantErr *errors.Error
	}{
		"signature": {
			cond:    NewCondition("sigs", "ed25519", []byte{0xAB, 0x0C}),
			wantExt: "sigs",
			wantTyp: "ed25519",
		},
		"newline in data": {
			cond:    NewCondition("swap", "derived", []byte("a\nb")),
			wantExt: "swap",
			wantTyp: "derived",
		},
		"extension too short": {
			cond:    NewCondition("x", "ed25519", []byte{1}),
			wantErr: errors.ErrInput,
		},
		"missing data": {
			cond:    Condition("sigs/ed25519/"),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, _, err := tc.cond.Parse()
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.IsErr(t, tc.wantErr, tc.cond.Validate())
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantExt, ext)
				assert.Equal(t, tc.wantTyp, typ)
			}
		})
	}
}

func TestConditionPrinting(t *testing.T) {
	cond := NewCondition("sigs", "ed25519", []byte{0xDE, 0xAD})
	assert.Equal(t, "sigs/ed25519/DEAD", cond.String())

	raw, err := json.Marshal(cond)
	assert.Nil(t, err)
	assert.Equal(t, `"sigs/ed25519/DEAD"`, string(raw))

	var back Condition
	assert.Nil(t, json.Unmarshal(raw, &back))
	if !cond.Equals(back) {
		t.Fatalf("want %s, got %s", cond, back)
	}
}

func TestAddressPrinting(t *testing.T) {
	addr := NewCondition("sigs", "ed25519", []byte("alice")).Address()
	if len(addr) != AddressLength {
		t.Fatalf("unexpected address length: %d", len(addr))
	}
	assert.Equal(t, fmt.Sprintf("%X", []byte(addr)), addr.String())
	assert.Equal(t, "(nil)", Address(nil).String())
}

func TestParseAddress(t *testing.T) {
	cond := NewCondition("sigs", "ed25519", []byte{0x01, 0x02})
	addr := cond.Address()
	b32, err := addr.Bech32()
	assert.Nil(t, err)

	cases := map[string]struct {
		enc     string
		want    Address
		wantErr *errors.Error
	}{
		"default hex": {
			enc:  addr.String(),
			want: addr,
		},
		"explicit hex": {
			enc:  "hex:" + addr.String(),
			want: addr,
		},
		"condition": {
			enc:  "cond:sigs/ed25519/0102",
			want: addr,
		},
		"bech32": {
			enc:  "bech32:" + b32,
			want: addr,
		},
		"empty": {
			enc:  "hex:",
			want: nil,
		},
		"short hex": {
			enc:     "ABCD",
			wantErr: errors.ErrInput,
		},
		"not hex": {
			enc:     "zz",
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			enc:     "base64:AAAA",
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAddress(tc.enc)
			assert.IsErr(t, tc.wantErr, err)
			if !tc.want.Equals(got) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := NewAddress([]byte("bob"))
	raw, err := json.Marshal(addr)
	assert.Nil(t, err)

	var back Address
	assert.Nil(t, json.Unmarshal(raw, &back))
	if !addr.Equals(back) {
		t.Fatalf("want %s, got %s", addr, back)
	}

	clone := addr.Clone()
	clone[0]++
	if addr.Equals(clone) {
		t.Fatal("clone shares memory with the original")
	}
}
