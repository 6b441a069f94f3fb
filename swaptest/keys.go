package swaptest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/crypto"
)

// NewKey returns a random ed25519 private key.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() pairswap.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a random address.
func RandomAddr(t testing.TB) pairswap.Address {
	t.Helper()
	raw := make([]byte, pairswap.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot read random data: %s", err)
	}
	return raw
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) pairswap.Address {
	t.Helper()

	addr, err := pairswap.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
