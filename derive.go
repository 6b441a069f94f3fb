package pairswap

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/iov-one/pairswap/errors"
)

const (
	derivedExt  = "swap"
	derivedType = "derived"

	// derivationDomain separates derived points from any other sha256
	// digest computed by the application.
	derivationDomain = "pairswap/derived"
)

// DerivedCondition returns the condition that a derived address is computed
// from. A derived condition can never be produced by a signature, because
// signature conditions always use the "sigs" extension.
func DerivedCondition(bump uint8, seeds ...[]byte) Condition {
	return NewCondition(derivedExt, derivedType, derivationPoint(bump, seeds))
}

// DeriveAddress computes the address for the given seeds and bump. This is a
// pure function, calling it twice with the same arguments always returns the
// same address.
//
// DeriveAddress does not check whether the bump is canonical. Use
// FindDerivedAddress to obtain the canonical bump for a set of seeds.
func DeriveAddress(bump uint8, seeds ...[]byte) Address {
	return DerivedCondition(bump, seeds...).Address()
}

// FindDerivedAddress searches for the canonical bump of given seeds. Bumps are
// tried starting from 255 down to 0 and the first one that produces a
// derivation point lying outside of the ed25519 curve is returned. Such point
// cannot be a public key, so there is no private key able to sign for the
// returned address.
func FindDerivedAddress(seeds ...[]byte) (Address, uint8, error) {
	for b := 255; b >= 0; b-- {
		bump := uint8(b)
		point := derivationPoint(bump, seeds)
		if isOnCurve(point) {
			continue
		}
		return NewCondition(derivedExt, derivedType, point).Address(), bump, nil
	}
	return nil, 0, errors.Wrap(errors.ErrInput, "no viable bump for seeds")
}

// VerifyDerivation recomputes the address from given seeds and bump and
// compares it with the expected one. When the derivation does not match or
// the bump is not a valid off-curve bump, mismatch error is returned
// wrapped with details.
func VerifyDerivation(mismatch error, want Address, bump uint8, seeds ...[]byte) error {
	point := derivationPoint(bump, seeds)
	if isOnCurve(point) {
		return errors.Wrapf(mismatch, "bump %d derives an on curve point", bump)
	}
	got := NewCondition(derivedExt, derivedType, point).Address()
	if !got.Equals(want) {
		return errors.Wrapf(mismatch, "derived %s, expected %s", got, want)
	}
	return nil
}

// derivationPoint hashes all seeds together with the bump. Each seed is
// length prefixed so that ("ab", "c") and ("a", "bc") never collide.
func derivationPoint(bump uint8, seeds [][]byte) []byte {
	h := sha256.New()
	h.Write([]byte(derivationDomain))
	var size [4]byte
	for _, s := range seeds {
		binary.BigEndian.PutUint32(size[:], uint32(len(s)))
		h.Write(size[:])
		h.Write(s)
	}
	h.Write([]byte{bump})
	return h.Sum(nil)
}

func isOnCurve(point []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
