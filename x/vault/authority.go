package vault

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x"
)

// AuthorityProof is the seed material that reproduces the addresses of a
// swap authority and one of its vaults.
type AuthorityProof struct {
	Offeror  pairswap.Address
	Offeree  pairswap.Address
	SwapBump uint8
	// VaultBump is the bump of the vault the proof is presented for.
	VaultBump uint8
}

// Authority returns the swap authority address the proof reproduces. The
// bump is not checked for being off curve.
func (p AuthorityProof) Authority() pairswap.Address {
	return pairswap.DeriveAddress(p.SwapBump, SwapSeeds(p.Offeror, p.Offeree)...)
}

// verify re-derives both addresses and compares them with the vault record.
// On success an authenticator granting the vault condition is returned.
func (p AuthorityProof) verify(v *Vault) (x.Authenticator, error) {
	if err := pairswap.VerifyDerivation(ErrAuthorityMismatch, v.Authority, p.SwapBump, SwapSeeds(p.Offeror, p.Offeree)...); err != nil {
		return nil, errors.Wrap(err, "swap authority")
	}
	seeds := VaultSeeds(p.Offeror, p.Offeree, v.Ticker)
	if uint32(p.VaultBump) != v.Bump {
		return nil, errors.Wrapf(ErrAuthorityMismatch, "vault bump %d, recorded %d", p.VaultBump, v.Bump)
	}
	if err := pairswap.VerifyDerivation(ErrAuthorityMismatch, v.Address, p.VaultBump, seeds...); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	return x.GrantConditions(pairswap.DerivedCondition(p.VaultBump, seeds...)), nil
}
