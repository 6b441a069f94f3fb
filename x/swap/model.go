package swap

import (
	"fmt"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
	"github.com/iov-one/pairswap/x/vault"
)

// State is the lifecycle state of a swap.
type State int32

const (
	StateEmpty     State = 1
	StateFunding   State = 2
	StateProposed  State = 3
	StateSettling  State = 4
	StateCancelled State = 5
	StateAccepted  State = 6
)

var stateNames = map[State]string{
	StateEmpty:     "empty",
	StateFunding:   "funding",
	StateProposed:  "proposed",
	StateSettling:  "settling",
	StateCancelled: "cancelled",
	StateAccepted:  "accepted",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Validate returns an error for unknown state codes.
func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errors.Wrapf(errors.ErrState, "unknown state %d", int32(s))
	}
	return nil
}

// Terminal returns true for states that no operation may leave.
func (s State) Terminal() bool {
	return s == StateCancelled || s == StateAccepted
}

// Open returns true while the terms of the swap may still change.
func (s State) Open() bool {
	return s == StateEmpty || s == StateFunding
}

const (
	// baseResources is referenced by every settling operation: the swap
	// record, both identity entries, the authority and the signer.
	baseResources = 5
	// escrowResources is referenced per escrowed asset: the vault record,
	// the vault account and the offeree account.
	escrowResources = 3
	// expectedResources is referenced per expected asset: the offeree and
	// the offeror accounts.
	expectedResources = 2
)

// LegAResources returns the number of resources releasing the escrow
// references.
func (s *Swap) LegAResources() int32 {
	return baseResources + escrowResources*int32(len(s.Vaults))
}

// LegBResources returns the number of resources paying the offeror
// references.
func (s *Swap) LegBResources() int32 {
	return baseResources + expectedResources*int32(len(s.Expected))
}

// AcceptResources returns the number of resources a single operation
// applying both legs references.
func (s *Swap) AcceptResources() int32 {
	return baseResources + escrowResources*int32(len(s.Vaults)) + expectedResources*int32(len(s.Expected))
}

var _ orm.Model = (*Swap)(nil)

// Validate ensures the swap record is consistent.
func (s *Swap) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(s.Address.Validate(), "address"))
	err = errors.Append(err, errors.Wrap(s.Offeror.Validate(), "offeror"))
	err = errors.Append(err, errors.Wrap(s.Offeree.Validate(), "offeree"))
	if s.Offeror.Equals(s.Offeree) {
		err = errors.Append(err, errors.Wrap(errors.ErrModel, "offeror and offeree must differ"))
	}
	err = errors.Append(err, s.State.Validate())
	if s.Bump > 255 {
		err = errors.Append(err, errors.Wrapf(errors.ErrModel, "bump %d", s.Bump))
	}
	err = errors.Append(err, errors.Wrap(s.Escrowed.Validate(), "escrowed"))
	err = errors.Append(err, errors.Wrap(s.Expected.Validate(), "expected"))

	if len(s.Vaults) != len(s.Escrowed) {
		err = errors.Append(err, errors.Wrapf(errors.ErrModel, "%d vaults for %d escrowed assets", len(s.Vaults), len(s.Escrowed)))
	}
	for i, v := range s.Vaults {
		if v == nil {
			err = errors.Append(err, errors.Wrapf(errors.ErrEmpty, "vault %d", i))
			continue
		}
		err = errors.Append(err, errors.Wrapf(v.Address.Validate(), "vault %d", i))
		if s.Escrowed.Get(v.Ticker).IsZero() {
			err = errors.Append(err, errors.Wrapf(errors.ErrModel, "vault %d holds %s which is not escrowed", i, v.Ticker))
		}
		if v.Bump > 255 {
			err = errors.Append(err, errors.Wrapf(errors.ErrModel, "vault %d bump %d", i, v.Bump))
		}
	}

	switch s.State {
	case StateEmpty:
		if len(s.Escrowed) != 0 {
			err = errors.Append(err, errors.Wrap(errors.ErrModel, "empty swap holds escrow"))
		}
	case StateProposed, StateSettling, StateAccepted:
		if len(s.Escrowed) == 0 || len(s.Expected) == 0 {
			err = errors.Append(err, errors.Wrapf(errors.ErrModel, "%s swap needs assets on both sides", s.State))
		}
	}
	if (s.LegADone || s.LegBDone) && s.State != StateSettling && s.State != StateAccepted {
		err = errors.Append(err, errors.Wrapf(errors.ErrModel, "%s swap with an applied leg", s.State))
	}
	return err
}

// Vault returns the reference to the vault of given ticker or nil.
func (s *Swap) Vault(ticker string) *VaultRef {
	for _, v := range s.Vaults {
		if v.Ticker == ticker {
			return v
		}
	}
	return nil
}

// Proof returns the authority proof of given vault.
func (s *Swap) Proof(ref *VaultRef) vault.AuthorityProof {
	return vault.AuthorityProof{
		Offeror:   s.Offeror,
		Offeree:   s.Offeree,
		SwapBump:  uint8(s.Bump),
		VaultBump: uint8(ref.Bump),
	}
}

// SwapAddress returns the canonical authority address of the swap between
// offeror and offeree, together with its bump.
func SwapAddress(offeror, offeree pairswap.Address) (pairswap.Address, uint8, error) {
	return pairswap.FindDerivedAddress(vault.SwapSeeds(offeror, offeree)...)
}

const (
	// BucketName holds live swaps.
	BucketName = "swaps"
	// HistoryBucketName holds terminated swaps.
	HistoryBucketName = "swaphist"
)

// NewBucket returns the bucket of live swaps, keyed by the swap authority
// address. The key is derived from the ordered participant pair, so at most
// one live swap exists per pair.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Swap{},
		orm.WithIndex("offeror", offerorIndexer, false),
		orm.WithIndex("offeree", offereeIndexer, false),
	)
}

// NewHistoryBucket returns the bucket of terminated swaps, keyed by a
// sequence.
func NewHistoryBucket() orm.ModelBucket {
	return orm.NewModelBucket(HistoryBucketName, &Swap{},
		orm.WithIDSequence(orm.NewSequence(HistoryBucketName, "id")),
		orm.WithIndex("address", addressIndexer, false),
	)
}

func offerorIndexer(m orm.Model) ([]byte, error) {
	s, ok := m.(*Swap)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return s.Offeror, nil
}

func offereeIndexer(m orm.Model) ([]byte, error) {
	s, ok := m.(*Swap)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return s.Offeree, nil
}

func addressIndexer(m orm.Model) ([]byte, error) {
	s, ok := m.(*Swap)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return s.Address, nil
}
