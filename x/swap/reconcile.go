package swap

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
	"github.com/iov-one/pairswap/x/vault"
)

const (
	// ClassPartialExecution marks a swap where one acceptance leg was
	// applied without the other.
	ClassPartialExecution = "partial_execution"
	// ClassVaultDrift marks a vault whose balance differs from the amount
	// the swap escrowed into it.
	ClassVaultDrift = "vault_drift"
)

// Finding is a single inconsistency reported by the Reconciler.
type Finding struct {
	Swap  pairswap.Address
	Class string
	Err   error
}

// Reconciler audits live swaps against the vaults they reference. It only
// reports what it finds and never repairs state.
type Reconciler struct {
	swaps  orm.ModelBucket
	vaults vault.Controller
}

var _ pairswap.Ticker = (*Reconciler)(nil)

// NewReconciler returns a reconciler reading vault state through given
// controller.
func NewReconciler(vaults vault.Controller) *Reconciler {
	return &Reconciler{
		swaps:  NewBucket(),
		vaults: vaults,
	}
}

// Tick runs a full reconciliation and logs every finding at error level.
func (r *Reconciler) Tick(ctx pairswap.Context, db pairswap.KVStore) error {
	findings, live, err := r.reconcile(db)
	if err != nil {
		return errors.Wrap(err, "reconcile swaps")
	}
	m := metrics()
	m.SetLive(live)
	logger := pairswap.GetLogger(ctx)
	for _, f := range findings {
		m.ObserveFinding(f.Class)
		logger.Error("swap inconsistency",
			"swap", f.Swap.String(),
			"class", f.Class,
			"err", f.Err.Error())
	}
	return nil
}

// Check returns all inconsistencies found among live swaps.
func (r *Reconciler) Check(db pairswap.ReadOnlyKVStore) ([]Finding, error) {
	findings, _, err := r.reconcile(db)
	return findings, err
}

func (r *Reconciler) reconcile(db pairswap.ReadOnlyKVStore) ([]Finding, int, error) {
	swaps, err := r.live(db)
	if err != nil {
		return nil, 0, err
	}
	var findings []Finding
	for _, s := range swaps {
		found, err := r.audit(db, s)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "swap %s", s.Address)
		}
		findings = append(findings, found...)
	}
	return findings, len(swaps), nil
}

func (r *Reconciler) live(db pairswap.ReadOnlyKVStore) ([]*Swap, error) {
	it, err := r.swaps.PrefixScan(db, nil, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var swaps []*Swap
	for {
		var s Swap
		switch _, err := it.LoadNext(&s); {
		case err == nil:
			swaps = append(swaps, &s)
		case errors.ErrIteratorDone.Is(err):
			return swaps, nil
		default:
			return nil, err
		}
	}
}

func (r *Reconciler) audit(db pairswap.ReadOnlyKVStore, s *Swap) ([]Finding, error) {
	var findings []Finding
	partial := func(err error) {
		findings = append(findings, Finding{Swap: s.Address, Class: ClassPartialExecution, Err: err})
	}

	if s.State == StateSettling {
		switch {
		case s.LegADone && !s.LegBDone:
			partial(errors.Wrap(ErrPartialExecution, "escrow released to the offeree, offeror not paid"))
		case s.LegBDone && !s.LegADone:
			partial(errors.Wrap(ErrPartialExecution, "offeror paid, escrow not released"))
		}
	}
	if s.LegADone {
		// Vaults are closed by the escrow release.
		return findings, nil
	}

	for _, ref := range s.Vaults {
		v, err := r.vaults.Get(db, ref.Address)
		switch {
		case errors.ErrNotFound.Is(err):
			partial(errors.Wrapf(ErrPartialExecution, "%s vault closed while the swap is %s", ref.Ticker, s.State))
			continue
		case err != nil:
			return nil, err
		}
		balance, err := r.vaults.Balance(db, ref.Address)
		if err != nil {
			return nil, err
		}
		if balance.IsZero() && !s.Escrowed.Get(ref.Ticker).IsZero() {
			partial(errors.Wrapf(ErrPartialExecution, "%s vault emptied while the swap is %s", ref.Ticker, s.State))
			continue
		}
		if balance.Amount != v.Funded {
			findings = append(findings, Finding{
				Swap:  s.Address,
				Class: ClassVaultDrift,
				Err:   errors.Wrapf(errors.ErrState, "%s vault holds %d, funded %d", ref.Ticker, balance.Amount, v.Funded),
			})
		}
	}
	return findings, nil
}
