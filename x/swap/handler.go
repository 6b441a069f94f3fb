package swap

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/coin"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/orm"
	"github.com/iov-one/pairswap/x"
	"github.com/iov-one/pairswap/x/bank"
	"github.com/iov-one/pairswap/x/identity"
	"github.com/iov-one/pairswap/x/vault"
)

const (
	createSwapCost   int64 = 100
	fundSwapCost     int64 = 200
	addAssetCost     int64 = 50
	initiateSwapCost int64 = 100
	settleSwapCost   int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r pairswap.Registry, auth x.Authenticator, b bank.Controller, ids identity.Controller, vaults vault.Controller) {
	e := &engine{
		auth:    auth,
		swaps:   NewBucket(),
		history: NewHistoryBucket(),
		bank:    b,
		ids:     ids,
		vaults:  vaults,
	}
	r.Handle(&CreateMsg{}, CreateHandler{e})
	r.Handle(&FundMsg{}, FundHandler{e})
	r.Handle(&AddOffereeAssetMsg{}, AddOffereeAssetHandler{e})
	r.Handle(&InitiateMsg{}, InitiateHandler{e})
	r.Handle(&CancelMsg{}, CancelHandler{e})
	r.Handle(&AcceptMsg{}, AcceptHandler{e})
	r.Handle(&AcceptLegAMsg{}, AcceptLegAHandler{e})
	r.Handle(&AcceptLegBMsg{}, AcceptLegBHandler{e})
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// RegisterQuery will register the live swaps as "/swaps" and the
// terminated ones as "/swaphist".
func RegisterQuery(qr pairswap.QueryRouter) {
	NewBucket().Register("swaps", qr)
	NewHistoryBucket().Register("swaphist", qr)
}

// engine holds the collaborators shared by all swap handlers. It is the only
// code that mutates swap records and identity entries.
type engine struct {
	auth    x.Authenticator
	swaps   orm.ModelBucket
	history orm.ModelBucket
	bank    bank.Controller
	ids     identity.Controller
	vaults  vault.Controller
}

func (e *engine) load(db pairswap.ReadOnlyKVStore, addr pairswap.Address) (*Swap, error) {
	var s Swap
	if err := e.swaps.One(db, addr, &s); err != nil {
		return nil, errors.Wrapf(err, "swap %s", addr)
	}
	if s.State.Terminal() {
		return nil, errors.Wrapf(errors.ErrState, "swap is %s", s.State)
	}
	return &s, nil
}

func (e *engine) save(db pairswap.KVStore, s *Swap) error {
	if _, err := e.swaps.Put(db, s.Address, s); err != nil {
		return errors.Wrap(err, "save swap")
	}
	return nil
}

// archive moves the swap to the history bucket with given terminal state.
// The ordered pair is free to start a new swap afterwards.
func (e *engine) archive(ctx pairswap.Context, db pairswap.KVStore, s *Swap, state State) ([]byte, error) {
	s.State = state
	if err := e.swaps.Delete(db, s.Address); err != nil {
		return nil, errors.Wrap(err, "delete swap")
	}
	id, err := e.history.Put(db, nil, s)
	if err != nil {
		return nil, errors.Wrap(err, "archive swap")
	}
	pairswap.GetLogger(ctx).Info("swap closed",
		"swap", s.Address.String(),
		"state", state.String(),
		"history", id)
	return id, nil
}

// requireParties fails if the participants supplied with a message do not
// match the record.
func requireParties(s *Swap, offeror, offeree pairswap.Address) error {
	if !s.Offeror.Equals(offeror) || !s.Offeree.Equals(offeree) {
		return errors.Wrapf(ErrWrongCounterparty, "swap is between %s and %s", s.Offeror, s.Offeree)
	}
	return nil
}

func (e *engine) requireSigner(ctx pairswap.Context, addr pairswap.Address, role string) error {
	if !e.auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature required", role)
	}
	return nil
}

// releaseEscrow withdraws the full balance of every vault of the swap to the
// destination and closes the emptied vaults.
func (e *engine) releaseEscrow(ctx pairswap.Context, db pairswap.KVStore, s *Swap, to pairswap.Address) error {
	for _, ref := range s.Vaults {
		proof := s.Proof(ref)
		balance, err := e.vaults.Balance(db, ref.Address)
		if err != nil {
			return errors.Wrapf(err, "%s vault", ref.Ticker)
		}
		if balance.IsPositive() {
			if err := e.vaults.Withdraw(ctx, db, ref.Address, to, balance, proof); err != nil {
				return errors.Wrapf(err, "%s vault", ref.Ticker)
			}
		}
		if _, err := e.vaults.CloseIfEmpty(ctx, db, ref.Address, proof); err != nil {
			return errors.Wrapf(err, "close %s vault", ref.Ticker)
		}
	}
	return nil
}

// payOfferor transfers every expected asset from the offeree to the offeror.
// The offeree signature authorizes the transfers.
func (e *engine) payOfferor(ctx pairswap.Context, db pairswap.KVStore, s *Swap) error {
	for _, c := range s.Expected {
		if err := e.bank.Transfer(ctx, db, e.auth, s.Offeree, s.Offeror, *c); err != nil {
			return errors.Wrapf(err, "pay %s", c)
		}
	}
	return nil
}

// escrowReleased returns nil when no vault of the swap holds any value.
func (e *engine) escrowReleased(db pairswap.ReadOnlyKVStore, s *Swap) error {
	for _, ref := range s.Vaults {
		balance, err := e.vaults.Balance(db, ref.Address)
		switch {
		case errors.ErrNotFound.Is(err):
			continue
		case err != nil:
			return err
		case !balance.IsZero():
			return errors.Wrapf(errors.ErrState, "%s vault still holds %s", ref.Ticker, balance)
		}
	}
	return nil
}

// complete disengages both participants and archives an accepted swap.
func (e *engine) complete(ctx pairswap.Context, db pairswap.KVStore, s *Swap) ([]byte, error) {
	if err := e.disengage(db, s); err != nil {
		return nil, err
	}
	return e.archive(ctx, db, s, StateAccepted)
}

func (e *engine) disengage(db pairswap.KVStore, s *Swap) error {
	if err := e.ids.Disengage(db, s.Offeror); err != nil {
		return errors.Wrap(err, "offeror identity")
	}
	if err := e.ids.Disengage(db, s.Offeree); err != nil {
		return errors.Wrap(err, "offeree identity")
	}
	return nil
}

//---- create

// CreateHandler creates an empty swap for an ordered participant pair.
type CreateHandler struct {
	*engine
}

var _ pairswap.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: createSwapCost}, nil
}

func (h CreateHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, addr, bump, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	s := &Swap{
		Address: addr,
		Bump:    uint32(bump),
		Offeror: msg.Offeror,
		Offeree: msg.Offeree,
		State:   StateEmpty,
	}
	if err := h.save(db, s); err != nil {
		return nil, err
	}
	return transitioned(addr, s), nil
}

func (h CreateHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*CreateMsg, pairswap.Address, uint8, error) {
	var msg CreateMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	if err := h.requireSigner(ctx, msg.Offeror, "offeror"); err != nil {
		return nil, nil, 0, err
	}
	addr, bump, err := SwapAddress(msg.Offeror, msg.Offeree)
	if err != nil {
		return nil, nil, 0, err
	}
	switch err := h.swaps.Has(db, addr); {
	case err == nil:
		return nil, nil, 0, errors.Wrap(errors.ErrAlreadyExists, "swap for this pair is in progress")
	case !errors.ErrNotFound.Is(err):
		return nil, nil, 0, err
	}
	return &msg, addr, bump, nil
}

//---- fund

// FundHandler escrows an offeror asset in the vault of its ticker, opening
// the vault on first use.
type FundHandler struct {
	*engine
}

var _ pairswap.Handler = FundHandler{}

func (h FundHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: fundSwapCost}, nil
}

func (h FundHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, s, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount := *msg.Amount

	ref := s.Vault(amount.Ticker)
	if ref == nil {
		rent := coin.Coin{}
		if conf.VaultRent != nil {
			rent = *conf.VaultRent
		}
		v, err := h.vaults.Open(ctx, db, h.auth, s.Offeror, s.Offeree, amount.Ticker, s.Offeror, rent)
		if err != nil {
			return nil, err
		}
		ref = &VaultRef{Ticker: v.Ticker, Address: v.Address, Bump: v.Bump}
		s.Vaults = append(s.Vaults, ref)
	}
	if err := h.vaults.Deposit(ctx, db, h.auth, ref.Address, s.Offeror, amount); err != nil {
		return nil, err
	}
	if s.Escrowed, err = s.Escrowed.Add(amount); err != nil {
		return nil, errors.Wrap(err, "escrowed")
	}
	s.State = StateFunding
	if err := h.save(db, s); err != nil {
		return nil, err
	}
	return transitioned(ref.Address, s), nil
}

func (h FundHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*FundMsg, *Swap, *Configuration, error) {
	var msg FundMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := h.load(db, msg.Swap)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := h.requireSigner(ctx, s.Offeror, "offeror"); err != nil {
		return nil, nil, nil, err
	}
	if !s.State.Open() {
		return nil, nil, nil, errors.Wrapf(errors.ErrState, "cannot fund a %s swap", s.State)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if s.Vault(msg.Amount.Ticker) == nil {
		if n := s.LegAResources() + escrowResources; n > conf.MaxResources {
			return nil, nil, nil, errors.Wrapf(errors.ErrInput, "releasing %d escrowed assets needs %d resources, limit is %d", len(s.Vaults)+1, n, conf.MaxResources)
		}
	}
	return &msg, s, conf, nil
}

//---- add offeree asset

// AddOffereeAssetHandler lists an asset the offeree must pay.
type AddOffereeAssetHandler struct {
	*engine
}

var _ pairswap.Handler = AddOffereeAssetHandler{}

func (h AddOffereeAssetHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: addAssetCost}, nil
}

func (h AddOffereeAssetHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if s.Expected, err = s.Expected.Add(*msg.Amount); err != nil {
		return nil, errors.Wrap(err, "expected")
	}
	if err := h.save(db, s); err != nil {
		return nil, err
	}
	return transitioned(nil, s), nil
}

func (h AddOffereeAssetHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*AddOffereeAssetMsg, *Swap, error) {
	var msg AddOffereeAssetMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := h.load(db, msg.Swap)
	if err != nil {
		return nil, nil, err
	}
	if err := h.requireSigner(ctx, s.Offeror, "offeror"); err != nil {
		return nil, nil, err
	}
	if !s.State.Open() {
		return nil, nil, errors.Wrapf(errors.ErrState, "cannot change terms of a %s swap", s.State)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if s.Expected.Get(msg.Amount.Ticker).IsZero() {
		if n := s.LegBResources() + expectedResources; n > conf.MaxResources {
			return nil, nil, errors.Wrapf(errors.ErrInput, "paying %d assets needs %d resources, limit is %d", len(s.Expected)+1, n, conf.MaxResources)
		}
	}
	return &msg, s, nil
}

//---- initiate

// InitiateHandler freezes the swap terms and engages both participants.
type InitiateHandler struct {
	*engine
}

var _ pairswap.Handler = InitiateHandler{}

func (h InitiateHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: initiateSwapCost}, nil
}

func (h InitiateHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ids.Engage(db, s.Offeror, identity.RoleOfferor, s.Offeree); err != nil {
		return nil, errors.Wrap(err, "offeror identity")
	}
	if err := h.ids.Engage(db, s.Offeree, identity.RoleOfferee, s.Offeror); err != nil {
		return nil, errors.Wrap(err, "offeree identity")
	}
	s.State = StateProposed
	if err := h.save(db, s); err != nil {
		return nil, err
	}
	return transitioned(nil, s), nil
}

func (h InitiateHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*Swap, error) {
	var msg InitiateMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	s, err := h.load(db, msg.Swap)
	if err != nil {
		return nil, err
	}
	if err := h.requireSigner(ctx, s.Offeror, "offeror"); err != nil {
		return nil, err
	}
	if s.State != StateFunding {
		return nil, errors.Wrapf(errors.ErrState, "cannot initiate a %s swap", s.State)
	}
	if s.Expected.IsEmpty() {
		return nil, errors.Wrap(errors.ErrState, "no asset expected from the offeree")
	}
	// Both participants are checked before any of them is engaged.
	for _, p := range []pairswap.Address{s.Offeror, s.Offeree} {
		id, err := h.ids.Get(db, p)
		if err != nil {
			return nil, err
		}
		if id.Engaged() {
			return nil, errors.Wrapf(identity.ErrParticipantBusy, "%s is %s in another swap", p, id.Role)
		}
	}
	return s, nil
}

//---- cancel

// CancelHandler returns the escrow to the offeror and releases both
// participants.
type CancelHandler struct {
	*engine
}

var _ pairswap.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: settleSwapCost}, nil
}

func (h CancelHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.releaseEscrow(ctx, db, s, s.Offeror); err != nil {
		return nil, err
	}
	// Identities are engaged only once the swap is initiated.
	if s.State == StateProposed {
		if err := h.disengage(db, s); err != nil {
			return nil, err
		}
	}
	id, err := h.archive(ctx, db, s, StateCancelled)
	if err != nil {
		return nil, err
	}
	return transitioned(id, s), nil
}

func (h CancelHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*Swap, error) {
	var msg CancelMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	s, err := h.load(db, msg.Swap)
	if err != nil {
		return nil, err
	}
	if err := requireParties(s, msg.Offeror, msg.Offeree); err != nil {
		return nil, err
	}
	if err := h.requireSigner(ctx, s.Offeror, "offeror"); err != nil {
		return nil, err
	}
	switch s.State {
	case StateEmpty, StateFunding, StateProposed:
	default:
		return nil, errors.Wrapf(errors.ErrState, "cannot cancel a %s swap", s.State)
	}
	return s, nil
}

//---- accept

// AcceptHandler applies both acceptance legs in a single operation. It is
// available only when the swap fits within the resource limit.
type AcceptHandler struct {
	*engine
}

var _ pairswap.Handler = AcceptHandler{}

func (h AcceptHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: settleSwapCost}, nil
}

func (h AcceptHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.payOfferor(ctx, db, s); err != nil {
		return nil, err
	}
	if err := h.releaseEscrow(ctx, db, s, s.Offeree); err != nil {
		return nil, err
	}
	s.LegADone, s.LegBDone = true, true
	id, err := h.complete(ctx, db, s)
	if err != nil {
		return nil, err
	}
	return transitioned(id, s), nil
}

func (h AcceptHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*Swap, error) {
	var msg AcceptMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	s, err := h.load(db, msg.Swap)
	if err != nil {
		return nil, err
	}
	if err := requireParties(s, msg.Offeror, msg.Offeree); err != nil {
		return nil, err
	}
	if err := h.requireSigner(ctx, s.Offeree, "offeree"); err != nil {
		return nil, err
	}
	if s.State != StateProposed {
		return nil, errors.Wrapf(errors.ErrState, "cannot accept a %s swap", s.State)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if n := s.AcceptResources(); n > conf.MaxResources {
		return nil, errors.Wrapf(errors.ErrInput, "accept references %d resources, limit is %d: bundle accept_leg_b and accept_leg_a", n, conf.MaxResources)
	}
	return s, nil
}

//---- leg A

// AcceptLegAHandler releases the escrow to the offeree.
type AcceptLegAHandler struct {
	*engine
}

var _ pairswap.Handler = AcceptLegAHandler{}

func (h AcceptLegAHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: settleSwapCost}, nil
}

func (h AcceptLegAHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.releaseEscrow(ctx, db, s, s.Offeree); err != nil {
		return nil, err
	}
	s.LegADone = true
	if s.LegBDone {
		id, err := h.complete(ctx, db, s)
		if err != nil {
			return nil, err
		}
		return transitioned(id, s), nil
	}
	s.State = StateSettling
	if err := h.save(db, s); err != nil {
		return nil, err
	}
	return transitioned(nil, s), nil
}

func (h AcceptLegAHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*Swap, error) {
	var msg AcceptLegAMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	s, err := h.load(db, msg.Swap)
	if err != nil {
		return nil, err
	}
	if err := requireParties(s, msg.Offeror, msg.Offeree); err != nil {
		return nil, err
	}
	if err := h.requireSigner(ctx, s.Offeree, "offeree"); err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	switch s.State {
	case StateProposed:
		if conf.LegOrder == LegOrderConsentFirst {
			return nil, errors.Wrap(errors.ErrState, "offeree payment must be applied first")
		}
	case StateSettling:
		if s.LegADone {
			return nil, errors.Wrap(errors.ErrState, "escrow already released")
		}
	default:
		return nil, errors.Wrapf(errors.ErrState, "cannot accept a %s swap", s.State)
	}
	if n := s.LegAResources(); n > conf.MaxResources {
		return nil, errors.Wrapf(errors.ErrInput, "leg references %d resources, limit is %d", n, conf.MaxResources)
	}
	return s, nil
}

//---- leg B

// AcceptLegBHandler transfers the expected assets from the offeree to the
// offeror.
type AcceptLegBHandler struct {
	*engine
}

var _ pairswap.Handler = AcceptLegBHandler{}

func (h AcceptLegBHandler) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{GasAllocated: settleSwapCost}, nil
}

func (h AcceptLegBHandler) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if s.LegADone {
		if err := h.escrowReleased(db, s); err != nil {
			return nil, errors.Wrap(err, "escrow released by leg A")
		}
	}
	if err := h.payOfferor(ctx, db, s); err != nil {
		return nil, err
	}
	s.LegBDone = true
	if s.LegADone {
		id, err := h.complete(ctx, db, s)
		if err != nil {
			return nil, err
		}
		return transitioned(id, s), nil
	}
	s.State = StateSettling
	if err := h.save(db, s); err != nil {
		return nil, err
	}
	return transitioned(nil, s), nil
}

func (h AcceptLegBHandler) validate(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx) (*Swap, error) {
	var msg AcceptLegBMsg
	if err := pairswap.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	s, err := h.load(db, msg.Swap)
	if err != nil {
		return nil, err
	}
	if err := requireParties(s, msg.Offeror, msg.Offeree); err != nil {
		return nil, err
	}
	if err := h.requireSigner(ctx, s.Offeree, "offeree"); err != nil {
		return nil, err
	}
	switch s.State {
	case StateProposed:
	case StateSettling:
		if s.LegBDone {
			return nil, errors.Wrap(errors.ErrState, "offeree payment already applied")
		}
	default:
		return nil, errors.Wrapf(errors.ErrState, "cannot accept a %s swap", s.State)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if n := s.LegBResources(); n > conf.MaxResources {
		return nil, errors.Wrapf(errors.ErrInput, "leg references %d resources, limit is %d", n, conf.MaxResources)
	}
	return s, nil
}
