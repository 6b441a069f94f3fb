package swap

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/gconf"
	"github.com/iov-one/pairswap/x"
)

const confPkg = "swap"

// LegOrder constrains the order in which the acceptance legs may run.
type LegOrder int32

const (
	// LegOrderConsentFirst requires the offeree payment (leg B) to be
	// applied before the escrow is released (leg A).
	LegOrderConsentFirst LegOrder = 1
	// LegOrderAny allows the legs in any order.
	LegOrderAny LegOrder = 2
)

var legOrderNames = map[LegOrder]string{
	LegOrderConsentFirst: "consent_first",
	LegOrderAny:          "any",
}

func (o LegOrder) String() string {
	if n, ok := legOrderNames[o]; ok {
		return n
	}
	return fmt.Sprintf("LegOrder(%d)", int32(o))
}

// UnmarshalJSON accepts the order name.
func (o *LegOrder) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "leg order must be a string")
	}
	for order, n := range legOrderNames {
		if n == name {
			*o = order
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown leg order %q", name)
}

// MarshalJSON encodes the order name.
func (o LegOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// minMaxResources is enough for a swap of a single asset on each side to be
// accepted in one operation.
const minMaxResources = baseResources + escrowResources + expectedResources

// DefaultConfiguration returns the configuration used when the genesis does
// not declare one.
func DefaultConfiguration(owner pairswap.Address) Configuration {
	return Configuration{
		Owner:        owner,
		MaxResources: 12,
		LegOrder:     LegOrderConsentFirst,
	}
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() pairswap.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var err error
	if len(c.Owner) != 0 {
		err = errors.Append(err, errors.Wrap(c.Owner.Validate(), "owner"))
	}
	if c.MaxResources < minMaxResources {
		err = errors.Append(err, errors.Wrapf(errors.ErrInput, "max resources must be at least %d", minMaxResources))
	}
	if _, ok := legOrderNames[c.LegOrder]; !ok {
		err = errors.Append(err, errors.Wrapf(errors.ErrInput, "leg order %d", int32(c.LegOrder)))
	}
	if c.VaultRent != nil {
		if e := c.VaultRent.Validate(); e != nil {
			err = errors.Append(err, errors.Wrap(e, "vault rent"))
		} else if c.VaultRent.Amount < 0 {
			err = errors.Append(err, errors.Wrap(errors.ErrAmount, "negative vault rent"))
		}
	}
	return err
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// NewConfigHandler returns a handler of the configuration update message.
func NewConfigHandler(auth x.Authenticator) pairswap.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(confPkg, &conf, auth)
}

var _ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)

func (m *UpdateConfigurationMsg) ConfigPatch() gconf.OwnedConfig {
	if m.Patch == nil {
		return nil
	}
	return m.Patch
}

func (UpdateConfigurationMsg) Path() string {
	return "swap/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if len(m.Patch.Owner) != 0 {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	return nil
}
