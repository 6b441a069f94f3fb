package gconf

import (
	"reflect"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/x"
)

// OwnedConfig is a configuration that only its owner may change.
type OwnedConfig interface {
	Configuration
	GetOwner() pairswap.Address
}

// PatchMsg is a message carrying a partial configuration. Non zero fields of
// the patch replace the stored ones.
type PatchMsg interface {
	pairswap.Msg
	ConfigPatch() OwnedConfig
}

// UpdateConfigurationHandler applies PatchMsg messages to the configuration
// of a single package.
type UpdateConfigurationHandler struct {
	pkg  string
	typ  reflect.Type
	auth x.Authenticator
}

var _ pairswap.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler of the configuration of
// pkg. The example must be a pointer to the configuration struct. It is used
// only to learn the type. A configuration missing from the genesis can never
// be created by a message.
func NewUpdateConfigurationHandler(pkg string, example OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	typ := reflect.TypeOf(example)
	if typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		panic("configuration must be a pointer to a struct")
	}
	return UpdateConfigurationHandler{pkg: pkg, typ: typ.Elem(), auth: auth}
}

func (h UpdateConfigurationHandler) Check(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx) (*pairswap.CheckResult, error) {
	if _, err := h.update(ctx, store, tx); err != nil {
		return nil, err
	}
	return &pairswap.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx) (*pairswap.DeliverResult, error) {
	conf, err := h.update(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	pairswap.GetLogger(ctx).Info("configuration updated",
		"pkg", h.pkg, "owner", conf.GetOwner())
	return &pairswap.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) update(ctx pairswap.Context, store pairswap.KVStore, tx pairswap.Tx) (OwnedConfig, error) {
	conf := reflect.New(h.typ).Interface().(OwnedConfig)
	if err := Load(store, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "load current configuration")
	}
	owner := conf.GetOwner()
	if owner == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get transaction message")
	}
	pm, ok := msg.(PatchMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T is not a configuration patch", msg)
	}
	if err := pm.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	p := pm.ConfigPatch()
	if p == nil || reflect.ValueOf(p).IsNil() {
		return nil, errors.Wrap(errors.ErrEmpty, "patch")
	}
	if reflect.TypeOf(p).Elem() != h.typ {
		return nil, errors.Wrapf(errors.ErrType, "patch of %T for %s configuration", p, h.pkg)
	}
	mergeNonZero(reflect.ValueOf(conf).Elem(), reflect.ValueOf(p).Elem())

	if err := Save(store, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "save configuration")
	}
	return conf, nil
}

// mergeNonZero copies every field of src that is not a zero value to dst.
// Both must be values of the same struct type.
func mergeNonZero(dst, src reflect.Value) {
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		if !dst.Field(i).CanSet() {
			continue
		}
		if reflect.DeepEqual(f.Interface(), reflect.Zero(f.Type()).Interface()) {
			continue
		}
		dst.Field(i).Set(f)
	}
}
