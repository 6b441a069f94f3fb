package gconf

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// ReadStore is the part of a store Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of a store Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is the stored settings entity of a single package.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates and stores the configuration of pkg.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of pkg into dst. It fails with ErrNotFound
// when no configuration was ever saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal %s configuration", pkg)
}

// InitConfig saves the configuration of pkg found in the "conf" section of
// the genesis options, for example
//
//	"conf": {"swap": {"owner": "...", "leg_order": "consent_first"}}
func InitConfig(db Store, opts pairswap.Options, pkg string, conf Configuration) error {
	var sections pairswap.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrapf(errors.ErrInput, "read conf: %s", err)
	}
	if _, ok := sections[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration in genesis", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(errors.ErrInput, "read %s configuration: %s", pkg, err)
	}
	return Save(db, pkg, conf)
}
