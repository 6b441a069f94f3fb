package bundle

import (
	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

const (
	PathExecuteBundleMsg = "bundle/execute"

	// MaxEntries is the maximum number of messages in one bundle.
	MaxEntries = 10
)

var _ pairswap.Msg = (*ExecuteBundleMsg)(nil)

func (*ExecuteBundleMsg) Path() string {
	return PathExecuteBundleMsg
}

// Validate checks the bundle shape. Entry payloads are validated once
// decoded.
func (m *ExecuteBundleMsg) Validate() error {
	switch n := len(m.Entries); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "no entries")
	case n > MaxEntries:
		return errors.Wrapf(errors.ErrInput, "%d entries, limit is %d", n, MaxEntries)
	}
	var err error
	for i, e := range m.Entries {
		switch {
		case e == nil || e.Path == "":
			err = errors.Append(err, errors.Wrapf(errors.ErrEmpty, "entry %d path", i))
		case e.Path == PathExecuteBundleMsg:
			err = errors.Append(err, errors.Wrapf(errors.ErrInput, "entry %d: bundles cannot be nested", i))
		}
	}
	return err
}
