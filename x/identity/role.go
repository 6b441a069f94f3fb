package identity

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/pairswap/errors"
)

// Role is the part a participant plays in a swap.
type Role int32

// Zero is not a valid role, so that a missing value is never mistaken for
// a disengaged participant.
const (
	RoleOfferor Role = 1
	RoleOfferee Role = 2
	RoleNone    Role = 3
)

var roleNames = map[Role]string{
	RoleOfferor: "offeror",
	RoleOfferee: "offeree",
	RoleNone:    "none",
}

// ParseRole converts a role code into a Role.
func ParseRole(code int32) (Role, error) {
	r := Role(code)
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return r, nil
}

// Validate returns ErrInvalidRole for any code outside of the defined set.
func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return errors.Wrapf(ErrInvalidRole, "code %d", int32(r))
	}
	return nil
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", int32(r))
}

// MarshalJSON encodes the role by its name.
func (r Role) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(roleNames[r])
}

// UnmarshalJSON accepts either the role name or its numeric code.
func (r *Role) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		for role, n := range roleNames {
			if n == name {
				*r = role
				return nil
			}
		}
		return errors.Wrapf(ErrInvalidRole, "name %q", name)
	}
	var code int32
	if err := json.Unmarshal(raw, &code); err != nil {
		return errors.Wrap(ErrInvalidRole, err.Error())
	}
	role, err := ParseRole(code)
	if err != nil {
		return err
	}
	*r = role
	return nil
}
