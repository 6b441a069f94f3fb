package pairswap

import (
	"testing"

	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/swaptest/assert"
)

type demoMsg struct {
	Num int
	Err error
}

func (demoMsg) Path() string               { return "demo/num" }
func (m demoMsg) Validate() error          { return m.Err }
func (demoMsg) Marshal() ([]byte, error)   { return []byte("demo"), nil }
func (*demoMsg) Unmarshal(bz []byte) error { return nil }

var _ Msg = (*demoMsg)(nil)

type otherMsg struct{ demoMsg }

type demoTx struct {
	msg Msg
	err error
}

func (tx demoTx) GetMsg() (Msg, error)    { return tx.msg, tx.err }
func (demoTx) Marshal() ([]byte, error)   { return nil, nil }
func (*demoTx) Unmarshal(bz []byte) error { return nil }

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      Tx
		dest    interface{}
		wantErr *errors.Error
		wantNum int
	}{
		"pointer message": {
			tx:      &demoTx{msg: &demoMsg{Num: 7}},
			dest:    &demoMsg{},
			wantNum: 7,
		},
		"invalid message": {
			tx:      &demoTx{msg: &demoMsg{Err: errors.ErrAmount}},
			dest:    &demoMsg{},
			wantErr: errors.ErrAmount,
		},
		"no message": {
			tx:      &demoTx{},
			dest:    &demoMsg{},
			wantErr: errors.ErrInput,
		},
		"message error": {
			tx:      &demoTx{err: errors.ErrNotFound},
			dest:    &demoMsg{},
			wantErr: errors.ErrNotFound,
		},
		"destination not a pointer": {
			tx:      &demoTx{msg: &demoMsg{}},
			dest:    demoMsg{},
			wantErr: errors.ErrType,
		},
		"destination of another type": {
			tx:      &demoTx{msg: &demoMsg{}},
			dest:    &otherMsg{},
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := LoadMsg(tc.tx, tc.dest)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantNum, tc.dest.(*demoMsg).Num)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "demo/num", GetPath(&demoTx{msg: &demoMsg{}}))
	assert.Equal(t, "(missing)", GetPath(&demoTx{}))
	assert.Equal(t, "(missing)", GetPath(&demoTx{err: errors.ErrInput}))
}
