package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/crypto"
	"github.com/iov-one/pairswap/errors"
)

// SignCodeV1 prefixes every signed digest.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of the transaction and
// increments the sequence of each signer. It returns the conditions of all
// signers, in signature order.
func VerifyTxSignatures(store pairswap.KVStore, tx SignedTx, chainID string) ([]pairswap.Condition, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	var signers []pairswap.Condition
	for i, sig := range tx.GetSignatures() {
		signer, err := VerifySignature(store, sig, signBytes, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks a single signature. The signer account is created
// on first use and its sequence must match the signed one.
func VerifySignature(db pairswap.KVStore, sig *StdSignature, signBytes []byte, chainID string) (pairswap.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	user, err := getOrCreate(db, bucket, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if _, err := bucket.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

/*
BuildSignBytes returns the digest a participant signs:

	sha512(SignCodeV1 | len(chainID) | chainID | sequence | signBytes)

The chain id length is a single byte and the sequence is encoded as
8 bytes big endian. Binding the chain id and the sequence to the digest
prevents replaying a signature on another chain or a second time.
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !pairswap.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{uint8(len(chainID))})
	h.Write([]byte(chainID))
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	h.Write(nonce[:])
	h.Write(signBytes)
	return h.Sum(nil), nil
}

// BuildSignBytesTx returns the digest of the transaction for given sequence.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx signs the transaction with the next sequence of the signer.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
