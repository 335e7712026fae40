package types

import (
	"math/rand"
	"time"
)

// Helpers for constructing light blocks in tests. Nothing produced here is
// cryptographically meaningful.

// RandValidatorSet returns a validator set with numValidators random
// validators of equal voting power.
func RandValidatorSet(numValidators int) *ValidatorSet {
	vals := make([]*Validator, numValidators)
	for i := range vals {
		vals[i] = &Validator{
			Address:     randBytes(20),
			PubKey:      randBytes(32),
			VotingPower: 100,
		}
	}
	return &ValidatorSet{Validators: vals, Proposer: vals[0]}
}

// MakeLightBlock returns a structurally valid light block at the given
// height.
func MakeLightBlock(chainID string, height int64, vals *ValidatorSet) *LightBlock {
	blockTime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(height) * time.Second)

	header := &Header{
		ChainID:            chainID,
		Height:             height,
		Time:               blockTime,
		ValidatorsHash:     randBytes(32),
		NextValidatorsHash: randBytes(32),
		AppHash:            randBytes(32),
		ProposerAddress:    vals.Proposer.Address,
	}

	commit := &Commit{
		Height:  height,
		Round:   1,
		BlockID: BlockID{Hash: randBytes(32)},
		Signatures: []CommitSig{{
			ValidatorAddress: vals.Proposer.Address,
			Timestamp:        blockTime,
			Signature:        randBytes(64),
		}},
	}

	return &LightBlock{
		SignedHeader: &SignedHeader{Header: header, Commit: commit},
		ValidatorSet: vals,
	}
}

func randBytes(n int) []byte {
	bz := make([]byte, n)
	rand.Read(bz) //nolint:gosec // test data only
	return bz
}
