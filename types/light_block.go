package types

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LightBlock is a SignedHeader and a ValidatorSet.
// It is the basis of the light client.
//
// The store layer treats a LightBlock as an opaque value: it is serialized
// and returned verbatim, keyed only by its height. No hash or signature
// verification happens here.
type LightBlock struct {
	*SignedHeader `json:"signed_header"`
	ValidatorSet  *ValidatorSet `json:"validator_set"`
}

// ValidateBasic checks that the data is well formed and consistent.
//
// This does no verification of hashes or signatures.
func (lb LightBlock) ValidateBasic(chainID string) error {
	if lb.SignedHeader == nil {
		return errors.New("missing signed header")
	}
	if lb.ValidatorSet == nil {
		return errors.New("missing validator set")
	}

	if err := lb.SignedHeader.ValidateBasic(chainID); err != nil {
		return fmt.Errorf("invalid signed header: %w", err)
	}
	if err := lb.ValidatorSet.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid validator set: %w", err)
	}

	return nil
}

// String returns a string representation of the LightBlock.
func (lb LightBlock) String() string {
	if lb.SignedHeader == nil || lb.SignedHeader.Header == nil {
		return "LightBlock{nil}"
	}
	return fmt.Sprintf("LightBlock{h: %d, chain: %s}", lb.Height, lb.ChainID)
}

// SignedHeader is a header along with the commit that signed it.
type SignedHeader struct {
	*Header `json:"header"`

	Commit *Commit `json:"commit"`
}

// ValidateBasic does basic consistency checks and makes sure the header and
// commit are consistent.
func (sh SignedHeader) ValidateBasic(chainID string) error {
	if sh.Header == nil {
		return errors.New("missing header")
	}
	if sh.Commit == nil {
		return errors.New("missing commit")
	}

	if err := sh.Header.ValidateBasic(chainID); err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}
	if err := sh.Commit.ValidateBasic(); err != nil {
		return fmt.Errorf("invalid commit: %w", err)
	}

	if sh.Height != sh.Commit.Height {
		return fmt.Errorf("header and commit height mismatch: %d vs %d", sh.Height, sh.Commit.Height)
	}

	return nil
}

// Header defines the structure of a block header, reduced to the fields a
// light client needs.
type Header struct {
	ChainID string    `json:"chain_id"`
	Height  int64     `json:"height"`
	Time    time.Time `json:"time"`

	ValidatorsHash     []byte `json:"validators_hash"`
	NextValidatorsHash []byte `json:"next_validators_hash"`
	AppHash            []byte `json:"app_hash"`

	ProposerAddress []byte `json:"proposer_address"`
}

// ValidateBasic performs stateless validation on a Header.
func (h Header) ValidateBasic(chainID string) error {
	if h.ChainID != chainID {
		return fmt.Errorf("header belongs to another chain %q, not %q", h.ChainID, chainID)
	}
	if h.Height <= 0 {
		return fmt.Errorf("non-positive height: %d", h.Height)
	}
	if h.Time.IsZero() {
		return errors.New("missing time")
	}
	return nil
}

// BlockID identifies a block by the hash of its header.
type BlockID struct {
	Hash []byte `json:"hash"`
}

// Commit contains the evidence that a block was committed by a set of
// validators.
type Commit struct {
	Height     int64       `json:"height"`
	Round      int32       `json:"round"`
	BlockID    BlockID     `json:"block_id"`
	Signatures []CommitSig `json:"signatures"`
}

// ValidateBasic performs basic validation that does not involve state data.
func (c Commit) ValidateBasic() error {
	if c.Height <= 0 {
		return fmt.Errorf("non-positive height: %d", c.Height)
	}
	if c.Round < 0 {
		return fmt.Errorf("negative round: %d", c.Round)
	}
	if len(c.BlockID.Hash) == 0 {
		return errors.New("commit cannot be for nil block")
	}
	if len(c.Signatures) == 0 {
		return errors.New("no signatures in commit")
	}
	return nil
}

// CommitSig is a vote included in a Commit.
type CommitSig struct {
	ValidatorAddress []byte    `json:"validator_address"`
	Timestamp        time.Time `json:"timestamp"`
	Signature        []byte    `json:"signature"`
}

// ValidatorSet holds the validators whose votes are counted in a commit.
type ValidatorSet struct {
	Validators []*Validator `json:"validators"`
	Proposer   *Validator   `json:"proposer"`
}

// ValidateBasic performs basic validation on the validator set.
func (vals ValidatorSet) ValidateBasic() error {
	if len(vals.Validators) == 0 {
		return errors.New("validator set is empty")
	}
	for i, val := range vals.Validators {
		if val == nil {
			return fmt.Errorf("nil validator at index %d", i)
		}
		if err := val.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid validator #%d: %w", i, err)
		}
	}
	if vals.Proposer == nil {
		return errors.New("proposer is not set")
	}
	return nil
}

// HasAddress returns true if the address is in the validator set.
func (vals ValidatorSet) HasAddress(address []byte) bool {
	for _, val := range vals.Validators {
		if bytes.Equal(val.Address, address) {
			return true
		}
	}
	return false
}

// StringIndented returns an indented string representation of the set.
func (vals ValidatorSet) StringIndented(indent string) string {
	valStrings := make([]string, 0, len(vals.Validators))
	for _, val := range vals.Validators {
		valStrings = append(valStrings, val.String())
	}
	return fmt.Sprintf(`ValidatorSet{
%s  Proposer: %v
%s  Validators:
%s    %v
%s}`,
		indent, vals.Proposer,
		indent,
		indent, strings.Join(valStrings, "\n"+indent+"    "),
		indent)
}

// Validator is a single validator: its address, public key and voting power.
type Validator struct {
	Address     []byte `json:"address"`
	PubKey      []byte `json:"pub_key"`
	VotingPower int64  `json:"voting_power"`
}

// ValidateBasic performs basic validation on the validator.
func (v Validator) ValidateBasic() error {
	if len(v.Address) == 0 {
		return errors.New("validator address is missing")
	}
	if len(v.PubKey) == 0 {
		return errors.New("validator public key is missing")
	}
	if v.VotingPower < 0 {
		return fmt.Errorf("negative voting power: %d", v.VotingPower)
	}
	return nil
}

// String returns a short string representation of the validator.
func (v *Validator) String() string {
	if v == nil {
		return "nil-Validator"
	}
	return fmt.Sprintf("Validator{%X VP:%d}", v.Address, v.VotingPower)
}
