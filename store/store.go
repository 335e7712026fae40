// Package store defines the contract for persisting light blocks by
// verification status as the light client works through them. A block moves
// Unverified -> Verified -> Trusted as verification proceeds, or sideways to
// Failed on rejection; for any height at most one status holds an entry,
// provided every status change goes through Update.
package store

import (
	"github.com/tendermint/lightstore/types"
)

// Store is anything that can persistently store light blocks, partitioned
// by verification status.
//
// Implementations must be safe for concurrent use: a verification loop may
// call Update while read-only observers call Get or Latest. Update is not
// required to be atomic across its internal steps, so a concurrent reader
// may observe a height as absent from every status mid-transition.
type Store interface {
	// Get returns the light block stored at height under exactly the given
	// status, or nil if there is none. A height held under a different
	// status is absent here.
	//
	// height must be > 0.
	Get(height int64, status Status) (*types.LightBlock, error)

	// Insert adds the block under its own height into the given status's
	// table only. It does not clear the other statuses, so it is meant for
	// the first insertion of a new height (e.g. a freshly fetched block, or
	// a trust anchor landing directly in Trusted), never for status changes.
	Insert(lb *types.LightBlock, status Status) error

	// Update moves the block's height to the given status. It is the only
	// operation that guarantees exclusivity: the height is removed from
	// every other status before the block is written under the target one.
	// Last writer wins when two updates race on the same height.
	Update(lb *types.LightBlock, status Status) error

	// Remove deletes the entry at height from the given status's table
	// only. Removing an absent height is not an error.
	//
	// height must be > 0.
	Remove(height int64, status Status) error

	// Latest returns the highest light block stored under status, or nil if
	// that status holds nothing. Cost is linear in the size of the status's
	// table.
	Latest(status Status) (*types.LightBlock, error)

	// Lowest returns the lowest light block stored under status, or nil if
	// that status holds nothing.
	Lowest(status Status) (*types.LightBlock, error)

	// Size returns the number of light blocks currently stored under
	// status. Rows that can no longer be decoded do not count; Size
	// agrees with what All yields.
	Size(status Status) (int, error)

	// All returns a lazy, single-pass cursor over the blocks stored under
	// status. It reflects what is visible as the scan proceeds; it is not a
	// frozen snapshot unless the implementation provides one. The caller
	// must Close it.
	All(status Status) (Iterator, error)
}

// Iterator is a lazy cursor over stored light blocks.
//
//	it, err := s.All(store.Verified)
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next() {
//		lb := it.Block()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator interface {
	// Next advances the cursor, returning false when it is exhausted.
	Next() bool

	// Block returns the light block the last call to Next advanced to.
	Block() *types.LightBlock

	// Err returns the error that ended the scan early, if any.
	Err() error

	// Close releases the cursor.
	Close() error
}

// GetTrustedOrVerified looks up height first in the Trusted table, then in
// Verified. The bisection scheduler treats both as acceptable anchors.
func GetTrustedOrVerified(s Store, height int64) (*types.LightBlock, error) {
	lb, err := s.Get(height, Trusted)
	if err != nil || lb != nil {
		return lb, err
	}
	return s.Get(height, Verified)
}

// LatestTrustedOrVerified returns the highest block that is either trusted
// or verified, preferring the trusted one at equal heights.
func LatestTrustedOrVerified(s Store) (*types.LightBlock, error) {
	trusted, err := s.Latest(Trusted)
	if err != nil {
		return nil, err
	}
	verified, err := s.Latest(Verified)
	if err != nil {
		return nil, err
	}

	switch {
	case trusted == nil:
		return verified, nil
	case verified == nil:
		return trusted, nil
	case verified.Height > trusted.Height:
		return verified, nil
	default:
		return trusted, nil
	}
}

// LowestTrustedOrVerified returns the lowest block that is either trusted
// or verified, preferring the trusted one at equal heights.
func LowestTrustedOrVerified(s Store) (*types.LightBlock, error) {
	trusted, err := s.Lowest(Trusted)
	if err != nil {
		return nil, err
	}
	verified, err := s.Lowest(Verified)
	if err != nil {
		return nil, err
	}

	switch {
	case trusted == nil:
		return verified, nil
	case verified == nil:
		return trusted, nil
	case verified.Height < trusted.Height:
		return verified, nil
	default:
		return trusted, nil
	}
}
