package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermint/lightstore/store"
	"github.com/tendermint/lightstore/store/memory"
	"github.com/tendermint/lightstore/types"
)

const chainID = "test-chain"

func TestStatusString(t *testing.T) {
	assert.Equal(t, "unverified", store.Unverified.String())
	assert.Equal(t, "verified", store.Verified.String())
	assert.Equal(t, "trusted", store.Trusted.String())
	assert.Equal(t, "failed", store.Failed.String())
	assert.Contains(t, store.Status(42).String(), "unknown")
}

func TestStatuses(t *testing.T) {
	assert.Equal(t,
		[]store.Status{store.Unverified, store.Verified, store.Trusted, store.Failed},
		store.Statuses())
}

func TestGetTrustedOrVerified(t *testing.T) {
	s := memory.New()
	vals := types.RandValidatorSet(5)

	lb, err := store.GetTrustedOrVerified(s, 10)
	require.NoError(t, err)
	assert.Nil(t, lb)

	verified := types.MakeLightBlock(chainID, 10, vals)
	require.NoError(t, s.Insert(verified, store.Verified))

	lb, err = store.GetTrustedOrVerified(s, 10)
	require.NoError(t, err)
	require.NotNil(t, lb)
	assert.Equal(t, verified, lb)

	// the trusted table wins when both hold the height (only possible via
	// Insert, which does not clear other statuses)
	trusted := types.MakeLightBlock(chainID, 10, vals)
	require.NoError(t, s.Insert(trusted, store.Trusted))

	lb, err = store.GetTrustedOrVerified(s, 10)
	require.NoError(t, err)
	require.NotNil(t, lb)
	assert.Equal(t, trusted, lb)
}

func TestLatestTrustedOrVerified(t *testing.T) {
	s := memory.New()
	vals := types.RandValidatorSet(5)

	lb, err := store.LatestTrustedOrVerified(s)
	require.NoError(t, err)
	assert.Nil(t, lb)

	require.NoError(t, s.Insert(types.MakeLightBlock(chainID, 5, vals), store.Trusted))

	lb, err = store.LatestTrustedOrVerified(s)
	require.NoError(t, err)
	require.NotNil(t, lb)
	assert.EqualValues(t, 5, lb.Height)

	require.NoError(t, s.Insert(types.MakeLightBlock(chainID, 10, vals), store.Verified))

	lb, err = store.LatestTrustedOrVerified(s)
	require.NoError(t, err)
	require.NotNil(t, lb)
	assert.EqualValues(t, 10, lb.Height)

	// blocks under Unverified or Failed never count
	require.NoError(t, s.Insert(types.MakeLightBlock(chainID, 400, vals), store.Unverified))
	require.NoError(t, s.Insert(types.MakeLightBlock(chainID, 500, vals), store.Failed))

	lb, err = store.LatestTrustedOrVerified(s)
	require.NoError(t, err)
	require.NotNil(t, lb)
	assert.EqualValues(t, 10, lb.Height)
}

func TestLowestTrustedOrVerified(t *testing.T) {
	s := memory.New()
	vals := types.RandValidatorSet(5)

	lb, err := store.LowestTrustedOrVerified(s)
	require.NoError(t, err)
	assert.Nil(t, lb)

	require.NoError(t, s.Insert(types.MakeLightBlock(chainID, 20, vals), store.Trusted))
	require.NoError(t, s.Insert(types.MakeLightBlock(chainID, 8, vals), store.Verified))

	lb, err = store.LowestTrustedOrVerified(s)
	require.NoError(t, err)
	require.NotNil(t, lb)
	assert.EqualValues(t, 8, lb.Height)
}
