package objgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relstream/fudge/errs"
)

func TestRefGuardEnterLeaveAllowsReentry(t *testing.T) {
	g := newRefGuard()

	require.NoError(t, g.enter(0))
	g.leave(0)
	require.NoError(t, g.enter(0))
	require.Equal(t, 2, g.count())
}

func TestRefGuardEnterTwiceWithoutLeaveFails(t *testing.T) {
	g := newRefGuard()

	require.NoError(t, g.enter(3))

	err := g.enter(3)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrNotRegisteredBeforeRef))
}

func TestRefGuardTracksDistinctRefIDsIndependently(t *testing.T) {
	g := newRefGuard()

	require.NoError(t, g.enter(1))
	require.NoError(t, g.enter(2))
	require.Equal(t, 2, g.count())

	// 1 is still in progress, but entering 2 again should fail regardless
	// of 1's state.
	err := g.enter(2)
	require.Error(t, err)
}

func TestRefGuardLeaveUnknownRefIDIsNoop(t *testing.T) {
	g := newRefGuard()

	require.NotPanics(t, func() {
		g.leave(42)
	})
	require.Equal(t, 0, g.count())
}
