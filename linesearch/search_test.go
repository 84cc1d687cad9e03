package linesearch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/slq/linesearch"
)

func TestSearch_AcceptsFirstSufficientDecrease(t *testing.T) {
	cfg := linesearch.Settings{Beta: 0.5, AlphaMin: 0.0625, DescentFraction: 0.1}

	// cost decreases linearly in alpha: cost(alpha) = 10 - 5*alpha
	eval := func(_ context.Context, alpha float64) (linesearch.Evaluation, error) {
		return linesearch.Evaluation{Cost: 10 - 5*alpha}, nil
	}

	res, err := linesearch.Search(context.Background(), cfg, 10, 5, eval)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Equal(t, 1.0, res.Alpha) // alpha=1 already gives the full predicted decrease
}

func TestSearch_BacktracksWhenFullStepOvershoots(t *testing.T) {
	cfg := linesearch.Settings{Beta: 0.5, AlphaMin: 0.0625, DescentFraction: 0.5}

	// alpha=1 makes things worse (a bad step); alpha=0.5 improves sufficiently.
	eval := func(_ context.Context, alpha float64) (linesearch.Evaluation, error) {
		if alpha >= 1 {
			return linesearch.Evaluation{Cost: 20}, nil
		}

		return linesearch.Evaluation{Cost: 10 - 8*alpha}, nil
	}

	res, err := linesearch.Search(context.Background(), cfg, 10, 8, eval)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Equal(t, 0.5, res.Alpha)
	require.Len(t, res.Tried, 2)
}

func TestSearch_AllRejectedReturnsSmallestAsDiagnostic(t *testing.T) {
	cfg := linesearch.Settings{Beta: 0.5, AlphaMin: 0.25, DescentFraction: 0.5}

	eval := func(_ context.Context, alpha float64) (linesearch.Evaluation, error) {
		return linesearch.Evaluation{Cost: 10}, nil // never improves
	}

	res, err := linesearch.Search(context.Background(), cfg, 10, 8, eval)
	require.Error(t, err)
	require.ErrorIs(t, err, linesearch.ErrAllRejected)
	require.False(t, res.Accepted)
	require.True(t, res.Diagnosed)
	require.InDelta(t, 0.25, res.Alpha, 1e-9)
}

func TestSearch_ParallelPicksLargestAdmissible(t *testing.T) {
	cfg := linesearch.Settings{Beta: 0.5, AlphaMin: 0.125, DescentFraction: 0.1, Parallel: true}

	eval := func(_ context.Context, alpha float64) (linesearch.Evaluation, error) {
		return linesearch.Evaluation{Cost: 10 - 5*alpha}, nil
	}

	res, err := linesearch.Search(context.Background(), cfg, 10, 5, eval)
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Equal(t, 1.0, res.Alpha)
}

func TestSearch_RejectsInvalidSettings(t *testing.T) {
	cfg := linesearch.Settings{Beta: 1.5, AlphaMin: 0.1, DescentFraction: 0.1}
	_, err := linesearch.Search(context.Background(), cfg, 10, 5, func(context.Context, float64) (linesearch.Evaluation, error) {
		return linesearch.Evaluation{}, nil
	})
	require.True(t, errors.Is(err, linesearch.ErrInvalidSettings))
}
