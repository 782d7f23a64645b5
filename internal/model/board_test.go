package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardApply(t *testing.T) {
	var b Board

	require.NoError(t, b.Apply(5, SymbolX))
	assert.Equal(t, SymbolX, b[4])

	// Occupied cell is rejected without change
	err := b.Apply(5, SymbolO)
	assert.ErrorIs(t, err, ErrCellOccupied)
	assert.Equal(t, SymbolX, b[4])

	// Out-of-range positions are rejected
	assert.ErrorIs(t, b.Apply(0, SymbolO), ErrInvalidPosition)
	assert.ErrorIs(t, b.Apply(10, SymbolO), ErrInvalidPosition)
	assert.ErrorIs(t, b.Apply(-3, SymbolO), ErrInvalidPosition)
}

func TestBoardWinDetection(t *testing.T) {
	triples := [][3]int{
		{1, 2, 3}, {4, 5, 6}, {7, 8, 9},
		{1, 4, 7}, {2, 5, 8}, {3, 6, 9},
		{1, 5, 9}, {3, 5, 7},
	}

	for _, tr := range triples {
		// Every permutation of the winning sequence must be detected
		perms := [][3]int{
			{tr[0], tr[1], tr[2]},
			{tr[2], tr[0], tr[1]},
			{tr[1], tr[2], tr[0]},
		}
		for _, p := range perms {
			var b Board
			for _, pos := range p {
				require.NoError(t, b.Apply(pos, SymbolX))
			}
			assert.True(t, b.HasWin(SymbolX), "triple %v should win", p)
			assert.False(t, b.HasWin(SymbolO))
		}
	}
}

func TestBoardNonWinningCellsDoNotWin(t *testing.T) {
	var b Board
	for _, pos := range []int{5, 9, 7} {
		require.NoError(t, b.Apply(pos, SymbolX))
	}
	assert.False(t, b.HasWin(SymbolX))
}

func TestBoardFullWithoutTripleIsNotAWin(t *testing.T) {
	// X:1 O:3 X:2 O:4 X:6 O:5 X:7 O:8 X:9 fills the board with no line
	var b Board
	moves := []struct {
		pos int
		sym Symbol
	}{
		{1, SymbolX}, {3, SymbolO}, {2, SymbolX}, {4, SymbolO},
		{6, SymbolX}, {5, SymbolO}, {7, SymbolX}, {8, SymbolO}, {9, SymbolX},
	}
	for _, m := range moves {
		require.NoError(t, b.Apply(m.pos, m.sym))
	}
	assert.True(t, b.IsFull())
	assert.False(t, b.HasWin(SymbolX))
	assert.False(t, b.HasWin(SymbolO))
}

func TestBoardRender(t *testing.T) {
	var b Board
	assert.Equal(t, "1|2|3\n-+-+-\n4|5|6\n-+-+-\n7|8|9\n", b.Render())

	require.NoError(t, b.Apply(5, SymbolX))
	require.NoError(t, b.Apply(1, SymbolO))
	assert.Equal(t, "O|2|3\n-+-+-\n4|X|6\n-+-+-\n7|8|9\n", b.Render())
}

func TestBoardReset(t *testing.T) {
	var b Board
	require.NoError(t, b.Apply(1, SymbolX))
	b.Reset()
	assert.Equal(t, Board{}, b)
}

func TestSymbolOther(t *testing.T) {
	assert.Equal(t, SymbolO, SymbolX.Other())
	assert.Equal(t, SymbolX, SymbolO.Other())
}
