package model

import "strings"

// Symbol is a player's mark on the board
type Symbol rune

const (
	SymbolX Symbol = 'X'
	SymbolO Symbol = 'O'
)

// Other returns the opposing symbol
func (s Symbol) Other() Symbol {
	if s == SymbolX {
		return SymbolO
	}
	return SymbolX
}

// BoardSize is the number of cells on a tic-tac-toe board
const BoardSize = 9

// Board is a 3x3 grid in row-major order. Zero means empty.
// Cells are written at most once, Empty -> X or Empty -> O, never reverted.
type Board [BoardSize]Symbol

// winningTriples are the 8 lines that decide a game:
// 3 rows, 3 columns, 2 diagonals.
var winningTriples = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Apply marks cell pos (1-indexed, 1..9) with the given symbol.
// Returns ErrInvalidPosition if pos is out of range and ErrCellOccupied
// if the cell already holds a mark. The board is unchanged on error.
func (b *Board) Apply(pos int, s Symbol) error {
	if pos < 1 || pos > BoardSize {
		return ErrInvalidPosition
	}
	if b[pos-1] != 0 {
		return ErrCellOccupied
	}
	b[pos-1] = s
	return nil
}

// HasWin reports whether the symbol holds one of the winning triples
func (b *Board) HasWin(s Symbol) bool {
	for _, t := range winningTriples {
		if b[t[0]] == s && b[t[1]] == s && b[t[2]] == s {
			return true
		}
	}
	return false
}

// IsFull reports whether all nine cells are marked
func (b *Board) IsFull() bool {
	for _, c := range b {
		if c == 0 {
			return false
		}
	}
	return true
}

// Reset clears the board back to all empty cells
func (b *Board) Reset() {
	*b = Board{}
}

// Render formats the board for the client: empty cells show their
// 1-based index, columns are separated by '|' and rows by '-+-+-'.
func (b *Board) Render() string {
	var sb strings.Builder
	for i := 0; i < BoardSize; i++ {
		if b[i] == 0 {
			sb.WriteByte(byte('1' + i))
		} else {
			sb.WriteRune(rune(b[i]))
		}
		if i%3 != 2 {
			sb.WriteByte('|')
		}
		if i%3 == 2 && i < 6 {
			sb.WriteString("\n-+-+-\n")
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
