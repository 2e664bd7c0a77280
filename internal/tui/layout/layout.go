// Package layout maps terminal sizes to the board grid.
package layout

import "github.com/mattn/go-runewidth"

// Width thresholds for the tiers.
const (
	SplitViewThreshold = 80
	WideViewThreshold  = 120
	UltraViewThreshold = 200
)

// Tier describes the current width bucket.
type Tier int

const (
	TierNarrow Tier = iota // one column
	TierSplit              // two columns
	TierWide               // three columns
	TierUltra              // four columns
)

// TierForWidth maps a terminal width to a tier.
func TierForWidth(width int) Tier {
	switch {
	case width >= UltraViewThreshold:
		return TierUltra
	case width >= WideViewThreshold:
		return TierWide
	case width >= SplitViewThreshold:
		return TierSplit
	default:
		return TierNarrow
	}
}

// Columns returns the grid column count for width, never more than tiles.
func Columns(width, tiles int) int {
	cols := int(TierForWidth(width)) + 1
	if tiles > 0 && cols > tiles {
		cols = tiles
	}
	return cols
}

// CardWidth returns the outer width of one card when width is split into
// cols cards. The result is at least minCard.
func CardWidth(width, cols int) int {
	const minCard = 24
	if cols <= 0 {
		cols = 1
	}
	w := width / cols
	if w < minCard {
		return minCard
	}
	return w
}

// Rows splits n items into rows of cols, returning each row's indexes.
func Rows(n, cols int) [][]int {
	if cols <= 0 {
		cols = 1
	}
	var rows [][]int
	for start := 0; start < n; start += cols {
		end := start + cols
		if end > n {
			end = n
		}
		row := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, i)
		}
		rows = append(rows, row)
	}
	return rows
}

// Truncate trims s to max display cells, appending "…" when cut. Wide
// glyphs count as two cells.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	return runewidth.Truncate(s, max, "…")
}
