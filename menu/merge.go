package menu

import "strings"

// partialCell is the per-day accumulator of the merge state machine: the text
// gathered so far for one logical dish cell and whether a price line has been
// seen. hasPrice is sticky: once true the cell is complete and the next
// non-empty cell for that day opens a fresh one.
type partialCell struct {
	text     string
	hasPrice bool
}

// MergeRows reassembles logically complete cell texts for each day column.
// Table extractors split one dish across several physical rows when its print
// height exceeds the row height; this walks the rows top to bottom and glues
// a day's consecutive cells together until a price line closes the cell.
//
// cols holds the five Monday–Friday column indices. Rows too short to address
// all of them are skipped as ornamental. The result has one slice per day
// column, cells in row order.
func MergeRows(rows [][]string, cols []int) [][]string {
	maxCol := 0
	for _, c := range cols {
		if c > maxCol {
			maxCol = c
		}
	}

	merged := make([][]string, len(cols))
	open := make([]*partialCell, len(cols))

	for _, row := range rows {
		if len(row) <= maxCol {
			continue
		}
		for day, col := range cols {
			cell := row[col]
			if strings.TrimSpace(cell) == "" {
				continue
			}
			hasPrice := cellHasPrice(cell)

			if open[day] != nil && !open[day].hasPrice {
				open[day].text += "\n" + cell
				open[day].hasPrice = open[day].hasPrice || hasPrice
				continue
			}
			if open[day] != nil {
				merged[day] = append(merged[day], open[day].text)
			}
			open[day] = &partialCell{text: cell, hasPrice: hasPrice}
		}
	}

	// A cell that never saw a price line is still finalised as one entry;
	// the dish extractor rejects it later.
	for day, cell := range open {
		if cell != nil {
			merged[day] = append(merged[day], cell.text)
		}
	}
	return merged
}

// cellHasPrice reports whether any line of the cell matches the price line
// pattern.
func cellHasPrice(cell string) bool {
	for _, line := range strings.Split(cell, "\n") {
		if priceLineRe.MatchString(line) {
			return true
		}
	}
	return false
}
