package pdftable

import (
	"sort"
	"strconv"
	"strings"
)

// textRun is one positioned piece of page text.
type textRun struct {
	x, y float64
	text string
}

// parseContentStream interprets the text operators of a PDF content stream
// and returns positioned text runs. Positioning is tracked through Tm, Td,
// TD, TL and T*; text is shown via Tj, TJ, ' and ". This covers the
// generated, text-based documents the menu source produces; scanned or
// exotically transformed PDFs are out of scope.
func parseContentStream(data []byte) []textRun {
	var runs []textRun
	var operands []token

	// Text state. lx/ly track the start of the current line so Td and T*
	// move relative to it.
	var x, y, lx, ly, leading float64
	var cur *textRun

	emit := func(s string) {
		if s == "" {
			return
		}
		if cur != nil && cur.x == x && cur.y == y {
			cur.text += s
			return
		}
		runs = append(runs, textRun{x: x, y: y, text: s})
		cur = &runs[len(runs)-1]
	}
	move := func(nx, ny float64) {
		x, y = nx, ny
		cur = nil
	}

	for _, tok := range tokenize(data) {
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "BT":
			lx, ly, leading = 0, 0, 0
			move(0, 0)
		case "Tm":
			if nums := numbers(operands, 6); nums != nil {
				lx, ly = nums[4], nums[5]
				move(lx, ly)
			}
		case "Td":
			if nums := numbers(operands, 2); nums != nil {
				lx += nums[0]
				ly += nums[1]
				move(lx, ly)
			}
		case "TD":
			if nums := numbers(operands, 2); nums != nil {
				leading = -nums[1]
				lx += nums[0]
				ly += nums[1]
				move(lx, ly)
			}
		case "TL":
			if nums := numbers(operands, 1); nums != nil {
				leading = nums[0]
			}
		case "T*":
			ly -= lineAdvance(leading)
			move(lx, ly)
		case "Tj":
			if s := lastString(operands); s != "" {
				emit(s)
			}
		case "'":
			ly -= lineAdvance(leading)
			move(lx, ly)
			if s := lastString(operands); s != "" {
				emit(s)
			}
		case "\"":
			ly -= lineAdvance(leading)
			move(lx, ly)
			if s := lastString(operands); s != "" {
				emit(s)
			}
		case "TJ":
			// Concatenate the string elements of the array; kerning
			// numbers are ignored.
			var sb strings.Builder
			for _, op := range operands {
				if op.kind == tokString {
					sb.WriteString(op.text)
				}
			}
			emit(sb.String())
		}
		operands = operands[:0]
	}

	return runs
}

// lineAdvance falls back to a nominal line height when the stream never set
// a leading.
func lineAdvance(leading float64) float64 {
	if leading == 0 {
		return 12
	}
	return leading
}

func numbers(operands []token, n int) []float64 {
	var nums []float64
	for _, op := range operands {
		if op.kind == tokNumber {
			v, err := strconv.ParseFloat(op.text, 64)
			if err != nil {
				return nil
			}
			nums = append(nums, v)
		}
	}
	if len(nums) < n {
		return nil
	}
	return nums[len(nums)-n:]
}

func lastString(operands []token) string {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == tokString {
			return operands[i].text
		}
	}
	return ""
}

// layoutText arranges runs into reading order: lines by descending y, runs
// within a line by ascending x, joined with single spaces.
func layoutText(runs []textRun, rowTol float64) string {
	lines := clusterRows(runs, rowTol)
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, r := range line {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.TrimSpace(r.text))
		}
	}
	return sb.String()
}

// buildMatrix buckets runs into a row×column grid. Rows cluster on y within
// rowTol; columns cluster on x within colTol across the whole page, so cells
// of one printed column line up even when rows differ.
func buildMatrix(runs []textRun, rowTol, colTol float64) [][]string {
	lines := clusterRows(runs, rowTol)
	if len(lines) == 0 {
		return nil
	}

	cols := clusterColumns(runs, colTol)

	matrix := make([][]string, len(lines))
	for i, line := range lines {
		row := make([]string, len(cols))
		for _, r := range line {
			c := columnIndex(cols, r.x, colTol)
			if row[c] != "" {
				row[c] += " "
			}
			row[c] += strings.TrimSpace(r.text)
		}
		matrix[i] = row
	}
	return matrix
}

// clusterRows groups runs into lines by y position, top of page first.
func clusterRows(runs []textRun, rowTol float64) [][]textRun {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]textRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y > sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var lines [][]textRun
	for _, r := range sorted {
		if len(lines) == 0 || lines[len(lines)-1][0].y-r.y > rowTol {
			lines = append(lines, []textRun{r})
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], r)
	}
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].x < line[j].x })
	}
	return lines
}

// clusterColumns derives the column start positions of the page grid.
func clusterColumns(runs []textRun, colTol float64) []float64 {
	xs := make([]float64, 0, len(runs))
	for _, r := range runs {
		xs = append(xs, r.x)
	}
	sort.Float64s(xs)

	var cols []float64
	for _, x := range xs {
		if len(cols) == 0 || x-cols[len(cols)-1] > colTol {
			cols = append(cols, x)
		}
	}
	return cols
}

func columnIndex(cols []float64, x, colTol float64) int {
	// cols is ascending; the run belongs to the last column starting at or
	// before its position (within tolerance).
	idx := 0
	for i, c := range cols {
		if x >= c-colTol {
			idx = i
		}
	}
	return idx
}
