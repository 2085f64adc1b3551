// Package grid maps a character console onto a fixed cell layout.
package grid

import "strings"

// GetGridCoords converts a linear cell index into column and row for a grid
// cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Wrap breaks text into rows of at most cols runes, splitting on newlines
// first. Only the last maxRows rows are kept, so output scrolls like a
// terminal. A maxRows of 0 keeps everything.
func Wrap(text string, cols, maxRows int) []string {
	if cols <= 0 {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	var rows []string
	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			rows = append(rows, "")
			continue
		}
		for i := 0; i < len(runes); i += cols {
			end := i + cols
			if end > len(runes) {
				end = len(runes)
			}
			rows = append(rows, string(runes[i:end]))
		}
	}

	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}
	return rows
}

// Cells lays rows out cell by cell, calling put with the rune and its grid
// position. Blank cells are skipped.
func Cells(rows []string, put func(r rune, x, y int)) {
	for y, row := range rows {
		x := 0
		for _, r := range row {
			if r != ' ' {
				put(r, x, y)
			}
			x++
		}
	}
}
