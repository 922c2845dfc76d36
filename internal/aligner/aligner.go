package aligner

import (
	"fmt"
)

// BuildLookup maps each label row's key (cell 0) to the full row. Rows are
// visited in file order, so a duplicate key keeps the last row seen. Rows
// with no cells carry no key and are skipped.
func BuildLookup(labels [][]string) map[string][]string {
	lookup := make(map[string][]string, len(labels))
	for _, row := range labels {
		if len(row) == 0 {
			continue
		}
		lookup[row[0]] = row
	}
	return lookup
}

// ValidateColumn reports a configuration error when no label row at all has
// the requested 1-based column. An empty labels table passes: every feature
// row is then simply unmatched, which is a data-quality condition, not a
// configuration mistake.
func ValidateColumn(labels [][]string, column int) error {
	if column < 1 {
		return fmt.Errorf("column index must be 1 or greater, got %d", column)
	}
	if len(labels) == 0 {
		return nil
	}
	for _, row := range labels {
		if len(row) >= column {
			return nil
		}
	}
	return fmt.Errorf("column %d is out of range for every row of the labels file", column)
}

// Align walks the feature rows in order and pairs each with the label value
// at the 1-based column of its matching label row. Keys compare by exact
// string equality, so "01" never matches "1".
//
// A feature row is unmatched when its key is absent from lookup, or when the
// matched label row is too short for the requested column. With keepUnmatched
// false the row is dropped from both outputs; with keepUnmatched true the row
// is kept in x and y gets an empty string. Either way x and y stay the same
// length and keep the feature file's relative order.
//
// Progress is reported as a fraction of feature rows via a non-blocking send,
// so a nil or full channel never stalls the run.
func Align(features [][]string, lookup map[string][]string, column int, keepUnmatched bool, progressChan chan<- float64) (x [][]string, y []string, unmatchedKeys []string) {
	totalRows := len(features)

	for i, row := range features {
		if progressChan != nil {
			select {
			case progressChan <- float64(i) / float64(totalRows):
			default:
			}
		}

		if len(row) == 0 {
			continue
		}

		key := row[0]
		labelRow, ok := lookup[key]
		if ok && len(labelRow) >= column {
			x = append(x, row)
			y = append(y, labelRow[column-1])
			continue
		}

		unmatchedKeys = append(unmatchedKeys, key)
		if keepUnmatched {
			x = append(x, row)
			y = append(y, "")
		}
	}

	return x, y, unmatchedKeys
}
