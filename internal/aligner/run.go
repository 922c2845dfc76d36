package aligner

import (
	"fmt"

	"xymaker/internal/types"
)

// Options configures a single alignment run.
type Options struct {
	FeaturesFile  string
	LabelsFile    string
	Column        int  // 1-based column of the labels file to extract
	KeepUnmatched bool // emit unmatched rows with an empty label instead of dropping them
	XFile         string
	YFile         string
	Delimiter     rune
}

// Run loads both input tables, aligns them, and writes the x and y output
// files. Both inputs are read and validated before any output is created, so
// a fatal error never leaves a partial x.csv or y.csv behind. Unmatched
// feature rows are not an error; they are reported in the result.
func Run(opts Options, progressChan chan<- float64) (*types.AlignResult, error) {
	features, err := ReadTable(opts.FeaturesFile, opts.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("dataset file: %w", err)
	}

	labels, err := ReadTable(opts.LabelsFile, opts.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("target file: %w", err)
	}

	if err := ValidateColumn(labels, opts.Column); err != nil {
		return nil, err
	}

	lookup := BuildLookup(labels)
	x, y, unmatchedKeys := Align(features, lookup, opts.Column, opts.KeepUnmatched, progressChan)

	if err := WriteCSV(opts.XFile, x, opts.Delimiter); err != nil {
		return nil, err
	}

	yRows := make([][]string, len(y))
	for i, v := range y {
		yRows[i] = []string{v}
	}
	if err := WriteCSV(opts.YFile, yRows, opts.Delimiter); err != nil {
		return nil, err
	}

	matched := len(y)
	if opts.KeepUnmatched {
		matched -= len(unmatchedKeys)
	}

	return &types.AlignResult{
		FeaturesFile:  opts.FeaturesFile,
		LabelsFile:    opts.LabelsFile,
		XFile:         opts.XFile,
		YFile:         opts.YFile,
		Column:        opts.Column,
		Matched:       matched,
		Unmatched:     len(unmatchedKeys),
		UnmatchedKeys: unmatchedKeys,
	}, nil
}
