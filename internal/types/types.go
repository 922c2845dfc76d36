package types

// AlignResult summarizes one alignment run.
type AlignResult struct {
	FeaturesFile  string
	LabelsFile    string
	XFile         string
	YFile         string
	Column        int
	Matched       int
	Unmatched     int
	UnmatchedKeys []string
}

// TotalRows returns the number of feature rows the run examined.
func (r *AlignResult) TotalRows() int {
	return r.Matched + r.Unmatched
}
