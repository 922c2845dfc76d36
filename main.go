package main

import (
	"fmt"
	"os"

	"xymaker/internal/aligner"
	"xymaker/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		datasetFile   string
		targetFile    string
		column        int
		xFile         string
		yFile         string
		delimiter     string
		keepUnmatched bool
	)

	cmd := &cobra.Command{
		Use:   "xymaker",
		Short: "Create aligned x and y files from unordered dataset and target files",
		Long: `xymaker matches rows of a dataset (features) file with rows of a target
(labels) file by the value in each file's first column, then writes an
ordered features file (x.csv) and a parallel single-column labels file
(y.csv) ready for machine-learning tooling.

Run without --dataset and --target to pick the files interactively.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetFile == "" && targetFile == "" {
				return runInteractive()
			}
			if datasetFile == "" || targetFile == "" {
				return fmt.Errorf("both --dataset and --target are required")
			}

			delim, err := parseDelimiter(delimiter)
			if err != nil {
				return err
			}
			if column < 1 {
				return fmt.Errorf("column index must be 1 or greater, got %d", column)
			}

			return runBatch(aligner.Options{
				FeaturesFile:  datasetFile,
				LabelsFile:    targetFile,
				Column:        column,
				KeepUnmatched: keepUnmatched,
				XFile:         xFile,
				YFile:         yFile,
				Delimiter:     delim,
			})
		},
	}

	cmd.Flags().StringVarP(&datasetFile, "dataset", "d", "", "unordered dataset file (CSV or XLSX)")
	cmd.Flags().StringVarP(&targetFile, "target", "t", "", "unordered target file (CSV or XLSX)")
	cmd.Flags().IntVarP(&column, "column", "c", 1, "1-based column of the target file to extract as the label")
	cmd.Flags().StringVarP(&xFile, "x-file", "x", "x.csv", "output filename for features")
	cmd.Flags().StringVarP(&yFile, "y-file", "y", "y.csv", "output filename for labels")
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "CSV delimiter character")
	cmd.Flags().BoolVar(&keepUnmatched, "keep-unmatched", false, "keep unmatched rows in x with an empty label in y instead of dropping them")

	return cmd
}

func parseDelimiter(s string) (rune, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return runes[0], nil
}

func runBatch(opts aligner.Options) error {
	fmt.Printf("Creating features file: %s from: %s\n", opts.XFile, opts.FeaturesFile)
	fmt.Printf("Creating labels file: %s from: %s (column: %d)\n", opts.YFile, opts.LabelsFile, opts.Column)

	result, err := aligner.Run(opts, nil)
	if err != nil {
		return err
	}

	for _, key := range result.UnmatchedKeys {
		fmt.Printf("%s No match found for ID %s in target file\n", ui.InfoStyle.Render("Info:"), key)
	}

	fmt.Println("\nProcessing complete:")
	fmt.Printf("  - Records matched: %d\n", result.Matched)
	fmt.Printf("  - Records not matched: %d\n", result.Unmatched)
	fmt.Printf("  - Total input records: %d\n", result.TotalRows())
	fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("Saved %s and %s", result.XFile, result.YFile)))

	return nil
}

func runInteractive() error {
	p := tea.NewProgram(ui.InitialModel(), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
