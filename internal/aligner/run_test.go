package aligner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testOptions(dir string) Options {
	return Options{
		FeaturesFile: filepath.Join(dir, "dataset.csv"),
		LabelsFile:   filepath.Join(dir, "target.csv"),
		Column:       2,
		XFile:        filepath.Join(dir, "x.csv"),
		YFile:        filepath.Join(dir, "y.csv"),
		Delimiter:    ',',
	}
}

func TestRun(t *testing.T) {
	tmpDir := t.TempDir()
	opts := testOptions(tmpDir)

	writeFile(t, opts.FeaturesFile, "ID,F1\n01,0.35\n02,0.86\n03,1.44\n")
	writeFile(t, opts.LabelsFile, "ID,L1,L2\n10,1,0\n01,0,1\n03,1,0\n")

	result, err := Run(opts, nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if result.Matched != 3 {
		t.Errorf("Matched = %d; want 3", result.Matched)
	}
	if result.Unmatched != 1 {
		t.Errorf("Unmatched = %d; want 1", result.Unmatched)
	}
	if !reflect.DeepEqual(result.UnmatchedKeys, []string{"02"}) {
		t.Errorf("UnmatchedKeys = %v; want [02]", result.UnmatchedKeys)
	}

	x, err := ReadTable(opts.XFile, ',')
	if err != nil {
		t.Fatal(err)
	}
	wantX := [][]string{
		{"ID", "F1"},
		{"01", "0.35"},
		{"03", "1.44"},
	}
	if !reflect.DeepEqual(x, wantX) {
		t.Errorf("x.csv = %v; want %v", x, wantX)
	}

	y, err := ReadTable(opts.YFile, ',')
	if err != nil {
		t.Fatal(err)
	}
	wantY := [][]string{
		{"L1"},
		{"0"},
		{"1"},
	}
	if !reflect.DeepEqual(y, wantY) {
		t.Errorf("y.csv = %v; want %v", y, wantY)
	}
}

func TestRunKeepUnmatched(t *testing.T) {
	tmpDir := t.TempDir()
	opts := testOptions(tmpDir)
	opts.KeepUnmatched = true

	writeFile(t, opts.FeaturesFile, "01,0.1\n02,0.2\n")
	writeFile(t, opts.LabelsFile, "01,A\n")

	result, err := Run(opts, nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Matched != 1 || result.Unmatched != 1 {
		t.Errorf("Matched/Unmatched = %d/%d; want 1/1", result.Matched, result.Unmatched)
	}

	x, err := ReadTable(opts.XFile, ',')
	if err != nil {
		t.Fatal(err)
	}
	if len(x) != 2 {
		t.Errorf("x.csv has %d rows; want 2", len(x))
	}

	content, err := os.ReadFile(opts.YFile)
	if err != nil {
		t.Fatal(err)
	}
	// Unmatched row keeps its place in y as an empty value.
	if string(content) != "A\n\"\"\n" && string(content) != "A\n\n" {
		t.Errorf("y.csv = %q; want the matched value then an empty label", content)
	}
}

func TestRunEmptyTarget(t *testing.T) {
	tmpDir := t.TempDir()
	opts := testOptions(tmpDir)

	writeFile(t, opts.FeaturesFile, "01,0.1\n02,0.2\n")
	writeFile(t, opts.LabelsFile, "")

	result, err := Run(opts, nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Matched != 0 {
		t.Errorf("Matched = %d; want 0", result.Matched)
	}
	if result.Unmatched != 2 {
		t.Errorf("Unmatched = %d; want 2", result.Unmatched)
	}

	for _, path := range []string{opts.XFile, opts.YFile} {
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(content) != 0 {
			t.Errorf("%s = %q; want empty", filepath.Base(path), content)
		}
	}
}

func TestRunColumnOutOfRange(t *testing.T) {
	tmpDir := t.TempDir()
	opts := testOptions(tmpDir)
	opts.Column = 5

	writeFile(t, opts.FeaturesFile, "01,0.1\n")
	writeFile(t, opts.LabelsFile, "01,A\n02,B\n")

	if _, err := Run(opts, nil); err == nil {
		t.Fatal("expected a configuration error for a column beyond every target row")
	}

	// A fatal error must not leave partial outputs behind.
	for _, path := range []string{opts.XFile, opts.YFile} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s was written despite the fatal error", filepath.Base(path))
		}
	}
}

func TestRunMissingInput(t *testing.T) {
	tmpDir := t.TempDir()
	opts := testOptions(tmpDir)

	writeFile(t, opts.FeaturesFile, "01,0.1\n")

	if _, err := Run(opts, nil); err == nil {
		t.Fatal("expected an error for a missing target file")
	}
}

func TestRunMalformedCSV(t *testing.T) {
	tmpDir := t.TempDir()
	opts := testOptions(tmpDir)

	writeFile(t, opts.FeaturesFile, "01,\"unclosed\n")
	writeFile(t, opts.LabelsFile, "01,A\n")

	if _, err := Run(opts, nil); err == nil {
		t.Fatal("expected a format error for malformed CSV")
	}

	for _, path := range []string{opts.XFile, opts.YFile} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s was written despite the fatal error", filepath.Base(path))
		}
	}
}
