package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/internal/journal"
	"github.com/FocuswithJustin/seqconvert/internal/report"
)

// captureOutput redirects the command output to buffers for one test.
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr, prevColor := stdout, stderr, color.NoColor
	stdout, stderr, color.NoColor = out, errOut, true
	t.Cleanup(func() {
		stdout, stderr, color.NoColor = prevOut, prevErr, prevColor
	})
	return out, errOut
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestConvertCmdFile(t *testing.T) {
	_, errOut := captureOutput(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.fas")
	dst := filepath.Join(dir, "out.tab")
	writeFile(t, src, ">a\nACGT\n>b\nAC\n")

	cmd := &ConvertCmd{
		Input:   src,
		Output:  dst,
		Journal: filepath.Join(dir, "journal.db"),
		Report:  filepath.Join(dir, "report.yaml"),
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if got, want := string(data), "seqid\tsequence\na\tACGT\nb\tAC\n"; got != want {
		t.Errorf("Expected output %q, got %q", want, got)
	}
	if !strings.Contains(errOut.String(), "2 records (fasta to tab)") {
		t.Errorf("Expected summary line, got %q", errOut.String())
	}

	j, err := journal.Open(cmd.Journal)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	defer j.Close()
	runs, err := j.Runs(context.Background(), 10)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Files != 1 || runs[0].Failed != 0 {
		t.Fatalf("Expected one run with one file, got %+v", runs)
	}
	if runs[0].FinishedAt == nil {
		t.Error("Expected run to be finished")
	}

	f, err := os.Open(cmd.Report)
	if err != nil {
		t.Fatalf("Failed to open report: %v", err)
	}
	defer f.Close()
	b, err := report.Decode(f, report.FormatYAML)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b.RunID != runs[0].ID {
		t.Errorf("Expected run ID %s in report, got %s", runs[0].ID, b.RunID)
	}
	if len(b.Files) != 1 || b.Files[0].RecordsWritten != 2 {
		t.Errorf("Expected one file with 2 records, got %+v", b.Files)
	}
}

func TestConvertCmdWarnings(t *testing.T) {
	_, errOut := captureOutput(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.tab")
	writeFile(t, src, "seqid\tsequence\na\tACGT\nb\tAC\n")

	cmd := &ConvertCmd{Input: src, Output: filepath.Join(dir, "out.phy")}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(errOut.String(), "warning: "+src) {
		t.Errorf("Expected padding warning, got %q", errOut.String())
	}
}

func TestConvertCmdOptions(t *testing.T) {
	cmd := &ConvertCmd{AllowEmptySequences: true, NoAutomaticRenaming: true, PreserveSpaces: true}
	opts := cmd.options()
	if !opts.AllowEmptySequences || opts.AutomaticRenaming || !opts.PreserveSpaces {
		t.Errorf("Unexpected options %+v", opts)
	}

	opts = (&ConvertCmd{}).options()
	if opts.AllowEmptySequences || !opts.AutomaticRenaming || opts.PreserveSpaces {
		t.Errorf("Unexpected default options %+v", opts)
	}
}

func TestConvertCmdDirectory(t *testing.T) {
	_, errOut := captureOutput(t)
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "one.fas"), ">a\nACGT\n")
	writeFile(t, filepath.Join(src, "two.fas"), "not fasta\n")

	cmd := &ConvertCmd{
		Input:  src,
		Output: filepath.Join(dst, "#.tab"),
		Report: filepath.Join(dst, "report.json"),
	}
	err := cmd.Run()
	var batch *errors.BatchError
	if !errors.As(err, &batch) || len(batch.Failures) != 1 {
		t.Fatalf("Expected one batch failure, got %v", err)
	}
	if exitCode(err) != 1 {
		t.Errorf("Expected exit code 1, got %d", exitCode(err))
	}

	if _, err := os.Stat(filepath.Join(dst, "one.tab")); err != nil {
		t.Errorf("Expected one.tab to be written: %v", err)
	}
	if !strings.Contains(errOut.String(), "error: ") {
		t.Errorf("Expected error line, got %q", errOut.String())
	}

	f, err := os.Open(cmd.Report)
	if err != nil {
		t.Fatalf("Failed to open report: %v", err)
	}
	defer f.Close()
	b, err := report.Decode(f, report.FormatJSON)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(b.Files) != 2 || b.Failed != 1 {
		t.Errorf("Expected 2 files with 1 failure, got %d files, %d failed", len(b.Files), b.Failed)
	}
}

func TestConvertCmdUnknownFormat(t *testing.T) {
	captureOutput(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.fas")
	writeFile(t, src, ">a\nACGT\n")

	err := (&ConvertCmd{Input: src, Output: filepath.Join(dir, "out.xyz")}).Run()
	if !errors.Is(err, errors.ErrFormatUnknown) {
		t.Fatalf("Expected ErrFormatUnknown, got %v", err)
	}
	if exitCode(err) != 2 {
		t.Errorf("Expected exit code 2, got %d", exitCode(err))
	}
}

func TestFormatsCmd(t *testing.T) {
	out, _ := captureOutput(t)
	if err := (&FormatsCmd{}).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 13 {
		t.Fatalf("Expected header and 12 formats, got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("Expected header first, got %q", lines[0])
	}
	var genbank string
	for _, l := range lines {
		if strings.HasPrefix(l, "genbank ") {
			genbank = l
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(genbank), "yes   no") {
		t.Errorf("Expected genbank to be read-only, got %q", genbank)
	}
}

func TestJournalListCmd(t *testing.T) {
	out, _ := captureOutput(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.fas")
	writeFile(t, src, ">a\nACGT\n")
	db := filepath.Join(dir, "journal.db")

	if err := (&ConvertCmd{Input: src, Output: filepath.Join(dir, "out.nex"), Journal: db}).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := (&JournalListCmd{Journal: db, Limit: 5, Files: true}).Run(); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, src) {
		t.Errorf("Expected source in listing, got %q", text)
	}
	if !strings.Contains(text, journal.StatusOK) {
		t.Errorf("Expected file status in listing, got %q", text)
	}
}

func TestVersionCmd(t *testing.T) {
	out, _ := captureOutput(t)
	if err := (&VersionCmd{}).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "seqconvert version "+version) {
		t.Errorf("Unexpected version output %q", out.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"invalid input", errors.Wrap(errors.ErrInvalidInput, "no input file name"), 2},
		{"unknown format", errors.NewFormatUnknown(".xyz"), 2},
		{"unsupported", errors.NewUnsupported("genbank", "write"), 2},
		{"malformed", errors.NewParse("fasta", 1, "bad"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
