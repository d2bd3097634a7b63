// Package promptcsv reads prompt CSVs and writes response CSVs. The input
// must carry UID and Text columns (any case); every other column passes
// through to the output unchanged.
package promptcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/signalnine/promptdome/internal/pipeline"
)

// MalformedInputError means the input file is structurally unusable: a
// mandatory column is absent or a row cannot be read. It aborts the run.
type MalformedInputError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input %s line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed input %s: %s", e.Path, e.Reason)
}

// Input is a lazy, forward-only reader over a prompt CSV. It implements
// pipeline.Source. Not restartable; open a new one to re-read.
type Input struct {
	path      string
	f         *os.File
	r         *csv.Reader
	uidIdx    int
	textIdx   int
	extraCols []string
	extraIdx  []int
	line      int
}

func OpenInput(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, &MalformedInputError{Path: path, Reason: "empty file"}
		}
		return nil, &MalformedInputError{Path: path, Line: 1, Reason: err.Error()}
	}

	in := &Input{path: path, f: f, r: r, uidIdx: -1, textIdx: -1, line: 1}
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "uid":
			in.uidIdx = i
		case "text":
			in.textIdx = i
		default:
			in.extraCols = append(in.extraCols, strings.TrimSpace(col))
			in.extraIdx = append(in.extraIdx, i)
		}
	}
	if in.uidIdx < 0 || in.textIdx < 0 {
		f.Close()
		return nil, &MalformedInputError{Path: path, Line: 1, Reason: "header must contain UID and Text columns"}
	}
	return in, nil
}

// ExtraColumns returns the pass-through column names in input order.
func (in *Input) ExtraColumns() []string {
	return in.extraCols
}

func (in *Input) Next() (pipeline.PromptRecord, error) {
	row, err := in.r.Read()
	if err == io.EOF {
		return pipeline.PromptRecord{}, io.EOF
	}
	in.line++
	if err != nil {
		return pipeline.PromptRecord{}, &MalformedInputError{Path: in.path, Line: in.line, Reason: err.Error()}
	}
	uid := strings.TrimSpace(row[in.uidIdx])
	if uid == "" {
		return pipeline.PromptRecord{}, &MalformedInputError{Path: in.path, Line: in.line, Reason: "empty uid"}
	}
	rec := pipeline.PromptRecord{
		UID:  uid,
		Text: row[in.textIdx],
	}
	if len(in.extraIdx) > 0 {
		rec.Extra = make(map[string]string, len(in.extraIdx))
		for i, idx := range in.extraIdx {
			rec.Extra[in.extraCols[i]] = row[idx]
		}
	}
	return rec, nil
}

func (in *Input) Close() error {
	return in.f.Close()
}

// Count scans a fresh handle and returns the number of data rows. Used for
// progress totals; the Input itself stays lazy.
func (in *Input) Count() (int, error) {
	f, err := os.Open(in.path)
	if err != nil {
		return 0, fmt.Errorf("opening input for count: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	n := -1 // skip header
	for {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				break
			}
			return 0, &MalformedInputError{Path: in.path, Line: n + 2, Reason: err.Error()}
		}
		n++
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}
