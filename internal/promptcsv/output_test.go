package promptcsv_test

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/promptdome/internal/pipeline"
	"github.com/signalnine/promptdome/internal/promptcsv"
	"github.com/signalnine/promptdome/internal/sut"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return rows
}

func TestOutputHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.csv")
	out, err := promptcsv.CreateOutput(path, []string{"category"}, []string{"sutA", "sutB"})
	if err != nil {
		t.Fatalf("CreateOutput: %v", err)
	}

	rec := pipeline.PromptRecord{UID: "1", Text: "hello", Extra: map[string]string{"category": "greet"}}
	results := map[string]pipeline.ResultItem{
		"sutA": {Prompt: rec, SUTID: "sutA", Completion: sut.Completion{Text: "HELLO"}},
		"sutB": {Prompt: rec, SUTID: "sutB", Err: errors.New("timed out")},
	}
	if err := out.WriteRow(rec, results); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readAll(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	wantHeader := []string{"UID", "Text", "category", "sutA", "sutB"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d]: got %q, want %q", i, rows[0][i], col)
		}
	}
	row := rows[1]
	if row[0] != "1" || row[1] != "hello" || row[2] != "greet" {
		t.Errorf("row prefix: got %v", row[:3])
	}
	if row[3] != "HELLO" {
		t.Errorf("sutA cell: got %q, want %q", row[3], "HELLO")
	}
	if !strings.HasPrefix(row[4], "ERROR: ") || !strings.Contains(row[4], "timed out") {
		t.Errorf("sutB cell should be an error marker, got %q", row[4])
	}
}

func TestOutputMissingResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.csv")
	out, err := promptcsv.CreateOutput(path, nil, []string{"sutA", "sutB"})
	if err != nil {
		t.Fatalf("CreateOutput: %v", err)
	}
	defer out.Close()

	rec := pipeline.PromptRecord{UID: "1", Text: "x"}
	results := map[string]pipeline.ResultItem{
		"sutA": {Prompt: rec, SUTID: "sutA", Completion: sut.Completion{Text: "y"}},
	}
	if err := out.WriteRow(rec, results); err == nil {
		t.Error("expected error for row missing a SUT result")
	}
}
