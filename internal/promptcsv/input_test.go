package promptcsv_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/signalnine/promptdome/internal/promptcsv"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestInputReadsRecords(t *testing.T) {
	path := writeFile(t, "UID,Text,category\n1,hello,greet\n2,bye,farewell\n")
	in, err := promptcsv.OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	if cols := in.ExtraColumns(); len(cols) != 1 || cols[0] != "category" {
		t.Errorf("ExtraColumns: got %v, want [category]", cols)
	}

	rec, err := in.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.UID != "1" || rec.Text != "hello" || rec.Extra["category"] != "greet" {
		t.Errorf("first record: got %+v", rec)
	}

	if _, err := in.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := in.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestInputHeaderCaseInsensitive(t *testing.T) {
	path := writeFile(t, "uid,TEXT\n1,hi\n")
	in, err := promptcsv.OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()
	rec, err := in.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.UID != "1" || rec.Text != "hi" {
		t.Errorf("record: got %+v", rec)
	}
}

func TestInputMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		openErr bool
	}{
		{"missing text column", "UID,prompt\n1,hi\n", true},
		{"missing uid column", "id,Text\n1,hi\n", true},
		{"empty file", "", true},
		{"empty uid", "UID,Text\n,hi\n", false},
		{"short row", "UID,Text,extra\n1,hi\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			in, err := promptcsv.OpenInput(path)
			if tt.openErr {
				var malformed *promptcsv.MalformedInputError
				if !errors.As(err, &malformed) {
					t.Fatalf("expected MalformedInputError from open, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenInput: %v", err)
			}
			defer in.Close()
			_, err = in.Next()
			var malformed *promptcsv.MalformedInputError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedInputError from Next, got %v", err)
			}
		})
	}
}

func TestInputCount(t *testing.T) {
	path := writeFile(t, "UID,Text\n1,a\n2,b\n3,c\n")
	in, err := promptcsv.OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	defer in.Close()

	n, err := in.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}

	// Count must not consume the lazy stream.
	rec, err := in.Next()
	if err != nil {
		t.Fatalf("Next after Count: %v", err)
	}
	if rec.UID != "1" {
		t.Errorf("first record after Count: got %q, want %q", rec.UID, "1")
	}
}
