//go:build integration

package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalnine/promptdome/cmd"
	"github.com/signalnine/promptdome/internal/result"
)

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	resultsDir := filepath.Join(dir, "results")

	cfgPath := filepath.Join(dir, "promptdome.yaml")
	cfgYAML := "suts:\n" +
		"  - uid: upper\n    type: echo\n    uppercase: true\n" +
		"  - uid: fixed\n    type: echo\n    reply: ok\n" +
		"workers: 4\n" +
		"results:\n  dir: " + resultsDir + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	csvPath := filepath.Join(dir, "prompts.csv")
	prompts := "UID,Text,category\n1,hello,a\n2,bye,b\n3,thanks,c\n"
	if err := os.WriteFile(csvPath, []byte(prompts), 0o644); err != nil {
		t.Fatalf("writing prompts: %v", err)
	}

	root := cmd.NewRootCmd()
	root.SetArgs([]string{"run", csvPath, "--config", cfgPath})
	if err := root.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}

	runDir, err := filepath.EvalSymlinks(filepath.Join(resultsDir, "latest"))
	if err != nil {
		t.Fatalf("resolving latest: %v", err)
	}

	f, err := os.Open(result.ResponsesPath(runDir))
	if err != nil {
		t.Fatalf("opening responses: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading responses: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	header := strings.Join(rows[0], ",")
	if header != "UID,Text,category,upper,fixed" {
		t.Errorf("header: got %q", header)
	}

	byUID := map[string][]string{}
	for _, row := range rows[1:] {
		byUID[row[0]] = row
	}
	row1, ok := byUID["1"]
	if !ok {
		t.Fatal("no row for uid 1")
	}
	if row1[3] != "HELLO" || row1[4] != "ok" {
		t.Errorf("row 1 cells: got %v", row1[3:])
	}

	meta, err := result.ReadRunMeta(runDir)
	if err != nil {
		t.Fatalf("ReadRunMeta: %v", err)
	}
	if meta.Prompts != 3 || meta.WorkItems != 6 || meta.Failures != 0 {
		t.Errorf("run meta counts: got %+v", meta)
	}
}
