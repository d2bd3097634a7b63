package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/signalnine/promptdome/internal/report"
	"github.com/signalnine/promptdome/internal/result"
)

func fixtureRunDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	meta := result.NewRunMeta("prompts.csv", []string{"sutA", "sutB"})
	meta.Prompts = 2
	meta.WorkItems = 4
	if err := result.WriteRunMeta(dir, meta); err != nil {
		t.Fatalf("WriteRunMeta: %v", err)
	}
	responses := "UID,Text,sutA,sutB\n" +
		"1,hello,HELLO,ok\n" +
		"2,bye,BYE,ERROR: evaluate: provider exploded\n"
	if err := os.WriteFile(result.ResponsesPath(dir), []byte(responses), 0o644); err != nil {
		t.Fatalf("writing responses: %v", err)
	}
	return dir
}

func TestGenerateJSON(t *testing.T) {
	dir := fixtureRunDir(t)
	var buf bytes.Buffer
	if err := report.Generate(dir, "json", &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var summaries []report.SUTSummary
	if err := json.Unmarshal(buf.Bytes(), &summaries); err != nil {
		t.Fatalf("parsing report: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	a, b := summaries[0], summaries[1]
	if a.UID != "sutA" || a.Responses != 2 || a.Errors != 0 {
		t.Errorf("sutA summary: got %+v", a)
	}
	if b.UID != "sutB" || b.Errors != 1 || b.ErrorRate != 0.5 {
		t.Errorf("sutB summary: got %+v", b)
	}
}

func TestGenerateTable(t *testing.T) {
	dir := fixtureRunDir(t)
	var buf bytes.Buffer
	if err := report.Generate(dir, "table", &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SUT", "sutA", "sutB", "50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateMarkdown(t *testing.T) {
	dir := fixtureRunDir(t)
	var buf bytes.Buffer
	if err := report.Generate(dir, "markdown", &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(buf.String(), "| sutA |") {
		t.Errorf("markdown output missing sutA row:\n%s", buf.String())
	}
}

func TestGenerateMissingRun(t *testing.T) {
	if err := report.Generate(t.TempDir(), "table", &bytes.Buffer{}); err == nil {
		t.Error("expected error for empty run dir")
	}
}
