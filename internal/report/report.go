package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/signalnine/promptdome/internal/result"
)

type SUTSummary struct {
	UID       string  `json:"uid"`
	Responses int     `json:"responses"`
	Errors    int     `json:"errors"`
	ErrorRate float64 `json:"error_rate"`
	MeanChars float64 `json:"mean_chars"`
}

const errorMarker = "ERROR: "

// Generate reads a run dir's run.json and responses.csv and writes a
// per-SUT summary in the requested format.
func Generate(runDir, format string, w io.Writer) error {
	meta, err := result.ReadRunMeta(runDir)
	if err != nil {
		return err
	}
	summaries, err := summarize(result.ResponsesPath(runDir), meta.SUTs)
	if err != nil {
		return err
	}

	switch format {
	case "markdown":
		return writeMarkdown(meta, summaries, w)
	case "json":
		return writeJSON(summaries, w)
	default:
		return writeTable(meta, summaries, w)
	}
}

func summarize(path string, sutIDs []string) ([]SUTSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening responses: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading responses header: %w", err)
	}
	colIdx := make(map[string]int, len(sutIDs))
	for i, col := range header {
		colIdx[col] = i
	}

	type accum struct {
		responses int
		errors    int
		chars     int
	}
	bySUT := make(map[string]*accum, len(sutIDs))
	for _, uid := range sutIDs {
		if _, ok := colIdx[uid]; !ok {
			return nil, fmt.Errorf("responses file has no column for SUT %q", uid)
		}
		bySUT[uid] = &accum{}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading responses: %w", err)
		}
		for _, uid := range sutIDs {
			cell := row[colIdx[uid]]
			a := bySUT[uid]
			a.responses++
			if strings.HasPrefix(cell, errorMarker) {
				a.errors++
			} else {
				a.chars += len(cell)
			}
		}
	}

	summaries := make([]SUTSummary, 0, len(sutIDs))
	for _, uid := range sutIDs {
		a := bySUT[uid]
		s := SUTSummary{UID: uid, Responses: a.responses, Errors: a.errors}
		if a.responses > 0 {
			s.ErrorRate = float64(a.errors) / float64(a.responses)
		}
		if ok := a.responses - a.errors; ok > 0 {
			s.MeanChars = float64(a.chars) / float64(ok)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func writeTable(meta *result.RunMeta, summaries []SUTSummary, w io.Writer) error {
	fmt.Fprintf(w, "Run %s: %d prompts, %d work items, %ds\n\n", meta.RunID, meta.Prompts, meta.WorkItems, meta.DurationS)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUT\tRESPONSES\tERRORS\tERROR RATE\tMEAN CHARS")
	fmt.Fprintln(tw, strings.Repeat("-", 60))
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.0f%%\t%.0f\n",
			s.UID, s.Responses, s.Errors, s.ErrorRate*100, s.MeanChars)
	}
	return tw.Flush()
}

func writeMarkdown(meta *result.RunMeta, summaries []SUTSummary, w io.Writer) error {
	fmt.Fprintf(w, "Run `%s`: %d prompts\n\n", meta.RunID, meta.Prompts)
	fmt.Fprintln(w, "| SUT | Responses | Errors | Error Rate | Mean Chars |")
	fmt.Fprintln(w, "|---|---|---|---|---|")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %d | %d | %.0f%% | %.0f |\n",
			s.UID, s.Responses, s.Errors, s.ErrorRate*100, s.MeanChars)
	}
	return nil
}

func writeJSON(summaries []SUTSummary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
