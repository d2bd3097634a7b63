package promptcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/signalnine/promptdome/internal/pipeline"
)

// Output writes one row per completed prompt: uid, text, the pass-through
// columns, then one result column per SUT in registry order. Failure cells
// hold an ERROR marker instead of a completion. Implements
// pipeline.RowWriter; rows land in completion order, not input order.
type Output struct {
	f         *os.File
	w         *csv.Writer
	extraCols []string
	sutIDs    []string
}

func CreateOutput(path string, extraCols, sutIDs []string) (*Output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	o := &Output{f: f, w: csv.NewWriter(f), extraCols: extraCols, sutIDs: sutIDs}
	header := append([]string{"UID", "Text"}, extraCols...)
	header = append(header, sutIDs...)
	if err := o.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	o.w.Flush()
	if err := o.w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return o, nil
}

// NewOutputWriter writes to an arbitrary writer. Does not write a header
// row on its own.
func NewOutputWriter(w io.Writer, extraCols, sutIDs []string) *Output {
	return &Output{w: csv.NewWriter(w), extraCols: extraCols, sutIDs: sutIDs}
}

func (o *Output) WriteRow(p pipeline.PromptRecord, results map[string]pipeline.ResultItem) error {
	row := make([]string, 0, 2+len(o.extraCols)+len(o.sutIDs))
	row = append(row, p.UID, p.Text)
	for _, col := range o.extraCols {
		row = append(row, p.Extra[col])
	}
	for _, sutID := range o.sutIDs {
		res, ok := results[sutID]
		switch {
		case !ok:
			return fmt.Errorf("row for prompt %q missing result for SUT %q", p.UID, sutID)
		case res.Failed():
			row = append(row, "ERROR: "+res.Err.Error())
		default:
			row = append(row, res.Completion.Text)
		}
	}
	if err := o.w.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	// Flush per row so a fatal abort keeps every closed prompt.
	o.w.Flush()
	return o.w.Error()
}

func (o *Output) Close() error {
	o.w.Flush()
	if err := o.w.Error(); err != nil {
		if o.f != nil {
			o.f.Close()
		}
		return err
	}
	if o.f != nil {
		return o.f.Close()
	}
	return nil
}
