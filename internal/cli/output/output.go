// Package output renders command results as tables, plain text, JSON or YAML.
//
// In auto mode a terminal gets tables and anything else gets plain text, so
// scripted callers never see box drawing characters.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapdb/pkg/core"
)

// OutputMode selects how results are written.
type OutputMode string

// Output modes.
const (
	ModeAuto  OutputMode = "auto"
	ModeTable OutputMode = "table"
	ModeText  OutputMode = "text"
	ModeJSON  OutputMode = "json"
	ModeYAML  OutputMode = "yaml"
)

// Mode converts a config value to an OutputMode. Unknown values become ModeAuto.
func Mode(s string) OutputMode {
	switch m := OutputMode(strings.ToLower(s)); m {
	case ModeTable, ModeText, ModeJSON, ModeYAML:
		return m
	default:
		return ModeAuto
	}
}

// Column describes one column of tabular output.
type Column struct {
	Header     string
	RightAlign bool
}

// ColumnsOf derives table columns from schema columns; numeric types are
// right aligned.
func ColumnsOf(columns ...*core.Column) []Column {
	out := make([]Column, len(columns))
	for i, c := range columns {
		out[i] = Column{Header: c.Name(), RightAlign: c.Type().RightAligned()}
	}
	return out
}

// Renderer writes command output.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeTable
	}
	return ModeText
}

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Warn writes a line to standard error.
func (r *Renderer) Warn(format string, a ...any) {
	_, _ = fmt.Fprintf(r.errOut, "warning: "+format+"\n", a...)
}

// KeyValue writes "key: value".
func (r *Renderer) KeyValue(key string, value any) {
	_, _ = fmt.Fprintf(r.out, "%s: %s\n", key, FormatValue(value))
}

// Data writes v in the structured modes. It returns false in table and text
// modes, leaving the caller to render rows itself.
func (r *Renderer) Data(v any) (bool, error) {
	switch r.EffectiveMode() {
	case ModeJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case ModeYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// Table writes rows as a table in table mode and as tab separated lines in
// text mode.
func (r *Renderer) Table(columns []Column, rows [][]any) {
	if r.EffectiveMode() != ModeTable {
		for _, row := range rows {
			values := make([]string, len(row))
			for i, v := range row {
				values[i] = FormatValue(v)
			}
			_, _ = fmt.Fprintln(r.out, strings.Join(values, "\t"))
		}
		return
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(r.out, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.Header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft}
		if c.RightAlign {
			configs[i].Align = text.AlignRight
		}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for _, row := range rows {
		cells := make(table.Row, len(row))
		for i, v := range row {
			cells[i] = FormatValue(v)
		}
		t.AppendRow(cells)
	}

	t.Render()
	_, _ = fmt.Fprintf(r.out, "(%d rows)\n", len(rows))
}

// FormatValue renders a cell value, NULL for nil.
func FormatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
