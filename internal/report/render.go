package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

// Renderer writes a Tabular to w.
type Renderer interface {
	Render(w io.Writer, t Tabular) error
}

// NewRenderer returns the renderer for format. Color only affects text.
func NewRenderer(format string, useColor bool) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &TextRenderer{Color: useColor}, nil
	case FormatCSV:
		return &CSVRenderer{}, nil
	case FormatXLSX:
		return &XLSXRenderer{}, nil
	default:
		return nil, &UnknownFormatError{Format: format}
	}
}

// TextRenderer prints an aligned plain-text table.
type TextRenderer struct {
	Color bool
}

var (
	titleStyle     = color.New(color.OpBold)
	headerStyle    = color.New(color.FgCyan, color.OpBold)
	undefinedStyle = color.New(color.FgYellow)
)

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, t Tabular) error {
	var b strings.Builder

	b.WriteString(r.paint(titleStyle, t.Title()))
	b.WriteByte('\n')
	for _, m := range t.Meta() {
		fmt.Fprintf(&b, "  %s: %s\n", m.Name, m.Value)
	}
	b.WriteByte('\n')

	header := t.Header()
	rows := t.Rows()
	if len(rows) == 0 {
		b.WriteString("(no rows)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if cw := runewidth.StringWidth(c.Text); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = r.paint(headerStyle, runewidth.FillRight(h, widths[i]))
	}
	writeLine(&b, cols)

	for i := range cols {
		cols[i] = strings.Repeat("-", widths[i])
	}
	writeLine(&b, cols)

	for _, row := range rows {
		for i, c := range row {
			var padded string
			if isNumeric(c) {
				padded = runewidth.FillLeft(c.Text, widths[i])
			} else {
				padded = runewidth.FillRight(c.Text, widths[i])
			}
			if c.Text == undefinedText {
				padded = r.paint(undefinedStyle, padded)
			}
			cols[i] = padded
		}
		writeLine(&b, cols)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *TextRenderer) paint(style color.Style, s string) string {
	if !r.Color {
		return s
	}
	return style.Sprint(s)
}

func writeLine(b *strings.Builder, cols []string) {
	b.WriteString(strings.TrimRight(strings.Join(cols, "  "), " "))
	b.WriteByte('\n')
}

func isNumeric(c Cell) bool {
	switch c.Value.(type) {
	case int, float64:
		return true
	}
	return c.Text == undefinedText
}

// CSVRenderer writes the header and rows as RFC 4180 CSV.
type CSVRenderer struct{}

// Render implements Renderer.
func (r *CSVRenderer) Render(w io.Writer, t Tabular) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	for _, row := range t.Rows() {
		record := make([]string, len(row))
		for i, c := range row {
			record[i] = c.Text
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Sheet names used by XLSXRenderer.
const (
	DataSheet = "Report"
	RunSheet  = "Run"
)

// XLSXRenderer writes a workbook with the table on one sheet and the run
// metadata on another. Numbers are stored as numeric cells.
type XLSXRenderer struct{}

// Render implements Renderer.
func (r *XLSXRenderer) Render(w io.Writer, t Tabular) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return err
	}

	header := t.Header()
	for i, h := range header {
		if err := setCell(f, DataSheet, i+1, 1, h); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(DataSheet, "A1", last, bold); err != nil {
			return err
		}
	}

	for ri, row := range t.Rows() {
		for ci, c := range row {
			if err := setCell(f, DataSheet, ci+1, ri+2, c.Value); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(RunSheet); err != nil {
		return err
	}
	if err := setCell(f, RunSheet, 1, 1, "title"); err != nil {
		return err
	}
	if err := setCell(f, RunSheet, 2, 1, t.Title()); err != nil {
		return err
	}
	for i, m := range t.Meta() {
		if err := setCell(f, RunSheet, 1, i+2, m.Name); err != nil {
			return err
		}
		if err := setCell(f, RunSheet, 2, i+2, m.Value); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}
