package report

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTable renders rows as a bordered terminal table. Numeric columns
// listed in rightAligned are aligned to the right.
func WriteTable(w io.Writer, header []string, rows [][]string, rightAligned ...int) error {
	cfg := tablewriter.Config{}
	if len(rightAligned) > 0 {
		align := make([]tw.Align, len(header))
		for i := range align {
			align[i] = tw.AlignLeft
		}
		for _, col := range rightAligned {
			if col >= 0 && col < len(align) {
				align[col] = tw.AlignRight
			}
		}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	headers := make([]any, len(header))
	for i, h := range header {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}
