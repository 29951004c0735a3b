package cli

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"clipkeeper/internal/model"
)

// printStatus renders the watchlist and the recomputed totals.
func printStatus(list *model.Watchlist) {
	fmt.Println(statusTable(list))

	c := list.Counts()
	fmt.Printf("%d tracked: %d uploaded, %d archived, %d missing, %d ignored\n",
		c.Total, c.Uploaded, c.Archived, c.Missing, c.Ignored)
}

func statusTable(list *model.Watchlist) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Uploaded", "Archived", "Missing", "Ignored"})

	for _, e := range list.Entries() {
		tw.AppendRow(table.Row{
			filepath.Base(e.Path),
			mark(e.Uploaded),
			mark(e.Archived),
			mark(e.Missing),
			mark(e.Ignored),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

func mark(v bool) string {
	if v {
		return "yes"
	}
	return "-"
}
