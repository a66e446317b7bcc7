package batch

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// WriteSummary renders one row per file plus a totals footer.
func WriteSummary(w io.Writer, results []Result) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"Source", "Output", "Size", "Time", "Status"})

	var (
		totalBytes uint64
		totalTime  time.Duration
	)

	for _, res := range results {
		status := statusOK
		size := ""

		if res.OK() {
			totalBytes += uint64(len(res.Text))
			size = humanize.Bytes(uint64(len(res.Text)))
		} else {
			status = statusFailed
		}

		totalTime += res.Elapsed

		tbl.AppendRow(table.Row{res.Source.Name, res.Output, size, res.Elapsed.Round(time.Microsecond), status})
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(results)),
		fmt.Sprintf("%d failed", Failed(results)),
		humanize.Bytes(totalBytes),
		totalTime.Round(time.Microsecond),
		"",
	})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}
