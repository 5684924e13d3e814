package table

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/saucelabs/zipdeploy/internal/deploy"
	"github.com/saucelabs/zipdeploy/internal/human"
	"github.com/saucelabs/zipdeploy/internal/report"
)

var defaultTableStyle = table.Style{
	Name: "zippy",
	Box: table.BoxStyle{
		BottomLeft:       "└",
		BottomRight:      "┘",
		BottomSeparator:  "",
		EmptySeparator:   text.RepeatAndTrim(" ", text.RuneCount("+")),
		Left:             "│",
		LeftSeparator:    "",
		MiddleHorizontal: "─",
		MiddleSeparator:  "",
		MiddleVertical:   "",
		PaddingLeft:      "  ",
		PaddingRight:     "  ",
		PageSeparator:    "\n",
		Right:            "│",
		RightSeparator:   "",
		TopLeft:          "┌",
		TopRight:         "┐",
		TopSeparator:     "",
		UnfinishedRow:    " ...",
	},
	Color: table.ColorOptionsDefault,
	Format: table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	},
	HTML: table.DefaultHTMLOptions,
	Options: table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  true,
		SeparateHeader:  true,
		SeparateRows:    false,
	},
	Title: table.TitleOptionsDefault,
}

// Reporter is a table writer implementation for report.Reporter.
type Reporter struct {
	Results []report.Result
	Dst     io.Writer
	lock    sync.Mutex
}

// Add adds the publish result to the summary table.
func (r *Reporter) Add(t report.Result) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Results = append(r.Results, t)
}

// Render renders out a publish summary table to the destination of Reporter.Dst.
func (r *Reporter) Render() {
	r.lock.Lock()
	defer r.lock.Unlock()

	t := table.NewWriter()
	t.SetOutputMirror(r.Dst)
	t.SetStyle(defaultTableStyle)
	t.SuppressEmptyColumns()

	t.AppendHeader(table.Row{"", "Name", "Files", "Size", "Duration", "Status", "Archive"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{
			Number:   0, // it's the first nameless column that contains the passed/fail icon
			WidthMax: 1,
		},
		{
			Name:     "Name",
			WidthMin: 20,
		},
		{
			Name:  "Files",
			Align: text.AlignRight,
		},
		{
			Name:  "Size",
			Align: text.AlignRight,
		},
		{
			Name:        "Duration",
			Align:       text.AlignRight,
			AlignFooter: text.AlignRight,
		},
	})

	var (
		failures int
		totalDur time.Duration
	)
	for _, res := range r.Results {
		if !res.Passed {
			failures++
		}
		totalDur += res.Duration

		archive := "deleted"
		if res.ArchiveKept {
			archive = res.Archive
		}

		// the order of values must match the order of the header
		t.AppendRow(table.Row{statusSymbol(res.Passed), res.Name, res.Files, human.Bytes(res.Size),
			res.Duration.Truncate(1 * time.Millisecond), statusText(res), archive})
	}

	t.AppendFooter(footer(failures, len(r.Results), totalDur))

	_, _ = fmt.Fprintln(r.Dst)
	t.Render()
}

// Reset resets the reporter to its initial state. This action will delete all results.
func (r *Reporter) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Results = make([]report.Result, 0)
}

func footer(failures, total int, dur time.Duration) table.Row {
	if failures != 0 {
		return table.Row{statusSymbol(false), fmt.Sprintf("%d of %d publishes have failed", failures, total), "", "",
			dur.Truncate(1 * time.Millisecond)}
	}
	return table.Row{statusSymbol(true), "Published", "", "", dur.Truncate(1 * time.Millisecond)}
}

func statusText(res report.Result) string {
	if res.Passed {
		return color.GreenString(deploy.StatusText(res.StatusCode))
	}
	if res.StatusCode != 0 {
		return color.RedString(deploy.StatusText(res.StatusCode))
	}
	return color.RedString(res.Outcome)
}

func statusSymbol(passed bool) string {
	if passed {
		return color.GreenString("✔")
	}
	return color.RedString("✖")
}
