package aggregator

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// WriteSummary prints a short overview of a finished run
func WriteSummary(w io.Writer, res *Result) {
	if res == nil || res.Missing {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Summary"))
	for _, f := range res.Folders {
		fmt.Fprintf(w, "  %-24s %3d files  %8s\n", f.Name+".txt", f.Files, humanize.Bytes(uint64(f.Bytes)))
	}
	fmt.Fprintf(w, "  %d folders written, %d skipped, %d files, %s in %s\n",
		len(res.Folders), len(res.Skipped), res.Files,
		humanize.Bytes(uint64(res.Bytes)), res.Duration.Round(time.Millisecond))
	for _, p := range res.Overwritten {
		fmt.Fprintf(w, "  %s overwritten by a folder of the same name\n", p)
	}
}
