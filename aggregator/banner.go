package aggregator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("136"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("136")).
			Padding(1, 2)
)

var bannerArt = []string{
	"┏━╸┏━┓╻  ╺┳┓┏━╸┏━┓╺┳╸╻ ╻╺┳╸",
	"┣╸ ┃ ┃┃   ┃┃┣╸ ┣┳┛ ┃ ┏╋┛ ┃ ",
	"╹  ┗━┛┗━╸╺┻┛┗━╸╹┗╸ ╹ ╹ ╹ ╹ ",
}

// BannerOptions contains the information shown in the watch banner
type BannerOptions struct {
	WorkDir      string
	Version      string
	Extension    string
	Consolidated string
}

// PrintBanner writes the startup banner, adapted to the terminal width
func PrintBanner(w io.Writer, opts BannerOptions) {
	width := getTermWidth()
	switch {
	case width >= 60:
		fmt.Fprintln(w, renderFullBanner(opts, width))
	case width >= 40:
		fmt.Fprintln(w, renderCompactBanner(opts))
	default:
		fmt.Fprintln(w, renderMinimalBanner(opts))
	}
}

// getTermWidth returns the terminal width, defaults to 80 if unavailable
func getTermWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

func bannerLines(opts BannerOptions, maxWidth int) []string {
	lines := []string{
		truncatePath(opts.WorkDir, maxWidth),
		dimStyle.Render(opts.Version),
	}
	if opts.Extension != "" {
		lines = append(lines, "watching "+accentStyle.Render("*"+opts.Extension)+" files")
	}
	if opts.Consolidated != "" {
		lines = append(lines, dimStyle.Render("→ "+truncatePath(opts.Consolidated, maxWidth-2)))
	}
	return lines
}

func renderFullBanner(opts BannerOptions, termWidth int) string {
	boxWidth := min(termWidth, 64)
	// border (2) + padding (4)
	inner := boxWidth - 6

	var b strings.Builder
	for _, art := range bannerArt {
		b.WriteString(accentStyle.Render(art))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(strings.Join(bannerLines(opts, inner), "\n"))
	return boxStyle.Width(boxWidth - 2).Render(b.String())
}

func renderCompactBanner(opts BannerOptions) string {
	var b strings.Builder
	for _, art := range bannerArt {
		b.WriteString("  " + accentStyle.Render(art) + "\n")
	}
	b.WriteByte('\n')
	for _, line := range bannerLines(opts, 36) {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func renderMinimalBanner(opts BannerOptions) string {
	return accentStyle.Render("foldertxt") + " " + opts.Version
}

// truncatePath shortens s to maxWidth cells, keeping the tail as "...suffix"
func truncatePath(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	for i := 0; i < len(s); i++ {
		sub := "..." + s[i:]
		if lipgloss.Width(sub) <= maxWidth {
			return sub
		}
	}
	return "..."
}
