package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"marketpulse/pkg/campaign"
	"marketpulse/pkg/crawler"
	"marketpulse/pkg/models"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔════════════════════════════════════════════════════════════════╗
    ║  █▀▄▀█ ▄▀█ █▀█ █▄▀ █▀▀ ▀█▀   █▀█ █ █ █   █▀ █▀▀                ║
    ║  █ ▀ █ █▀█ █▀▄ █ █ ██▄  █    █▀▀ █▄█ █▄▄ ▄█ ██▄                ║
    ║        HASHTAG SENTIMENT CRAWLER & SIGNAL AGGREGATOR           ║
    ╚════════════════════════════════════════════════════════════════╝
`

// PrintLogo prints the ASCII logo
func PrintLogo(w io.Writer) {
	fmt.Fprintln(w, logoStyle.Render(ASCIILogo))
}

// PrintError prints an error message
func PrintError(w io.Writer, msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	fmt.Fprintln(w, ErrorStyle.Render(msg))
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, SuccessStyle.Render(msg))
}

// PrintInfo prints a label and value pair
func PrintInfo(w io.Writer, label string, value string) {
	fmt.Fprintf(w, "%s %s\n", LabelStyle.Render(label+":"), ValueStyle.Render(value))
}

// PrintHighlight prints a section heading
func PrintHighlight(w io.Writer, msg string) {
	fmt.Fprintln(w, headingStyle.Render(msg))
}

// newTable returns an empty table in the shared look. highlight marks the
// data rows drawn in the warning color.
func newTable(highlight func(row int) bool, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case highlight != nil && highlight(row):
				return tableAbortedStyle
			default:
				return tableCellStyle
			}
		})
}

// PrintCampaignSummary prints one row per hashtag and the campaign total
func PrintCampaignSummary(w io.Writer, sum campaign.Summary) {
	PrintHighlight(w, "Campaign summary")

	aborted := func(row int) bool {
		return row >= 0 && row < len(sum.Results) && sum.Results[row].State == crawler.StateAborted
	}
	t := newTable(aborted, "HASHTAG", "OUTCOME", "COLLECTED", "ELAPSED", "FILE")
	for _, res := range sum.Results {
		outcome := res.Reason.String()
		if res.State == crawler.StateAborted {
			outcome = "aborted in " + res.AbortedIn.String()
		}
		file := res.OutputPath
		if file == "" {
			file = "-"
		}
		t.Row("#"+res.Hashtag, outcome, strconv.Itoa(res.Collected), res.Elapsed().Round(time.Second).String(), file)
	}
	fmt.Fprintln(w, t.Render())

	PrintInfo(w, "Total posts saved", strconv.Itoa(sum.TotalPersisted))
	if sum.Aborted > 0 {
		PrintInfo(w, "Hashtags aborted", fmt.Sprintf("%d of %d", sum.Aborted, len(sum.Results)))
	}
	if sum.Interrupted {
		fmt.Fprintln(w, WarningStyle.Render("Campaign interrupted before all hashtags were crawled"))
	}
}

// PrintSignalSample prints the tail of the signal dataset
func PrintSignalSample(w io.Writer, rows []models.SignalRow) {
	PrintHighlight(w, "Sample of final data with composite signal")

	t := newTable(nil, "TIMESTAMP", "CLEANED_CONTENT", "TRADING_SIGNAL", "COMPOSITE_SIGNAL", "CONFIDENCE")
	for _, r := range rows {
		t.Row(
			r.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			truncate(r.CleanedContent, 48),
			strconv.FormatInt(r.TradingSignal, 10),
			strconv.FormatFloat(r.CompositeSignal, 'f', 6, 64),
			strconv.FormatFloat(r.Confidence, 'f', 6, 64),
		)
	}
	fmt.Fprintln(w, t.Render())
}

// CrawlRun is one row of the crawl history table
type CrawlRun struct {
	StartedAt time.Time
	Hashtag   string
	State     string
	Reason    string
	Collected int
	Duration  time.Duration
	Error     string
}

// PrintCrawlHistory prints past crawls, newest first as given
func PrintCrawlHistory(w io.Writer, runs []CrawlRun) {
	failed := func(row int) bool {
		return row >= 0 && row < len(runs) && runs[row].Error != ""
	}
	t := newTable(failed, "STARTED", "HASHTAG", "STATE", "REASON", "COLLECTED", "DURATION", "ERROR")
	for _, r := range runs {
		t.Row(
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			"#"+r.Hashtag,
			r.State,
			r.Reason,
			strconv.Itoa(r.Collected),
			r.Duration.Round(time.Second).String(),
			truncate(r.Error, 60),
		)
	}
	fmt.Fprintln(w, t.Render())
}

// PrintElapsed prints the total run time
func PrintElapsed(w io.Writer, d time.Duration) {
	fmt.Fprintf(w, "\n%s %s\n", LabelStyle.Render("Total elapsed time:"),
		ValueStyle.Render(fmt.Sprintf("%.2f seconds (%s)", d.Seconds(), d.Round(time.Millisecond))))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-3])) + "..."
}
