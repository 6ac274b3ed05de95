// internal/labelstats/render.go
package labelstats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Format renders the report as plain text, one label per line followed by
// the text count:
//
//	admiration, 4130, 9.51%, 35.16%
//	...
//	Text count: 43410
func Format(r Report) string {
	var b strings.Builder
	for _, l := range r.Labels {
		fmt.Fprintf(&b, "%s, %d, %.2f%%, %.2f%% \n", l.Name, l.Count, l.TextPercent(r.Texts), l.MultiPercent())
	}
	fmt.Fprintf(&b, "Text count: %d", r.Texts)
	return b.String()
}

// Render draws the report as a styled table.
func Render(r Report) string {
	p := message.NewPrinter(language.English)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("LABEL", "COUNT", "% TEXTS", "% MULTI").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
	for _, l := range r.Labels {
		t.Row(
			l.Name,
			p.Sprintf("%d", l.Count),
			strconv.FormatFloat(l.TextPercent(r.Texts), 'f', 2, 64),
			strconv.FormatFloat(l.MultiPercent(), 'f', 2, 64),
		)
	}

	title := "Label statistics"
	if r.Split != "" {
		title = r.Split + " label statistics"
	}
	return titleStyle.Render(title) + "\n" + t.Render() + "\n" + p.Sprintf("Text count: %d", r.Texts)
}
