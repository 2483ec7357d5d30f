package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/joss/pwm/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Italic(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders rows under headers with an optional centred title. The
// first column is highlighted.
func Table(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			default:
				return cellStyle
			}
		})
	body := t.String()
	if title == "" {
		return body
	}
	width := lipgloss.Width(strings.SplitN(body, "\n", 2)[0])
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, titleStyle.Render(title)) + "\n" + body
}

// YesNo renders a boolean result.
func YesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

// Placeholder returns s, or fallback when s is empty.
func Placeholder(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// PRStats renders "title [F files, +A, -D]".
func PRStats(pr *domain.PullRequest, title string) string {
	return fmt.Sprintf("%s [%d files, +%d, -%d]", title, pr.ChangedFiles, pr.Additions, pr.Deletions)
}
