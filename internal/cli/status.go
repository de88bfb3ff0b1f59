package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/babarot/minibin/internal/bin"
	"github.com/babarot/minibin/internal/utils/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(11)

	statusStyles = map[bin.Status]lipgloss.Style{
		bin.StatusEmpty:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FB458")).Bold(true), // Green
		bin.StatusNonEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("#AD58B4")).Bold(true), // Purple
		bin.StatusUnknown:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true), // Red
	}
)

// Status prints what the trash holds. An unreadable trash is reported as
// unknown, not as an error.
func (c CLI) Status(ctx context.Context) error {
	s, ok := c.oracle.(statter)
	if !ok {
		printStatus(c.stdout, c.oracle.Query(ctx), nil, nil)
		return nil
	}

	occ, err := s.Stat(ctx)
	if err != nil {
		printStatus(c.stdout, bin.StatusUnknown, nil, err)
		return nil
	}
	printStatus(c.stdout, occ.Status(), &occ, nil)
	return nil
}

func printStatus(w io.Writer, status bin.Status, occ *bin.Occupancy, err error) {
	row := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label+":")+value)
	}

	row("status", statusStyles[status].Render(status.String()))
	if occ != nil {
		row("items", humanize.Comma(int64(occ.Items)))
		row("size", humanize.Bytes(uint64(max(occ.Size, 0))))
		row("locations", fmt.Sprint(occ.Locations))
	}
	if err != nil {
		row("error", log.Highlight(err.Error()))
		row("code", fmt.Sprint(bin.CodeOf(err)))
	}
}
