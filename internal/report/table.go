// Package report: lipgloss table rendering.
package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/marcuoli/go-netscan/pkg/netscan"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderTable renders the filtered results as a bordered table. Reachable
// results show a green marker, unreachable ones (with showAll) a red one.
func RenderTable(reports []netscan.HostReport, showAll bool) string {
	rows := Rows(reports, showAll)

	headers := []string{"IP Address", "Hostname", "Port", "Service", "Status"}
	withVendor := hasVendor(reports)
	if withVendor {
		headers = append(headers, "Vendor")
	}

	vendorFor := make(map[string]string, len(reports))
	for _, r := range reports {
		vendorFor[r.IP.String()] = r.Vendor
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, row := range rows {
		status := downStyle.Render("●") + " Down"
		if row.Up {
			status = upStyle.Render("●") + " Up"
		}
		cells := []string{row.IP, row.Hostname, row.Port, row.Service, status}
		if withVendor {
			cells = append(cells, vendorFor[row.IP])
		}
		t = t.Row(cells...)
	}

	return titleStyle.Render("Scan Results") + "\n" + t.Render()
}

func hasVendor(reports []netscan.HostReport) bool {
	for _, r := range reports {
		if r.Vendor != "" {
			return true
		}
	}
	return false
}
