// Package report renders scan results to a terminal table and exports them
// to CSV. It consumes completed HostReports and never mutates them.
package report

import (
	"strconv"

	"github.com/marcuoli/go-netscan/pkg/netscan"
)

// Row is one flattened (address, probe result) pair ready for output.
type Row struct {
	IP       string
	Hostname string
	Port     string // "-" for ping-mode results
	Service  string
	Up       bool
}

// Rows flattens reports into output rows, one per probe result. Rows for
// unreachable results are dropped unless showAll is set.
func Rows(reports []netscan.HostReport, showAll bool) []Row {
	var rows []Row
	for _, r := range reports {
		for _, res := range r.Results {
			if !showAll && !res.Open {
				continue
			}
			port := "-"
			if res.Port != 0 {
				port = strconv.Itoa(res.Port)
			}
			rows = append(rows, Row{
				IP:       r.IP.String(),
				Hostname: r.Hostname,
				Port:     port,
				Service:  netscan.ServiceName(res.Port),
				Up:       res.Open,
			})
		}
	}
	return rows
}
