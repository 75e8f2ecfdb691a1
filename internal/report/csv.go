// Package report: CSV export.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcuoli/go-netscan/pkg/netscan"
)

// ErrOutputPath reports a CSV destination whose directory does not exist or
// whose file cannot be created.
var ErrOutputPath = errors.New("invalid output path")

// CSVHeader is the first row of every exported file.
var CSVHeader = []string{"IP Address", "Hostname", "Port", "Service", "Status"}

// WriteCSV exports the filtered results to path. Status is written as plain
// "Up"/"Down" text. The parent directory must already exist; export happens
// after the scan, so a failure here never loses displayed results.
func WriteCSV(path string, reports []netscan.HostReport, showAll bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("%w: directory %q does not exist", ErrOutputPath, dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, row := range Rows(reports, showAll) {
		status := "Down"
		if row.Up {
			status = "Up"
		}
		record := []string{row.IP, row.Hostname, row.Port, row.Service, status}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}
