// Command netscan scans an IP range or single host for live hosts and open
// TCP ports, printing a result table and optionally exporting CSV.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/marcuoli/go-netscan/internal/report"
	"github.com/marcuoli/go-netscan/pkg/netscan"
)

type options struct {
	ports       []int
	commonPorts bool
	timeoutSec  float64
	workers     int
	verbose     bool
	outputCSV   string
	showAll     bool
	useARP      bool
	useSSDP     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "netscan <network>",
		Short: "Simple concurrent network scanner",
		Long: `netscan discovers live hosts in a CIDR range (or a single host) via ICMP
ping and optionally scans TCP ports. Results are shown as a table and can
be exported to CSV.`,
		Args:         cobra.ExactArgs(1),
		Version:      netscan.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], opts)
		},
	}

	cmd.Flags().IntSliceVarP(&opts.ports, "port", "p", nil, "TCP port(s) to scan (e.g. -p 80,443)")
	cmd.Flags().BoolVar(&opts.commonPorts, "common-ports", false, "Scan the well-known port set (FTP, SSH, HTTP, ...)")
	cmd.Flags().Float64VarP(&opts.timeoutSec, "timeout", "t", 0.5, "Per-probe timeout in seconds")
	cmd.Flags().IntVar(&opts.workers, "workers", netscan.DefaultWorkers, "Maximum concurrent probe workers")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose mode for detailed logs")
	cmd.Flags().StringVar(&opts.outputCSV, "output-csv", "", "Path to output results in CSV format")
	cmd.Flags().BoolVar(&opts.showAll, "show-all", false, "Show all results, including down hosts and closed ports")
	cmd.Flags().BoolVar(&opts.useARP, "arp", false, "Use ARP instead of ICMP for liveness probing (on-link IPv4 only)")
	cmd.Flags().BoolVar(&opts.useSSDP, "ssdp", false, "Also sweep with SSDP to catch devices that ignore ping")
	cmd.Flags().BoolP("version", "v", false, "Print the version and exit")
	cmd.SetVersionTemplate(netscan.VersionInfo() + "\n")

	return cmd
}

func run(networkArg string, opts options) error {
	logger := newLogger(opts.verbose)
	defer logger.Sync()

	target, err := netscan.ParseTarget(networkArg)
	if err != nil {
		return err
	}
	if target.ResolvedFrom != "" {
		fmt.Printf("Resolved hostname %q to IP %q\n", target.ResolvedFrom, target.Addrs()[0])
	}

	ports := opts.ports
	if opts.commonPorts {
		ports = netscan.CommonPorts()
	}

	method := netscan.LivenessICMP
	if opts.useARP {
		method = netscan.LivenessARP
	}

	spec := netscan.ProbeSpec{
		Ports:    ports,
		Timeout:  time.Duration(opts.timeoutSec * float64(time.Second)),
		Workers:  opts.workers,
		Method:   method,
		UseSSDP:  opts.useSSDP,
		Progress: progressPrinter(os.Stderr),
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	if spec.PingMode() {
		fmt.Printf("Scanning %s with %s (no ports specified), timeout %.2gs\n",
			target.CIDR, method, opts.timeoutSec)
	} else {
		fmt.Printf("Scanning %s on ports %v, timeout %.2gs\n",
			target.CIDR, spec.Ports, opts.timeoutSec)
	}

	scanner := netscan.NewScanner(nil, nil, logger)
	start := time.Now()
	reports, err := scanner.Run(context.Background(), target, spec)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	fmt.Printf("Scan completed in %.2f seconds\n", time.Since(start).Seconds())

	fmt.Println(report.RenderTable(reports, opts.showAll))

	// CSV export runs last so a bad path never loses displayed results.
	if opts.outputCSV != "" {
		if err := report.WriteCSV(opts.outputCSV, reports, opts.showAll); err != nil {
			return err
		}
		fmt.Printf("Results written to %s\n", opts.outputCSV)
	}
	return nil
}

// progressPrinter returns a progress callback rewriting a single counter
// line. Calls are already serialized by the scanner.
func progressPrinter(w *os.File) func(done, total int) {
	return func(done, total int) {
		fmt.Fprintf(w, "\rScanning... %d/%d", done, total)
	}
}

// newLogger builds the CLI logging context: console encoding on stderr,
// debug level in verbose mode, warnings only otherwise.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
