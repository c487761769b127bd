package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dawidgorecki/clamav"
)

// scanReport is one file's outcome in the JSON report.
type scanReport struct {
	Path      string            `json:"path"`
	Status    clamav.ScanStatus `json:"status"`
	Result    string            `json:"result,omitempty"`
	Signature string            `json:"signature,omitempty"`
}

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [file...|-]",
		Short: "Scan files or stdin with the ClamAV daemon",
		Long: `Scan streams each file to the daemon using the INSTREAM protocol and
prints the verdict per file. Use "-" to scan standard input.

Examples:
  # Scan files
  clamdscan scan invoice.pdf archive.zip

  # Scan stdin
  curl -s https://example.com/file | clamdscan scan -

  # JSON report against a remote daemon
  clamdscan scan --host clamav.internal --json upload.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output results as JSON")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	reports := make([]scanReport, 0, len(args))
	infected, failed := 0, 0

	for _, path := range args {
		var result *clamav.ScanResult
		var err error
		if path == "-" {
			result, err = client.Scan(ctx, cmd.InOrStdin())
		} else {
			result, err = client.ScanFile(ctx, path)
		}
		if err != nil {
			// Unreadable file or daemon size limit misconfiguration.
			return fmt.Errorf("%s: %w", path, err)
		}

		reports = append(reports, scanReport{
			Path:      path,
			Status:    result.Status,
			Result:    result.Result,
			Signature: result.Signature,
		})
		switch result.Status {
		case clamav.StatusFailed:
			infected++
		case clamav.StatusError, clamav.StatusConnectionError:
			failed++
		}
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		printReports(cmd, reports)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scans failed", failed, len(args))
	}
	if infected > 0 {
		return fmt.Errorf("%w: %d of %d files", errInfected, infected, len(args))
	}
	return nil
}

func printReports(cmd *cobra.Command, reports []scanReport) {
	out := cmd.OutOrStdout()
	for _, r := range reports {
		switch {
		case r.Status == clamav.StatusPassed:
			fmt.Fprintf(out, "%s: OK\n", r.Path)
		case r.Status == clamav.StatusFailed && r.Signature != "":
			fmt.Fprintf(out, "%s: %s FOUND\n", r.Path, r.Signature)
		case r.Status == clamav.StatusFailed:
			fmt.Fprintf(out, "%s: %s\n", r.Path, r.Result)
		default:
			fmt.Fprintf(out, "%s: ERROR (%s)\n", r.Path, r.Result)
		}
	}
}
