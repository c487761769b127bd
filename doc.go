// Package clamav provides a Go client for the ClamAV daemon (clamd) TCP
// protocol, including chunked INSTREAM scanning.
//
// The client speaks the NUL-terminated command dialect (zPING, zVERSION,
// zINSTREAM) over a fresh TCP connection per operation. The SDK itself has
// zero external runtime dependencies (stdlib only).
//
// # Quick Start
//
//	client, err := clamav.NewClient("localhost", 3310)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.ScanFile(ctx, "/path/to/file.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Status: %s, Infected: %v\n", result.Status, result.IsInfected())
//
// Scan encodes almost every failure in the returned ScanResult; the only
// error it returns is the daemon reporting its stream size limit exceeded,
// which indicates a deployment mismatch rather than a scan verdict.
package clamav
