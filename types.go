package clamav

// ScanStatus is the outcome of a scan.
type ScanStatus string

const (
	// StatusPassed means the daemon found no threat ("stream: OK").
	StatusPassed ScanStatus = "PASSED"
	// StatusFailed means the daemon reported a detection or an
	// unclassifiable verdict.
	StatusFailed ScanStatus = "FAILED"
	// StatusError means the scan exchange failed (transport error, daemon
	// ERROR verdict, or empty reply).
	StatusError ScanStatus = "ERROR"
	// StatusConnectionError means the daemon did not answer the liveness
	// probe and no scan was attempted.
	StatusConnectionError ScanStatus = "CONNECTION_ERROR"
)

// ScanResult represents the result of a virus scan.
type ScanResult struct {
	// Status is the classified outcome of the scan.
	Status ScanStatus `json:"status"`
	// Result is the daemon's literal trimmed reply text when one was
	// received, or an error description otherwise.
	Result string `json:"result,omitempty"`
	// Signature is the malware signature name, set only when Status is
	// StatusFailed and the daemon reported a FOUND verdict.
	Signature string `json:"signature,omitempty"`
}

// IsInfected returns true if the scan found a virus.
func (r *ScanResult) IsInfected() bool {
	return r.Status == StatusFailed && r.Signature != ""
}

// IsClean returns true if the content is clean.
func (r *ScanResult) IsClean() bool {
	return r.Status == StatusPassed
}
