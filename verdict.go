package clamav

import "strings"

// Daemon verdict literals.
const (
	verdictOK       = "stream: OK"
	streamPrefix    = "stream:"
	foundSuffix     = "FOUND"
	errorSuffix     = "ERROR"
	sizeLimitPrefix = "INSTREAM size limit exceeded"
)

// parseVerdict classifies the daemon's trimmed verdict line.
//
// The size-limit check runs first and short-circuits everything else: it is
// returned as an error because it reports a mismatch between the payload and
// the daemon's StreamMaxLength, not a scan outcome. The ERROR and empty
// checks precede OK and FOUND.
func parseVerdict(verdict string) (*ScanResult, error) {
	if strings.HasPrefix(verdict, sizeLimitPrefix) {
		return nil, NewSizeLimitError("clamd stream size limit exceeded: " + verdict)
	}

	result := &ScanResult{Status: StatusFailed, Result: verdict}

	switch {
	case verdict == "" || strings.HasSuffix(verdict, errorSuffix):
		result.Status = StatusError
	case verdict == verdictOK:
		result.Status = StatusPassed
	case strings.HasSuffix(verdict, foundSuffix):
		signature := strings.TrimSuffix(verdict, foundSuffix)
		signature = strings.TrimPrefix(signature, streamPrefix)
		result.Signature = strings.TrimSpace(signature)
	}

	return result, nil
}
