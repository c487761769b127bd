package clamav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name      string
		verdict   string
		status    ScanStatus
		signature string
	}{
		{
			name:    "clean",
			verdict: "stream: OK",
			status:  StatusPassed,
		},
		{
			name:      "found",
			verdict:   "stream: Win.Test.EICAR_HDB-1 FOUND",
			status:    StatusFailed,
			signature: "Win.Test.EICAR_HDB-1",
		},
		{
			name:      "found without stream prefix",
			verdict:   "Eicar-Signature FOUND",
			status:    StatusFailed,
			signature: "Eicar-Signature",
		},
		{
			name:    "daemon error",
			verdict: "stream: Unable to parse archive ERROR",
			status:  StatusError,
		},
		{
			name:    "empty reply",
			verdict: "",
			status:  StatusError,
		},
		{
			name:    "unclassifiable text",
			verdict: "UNEXPECTED",
			status:  StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVerdict(tt.verdict)
			require.NoError(t, err)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.verdict, result.Result)
			assert.Equal(t, tt.signature, result.Signature)
		})
	}

	t.Run("size limit exceeded", func(t *testing.T) {
		result, err := parseVerdict("INSTREAM size limit exceeded. ERROR")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsSizeLimitError(err))
	})

	t.Run("size limit precedes error suffix", func(t *testing.T) {
		// The verdict both starts with the size limit sentinel and ends with
		// ERROR; the size limit check must win.
		_, err := parseVerdict("INSTREAM size limit exceeded ERROR")
		require.Error(t, err)
		assert.True(t, IsSizeLimitError(err))
	})
}

func TestScanResultMethods(t *testing.T) {
	clean := &ScanResult{Status: StatusPassed, Result: "stream: OK"}
	assert.True(t, clean.IsClean())
	assert.False(t, clean.IsInfected())

	infected := &ScanResult{Status: StatusFailed, Result: "stream: Virus FOUND", Signature: "Virus"}
	assert.False(t, infected.IsClean())
	assert.True(t, infected.IsInfected())

	failed := &ScanResult{Status: StatusFailed, Result: "garbage"}
	assert.False(t, failed.IsClean())
	assert.False(t, failed.IsInfected())

	errResult := &ScanResult{Status: StatusError, Result: "broken pipe"}
	assert.False(t, errResult.IsClean())
	assert.False(t, errResult.IsInfected())
}
