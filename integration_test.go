//go:build integration

package clamav

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// Integration tests run against a real clamd, e.g.
//
//	docker run -p 3310:3310 clamav/clamav
//	go test -tags integration ./...
//
// Override the endpoint with CLAMD_HOST and CLAMD_PORT.

const eicarTestString = `X5O!P%@AP[4\PZX54(P^)7CC)7}$EICAR-STANDARD-ANTIVIRUS-TEST-FILE!$H+H*`

func integrationClient(t *testing.T) *Client {
	t.Helper()

	host := os.Getenv("CLAMD_HOST")
	if host == "" {
		host = "localhost"
	}
	port := 3310
	if p := os.Getenv("CLAMD_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			t.Fatalf("invalid CLAMD_PORT: %v", err)
		}
		port = parsed
	}

	client, err := NewClient(host, port, WithReadTimeout(60*time.Second))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestIntegrationPing(t *testing.T) {
	client := integrationClient(t)
	if !client.Ping(context.Background()) {
		t.Fatal("expected daemon to answer ping")
	}
}

func TestIntegrationVersion(t *testing.T) {
	client := integrationClient(t)

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version error: %v", err)
	}
	if !strings.HasPrefix(version, "ClamAV") {
		t.Errorf("version = %q, want ClamAV prefix", version)
	}
	t.Logf("Version: %s", version)
}

func TestIntegrationScanClean(t *testing.T) {
	client := integrationClient(t)

	result, err := client.ScanBytes(context.Background(), []byte("test"))
	if err != nil {
		t.Fatalf("ScanBytes error: %v", err)
	}
	if result.Status != StatusPassed {
		t.Errorf("status = %q, want %q (result: %s)", result.Status, StatusPassed, result.Result)
	}
	if result.Result != "stream: OK" {
		t.Errorf("result = %q, want %q", result.Result, "stream: OK")
	}
}

func TestIntegrationScanEicar(t *testing.T) {
	client := integrationClient(t)

	result, err := client.ScanBytes(context.Background(), []byte(eicarTestString))
	if err != nil {
		t.Fatalf("ScanBytes error: %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("status = %q, want %q (result: %s)", result.Status, StatusFailed, result.Result)
	}
	if !strings.Contains(strings.ToUpper(result.Signature), "EICAR") {
		t.Errorf("signature = %q, want EICAR signature", result.Signature)
	}
	t.Logf("Signature: %s", result.Signature)
}

func TestIntegrationScanIdempotent(t *testing.T) {
	client := integrationClient(t)
	ctx := context.Background()

	first, err := client.ScanBytes(ctx, []byte(eicarTestString))
	if err != nil {
		t.Fatalf("first scan error: %v", err)
	}
	second, err := client.ScanBytes(ctx, []byte(eicarTestString))
	if err != nil {
		t.Fatalf("second scan error: %v", err)
	}

	if first.Status != second.Status {
		t.Errorf("status differs: %q vs %q", first.Status, second.Status)
	}
	if first.Signature != second.Signature {
		t.Errorf("signature differs: %q vs %q", first.Signature, second.Signature)
	}
}
