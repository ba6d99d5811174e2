package temporalx

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/mealprep-backend/internal/platform/logger"
)

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	c, err := NewClient(context.Background(), logger.Nop(), Config{})
	if err != nil || c != nil {
		t.Fatalf("expected nil client and nil error, got %v %v", c, err)
	}
	if err := EnsureNamespace(context.Background(), nil, Config{}); err != nil {
		t.Fatalf("ensure without address should be a no-op, got %v", err)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{NamespaceRetentionDays: 900, WorkerConcurrency: -1, DialMaxWait: -time.Second}.WithDefaults()
	if cfg.Namespace != "mealprep" || cfg.TaskQueue != "mealprep-provenance" {
		t.Fatalf("names: %+v", cfg)
	}
	if cfg.NamespaceRetentionDays != 7 || cfg.WorkerConcurrency != 4 || cfg.DialMaxWait != 0 {
		t.Fatalf("numeric defaults: %+v", cfg)
	}
	if cfg.DialTimeout != 5*time.Second || cfg.DialBackoff != 250*time.Millisecond {
		t.Fatalf("dial defaults: %+v", cfg)
	}
}

func TestParseOrgs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := ParseOrgs(" " + a.String() + ",bogus,," + b.String() + "," + a.String() + "," + uuid.Nil.String())
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("unexpected orgs %v", got)
	}
	if ParseOrgs("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestClampBackoff(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{10, time.Second},
	}
	for _, tc := range cases {
		if got := clampBackoff(100*time.Millisecond, time.Second, tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: got %s want %s", tc.attempt, got, tc.want)
		}
	}
	if got := clampBackoff(0, 0, 1); got != 250*time.Millisecond {
		t.Fatalf("zero base should default, got %s", got)
	}
}

func TestIsRetryableRPC(t *testing.T) {
	if !isRetryableRPC(status.Error(codes.Unavailable, "down")) {
		t.Fatalf("unavailable should retry")
	}
	if isRetryableRPC(status.Error(codes.PermissionDenied, "no")) {
		t.Fatalf("permission denied should not retry")
	}
	if !isRetryableRPC(context.DeadlineExceeded) {
		t.Fatalf("deadline should retry")
	}
	if isRetryableRPC(errors.New("boom")) || isRetryableRPC(nil) {
		t.Fatalf("plain errors should not retry")
	}
}

func TestLoadTLSConfigRequiresPair(t *testing.T) {
	_, err := loadTLSConfig(Config{ClientCAPath: "/tmp/ca.pem"})
	if err == nil || !strings.Contains(err.Error(), "TEMPORAL_CLIENT_CERT_PATH") {
		t.Fatalf("expected missing pair error, got %v", err)
	}
	if _, err := clientOptions(nil, Config{Address: "x:7233", ClientCertPath: "/nope/cert.pem"}); err == nil {
		t.Fatalf("expected clientOptions to surface tls error")
	}
}
