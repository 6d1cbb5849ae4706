package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric line
// matching the given name, partial label pattern, and value. Uses regex to
// tolerate extra OTel scope labels injected by the exporter.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func newTestBusinessMetrics(t *testing.T, namespace string) (*Provider, BusinessMetrics) {
	t.Helper()
	provider, err := NewProvider(namespace)
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), namespace)
	require.NoError(t, err)
	return provider, bm
}

func TestNewBusinessMetrics(t *testing.T) {
	_, bm := newTestBusinessMetrics(t, "securekit")
	assert.NotNil(t, bm)
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	_, bm := newTestBusinessMetrics(t, "securekit")
	ctx := context.Background()

	t.Run("single domain", func(t *testing.T) {
		bm.RecordOperation(ctx, "crypto", "encrypt", "success")
		bm.RecordOperation(ctx, "crypto", "encrypt", "error")
	})

	t.Run("all domains", func(t *testing.T) {
		bm.RecordOperation(ctx, "crypto", "rotate_keys", "success")
		bm.RecordOperation(ctx, "mfa", "verify_code", "error")
		bm.RecordOperation(ctx, "recovery", "generate", "success")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	_, bm := newTestBusinessMetrics(t, "securekit")
	ctx := context.Background()

	bm.RecordDuration(ctx, "crypto", "encrypt", 3*time.Millisecond, "success")
	bm.RecordDuration(ctx, "mfa", "send_code", 120*time.Millisecond, "success")
	bm.RecordDuration(ctx, "recovery", "verify", 40*time.Millisecond, "error")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	require.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	noOpMetrics.RecordOperation(context.Background(), "mfa", "enable", "success")
	noOpMetrics.RecordDuration(context.Background(), "mfa", "enable", 10*time.Millisecond, "success")
}

func TestBusinessMetrics_Scrape(t *testing.T) {
	provider, bm := newTestBusinessMetrics(t, "securekit")
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	ctx := context.Background()

	bm.RecordOperation(ctx, "mfa", "verify_code", "success")
	bm.RecordOperation(ctx, "mfa", "verify_code", "success")
	bm.RecordOperation(ctx, "mfa", "verify_code", "error")
	bm.RecordOperation(ctx, "crypto", "encrypt", "success")
	bm.RecordOperation(ctx, "recovery", "verify", "success")

	bm.RecordDuration(ctx, "mfa", "verify_code", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "mfa", "verify_code", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "crypto", "encrypt", 5*time.Millisecond, "success")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertMetricLine(
		t,
		output,
		`securekit_operations_total`,
		`domain="mfa".*operation="verify_code".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`securekit_operations_total`,
		`domain="mfa".*operation="verify_code".*status="error"`,
		`1`,
	)
	assertMetricLine(
		t,
		output,
		`securekit_operations_total`,
		`domain="recovery".*operation="verify".*status="success"`,
		`1`,
	)
	assertMetricLine(
		t,
		output,
		`securekit_operation_duration_seconds_count`,
		`domain="mfa".*operation="verify_code".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`securekit_operation_duration_seconds_sum`,
		`domain="crypto".*operation="encrypt".*status="success"`,
		``,
	)
}
